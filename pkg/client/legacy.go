package client

import (
	"context"
	"fmt"

	"khietan/pkg/model"
)

type LegacyCreateResult struct {
	Status string `json:"status"`
	ID     int    `json:"id"`
}

type LegacyStatusResult struct {
	Status string `json:"status"`
}

// LegacyClient talks to the relational surface, which answers with bare JSON rather than the envelope.
type LegacyClient struct {
	http *HttpClient
}

func NewLegacyClient(baseURL string) *LegacyClient {
	return &LegacyClient{http: NewHttpClient(baseURL)}
}

func (c *LegacyClient) HTTP() *HttpClient {
	return c.http
}

func (c *LegacyClient) ListRooms(ctx context.Context) ([]model.LegacyRoom, error) {
	resp, err := c.http.GET(ctx, "/rooms")
	if err != nil {
		return nil, err
	}
	rooms := []model.LegacyRoom{}
	if err := decodeBare(resp, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *LegacyClient) GetRoom(ctx context.Context, id int) (*model.LegacyRoom, error) {
	resp, err := c.http.GET(ctx, fmt.Sprintf("/rooms/%d", id))
	if err != nil {
		return nil, err
	}
	var room model.LegacyRoom
	if err := decodeBare(resp, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *LegacyClient) CreateRoom(ctx context.Context, in model.RoomInput) (*LegacyCreateResult, error) {
	resp, err := c.http.POST(ctx, "/rooms", in)
	if err != nil {
		return nil, err
	}
	var result LegacyCreateResult
	if err := decodeBare(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *LegacyClient) UpdateRoom(ctx context.Context, id int, in model.RoomInput) (*LegacyStatusResult, error) {
	resp, err := c.http.PUT(ctx, fmt.Sprintf("/rooms/%d", id), in)
	if err != nil {
		return nil, err
	}
	var result LegacyStatusResult
	if err := decodeBare(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *LegacyClient) DeleteRoom(ctx context.Context, id int) (*LegacyStatusResult, error) {
	resp, err := c.http.DELETE(ctx, fmt.Sprintf("/rooms/%d", id))
	if err != nil {
		return nil, err
	}
	var result LegacyStatusResult
	if err := decodeBare(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *LegacyClient) SyncRooms(ctx context.Context, rooms []model.RoomInput) (*SyncResult, error) {
	resp, err := c.http.POST(ctx, "/rooms/sync", rooms)
	if err != nil {
		return nil, err
	}
	var result SyncResult
	if err := decodeBare(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func decodeBare(resp *Response, target any) error {
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := resp.DecodeJSON(target); err != nil {
		return fmt.Errorf("could not decode response:\n%s\n%w", resp.ToString(), err)
	}
	return nil
}
