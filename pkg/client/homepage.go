package client

import (
	"context"
	"fmt"

	"khietan/pkg/model"
)

// HomepageClient talks to the public read-only surface.
type HomepageClient struct {
	http *HttpClient
}

func NewHomepageClient(baseURL string) *HomepageClient {
	return &HomepageClient{http: NewHttpClient(baseURL)}
}

func (c *HomepageClient) HTTP() *HttpClient {
	return c.http
}

func (c *HomepageClient) ListRooms(ctx context.Context) ([]model.PublicRoom, error) {
	resp, err := c.http.GET(ctx, "/rooms")
	if err != nil {
		return nil, err
	}
	rooms := []model.PublicRoom{}
	if err := decodeEnvelope(resp, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *HomepageClient) ListAvailable(ctx context.Context) ([]model.AvailableRoom, error) {
	resp, err := c.http.GET(ctx, "/rooms/available")
	if err != nil {
		return nil, err
	}
	rooms := []model.AvailableRoom{}
	if err := decodeEnvelope(resp, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *HomepageClient) GetRoom(ctx context.Context, roomID int) (*model.PublicRoom, error) {
	resp, err := c.http.GET(ctx, fmt.Sprintf("/rooms/%d", roomID))
	if err != nil {
		return nil, err
	}
	var room model.PublicRoom
	if err := decodeEnvelope(resp, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *HomepageClient) GetStatus(ctx context.Context, roomID int) (*model.RoomStatus, error) {
	resp, err := c.http.GET(ctx, fmt.Sprintf("/rooms/%d/status", roomID))
	if err != nil {
		return nil, err
	}
	var status model.RoomStatus
	if err := decodeEnvelope(resp, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
