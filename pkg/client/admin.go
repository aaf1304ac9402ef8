package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"khietan/pkg/model"
)

type CreateRoomResult struct {
	Status     string `json:"status"`
	RoomID     int    `json:"room_id"`
	InsertedID string `json:"inserted_id"`
}

type UpdateRoomResult struct {
	Status string      `json:"status"`
	Room   *model.Room `json:"room"`
}

type DeleteResult struct {
	Status   string `json:"status"`
	Deleted  bool   `json:"deleted"`
	Matched  int64  `json:"matched,omitempty"`
	Modified int64  `json:"modified,omitempty"`
}

type SyncResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Synced  int    `json:"synced"`
	Total   int    `json:"total"`
}

type AddBookingResult struct {
	Status    string `json:"status"`
	BookingID string `json:"booking_id"`
}

type UpdateBookingResult struct {
	Status   string `json:"status"`
	Matched  int64  `json:"matched"`
	Modified int64  `json:"modified"`
}

// AdminClient talks to the /admin surface. When IdempotencyKeys is set every
// mutating call carries a fresh Idempotency-Key produced by it.
type AdminClient struct {
	http            *HttpClient
	IdempotencyKeys func() string
}

func NewAdminClient(baseURL string) *AdminClient {
	return &AdminClient{http: NewHttpClient(baseURL)}
}

func (c *AdminClient) HTTP() *HttpClient {
	return c.http
}

func (c *AdminClient) ListRooms(ctx context.Context) ([]model.Room, error) {
	resp, err := c.http.GET(ctx, "/admin/rooms")
	if err != nil {
		return nil, err
	}
	rooms := []model.Room{}
	if err := decodeEnvelope(resp, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *AdminClient) GetRoom(ctx context.Context, roomID int) (*model.Room, error) {
	resp, err := c.http.GET(ctx, roomPath(roomID))
	if err != nil {
		return nil, err
	}
	var room model.Room
	if err := decodeEnvelope(resp, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *AdminClient) Stats(ctx context.Context) (*model.RoomStats, error) {
	resp, err := c.http.GET(ctx, "/admin/rooms/stats")
	if err != nil {
		return nil, err
	}
	var stats model.RoomStats
	if err := decodeEnvelope(resp, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *AdminClient) CreateRoom(ctx context.Context, in model.RoomInput) (*CreateRoomResult, error) {
	var result CreateRoomResult
	if err := c.mutate(ctx, http.MethodPost, "/admin/rooms", in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AdminClient) UpdateRoom(ctx context.Context, roomID int, in model.RoomInput) (*UpdateRoomResult, error) {
	var result UpdateRoomResult
	if err := c.mutate(ctx, http.MethodPut, roomPath(roomID), in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AdminClient) DeleteRoom(ctx context.Context, roomID int) (*DeleteResult, error) {
	var result DeleteResult
	if err := c.mutate(ctx, http.MethodDelete, roomPath(roomID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AdminClient) SyncRooms(ctx context.Context, rooms []model.RoomInput) (*SyncResult, error) {
	var result SyncResult
	if err := c.mutate(ctx, http.MethodPost, "/admin/rooms/sync", rooms, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AdminClient) ListBookings(ctx context.Context, roomID int) ([]model.Booking, error) {
	resp, err := c.http.GET(ctx, bookingsPath(roomID))
	if err != nil {
		return nil, err
	}
	bookings := []model.Booking{}
	if err := decodeEnvelope(resp, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *AdminClient) AddBooking(ctx context.Context, roomID int, in model.BookingInput) (*AddBookingResult, error) {
	var result AddBookingResult
	if err := c.mutate(ctx, http.MethodPost, bookingsPath(roomID), in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AdminClient) UpdateBooking(ctx context.Context, roomID int, bookingID string, in model.BookingInput) (*UpdateBookingResult, error) {
	var result UpdateBookingResult
	if err := c.mutate(ctx, http.MethodPut, bookingPath(roomID, bookingID), in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AdminClient) DeleteBooking(ctx context.Context, roomID int, bookingID string) (*DeleteResult, error) {
	var result DeleteResult
	if err := c.mutate(ctx, http.MethodDelete, bookingPath(roomID, bookingID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AdminClient) mutate(ctx context.Context, method, path string, body any, target any) error {
	var headers map[string]string
	if c.IdempotencyKeys != nil {
		headers = map[string]string{"Idempotency-Key": c.IdempotencyKeys()}
	}

	resp, err := c.http.request(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, target)
}

func roomPath(roomID int) string {
	return fmt.Sprintf("/admin/rooms/%d", roomID)
}

func bookingsPath(roomID int) string {
	return fmt.Sprintf("/admin/rooms/%d/bookings", roomID)
}

func bookingPath(roomID int, bookingID string) string {
	return fmt.Sprintf("/admin/rooms/%d/bookings/%s", roomID, url.PathEscape(bookingID))
}
