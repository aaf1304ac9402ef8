package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"khietan/pkg/model"
)

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

// ──────────────────────────────────────────────────────────────────────────
// HomepageClient
// ──────────────────────────────────────────────────────────────────────────

func TestHomepageClient_ListRooms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/rooms" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, []model.PublicRoom{
			{RoomID: 1, Name: "Garden", Status: "available", Available: true, Amenities: []string{"wifi"}},
			{RoomID: 2, Name: "Loft", Status: "booked", Amenities: []string{}},
		})
	}))
	defer srv.Close()

	rooms, err := NewHomepageClient(srv.URL).ListRooms(context.Background())
	if err != nil {
		t.Fatalf("ListRooms() error = %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("len(rooms) = %d, want 2", len(rooms))
	}
	if !rooms[0].Available || rooms[1].Available {
		t.Errorf("availability not decoded: %+v", rooms)
	}
}

func TestHomepageClient_EmptyListIsNotNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []model.PublicRoom{})
	}))
	defer srv.Close()

	rooms, err := NewHomepageClient(srv.URL).ListRooms(context.Background())
	if err != nil {
		t.Fatalf("ListRooms() error = %v", err)
	}
	if rooms == nil {
		t.Error("rooms should be an empty slice, got nil")
	}
}

func TestHomepageClient_GetRoomNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "Room not found")
	}))
	defer srv.Close()

	_, err := NewHomepageClient(srv.URL).GetRoom(context.Background(), 42)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound || statusErr.Message != "Room not found" {
		t.Errorf("unexpected status error: %+v", statusErr)
	}
}

func TestHomepageClient_GetStatusAndAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rooms/3/status":
			writeEnvelope(w, http.StatusOK, model.RoomStatus{RoomID: 3, Name: "Loft", Status: "booked", BookedUntil: "2025-01-01"})
		case "/rooms/available":
			writeEnvelope(w, http.StatusOK, []model.AvailableRoom{{RoomID: 1, Name: "Garden"}})
		default:
			writeFailure(w, http.StatusNotFound, "Route not found")
		}
	}))
	defer srv.Close()

	c := NewHomepageClient(srv.URL + "/")

	status, err := c.GetStatus(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if status.Available || status.BookedUntil != "2025-01-01" {
		t.Errorf("unexpected status: %+v", status)
	}

	available, err := c.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("ListAvailable() error = %v", err)
	}
	if len(available) != 1 || available[0].RoomID != 1 {
		t.Errorf("unexpected available rooms: %+v", available)
	}
}

// ──────────────────────────────────────────────────────────────────────────
// AdminClient
// ──────────────────────────────────────────────────────────────────────────

func TestAdminClient_CreateRoomSendsIdempotencyKey(t *testing.T) {
	var gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		writeEnvelope(w, http.StatusCreated, CreateRoomResult{Status: "success", RoomID: 7, InsertedID: "abc"})
	}))
	defer srv.Close()

	c := NewAdminClient(srv.URL)
	c.IdempotencyKeys = func() string { return "key-1" }

	name := "Garden"
	result, err := c.CreateRoom(context.Background(), model.RoomInput{
		Name:     &name,
		Price:    model.NewNumber(500000),
		Capacity: model.NewNumber(2),
	})
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if result.RoomID != 7 || result.InsertedID != "abc" {
		t.Errorf("unexpected result: %+v", result)
	}
	if gotKey != "key-1" {
		t.Errorf("Idempotency-Key = %q, want key-1", gotKey)
	}
	if gotBody["name"] != "Garden" || gotBody["capacity"] != float64(2) {
		t.Errorf("unexpected request body: %v", gotBody)
	}
	if _, ok := gotBody["description"]; ok {
		t.Error("absent fields should be omitted from the request body")
	}
}

func TestAdminClient_BookingRoutes(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.EscapedPath())
		switch r.Method {
		case http.MethodPut:
			writeEnvelope(w, http.StatusOK, UpdateBookingResult{Status: "success", Matched: 1, Modified: 0})
		case http.MethodDelete:
			writeEnvelope(w, http.StatusOK, DeleteResult{Status: "success", Deleted: true, Matched: 1, Modified: 1})
		default:
			writeEnvelope(w, http.StatusOK, []model.Booking{})
		}
	}))
	defer srv.Close()

	c := NewAdminClient(srv.URL)
	ctx := context.Background()

	bookings, err := c.ListBookings(ctx, 2)
	if err != nil || bookings == nil {
		t.Fatalf("ListBookings() = %v, %v", bookings, err)
	}

	updated, err := c.UpdateBooking(ctx, 2, "b 1", model.BookingInput{})
	if err != nil {
		t.Fatalf("UpdateBooking() error = %v", err)
	}
	if updated.Matched != 1 || updated.Modified != 0 {
		t.Errorf("unexpected counts: %+v", updated)
	}

	deleted, err := c.DeleteBooking(ctx, 2, "b1")
	if err != nil {
		t.Fatalf("DeleteBooking() error = %v", err)
	}
	if !deleted.Deleted {
		t.Error("expected deleted = true")
	}

	want := []string{
		"GET /admin/rooms/2/bookings",
		"PUT /admin/rooms/2/bookings/b%201",
		"DELETE /admin/rooms/2/bookings/b1",
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestAdminClient_ValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusBadRequest, "Missing required fields: name, price, capacity")
	}))
	defer srv.Close()

	_, err := NewAdminClient(srv.URL).CreateRoom(context.Background(), model.RoomInput{})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 StatusError, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────
// LegacyClient
// ──────────────────────────────────────────────────────────────────────────

func TestLegacyClient_BareJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rooms":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Garden","price":350000,"capacity":2,"amenities":["wifi"],"status":"available"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/rooms/sync":
			_, _ = w.Write([]byte(`{"status":"success","message":"Rooms synchronized","synced":2,"total":2}`))
		case r.URL.Path == "/rooms/9":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Room not found"}`))
		}
	}))
	defer srv.Close()

	c := NewLegacyClient(srv.URL)
	ctx := context.Background()

	rooms, err := c.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms() error = %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != 1 || rooms[0].Amenities[0] != "wifi" {
		t.Errorf("unexpected rooms: %+v", rooms)
	}

	synced, err := c.SyncRooms(ctx, []model.RoomInput{{}, {}})
	if err != nil {
		t.Fatalf("SyncRooms() error = %v", err)
	}
	if synced.Synced != 2 || synced.Message != "Rooms synchronized" {
		t.Errorf("unexpected sync result: %+v", synced)
	}

	_, err = c.GetRoom(ctx, 9)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Message != "Room not found" {
		t.Fatalf("expected Room not found, got %v", err)
	}
}
