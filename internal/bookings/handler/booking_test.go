package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "khietan/pkg/errors"
	"khietan/pkg/logger"
	"khietan/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	listFunc   func(ctx context.Context, roomID int) ([]model.Booking, error)
	addFunc    func(ctx context.Context, roomID int, in *model.BookingInput) (*model.Booking, error)
	updateFunc func(ctx context.Context, roomID int, bookingID string, in *model.BookingInput) (*model.MutationResult, error)
	deleteFunc func(ctx context.Context, roomID int, bookingID string) (*model.MutationResult, error)
}

func (m *mockBookingService) List(ctx context.Context, roomID int) ([]model.Booking, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, roomID)
	}
	return []model.Booking{}, nil
}

func (m *mockBookingService) Add(ctx context.Context, roomID int, in *model.BookingInput) (*model.Booking, error) {
	if m.addFunc != nil {
		return m.addFunc(ctx, roomID, in)
	}
	return &model.Booking{BookingID: "generated"}, nil
}

func (m *mockBookingService) Update(ctx context.Context, roomID int, bookingID string, in *model.BookingInput) (*model.MutationResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, roomID, bookingID, in)
	}
	return &model.MutationResult{Matched: 1, Modified: 1}, nil
}

func (m *mockBookingService) Delete(ctx context.Context, roomID int, bookingID string) (*model.MutationResult, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, roomID, bookingID)
	}
	return &model.MutationResult{Matched: 1, Modified: 1}, nil
}

func do(t *testing.T, svc *mockBookingService, method, path, body string) (int, map[string]any) {
	t.Helper()
	router := httprouter.New()
	NewBookingHandler(svc, logger.Discard()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestAdd_Created(t *testing.T) {
	var gotRoom int
	svc := &mockBookingService{
		addFunc: func(ctx context.Context, roomID int, in *model.BookingInput) (*model.Booking, error) {
			gotRoom = roomID
			return &model.Booking{BookingID: "KA-1"}, nil
		},
	}

	code, env := do(t, svc, http.MethodPost, "/admin/rooms/3/bookings",
		`{"guest_name":"Lan","check_in":"2024-06-01","check_out":"2024-06-03"}`)

	if code != http.StatusCreated {
		t.Fatalf("status = %d", code)
	}
	data := env["data"].(map[string]any)
	if data["status"] != StatusSuccess || data["booking_id"] != "KA-1" {
		t.Errorf("data = %v", data)
	}
	if gotRoom != 3 {
		t.Errorf("roomID = %d", gotRoom)
	}
}

func TestAdd_MissingFields(t *testing.T) {
	svc := &mockBookingService{
		addFunc: func(ctx context.Context, roomID int, in *model.BookingInput) (*model.Booking, error) {
			return nil, apperrors.Validation("Missing required fields: guest_name, check_in, check_out", nil)
		},
	}

	code, env := do(t, svc, http.MethodPost, "/admin/rooms/3/bookings", `{"guest_name":"Lan"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
	if env["success"] != false || env["error"] != "Missing required fields: guest_name, check_in, check_out" {
		t.Errorf("env = %v", env)
	}
}

func TestUpdate_EchoesCounts(t *testing.T) {
	svc := &mockBookingService{
		updateFunc: func(ctx context.Context, roomID int, bookingID string, in *model.BookingInput) (*model.MutationResult, error) {
			if bookingID != "KA-1" {
				t.Errorf("bookingID = %q", bookingID)
			}
			return &model.MutationResult{Matched: 1, Modified: 0}, nil
		},
	}

	code, env := do(t, svc, http.MethodPut, "/admin/rooms/3/bookings/KA-1", `{"status":"confirmed"}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	data := env["data"].(map[string]any)
	if data["matched"] != float64(1) || data["modified"] != float64(0) {
		t.Errorf("data = %v", data)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := &mockBookingService{
		deleteFunc: func(ctx context.Context, roomID int, bookingID string) (*model.MutationResult, error) {
			return nil, apperrors.NotFound("Room or booking")
		},
	}

	code, env := do(t, svc, http.MethodDelete, "/admin/rooms/3/bookings/ghost", "")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d", code)
	}
	if env["error"] != "Room or booking not found" {
		t.Errorf("error = %v", env["error"])
	}
}

func TestDelete_Success(t *testing.T) {
	code, env := do(t, &mockBookingService{}, http.MethodDelete, "/admin/rooms/3/bookings/KA-1", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	data := env["data"].(map[string]any)
	if data["deleted"] != true || data["matched"] != float64(1) {
		t.Errorf("data = %v", data)
	}
}

func TestList_InvalidRoomID(t *testing.T) {
	code, _ := do(t, &mockBookingService{}, http.MethodGet, "/admin/rooms/x/bookings", "")
	if code != http.StatusBadRequest {
		t.Errorf("status = %d", code)
	}
}
