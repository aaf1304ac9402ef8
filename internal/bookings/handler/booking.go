package handler

import (
	"net/http"

	"khietan/internal/bookings/service"
	httputil "khietan/pkg/http"
	"khietan/pkg/logger"
	"khietan/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	StatusSuccess = "success"

	ParamBookingID = "booking_id"
)

type AddBookingResponse struct {
	Status    string `json:"status"`
	BookingID string `json:"booking_id"`
}

type UpdateBookingResponse struct {
	Status   string `json:"status"`
	Matched  int64  `json:"matched"`
	Modified int64  `json:"modified"`
}

type DeleteBookingResponse struct {
	Status   string `json:"status"`
	Deleted  bool   `json:"deleted"`
	Matched  int64  `json:"matched"`
	Modified int64  `json:"modified"`
}

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/admin/rooms/:id/bookings", h.List)
	router.POST("/admin/rooms/:id/bookings", h.Add)
	router.PUT("/admin/rooms/:id/bookings/:booking_id", h.Update)
	router.DELETE("/admin/rooms/:id/bookings/:booking_id", h.Delete)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID, err := httputil.ParseRoomID(ps)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	bookings, err := h.service.List(r.Context(), roomID)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Add(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID, err := httputil.ParseRoomID(ps)
	if err != nil {
		h.writeError(w, "Add", err)
		return
	}

	var in model.BookingInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(w, "Add", err)
		return
	}

	booking, err := h.service.Add(r.Context(), roomID, &in)
	if err != nil {
		h.writeError(w, "Add", err)
		return
	}

	if err := httputil.WriteCreated(w, AddBookingResponse{
		Status:    StatusSuccess,
		BookingID: booking.BookingID,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Add", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID, err := httputil.ParseRoomID(ps)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var in model.BookingInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	result, err := h.service.Update(r.Context(), roomID, ps.ByName(ParamBookingID), &in)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, UpdateBookingResponse{
		Status:   StatusSuccess,
		Matched:  result.Matched,
		Modified: result.Modified,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID, err := httputil.ParseRoomID(ps)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	result, err := h.service.Delete(r.Context(), roomID, ps.ByName(ParamBookingID))
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteSuccess(w, DeleteBookingResponse{
		Status:   StatusSuccess,
		Deleted:  true,
		Matched:  result.Matched,
		Modified: result.Modified,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
