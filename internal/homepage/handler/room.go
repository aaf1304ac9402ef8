package handler

import (
	"net/http"

	"khietan/internal/homepage/service"
	httputil "khietan/pkg/http"
	"khietan/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// segmentAvailable shares the :id position with room ids.
const segmentAvailable = "available"

type PublicRoomHandler struct {
	service service.PublicRoomService
	log     *logger.Logger
}

func NewPublicRoomHandler(service service.PublicRoomService, log *logger.Logger) *PublicRoomHandler {
	return &PublicRoomHandler{
		service: service,
		log:     log,
	}
}

func (h *PublicRoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/rooms", h.List)
	router.GET("/rooms/:id", h.Get)
	router.GET("/rooms/:id/status", h.Status)
}

func (h *PublicRoomHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.ListPublic(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}
	h.writeSuccess(w, "List", rooms)
}

// Get serves GET /rooms/:id and GET /rooms/available.
func (h *PublicRoomHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName(httputil.ParamRoomID) == segmentAvailable {
		h.Available(w, r, ps)
		return
	}

	roomID, err := httputil.ParseRoomID(ps)
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	room, err := h.service.GetPublic(r.Context(), roomID)
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}
	h.writeSuccess(w, "Get", room)
}

func (h *PublicRoomHandler) Available(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.ListAvailable(r.Context())
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}
	h.writeSuccess(w, "Available", rooms)
}

func (h *PublicRoomHandler) Status(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID, err := httputil.ParseRoomID(ps)
	if err != nil {
		h.writeError(w, "Status", err)
		return
	}

	status, err := h.service.GetStatus(r.Context(), roomID)
	if err != nil {
		h.writeError(w, "Status", err)
		return
	}
	h.writeSuccess(w, "Status", status)
}

func (h *PublicRoomHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *PublicRoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
