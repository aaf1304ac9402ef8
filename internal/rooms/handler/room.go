package handler

import (
	"net/http"

	"khietan/internal/rooms/service"
	apperrors "khietan/pkg/errors"
	httputil "khietan/pkg/http"
	"khietan/pkg/logger"
	"khietan/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	StatusSuccess = "success"

	// reserved words that share the :id position with room ids
	segmentStats = "stats"
	segmentSync  = "sync"
)

type CreateRoomResponse struct {
	Status     string `json:"status"`
	RoomID     int    `json:"room_id"`
	InsertedID string `json:"inserted_id"`
}

type UpdateRoomResponse struct {
	Status string      `json:"status"`
	Room   *model.Room `json:"room"`
}

type DeleteRoomResponse struct {
	Status  string `json:"status"`
	Deleted bool   `json:"deleted"`
}

type SyncRoomsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Synced  int    `json:"synced"`
	Total   int    `json:"total"`
}

type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log,
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/admin/rooms", h.List)
	router.GET("/admin/rooms/:id", h.Get)
	router.POST("/admin/rooms", h.Create)
	router.POST("/admin/rooms/:id", h.PostToRoom)
	router.PUT("/admin/rooms/:id", h.Update)
	router.DELETE("/admin/rooms/:id", h.Delete)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}
	h.writeSuccess(w, "List", rooms)
}

// Get serves GET /admin/rooms/:id and GET /admin/rooms/stats.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName(httputil.ParamRoomID) == segmentStats {
		h.Stats(w, r, ps)
		return
	}

	roomID, err := httputil.ParseRoomID(ps)
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	room, err := h.service.Get(r.Context(), roomID)
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}
	h.writeSuccess(w, "Get", room)
}

func (h *RoomHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeError(w, "Stats", err)
		return
	}
	h.writeSuccess(w, "Stats", stats)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.RoomInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	room, err := h.service.Create(r.Context(), &in)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, CreateRoomResponse{
		Status:     StatusSuccess,
		RoomID:     room.RoomID,
		InsertedID: room.ID,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

// PostToRoom serves POST /admin/rooms/sync; no other POST exists at that depth.
func (h *RoomHandler) PostToRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName(httputil.ParamRoomID) != segmentSync {
		h.writeError(w, "PostToRoom", apperrors.RouteNotFound(r.Method, r.URL.Path))
		return
	}
	h.Sync(w, r, ps)
}

func (h *RoomHandler) Sync(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var inputs []model.RoomInput
	if err := httputil.DecodeJSON(r, &inputs); err != nil {
		h.writeError(w, "Sync", err)
		return
	}

	result, err := h.service.Sync(r.Context(), inputs)
	if err != nil {
		h.writeError(w, "Sync", err)
		return
	}

	h.writeSuccess(w, "Sync", SyncRoomsResponse{
		Status:  StatusSuccess,
		Message: "Rooms synchronized",
		Synced:  result.Synced,
		Total:   result.Total,
	})
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID, err := httputil.ParseRoomID(ps)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var in model.RoomInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	room, err := h.service.Update(r.Context(), roomID, &in)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.writeSuccess(w, "Update", UpdateRoomResponse{Status: StatusSuccess, Room: room})
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID, err := httputil.ParseRoomID(ps)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := h.service.Delete(r.Context(), roomID); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	h.writeSuccess(w, "Delete", DeleteRoomResponse{Status: StatusSuccess, Deleted: true})
}

func (h *RoomHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
