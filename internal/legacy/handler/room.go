package handler

import (
	"errors"
	"net/http"
	"strconv"

	"khietan/internal/legacy/service"
	apperrors "khietan/pkg/errors"
	"khietan/pkg/logger"
	"khietan/pkg/model"

	"github.com/gin-gonic/gin"
)

// The legacy surface answers with bare JSON: the record itself on success and
// {"error": "..."} on failure.

type CreateRoomResponse struct {
	Status string `json:"status"`
	ID     int    `json:"id"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type SyncRoomsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Synced  int    `json:"synced"`
	Total   int    `json:"total"`
}

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

const statusSuccess = "success"

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

func (h *RoomHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/rooms", h.List)
	r.POST("/rooms", h.Create)
	r.POST("/rooms/sync", h.Sync)
	r.GET("/rooms/:id", h.Get)
	r.PUT("/rooms/:id", h.Update)
	r.DELETE("/rooms/:id", h.Delete)
}

func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.service.List(c.Request.Context())
	if err != nil {
		h.writeError(c, "List", err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := h.roomID(c, "Get")
	if !ok {
		return
	}

	room, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Get", err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) Create(c *gin.Context) {
	var in model.RoomInput
	if !h.bind(c, "Create", &in) {
		return
	}

	room, err := h.service.Create(c.Request.Context(), &in)
	if err != nil {
		h.writeError(c, "Create", err)
		return
	}
	c.JSON(http.StatusCreated, CreateRoomResponse{Status: statusSuccess, ID: room.ID})
}

func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := h.roomID(c, "Update")
	if !ok {
		return
	}

	var in model.RoomInput
	if !h.bind(c, "Update", &in) {
		return
	}

	if _, err := h.service.Replace(c.Request.Context(), id, &in); err != nil {
		h.writeError(c, "Update", err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: statusSuccess})
}

func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := h.roomID(c, "Delete")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, "Delete", err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: statusSuccess})
}

func (h *RoomHandler) Sync(c *gin.Context) {
	var inputs []model.RoomInput
	if !h.bind(c, "Sync", &inputs) {
		return
	}

	result, err := h.service.Sync(c.Request.Context(), inputs)
	if err != nil {
		h.writeError(c, "Sync", err)
		return
	}
	c.JSON(http.StatusOK, SyncRoomsResponse{
		Status:  statusSuccess,
		Message: "Rooms synchronized",
		Synced:  result.Synced,
		Total:   result.Total,
	})
}

func (h *RoomHandler) roomID(c *gin.Context, operation string) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		h.log.Warn("invalid legacy room id", "handler", "legacy", "operation", operation, "id", c.Param("id"))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid room id"})
		return 0, false
	}
	return id, true
}

func (h *RoomHandler) bind(c *gin.Context, operation string, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		h.log.Warn("invalid legacy request body", "handler", "legacy", "operation", operation, "error", err)

		var coercion *model.CoercionError
		if errors.As(err, &coercion) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: coercion.Error()})
			return false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return false
	}
	return true
}

func (h *RoomHandler) writeError(c *gin.Context, operation string, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error("legacy request failed", "handler", "legacy", "operation", operation, "error", err)
	}
	c.JSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message, Details: appErr.Details})
}
