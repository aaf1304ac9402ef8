package health

import (
	"context"
	"net/http"
	"time"

	httputil "khietan/pkg/http"
	"khietan/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const readyTimeout = 2 * time.Second

type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Checker is one dependency probed by /ready.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

func (c CheckFunc) Name() string                    { return c.CheckName }
func (c CheckFunc) Check(ctx context.Context) error { return c.Fn(ctx) }

func MongoChecker(client *mongo.Client) Checker {
	return CheckFunc{CheckName: "mongo", Fn: func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}}
}

func RedisChecker(client *redis.Client) Checker {
	return CheckFunc{CheckName: "redis", Fn: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

type Handler struct {
	checkers []Checker
	log      *logger.Logger
}

func NewHandler(log *logger.Logger, checkers ...Checker) *Handler {
	return &Handler{
		checkers: checkers,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, Response{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status, resp := h.Probe(r.Context())
	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

// Probe runs every checker and reports 503 if any of them fails.
func (h *Handler) Probe(ctx context.Context) (int, Response) {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	resp := Response{Status: "ready", Checks: make(map[string]string, len(h.checkers))}
	status := http.StatusOK

	for _, c := range h.checkers {
		if err := c.Check(ctx); err != nil {
			h.log.Error("Dependency health check failed", "dependency", c.Name(), "error", err)
			resp.Checks[c.Name()] = "error"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.Name()] = "ok"
	}

	return status, resp
}
