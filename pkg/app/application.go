package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"khietan/internal/health"
	"khietan/pkg/config"
	"khietan/pkg/contracts"
	apperrors "khietan/pkg/errors"
	"khietan/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Options selects the per-surface parts of the middleware stack.
type Options struct {
	Service  string
	Handlers []contracts.Handler
	Checkers []health.Checker
	CORS     middleware.CORSConfig

	// ReadOnly rejects every non-GET request before routing.
	ReadOnly bool
	// Idempotency replays mutating requests carrying an Idempotency-Key.
	Idempotency bool
	// ResponseCache serves repeated GETs from memory for cfg.ResponseCacheTTL.
	ResponseCache bool
}

type Application struct {
	cfg              *config.Config
	server           *http.Server
	registry         *prometheus.Registry
	idempotencyStore middleware.IdempotencyStore
	rateLimiter      *middleware.IPRateLimiter
	healthHandler    http.Handler
	appHTTPHandler   http.Handler
	onShutdown       []func()
}

func NewApplication() *Application {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Application{registry: registry}
}

func (a *Application) SetApp(cfg *config.Config, opts Options) {
	a.cfg = cfg
	a.setHealthHandler(opts)
	a.setAppHandler(opts)
	a.setAppServer()
}

// Registry is the Prometheus registry served on /metrics. It exists from NewApplication on,
// so components built before SetApp can register on it.
func (a *Application) Registry() *prometheus.Registry {
	return a.registry
}

// Handler returns the fully wired root handler.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

// OnShutdown registers fn to run after the HTTP server has stopped.
func (a *Application) OnShutdown(fn func()) {
	a.onShutdown = append(a.onShutdown, fn)
}

func (a *Application) setHealthHandler(opts Options) {
	healthRouter := httprouter.New()
	health.NewHandler(a.cfg.Log, opts.Checkers...).RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(opts Options) {
	appRouter := httprouter.New()
	appRouter.NotFound = http.HandlerFunc(a.routeNotFound)
	appRouter.MethodNotAllowed = http.HandlerFunc(a.methodNotAllowed)
	for _, h := range opts.Handlers {
		h.RegisterRoutes(appRouter)
	}

	a.rateLimiter = middleware.NewIPRateLimiter(a.cfg.RateLimitRPS, a.cfg.RateLimitBurst, a.cfg.Log)
	metrics := middleware.NewHTTPMetrics(a.registry, opts.Service)

	// Recovery → Logging → Metrics → MaxSize → CORS → ReadOnly → ContentType → RateLimit → Timeout → Idempotency → Cache → Router
	var appHTTPHandler http.Handler = appRouter
	if opts.ResponseCache && a.cfg.ResponseCacheTTL > 0 {
		store := cache.New(a.cfg.ResponseCacheTTL, 2*a.cfg.ResponseCacheTTL)
		appHTTPHandler = middleware.ResponseCache(store, a.cfg.ResponseCacheTTL)(appHTTPHandler)
		a.cfg.Log.Info("Response cache enabled", "ttl", a.cfg.ResponseCacheTTL)
	}
	if opts.Idempotency {
		a.idempotencyStore = middleware.NewCacheIdempotencyStore(a.cfg.IdempotencyTTL)
		appHTTPHandler = middleware.Idempotency(a.idempotencyStore, middleware.DefaultIdempotencyHeader)(appHTTPHandler)
	}
	appHTTPHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHTTPHandler)
	appHTTPHandler = middleware.RateLimit(a.rateLimiter)(appHTTPHandler)
	appHTTPHandler = middleware.ContentTypeValidation(a.cfg.Log)(appHTTPHandler)
	if opts.ReadOnly {
		appHTTPHandler = middleware.ReadOnly(a.cfg.Log)(appHTTPHandler)
	}
	appHTTPHandler = middleware.CORS(opts.CORS)(appHTTPHandler)
	appHTTPHandler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(appHTTPHandler)
	appHTTPHandler = metrics.Middleware(appHTTPHandler)
	appHTTPHandler = middleware.RequestLogging(a.cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.Recovery(a.cfg.Log)(appHTTPHandler)
	a.appHTTPHandler = appHTTPHandler
	a.cfg.Log.Info("Application endpoints configured", "service", opts.Service, "read_only", opts.ReadOnly)
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/metrics", middleware.MetricsHandler(a.registry))
	mux.Handle("/", a.appHTTPHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) routeNotFound(w http.ResponseWriter, r *http.Request) {
	if err := apperrors.WriteError(w, apperrors.RouteNotFound(r.Method, r.URL.Path)); err != nil {
		a.cfg.Log.Error("failed to write error response", "handler", "NotFound", "operation", "WriteError", "error", err)
	}
}

func (a *Application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if err := apperrors.WriteError(w, apperrors.MethodNotAllowed("Method not allowed")); err != nil {
		a.cfg.Log.Error("failed to write error response", "handler", "MethodNotAllowed", "operation", "WriteError", "error", err)
	}
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	if a.idempotencyStore != nil {
		a.idempotencyStore.Stop()
	}
	a.rateLimiter.Stop()
	for i := len(a.onShutdown) - 1; i >= 0; i-- {
		a.onShutdown[i]()
	}
	a.cfg.Log.Info("Background workers stopped")

	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Server stopped gracefully")
}
