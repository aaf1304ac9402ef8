package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"khietan/internal/health"
	"khietan/internal/legacy/handler"
	"khietan/internal/legacy/repository"
	"khietan/internal/legacy/service"
	"khietan/internal/rooms/validator"
	"khietan/pkg/config"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName = "legacy"
	DefaultPort = "8082"
)

func main() {
	cfg := config.Load(ServiceName, DefaultPort)

	db, err := repository.Open(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to open legacy database", "error", err, "driver", cfg.LegacyDBDriver)
	}

	repo := repository.NewGormRoomRepository(db)
	roomService := service.NewRoomService(repo, validator.NewRoomValidator(), cfg.Log)
	probes := health.NewHandler(cfg.Log, health.CheckFunc{CheckName: cfg.LegacyDBDriver, Fn: repo.Ping})

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.NewRoomHandler(roomService, cfg.Log), probes, cfg.Log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		cfg.Log.Info("Starting legacy HTTP server", "address", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			cfg.Log.Fatal("HTTP server failed", "error", err)
		}
	case sig := <-shutdown:
		cfg.Log.Info("Shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		cfg.Log.Error("Server shutdown failed", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			cfg.Log.Error("Failed to close legacy database", "error", err)
		}
	}
	cfg.Log.Info("Server stopped gracefully")
}
