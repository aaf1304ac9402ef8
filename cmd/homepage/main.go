package main

import (
	"khietan/internal/health"
	"khietan/internal/homepage/handler"
	"khietan/internal/homepage/repository"
	"khietan/internal/homepage/service"
	"khietan/pkg/app"
	"khietan/pkg/config"
	"khietan/pkg/contracts"
	"khietan/pkg/middleware"
)

const (
	ServiceName = "homepage"
	DefaultPort = "8081"
)

func main() {
	cfg := config.Load(ServiceName, DefaultPort)
	cfg.SetMongo()

	cfg.Log.Info("Starting Homepage service")
	roomService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, app.Options{
		Service:       ServiceName,
		Handlers:      []contracts.Handler{handler.NewPublicRoomHandler(roomService, cfg.Log)},
		Checkers:      []health.Checker{health.MongoChecker(cfg.Client.Mongo)},
		CORS:          middleware.PublicCORS(),
		ReadOnly:      true,
		ResponseCache: true,
	})
	serverApp.Run()
}

func initServices(cfg *config.Config) service.PublicRoomService {
	roomRepo := repository.NewMongoPublicRoomRepository(cfg)
	roomService := service.NewPublicRoomService(roomRepo, cfg.Log)

	cfg.Log.Info("Public room service initialized", "database", cfg.MongoDatabaseName, "collection", cfg.MongoCollectionName)
	return roomService
}
