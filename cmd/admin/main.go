package main

import (
	bookinghandler "khietan/internal/bookings/handler"
	bookingrepository "khietan/internal/bookings/repository"
	bookingservice "khietan/internal/bookings/service"
	bookingvalidator "khietan/internal/bookings/validator"
	"khietan/internal/health"
	homepagerepository "khietan/internal/homepage/repository"
	homepageservice "khietan/internal/homepage/service"
	"khietan/internal/roomevents"
	roomhandler "khietan/internal/rooms/handler"
	roomrepository "khietan/internal/rooms/repository"
	roomservice "khietan/internal/rooms/service"
	roomvalidator "khietan/internal/rooms/validator"
	"khietan/pkg/app"
	"khietan/pkg/config"
	"khietan/pkg/contracts"
	"khietan/pkg/kafka"
	kafka_config "khietan/pkg/kafka/config"
	kafkamiddleware "khietan/pkg/kafka/middleware"
	"khietan/pkg/middleware"
	"khietan/pkg/mirror"
)

const (
	ServiceName = "admin"
	DefaultPort = "8080"
)

func main() {
	cfg := config.Load(ServiceName, DefaultPort)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Admin service")
	serverApp := app.NewApplication()

	notifier, closeNotifier := initNotifier(cfg, serverApp)
	handlers := initHandlers(cfg, notifier)

	checkers := []health.Checker{health.MongoChecker(cfg.Client.Mongo)}
	if cfg.Client.Redis != nil {
		checkers = append(checkers, health.RedisChecker(cfg.Client.Redis))
	}

	serverApp.SetApp(cfg, app.Options{
		Service:     ServiceName,
		Handlers:    handlers,
		Checkers:    checkers,
		CORS:        middleware.AdminCORS(),
		Idempotency: true,
	})
	serverApp.OnShutdown(closeNotifier)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, notifier roomevents.Notifier) []contracts.Handler {
	roomService := roomservice.NewRoomService(
		roomrepository.NewMongoRoomRepository(cfg),
		roomvalidator.NewRoomValidator(),
		notifier,
		cfg,
	)
	bookingService := bookingservice.NewBookingService(
		bookingrepository.NewMongoBookingRepository(cfg),
		bookingvalidator.NewBookingValidator(cfg.Log),
		notifier,
		cfg,
	)

	cfg.Log.Info("Room and booking services initialized", "database", cfg.MongoDatabaseName, "collection", cfg.MongoCollectionName)
	return []contracts.Handler{
		roomhandler.NewRoomHandler(roomService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
	}
}

// initNotifier wires the change notifications: the Redis mirror when REDIS_ADDR is set
// and the Kafka room events topic when KAFKA_ENABLED is true.
func initNotifier(cfg *config.Config, serverApp *app.Application) (roomevents.Notifier, func()) {
	var notifiers []roomevents.Notifier
	closeFn := func() {}

	if cfg.Client.Redis != nil {
		publicRooms := homepageservice.NewPublicRoomService(homepagerepository.NewMongoPublicRoomRepository(cfg), cfg.Log)
		store := mirror.New(cfg.Client.Redis)
		notifiers = append(notifiers, roomevents.NewMirrorNotifier(publicRooms.ListPublic, store, cfg.Log))
		cfg.Log.Info("Room mirror enabled", "key", store.SnapshotKey(), "channel", store.Channel())
	}

	if cfg.KafkaEnabled {
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
		}
		kafkaCfg.LogConfiguration(cfg.Log)

		producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaRoomEventsTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafkamiddleware.NewMetrics(serverApp.Registry()).Producer())

		notifiers = append(notifiers, roomevents.NewKafkaNotifier(producer, ServiceName, cfg.Log))
		closeFn = func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}
		cfg.Log.Info("Room events enabled", "topic", producer.Topic())
	}

	return roomevents.Multi(notifiers...), closeFn
}
