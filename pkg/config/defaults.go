package config

import "time"

const (
	DefaultMongoURI            = "mongodb://localhost:27017"
	DefaultMongoDatabaseName   = "khiet_an_homestay"
	DefaultMongoCollectionName = "rooms"
	DefaultMongoConnTimeout    = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRPS   = 20.0
	DefaultRateLimitBurst = 40

	DefaultRequestTimeout   = 30 * time.Second
	DefaultIdempotencyTTL   = 24 * time.Hour
	DefaultMaxRequestSize   = 1 * 1024 * 1024 // 1MB
	DefaultResponseCacheTTL = time.Duration(0) // off unless RESPONSE_CACHE_TTL is set

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRedisDB = 0

	DefaultKafkaRoomEventsTopic = "room-events"

	DefaultLegacyDBDriver = "sqlite"
	DefaultLegacyDBDSN    = "rooms.db"
)

const (
	LegacyDriverSQLite   = "sqlite"
	LegacyDriverPostgres = "postgres"
	LegacyDriverMySQL    = "mysql"
)
