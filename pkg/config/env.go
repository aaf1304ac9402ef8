package config

const (
	EnvMongoURI            = "MONGO_URI"
	EnvMongoDatabaseName   = "MONGO_DATABASE_NAME"
	EnvMongoCollectionName = "MONGO_COLLECTION_NAME"
	EnvMongoConnTimeout    = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRPS   = "RATE_LIMIT_RPS"
	EnvRateLimitBurst = "RATE_LIMIT_BURST"

	EnvRequestTimeout   = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL   = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize   = "MAX_REQUEST_SIZE"
	EnvResponseCacheTTL = "RESPONSE_CACHE_TTL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvKafkaEnabled         = "KAFKA_ENABLED"
	EnvKafkaRoomEventsTopic = "KAFKA_ROOM_EVENTS_TOPIC"

	EnvLegacyDBDriver = "LEGACY_DB_DRIVER"
	EnvLegacyDBDSN    = "LEGACY_DB_DSN"
)
