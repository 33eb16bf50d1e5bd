package config

import "time"

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "clinicslots"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultStorageDriver     = StorageMongo

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	// DefaultJWTSecret is filled in for memory storage only.
	DefaultJWTSecret = "local-development-secret"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRedisDB = 0

	DefaultPaymentCurrency = "usd"

	DefaultNotifyTopic          = "reservations.notifications"
	DefaultNotifyDLQTopic       = "reservations.notifications.dlq"
	DefaultNotifyQueueSize      = 256
	DefaultNotifyWorkers        = 2
	DefaultNotifyPublishTimeout = 5 * time.Second

	DefaultSMTPHost = "localhost"
	DefaultSMTPPort = "1025"
	DefaultSMTPFrom = "no-reply@clinicslots.local"

	DefaultOtelEnabled     = false
	DefaultOtelEndpoint    = "localhost:4317"
	DefaultOtelSampleRatio = 1.0
)
