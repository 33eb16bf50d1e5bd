package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvStorageDriver     = "STORAGE_DRIVER"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvJWTSecret = "JWT_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvStripeSecretKey = "STRIPE_SECRET_KEY"
	EnvPaymentCurrency = "PAYMENT_CURRENCY"

	EnvNotifyTopic          = "NOTIFY_TOPIC"
	EnvNotifyDLQTopic       = "NOTIFY_DLQ_TOPIC"
	EnvNotifyQueueSize      = "NOTIFY_QUEUE_SIZE"
	EnvNotifyWorkers        = "NOTIFY_WORKERS"
	EnvNotifyPublishTimeout = "NOTIFY_PUBLISH_TIMEOUT"

	EnvSMTPHost = "SMTP_HOST"
	EnvSMTPPort = "SMTP_PORT"
	EnvSMTPFrom = "SMTP_FROM"

	EnvOtelEnabled     = "OTEL_ENABLED"
	EnvOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOtelSampleRatio = "OTEL_SAMPLING_RATIO"
)
