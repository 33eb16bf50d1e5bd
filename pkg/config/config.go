package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clinicslots/pkg/client"
	"clinicslots/pkg/logger"

	"github.com/spf13/viper"
)

var (
	mongoURIRegex      = regexp.MustCompile(`^mongodb(\+srv)?://`)
	mongoCredentials   = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	currencyCodeRegex  = regexp.MustCompile(`^[a-z]{3}$`)
	minJWTSecretLength = 16
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	StorageDriver     string

	Port      string
	LogLevel  string
	JWTSecret string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StripeSecretKey string
	PaymentCurrency string

	NotifyTopic          string
	NotifyDLQTopic       string
	NotifyQueueSize      int
	NotifyWorkers        int
	NotifyPublishTimeout time.Duration

	SMTPHost string
	SMTPPort string
	SMTPFrom string

	OtelEnabled     bool
	OtelEndpoint    string
	OtelSampleRatio float64

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the configuration from the environment and exits the process
// when it is invalid.
func Load(serviceName string) *Config {
	cfg, err := FromViper(serviceName, NewViper())
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// NewViper returns a viper instance bound to the environment with every
// default registered.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(EnvMongoURI, DefaultMongoURI)
	v.SetDefault(EnvMongoDatabaseName, DefaultMongoDatabaseName)
	v.SetDefault(EnvMongoConnTimeout, DefaultMongoConnTimeout)
	v.SetDefault(EnvStorageDriver, DefaultStorageDriver)

	v.SetDefault(EnvPort, DefaultPort)
	v.SetDefault(EnvLogLevel, DefaultLogLevel)

	v.SetDefault(EnvRateLimitRequests, DefaultRateLimitRequests)
	v.SetDefault(EnvRateLimitWindow, DefaultRateLimitWindow)

	v.SetDefault(EnvRequestTimeout, DefaultRequestTimeout)
	v.SetDefault(EnvIdempotencyTTL, DefaultIdempotencyTTL)
	v.SetDefault(EnvMaxRequestSize, DefaultMaxRequestSize)

	v.SetDefault(EnvReadTimeout, DefaultReadTimeout)
	v.SetDefault(EnvWriteTimeout, DefaultWriteTimeout)
	v.SetDefault(EnvIdleTimeout, DefaultIdleTimeout)
	v.SetDefault(EnvShutdownTimeout, DefaultShutdownTimeout)

	v.SetDefault(EnvRedisAddr, "")
	v.SetDefault(EnvRedisPassword, "")
	v.SetDefault(EnvRedisDB, DefaultRedisDB)

	v.SetDefault(EnvStripeSecretKey, "")
	v.SetDefault(EnvPaymentCurrency, DefaultPaymentCurrency)

	v.SetDefault(EnvNotifyTopic, DefaultNotifyTopic)
	v.SetDefault(EnvNotifyDLQTopic, DefaultNotifyDLQTopic)
	v.SetDefault(EnvNotifyQueueSize, DefaultNotifyQueueSize)
	v.SetDefault(EnvNotifyWorkers, DefaultNotifyWorkers)
	v.SetDefault(EnvNotifyPublishTimeout, DefaultNotifyPublishTimeout)

	v.SetDefault(EnvSMTPHost, DefaultSMTPHost)
	v.SetDefault(EnvSMTPPort, DefaultSMTPPort)
	v.SetDefault(EnvSMTPFrom, DefaultSMTPFrom)

	v.SetDefault(EnvOtelEnabled, DefaultOtelEnabled)
	v.SetDefault(EnvOtelEndpoint, DefaultOtelEndpoint)
	v.SetDefault(EnvOtelSampleRatio, DefaultOtelSampleRatio)

	return v
}

// FromViper builds and validates a Config. The returned Config always has a
// usable logger, even when validation fails.
func FromViper(serviceName string, v *viper.Viper) (*Config, error) {
	cfg := &Config{
		MongoURI:          v.GetString(EnvMongoURI),
		MongoDatabaseName: v.GetString(EnvMongoDatabaseName),
		MongoConnTimeout:  v.GetDuration(EnvMongoConnTimeout),
		StorageDriver:     strings.ToLower(v.GetString(EnvStorageDriver)),

		Port:      v.GetString(EnvPort),
		LogLevel:  v.GetString(EnvLogLevel),
		JWTSecret: v.GetString(EnvJWTSecret),

		RateLimitRequests: v.GetInt(EnvRateLimitRequests),
		RateLimitWindow:   v.GetDuration(EnvRateLimitWindow),

		RequestTimeout: v.GetDuration(EnvRequestTimeout),
		IdempotencyTTL: v.GetDuration(EnvIdempotencyTTL),
		MaxRequestSize: v.GetInt(EnvMaxRequestSize),

		ReadTimeout:     v.GetDuration(EnvReadTimeout),
		WriteTimeout:    v.GetDuration(EnvWriteTimeout),
		IdleTimeout:     v.GetDuration(EnvIdleTimeout),
		ShutdownTimeout: v.GetDuration(EnvShutdownTimeout),

		RedisAddr:     v.GetString(EnvRedisAddr),
		RedisPassword: v.GetString(EnvRedisPassword),
		RedisDB:       v.GetInt(EnvRedisDB),

		StripeSecretKey: v.GetString(EnvStripeSecretKey),
		PaymentCurrency: strings.ToLower(v.GetString(EnvPaymentCurrency)),

		NotifyTopic:          v.GetString(EnvNotifyTopic),
		NotifyDLQTopic:       v.GetString(EnvNotifyDLQTopic),
		NotifyQueueSize:      v.GetInt(EnvNotifyQueueSize),
		NotifyWorkers:        v.GetInt(EnvNotifyWorkers),
		NotifyPublishTimeout: v.GetDuration(EnvNotifyPublishTimeout),

		SMTPHost: v.GetString(EnvSMTPHost),
		SMTPPort: v.GetString(EnvSMTPPort),
		SMTPFrom: v.GetString(EnvSMTPFrom),

		OtelEnabled:     v.GetBool(EnvOtelEnabled),
		OtelEndpoint:    v.GetString(EnvOtelEndpoint),
		OtelSampleRatio: v.GetFloat64(EnvOtelSampleRatio),

		Client: client.NewClient(),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})

	if cfg.JWTSecret == "" && cfg.UsesMemoryStorage() {
		cfg.JWTSecret = DefaultJWTSecret
	}

	return cfg, cfg.Validate()
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects the optional Redis client. It is a no-op when no address
// is configured.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

func (cfg *Config) UsesMemoryStorage() bool {
	return cfg.StorageDriver == StorageMemory
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StorageDriver {
	case StorageMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if !mongoURIRegex.MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case StorageMemory:
	default:
		errors = append(errors, fmt.Sprintf("StorageDriver must be one of [mongo, memory], got: %s", cfg.StorageDriver))
	}

	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < minJWTSecretLength {
		errors = append(errors, fmt.Sprintf("JWTSecret must be at least %d characters", minJWTSecretLength))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"NotifyPublishTimeout", cfg.NotifyPublishTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	if !currencyCodeRegex.MatchString(cfg.PaymentCurrency) {
		errors = append(errors, fmt.Sprintf("PaymentCurrency must be a 3-letter ISO code, got: %s", cfg.PaymentCurrency))
	}

	if cfg.NotifyTopic == "" {
		errors = append(errors, "NotifyTopic cannot be empty")
	}
	if cfg.NotifyQueueSize <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyQueueSize must be positive, got: %d", cfg.NotifyQueueSize))
	}
	if cfg.NotifyWorkers <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyWorkers must be positive, got: %d", cfg.NotifyWorkers))
	}

	if cfg.OtelSampleRatio < 0 || cfg.OtelSampleRatio > 1 {
		errors = append(errors, fmt.Sprintf("OtelSampleRatio must be between 0 and 1, got: %v", cfg.OtelSampleRatio))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// ValidateJWTSecret reports whether the configured secret may sign tokens.
// Services that authenticate requests call it after Load. The development
// secret is only accepted with memory storage.
func (cfg *Config) ValidateJWTSecret() error {
	switch {
	case cfg.JWTSecret == "":
		return fmt.Errorf("%s is required", EnvJWTSecret)
	case cfg.JWTSecret == DefaultJWTSecret && !cfg.UsesMemoryStorage():
		return fmt.Errorf("%s must be set explicitly when StorageDriver is %s", EnvJWTSecret, cfg.StorageDriver)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"storage_driver", cfg.StorageDriver,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"jwt_secret_is_default", cfg.JWTSecret == DefaultJWTSecret,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"redis_enabled", cfg.RedisAddr != "",
		"stripe_key_set", cfg.StripeSecretKey != "",
		"payment_currency", cfg.PaymentCurrency,
		"notify_topic", cfg.NotifyTopic,
		"notify_queue_size", cfg.NotifyQueueSize,
		"notify_workers", cfg.NotifyWorkers,
		"otel_enabled", cfg.OtelEnabled,
	)
}

func redactMongoURI(uri string) string {
	return mongoCredentials.ReplaceAllString(uri, "${1}***:***@")
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
