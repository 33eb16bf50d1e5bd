package main

import (
	"context"

	availabilityhandler "clinicslots/internal/availability/handler"
	availabilityservice "clinicslots/internal/availability/service"
	bookingshandler "clinicslots/internal/bookings/handler"
	bookingsrepo "clinicslots/internal/bookings/repository"
	bookingsservice "clinicslots/internal/bookings/service"
	bookingsvalidator "clinicslots/internal/bookings/validator"
	doctorshandler "clinicslots/internal/doctors/handler"
	doctorsrepo "clinicslots/internal/doctors/repository"
	doctorsservice "clinicslots/internal/doctors/service"
	doctorsvalidator "clinicslots/internal/doctors/validator"
	"clinicslots/internal/health"
	"clinicslots/internal/notifications"
	paymentshandler "clinicslots/internal/payments/handler"
	paymentsrepo "clinicslots/internal/payments/repository"
	paymentsservice "clinicslots/internal/payments/service"
	paymentsvalidator "clinicslots/internal/payments/validator"
	treatmentshandler "clinicslots/internal/treatments/handler"
	treatmentsrepo "clinicslots/internal/treatments/repository"
	treatmentsservice "clinicslots/internal/treatments/service"
	treatmentsvalidator "clinicslots/internal/treatments/validator"
	"clinicslots/pkg/app"
	"clinicslots/pkg/auth"
	"clinicslots/pkg/config"
	"clinicslots/pkg/contracts"
	"clinicslots/pkg/kafka"
	kafka_config "clinicslots/pkg/kafka/config"
	kafkamiddleware "clinicslots/pkg/kafka/middleware"
	"clinicslots/pkg/payment"
	"clinicslots/pkg/tracing"
)

const ServiceName = "reservations"

type repositories struct {
	treatments treatmentsrepo.TreatmentRepository
	bookings   bookingsrepo.BookingRepository
	payments   paymentsrepo.PaymentRepository
	doctors    doctorsrepo.DoctorRepository
}

func main() {
	cfg := config.Load(ServiceName)
	if err := cfg.ValidateJWTSecret(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.Log.Info("Starting Reservations service")

	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.OtelEnabled,
		ServiceName:  ServiceName,
		OTLPEndpoint: cfg.OtelEndpoint,
		SampleRatio:  cfg.OtelSampleRatio,
	})
	if err != nil {
		cfg.Log.Error("Tracing setup failed, continuing without export", "error", err)
	}

	repos := initRepositories(cfg)
	healthHandler := initHealth(cfg)

	publisher, closePublisher := initPublisher(cfg)
	dispatcher := notifications.NewDispatcher(publisher, notifications.DispatcherConfig{
		QueueSize:      cfg.NotifyQueueSize,
		Workers:        cfg.NotifyWorkers,
		PublishTimeout: cfg.NotifyPublishTimeout,
	}, cfg.Log)

	serverApp := app.NewApplication(cfg, auth.NewJWTAuthorizer(cfg.JWTSecret))
	serverApp.SetApp(healthHandler, initHandlers(cfg, repos, dispatcher)...)

	if shutdownTracing != nil {
		serverApp.OnShutdown("tracing", shutdownTracing)
	}
	serverApp.OnShutdown("kafka-producer", closePublisher)
	serverApp.OnShutdown("notification-dispatcher", dispatcher.Close)

	serverApp.Run()
}

func initRepositories(cfg *config.Config) repositories {
	if cfg.UsesMemoryStorage() {
		cfg.Log.Warn("Using in-memory storage, data is lost on restart")
		return repositories{
			treatments: treatmentsrepo.NewMemoryTreatmentRepository(),
			bookings:   bookingsrepo.NewMemoryBookingRepository(),
			payments:   paymentsrepo.NewMemoryPaymentRepository(),
			doctors:    doctorsrepo.NewMemoryDoctorRepository(),
		}
	}

	cfg.SetMongo()
	cfg.Log.Info("Repositories initialized", "database", cfg.MongoDatabaseName)
	return repositories{
		treatments: treatmentsrepo.NewMongoTreatmentRepository(cfg),
		bookings:   bookingsrepo.NewMongoBookingRepository(cfg),
		payments:   paymentsrepo.NewMongoPaymentRepository(cfg),
		doctors:    doctorsrepo.NewMongoDoctorRepository(cfg),
	}
}

func initHealth(cfg *config.Config) *health.Handler {
	cfg.SetRedis()

	h := health.NewHandler(cfg.Log)
	if cfg.Client.Mongo != nil {
		h.With("mongo", health.MongoCheck(cfg.Client.Mongo))
	}
	if cfg.Client.Redis != nil {
		h.With("redis", health.RedisCheck(cfg.Client.Redis))
	}
	return h
}

// initPublisher returns the Kafka-backed publisher, or a log-only one when
// the broker is disabled, together with its close func.
func initPublisher(cfg *config.Config) (notifications.Publisher, func(context.Context) error) {
	noop := func(context.Context) error { return nil }

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if kafkaCfg.Disabled {
		cfg.Log.Warn("Kafka disabled, notifications are only logged")
		return notifications.NewLogPublisher(cfg.Log), noop
	}
	cfg.Log.Info("Kafka configuration loaded", kafkaCfg.LogValues()...)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log, cfg.NotifyTopic, cfg.NotifyDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))

	return notifications.NewKafkaPublisher(producer), func(context.Context) error { return producer.Close() }
}

func initProcessor(cfg *config.Config) payment.Processor {
	if cfg.StripeSecretKey == "" {
		cfg.Log.Warn("No payment processor key configured, charge intents are unavailable")
		return payment.DisabledProcessor{}
	}
	return payment.NewStripeProcessor(cfg.StripeSecretKey, cfg.PaymentCurrency)
}

func initHandlers(cfg *config.Config, repos repositories, dispatcher *notifications.Dispatcher) []contracts.Handler {
	treatmentService := treatmentsservice.NewTreatmentService(
		repos.treatments,
		treatmentsvalidator.NewTreatmentValidator(cfg.Log),
		cfg,
	)
	availabilityService := availabilityservice.NewAvailabilityService(repos.treatments, repos.bookings, cfg)
	bookingService := bookingsservice.NewBookingService(
		repos.bookings,
		repos.treatments,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		dispatcher,
		cfg,
	)
	paymentService := paymentsservice.NewPaymentService(
		repos.bookings,
		repos.payments,
		repos.treatments,
		initProcessor(cfg),
		paymentsvalidator.NewPaymentValidator(cfg.Log),
		dispatcher,
		cfg,
	)

	doctorService := doctorsservice.NewDoctorService(
		repos.doctors,
		repos.treatments,
		doctorsvalidator.NewDoctorValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Services initialized")
	return []contracts.Handler{
		treatmentshandler.NewTreatmentHandler(treatmentService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		paymentshandler.NewPaymentHandler(paymentService, cfg.Log),
		doctorshandler.NewDoctorHandler(doctorService, cfg.Log),
	}
}
