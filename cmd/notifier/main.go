package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicslots/internal/notifications"
	"clinicslots/pkg/config"
	"clinicslots/pkg/kafka"
	kafka_config "clinicslots/pkg/kafka/config"
	kafkamiddleware "clinicslots/pkg/kafka/middleware"
	"clinicslots/pkg/tracing"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Notifier service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.OtelEnabled,
		ServiceName:  ServiceName,
		OTLPEndpoint: cfg.OtelEndpoint,
		SampleRatio:  cfg.OtelSampleRatio,
	})
	if err != nil {
		cfg.Log.Error("Tracing setup failed, continuing without export", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(shutdownCtx); err != nil {
				cfg.Log.Error("Tracing shutdown failed", "error", err)
			}
		}()
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if kafkaCfg.Disabled {
		cfg.Log.Fatal("Notifier requires Kafka, unset KAFKA_DISABLED")
	}
	cfg.Log.Info("Kafka configuration loaded", kafkaCfg.LogValues()...)

	sender := notifications.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.Log, cfg.NotifyTopic, cfg.NotifyDLQTopic,
		notifications.DeliveryHandler(sender, cfg.Log))
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))

	cfg.Log.Info("Consuming notifications",
		"topic", cfg.NotifyTopic,
		"dlq_topic", cfg.NotifyDLQTopic,
		"smtp_host", cfg.SMTPHost,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
