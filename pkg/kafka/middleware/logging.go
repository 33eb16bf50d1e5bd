package kafka_middleware

import (
	"context"
	"time"

	"clinicslots/pkg/kafka"
	"clinicslots/pkg/logger"
)

func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)

		attrs := []any{
			"key", msg.Key,
			"event_id", msg.EventID(),
			"event_type", msg.EventType(),
			"duration", time.Since(start),
		}
		if err != nil {
			log.Error("Failed to publish kafka message", append(attrs, "error", err)...)
			return err
		}
		log.Debug("Published kafka message", attrs...)
		return nil
	}
}

func LoggingConsumerMiddleware(log *logger.Logger) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"event_id", msg.EventID(),
			"event_type", msg.EventType(),
			"retry_count", msg.RetryCount(),
			"duration", time.Since(start),
		}
		if err != nil {
			log.Warn("Failed to handle kafka message", append(attrs, "error", err)...)
			return err
		}
		log.Info("Handled kafka message", attrs...)
		return nil
	}
}
