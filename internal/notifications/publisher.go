package notifications

import (
	"context"
	"fmt"

	"clinicslots/pkg/kafka"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"
	"clinicslots/pkg/tracing"
)

const EventSource = "clinicslots-reservations"

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaPublisher writes events to the notification topic keyed by
// reservation id.
type KafkaPublisher struct {
	producer messagePublisher
}

func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event model.ReservationEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.Reservation.ID).
		WithValue(event).
		WithEventType(string(event.Kind)).
		WithSource(EventSource).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return fmt.Errorf("build %s message: %w", event.Kind, err)
	}
	tracing.Inject(ctx, msg.Headers)

	return p.producer.Publish(ctx, msg)
}

// LogPublisher is used when Kafka is disabled; events only reach the log.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event model.ReservationEvent) error {
	p.log.Info("Notification not delivered, broker disabled",
		"kind", event.Kind,
		"reservation_id", event.Reservation.ID,
		"treatment", event.Reservation.Treatment,
		"date", event.Reservation.Date,
		"slot", event.Reservation.Slot,
	)
	return nil
}
