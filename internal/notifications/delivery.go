package notifications

import (
	"context"
	"errors"
	"net/mail"
	"net/textproto"

	"clinicslots/pkg/kafka"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"
	"clinicslots/pkg/tracing"
)

// DeliveryHandler turns notification events into e-mails. Undecodable or
// unaddressable events are permanent failures and go straight to the DLQ,
// as are 5xx relay replies. Other send errors are retried by the consumer.
func DeliveryHandler(sender Sender, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) (err error) {
		ctx = tracing.Extract(ctx, msg.Headers)
		ctx, span := tracing.Start(ctx, "notifications.Deliver")
		defer func() { tracing.End(span, err) }()

		var event model.ReservationEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}

		addr, err := mail.ParseAddress(event.Reservation.PatientID)
		if err != nil {
			return kafka.NewPermanentError("patient has no deliverable address", err)
		}

		email, err := Render(event)
		if err != nil {
			return kafka.NewPermanentError("render notification", err)
		}
		email.To = addr.Address

		if err := sender.Send(ctx, email); err != nil {
			var reply *textproto.Error
			if errors.As(err, &reply) && reply.Code >= 500 {
				return kafka.NewPermanentError("relay rejected notification", err)
			}
			return kafka.NewTransientError("send notification", err)
		}

		log.Info("Notification delivered",
			"kind", event.Kind,
			"reservation_id", event.Reservation.ID,
			"event_id", msg.EventID(),
		)
		return nil
	}
}
