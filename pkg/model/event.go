package model

import "time"

type NotificationKind string

const (
	BookingConfirmed NotificationKind = "booking-confirmed"
	PaymentConfirmed NotificationKind = "payment-confirmed"
)

type ReservationEvent struct {
	Kind        NotificationKind `json:"kind"`
	Reservation Reservation      `json:"reservation"`
	OccurredAt  time.Time        `json:"occurred_at"`
}
