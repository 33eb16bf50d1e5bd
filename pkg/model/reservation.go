package model

import "time"

type Reservation struct {
	ID            string     `json:"id,omitempty" bson:"_id,omitempty"`
	Treatment     string     `json:"treatment" bson:"treatment"`
	Date          string     `json:"date" bson:"date"`
	Slot          string     `json:"slot" bson:"slot"`
	PatientID     string     `json:"patient_id" bson:"patient_id"`
	PatientName   string     `json:"patient_name" bson:"patient_name"`
	Paid          bool       `json:"paid" bson:"paid"`
	TransactionID string     `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
}

type BookingRequest struct {
	Treatment   string `json:"treatment" validate:"required,min=2,max=100"`
	Date        string `json:"date" validate:"required,max=32"`
	Slot        string `json:"slot" validate:"required,max=50"`
	PatientID   string `json:"patient_id" validate:"required,max=254"`
	PatientName string `json:"patient_name" validate:"required,min=1,max=100"`
}

const (
	BookingReasonAlreadyBooked = "already_booked"
	BookingReasonSlotTaken     = "slot_taken"
)

// BookingResult is the outcome of a submission. When Accepted is false,
// Reservation holds the record that blocked admission and Reason says why.
type BookingResult struct {
	Accepted    bool         `json:"accepted"`
	Reason      string       `json:"reason,omitempty"`
	Reservation *Reservation `json:"reservation"`
}

func (r *BookingResult) SlotTaken() bool {
	return !r.Accepted && r.Reason == BookingReasonSlotTaken
}
