package model

import "time"

type Payment struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	ReservationID string    `json:"reservation_id" bson:"reservation_id"`
	TransactionID string    `json:"transaction_id" bson:"transaction_id"`
	Amount        int64     `json:"amount,omitempty" bson:"amount,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

type PaymentConfirmation struct {
	TransactionID string `json:"transaction_id" validate:"required,min=3,max=255"`
	Amount        int64  `json:"amount,omitempty" validate:"omitempty,gt=0"`
}

type ChargeIntentRequest struct {
	ReservationID string `json:"reservation_id" validate:"required"`
}

type ChargeIntent struct {
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}
