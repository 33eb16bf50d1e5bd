package errors

import "errors"

var (
	ErrNotFound = errors.New("payment not found")

	// ErrDuplicate means a payment is already recorded for the reservation.
	ErrDuplicate = errors.New("payment already recorded for reservation")
)
