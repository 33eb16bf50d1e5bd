package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	// ErrSlotTaken means another reservation already holds the
	// treatment/date/slot triple.
	ErrSlotTaken = errors.New("slot already reserved")

	// ErrPatientAlreadyBooked means the patient already holds a reservation
	// for the same treatment and date.
	ErrPatientAlreadyBooked = errors.New("patient already booked for this treatment and date")
)
