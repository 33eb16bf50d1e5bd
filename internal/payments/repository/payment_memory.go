package repository

import (
	"context"
	"sync"
	"time"

	paymentserrors "clinicslots/internal/payments/errors"
	"clinicslots/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryPaymentRepository struct {
	mu            sync.RWMutex
	byReservation map[string]model.Payment
}

func NewMemoryPaymentRepository() PaymentRepository {
	return &memoryPaymentRepository{byReservation: make(map[string]model.Payment)}
}

func (r *memoryPaymentRepository) Insert(ctx context.Context, payment *model.Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byReservation[payment.ReservationID]; exists {
		return paymentserrors.ErrDuplicate
	}

	payment.ID = primitive.NewObjectID().Hex()
	payment.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	r.byReservation[payment.ReservationID] = *payment
	return nil
}

func (r *memoryPaymentRepository) FindByReservation(ctx context.Context, reservationID string) (*model.Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.byReservation[reservationID]
	if !ok {
		return nil, paymentserrors.ErrNotFound
	}
	return &payment, nil
}
