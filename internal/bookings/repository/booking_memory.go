package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	bookingserrors "clinicslots/internal/bookings/errors"
	mongotx "clinicslots/pkg/db/mongo"
	"clinicslots/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryBookingRepository mirrors the Mongo unique indexes with a mutex
// around check-and-insert and check-and-update.
type memoryBookingRepository struct {
	mu           sync.RWMutex
	reservations map[string]model.Reservation
	bySlot       map[string]string // treatment|date|slot -> id
	byPatientDay map[string]string // treatment|date|patient -> id
}

func NewMemoryBookingRepository() BookingRepository {
	return &memoryBookingRepository{
		reservations: make(map[string]model.Reservation),
		bySlot:       make(map[string]string),
		byPatientDay: make(map[string]string),
	}
}

func slotKey(treatment, date, slot string) string {
	return treatment + "|" + date + "|" + slot
}

func (r *memoryBookingRepository) Insert(ctx context.Context, reservation *model.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sk := slotKey(reservation.Treatment, reservation.Date, reservation.Slot)
	pk := slotKey(reservation.Treatment, reservation.Date, reservation.PatientID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySlot[sk]; taken {
		return fmt.Errorf("%w: %s", bookingserrors.ErrSlotTaken, IndexTreatmentDateSlot)
	}
	if _, taken := r.byPatientDay[pk]; taken {
		return fmt.Errorf("%w: %s", bookingserrors.ErrPatientAlreadyBooked, IndexTreatmentDatePatient)
	}

	reservation.ID = primitive.NewObjectID().Hex()
	reservation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	r.reservations[reservation.ID] = *reservation
	r.bySlot[sk] = reservation.ID
	r.byPatientDay[pk] = reservation.ID
	return nil
}

func (r *memoryBookingRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !primitive.IsValidObjectID(id) {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(id)
}

func (r *memoryBookingRepository) get(id string) (*model.Reservation, error) {
	reservation, ok := r.reservations[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return &reservation, nil
}

func (r *memoryBookingRepository) FindBySlot(ctx context.Context, treatment, date, slot string) (*model.Reservation, error) {
	return r.findByIndex(ctx, r.bySlot, slotKey(treatment, date, slot))
}

func (r *memoryBookingRepository) FindByPatientDay(ctx context.Context, treatment, date, patientID string) (*model.Reservation, error) {
	return r.findByIndex(ctx, r.byPatientDay, slotKey(treatment, date, patientID))
}

func (r *memoryBookingRepository) findByIndex(ctx context.Context, index map[string]string, key string) (*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return r.get(id)
}

func (r *memoryBookingRepository) FindByDate(ctx context.Context, date string) ([]*model.Reservation, error) {
	out, err := r.filter(ctx, func(res model.Reservation) bool { return res.Date == date })
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Treatment != out[j].Treatment {
			return out[i].Treatment < out[j].Treatment
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

func (r *memoryBookingRepository) FindByPatient(ctx context.Context, patientID string) ([]*model.Reservation, error) {
	out, err := r.filter(ctx, func(res model.Reservation) bool { return res.PatientID == patientID })
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

func (r *memoryBookingRepository) filter(ctx context.Context, keep func(model.Reservation) bool) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Reservation{}
	for _, res := range r.reservations {
		res := res
		if keep(res) {
			out = append(out, &res)
		}
	}
	return out, nil
}

func (r *memoryBookingRepository) MarkPaid(ctx context.Context, id, transactionID string, paidAt time.Time) (*model.Reservation, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if !primitive.IsValidObjectID(id) {
		return nil, false, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reservation, ok := r.reservations[id]
	if !ok {
		return nil, false, bookingserrors.ErrNotFound
	}
	if reservation.Paid {
		return &reservation, false, nil
	}

	if undo, ok := ctx.Value(memoryTxKey{}).(*memoryUndoLog); ok {
		undo.record(reservation)
	}

	at := paidAt.UTC().Truncate(time.Millisecond)
	reservation.Paid = true
	reservation.TransactionID = transactionID
	reservation.PaidAt = &at
	r.reservations[id] = reservation

	return &reservation, true, nil
}

type memoryTxKey struct{}

// memoryUndoLog holds the pre-transaction state of every reservation that
// MarkPaid flipped inside ExecuteTransaction.
type memoryUndoLog struct {
	mu     sync.Mutex
	before []model.Reservation
}

func (u *memoryUndoLog) record(reservation model.Reservation) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.before = append(u.before, reservation)
}

// ExecuteTransaction runs fn and, when it fails, restores the paid state
// MarkPaid changed during fn. Writes to other repositories are not undone.
func (r *memoryBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	undo := &memoryUndoLog{}
	err := mongotx.NoopTransactionManager{}.ExecuteTransaction(context.WithValue(ctx, memoryTxKey{}, undo), fn)
	if err == nil {
		return nil
	}

	undo.mu.Lock()
	before := undo.before
	undo.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(before) - 1; i >= 0; i-- {
		r.reservations[before[i].ID] = before[i]
	}
	return err
}
