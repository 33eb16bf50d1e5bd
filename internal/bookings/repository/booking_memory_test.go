package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingserrors "clinicslots/internal/bookings/errors"
	"clinicslots/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReservation(patient, slot string) *model.Reservation {
	return &model.Reservation{Treatment: "Massage", Date: "2024-05-01", Slot: slot, PatientID: patient, PatientName: patient}
}

func TestMemoryInsert_EnforcesUniqueness(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	first := newReservation("p1", "10:00")
	require.NoError(t, repo.Insert(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	err := repo.Insert(ctx, newReservation("p2", "10:00"))
	assert.ErrorIs(t, err, bookingserrors.ErrSlotTaken)

	err = repo.Insert(ctx, newReservation("p1", "11:00"))
	assert.ErrorIs(t, err, bookingserrors.ErrPatientAlreadyBooked)

	other := newReservation("p1", "10:00")
	other.Date = "2024-05-02"
	assert.NoError(t, repo.Insert(ctx, other))
}

func TestMemoryFinders(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	r := newReservation("p1", "10:00")
	require.NoError(t, repo.Insert(ctx, r))

	got, err := repo.FindBySlot(ctx, "Massage", "2024-05-01", "10:00")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	got, err = repo.FindByPatientDay(ctx, "Massage", "2024-05-01", "p1")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	_, err = repo.FindBySlot(ctx, "Massage", "2024-05-01", "11:00")
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)

	_, err = repo.FindByID(ctx, "zzz")
	assert.ErrorIs(t, err, bookingserrors.ErrInvalidID)

	byDate, err := repo.FindByDate(ctx, "2024-05-01")
	require.NoError(t, err)
	assert.Len(t, byDate, 1)

	byDate, err = repo.FindByDate(ctx, "2024-06-01")
	require.NoError(t, err)
	assert.Empty(t, byDate)
}

func TestMemoryMarkPaid_TransitionsOnce(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	r := newReservation("p1", "10:00")
	require.NoError(t, repo.Insert(ctx, r))

	paid, transitioned, err := repo.MarkPaid(ctx, r.ID, "tx-1", time.Now())
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.True(t, paid.Paid)
	assert.Equal(t, "tx-1", paid.TransactionID)
	require.NotNil(t, paid.PaidAt)

	again, transitioned, err := repo.MarkPaid(ctx, r.ID, "tx-2", time.Now())
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, "tx-1", again.TransactionID)

	_, _, err = repo.MarkPaid(ctx, "65f1c0ffee0000000000beef", "tx-3", time.Now())
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	r := newReservation("p1", "10:00")
	require.NoError(t, repo.Insert(ctx, r))

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	got.Paid = true

	again, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, again.Paid)
}

func TestDuplicateKeyCause_Basic(t *testing.T) {
	slotErr := duplicateKeyCause(errorString("E11000 duplicate key error collection: clinicslots.Bookings index: uniq_treatment_date_slot dup key"))
	assert.ErrorIs(t, slotErr, bookingserrors.ErrSlotTaken)

	patientErr := duplicateKeyCause(errorString("E11000 duplicate key error index: uniq_treatment_date_patient"))
	assert.ErrorIs(t, patientErr, bookingserrors.ErrPatientAlreadyBooked)

	other := duplicateKeyCause(errorString("E11000 duplicate key error index: _id_"))
	assert.NotErrorIs(t, other, bookingserrors.ErrSlotTaken)
	assert.NotErrorIs(t, other, bookingserrors.ErrPatientAlreadyBooked)
}

type errorString string

func (e errorString) Error() string { return string(e) }

func TestMemoryExecuteTransaction_RollsBackPaidOnFailure(t *testing.T) {
	repo := NewMemoryBookingRepository()
	r := newReservation("p1", "10:00")
	require.NoError(t, repo.Insert(context.Background(), r))

	failed := errors.New("ledger write failed")
	err := repo.ExecuteTransaction(context.Background(), func(ctx context.Context) error {
		_, transitioned, err := repo.MarkPaid(ctx, r.ID, "tx-1", time.Now())
		require.NoError(t, err)
		require.True(t, transitioned)
		return failed
	})
	require.ErrorIs(t, err, failed)

	stored, err := repo.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.False(t, stored.Paid)
	assert.Empty(t, stored.TransactionID)
	assert.Nil(t, stored.PaidAt)

	_, transitioned, err := repo.MarkPaid(context.Background(), r.ID, "tx-2", time.Now())
	require.NoError(t, err)
	assert.True(t, transitioned)
}
