//go:build integration

package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingserrors "clinicslots/internal/bookings/errors"
	"clinicslots/internal/bookings/repository"
	"clinicslots/internal/testutil"
	"clinicslots/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reservation(patient, slot string) *model.Reservation {
	return &model.Reservation{
		Treatment:   "Massage",
		Date:        "2024-05-01",
		Slot:        slot,
		PatientID:   patient,
		PatientName: "Patient " + patient,
	}
}

func TestMongoBookingRepository_UniqueIndexes(t *testing.T) {
	repo := repository.NewMongoBookingRepository(testutil.MongoConfig(t))
	ctx := context.Background()

	first := reservation("p1", "10:00")
	require.NoError(t, repo.Insert(ctx, first))
	require.NotEmpty(t, first.ID)

	assert.ErrorIs(t, repo.Insert(ctx, reservation("p2", "10:00")), bookingserrors.ErrSlotTaken)
	assert.ErrorIs(t, repo.Insert(ctx, reservation("p1", "11:00")), bookingserrors.ErrPatientAlreadyBooked)

	holder, err := repo.FindBySlot(ctx, "Massage", "2024-05-01", "10:00")
	require.NoError(t, err)
	assert.Equal(t, first.ID, holder.ID)

	byDate, err := repo.FindByDate(ctx, "2024-05-01")
	require.NoError(t, err)
	assert.Len(t, byDate, 1)
}

func TestMongoBookingRepository_ConcurrentInsertsOneWinner(t *testing.T) {
	repo := repository.NewMongoBookingRepository(testutil.MongoConfig(t))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for _, patient := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		patient := patient
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Insert(context.Background(), reservation(patient, "10:00")); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
}

func TestMongoBookingRepository_MarkPaidOnce(t *testing.T) {
	repo := repository.NewMongoBookingRepository(testutil.MongoConfig(t))
	ctx := context.Background()

	r := reservation("p1", "10:00")
	require.NoError(t, repo.Insert(ctx, r))

	paid, transitioned, err := repo.MarkPaid(ctx, r.ID, "tx-1", time.Now())
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.True(t, paid.Paid)

	again, transitioned, err := repo.MarkPaid(ctx, r.ID, "tx-2", time.Now())
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, "tx-1", again.TransactionID)

	_, _, err = repo.MarkPaid(ctx, "65f1a2b3c4d5e6f7a8b9c0d1", "tx-3", time.Now())
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)

	_, err = repo.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, bookingserrors.ErrInvalidID)
}
