package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mu        sync.Mutex
	events    []model.ReservationEvent
	publishFn func(ctx context.Context, event model.ReservationEvent) error
}

func (m *mockPublisher) Publish(ctx context.Context, event model.ReservationEvent) error {
	if m.publishFn != nil {
		if err := m.publishFn(ctx, event); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) published() []model.ReservationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ReservationEvent(nil), m.events...)
}

func reservation(id string) model.Reservation {
	return model.Reservation{ID: id, Treatment: "Massage", Date: "2024-05-01", Slot: "10:00", PatientID: "ann@example.com", PatientName: "Ann"}
}

func TestDispatcher_PublishesQueuedEvents(t *testing.T) {
	pub := &mockPublisher{}
	d := NewDispatcher(pub, DispatcherConfig{QueueSize: 8, Workers: 2}, logger.Discard())

	d.Notify(context.Background(), model.BookingConfirmed, reservation("r1"))
	d.Notify(context.Background(), model.PaymentConfirmed, reservation("r1"))

	require.NoError(t, d.Close(context.Background()))

	events := pub.published()
	require.Len(t, events, 2)
	kinds := []model.NotificationKind{events[0].Kind, events[1].Kind}
	assert.ElementsMatch(t, []model.NotificationKind{model.BookingConfirmed, model.PaymentConfirmed}, kinds)
	assert.False(t, events[0].OccurredAt.IsZero())
}

func TestDispatcher_NotifyDoesNotBlockWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	pub := &mockPublisher{publishFn: func(ctx context.Context, _ model.ReservationEvent) error {
		<-release
		return nil
	}}
	d := NewDispatcher(pub, DispatcherConfig{QueueSize: 1, Workers: 1, PublishTimeout: time.Second}, logger.Discard())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Notify(context.Background(), model.BookingConfirmed, reservation("r1"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(release)
	require.NoError(t, d.Close(context.Background()))
	assert.LessOrEqual(t, len(pub.published()), 2)
}

func TestDispatcher_PublishFailureIsSwallowed(t *testing.T) {
	pub := &mockPublisher{publishFn: func(context.Context, model.ReservationEvent) error {
		return errors.New("broker unavailable")
	}}
	d := NewDispatcher(pub, DispatcherConfig{}, logger.Discard())

	d.Notify(context.Background(), model.BookingConfirmed, reservation("r1"))
	require.NoError(t, d.Close(context.Background()))
	assert.Empty(t, pub.published())
}

func TestDispatcher_OutlivesRequestContext(t *testing.T) {
	var publishCtxErr error
	pub := &mockPublisher{publishFn: func(ctx context.Context, _ model.ReservationEvent) error {
		publishCtxErr = ctx.Err()
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	}}
	d := NewDispatcher(pub, DispatcherConfig{Workers: 1}, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, model.BookingConfirmed, reservation("r1"))
	cancel()

	require.NoError(t, d.Close(context.Background()))
	assert.NoError(t, publishCtxErr)
	assert.Len(t, pub.published(), 1)
}

func TestDispatcher_NotifyAfterClose(t *testing.T) {
	pub := &mockPublisher{}
	d := NewDispatcher(pub, DispatcherConfig{}, logger.Discard())
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() {
		d.Notify(context.Background(), model.BookingConfirmed, reservation("r1"))
	})
	assert.Empty(t, pub.published())
}

func TestDispatcher_CloseHonoursDeadline(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	pub := &mockPublisher{publishFn: func(context.Context, model.ReservationEvent) error {
		<-block
		return nil
	}}
	d := NewDispatcher(pub, DispatcherConfig{Workers: 1, PublishTimeout: time.Minute}, logger.Discard())
	d.Notify(context.Background(), model.BookingConfirmed, reservation("r1"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
}
