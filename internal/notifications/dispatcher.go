package notifications

import (
	"context"
	"sync"
	"time"

	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"
)

const (
	DefaultQueueSize      = 256
	DefaultWorkers        = 2
	DefaultPublishTimeout = 5 * time.Second
)

// Publisher hands a reservation event to the delivery channel.
type Publisher interface {
	Publish(ctx context.Context, event model.ReservationEvent) error
}

type DispatcherConfig struct {
	QueueSize      int
	Workers        int
	PublishTimeout time.Duration
}

type job struct {
	ctx   context.Context
	event model.ReservationEvent
}

// Dispatcher decouples request handling from event delivery. Notify never
// blocks: events are queued and published by a fixed set of workers, and
// anything that does not fit in the queue is dropped and logged.
type Dispatcher struct {
	publisher Publisher
	log       *logger.Logger
	timeout   time.Duration
	queue     chan job
	now       func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(publisher Publisher, cfg DispatcherConfig, log *logger.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultPublishTimeout
	}

	d := &Dispatcher{
		publisher: publisher,
		log:       log,
		timeout:   cfg.PublishTimeout,
		queue:     make(chan job, cfg.QueueSize),
		now:       time.Now,
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.run()
	}
	return d
}

// Notify queues an event for kind about reservation. The request context is
// kept for its values only so trace ids survive the response being written.
func (d *Dispatcher) Notify(ctx context.Context, kind model.NotificationKind, reservation model.Reservation) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("Notification dropped, dispatcher closed", "kind", kind, "reservation_id", reservation.ID)
		return
	}

	j := job{
		ctx: context.WithoutCancel(ctx),
		event: model.ReservationEvent{
			Kind:        kind,
			Reservation: reservation,
			OccurredAt:  d.now().UTC(),
		},
	}

	select {
	case d.queue <- j:
	default:
		d.log.Error("Notification queue full, event dropped",
			"kind", kind,
			"reservation_id", reservation.ID,
			"queue_size", cap(d.queue),
		)
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for j := range d.queue {
		d.publish(j)
	}
}

func (d *Dispatcher) publish(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.timeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, j.event); err != nil {
		d.log.Error("Failed to publish notification",
			"kind", j.event.Kind,
			"reservation_id", j.event.Reservation.ID,
			"error", err,
		)
		return
	}
	d.log.Debug("Notification published", "kind", j.event.Kind, "reservation_id", j.event.Reservation.ID)
}

// Close stops accepting events and waits until the queued ones are
// published or ctx expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.log.Warn("Notification queue not drained before shutdown", "pending", len(d.queue))
		return ctx.Err()
	}
}
