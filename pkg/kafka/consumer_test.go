package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clinicslots/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if len(f.queue) > 0 {
		m := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error { return nil }

func (f *fakeReader) commits() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.committed...)
}

type fakeSink struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (f *fakeSink) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeSink) Close() error { return nil }

func newTestConsumer(reader fetcher, dlq dlqSink, handler MessageHandler) *Consumer {
	return &Consumer{
		reader:     reader,
		dlqWriter:  dlq,
		topic:      "reservations.notifications",
		groupID:    "test",
		maxRetries: 2,
		retryDelay: time.Millisecond,
		handler:    handler,
		log:        logger.Discard(),
	}
}

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	c := newTestConsumer(&fakeReader{}, nil, func(ctx context.Context, msg Message) error {
		calls++
		if calls < 2 {
			return NewTransientError("smtp", errors.New("timeout"))
		}
		return nil
	})

	err := c.process(context.Background(), Message{Headers: map[string]string{}})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestConsumer_PermanentErrorGoesToDLQ(t *testing.T) {
	calls := 0
	sink := &fakeSink{}
	c := newTestConsumer(&fakeReader{}, sink, func(ctx context.Context, msg Message) error {
		calls++
		return NewPermanentError("bad payload", nil)
	})

	err := c.process(context.Background(), Message{Key: "r-1", Headers: map[string]string{}})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, sink.messages, 1)

	parked := fromKafkaMessage(sink.messages[0])
	assert.Equal(t, "reservations.notifications", parked.Headers[HeaderOriginalTopic])
	assert.Equal(t, "bad payload", parked.Headers[HeaderDLQError])
}

func TestConsumer_StartCommitsEveryMessage(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Key: []byte("a"), Value: []byte("1"), Offset: 10},
		{Key: []byte("b"), Value: []byte("2"), Offset: 11},
	}}

	var mu sync.Mutex
	var seen []string
	c := newTestConsumer(reader, nil, func(ctx context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, msg.Key)
		if msg.Key == "b" {
			return NewPermanentError("unusable", nil)
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	require.Eventually(t, func() bool { return len(reader.commits()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, []int64{10, 11}, reader.commits())
	mu.Lock()
	assert.Equal(t, []string{"a", "b"}, seen)
	mu.Unlock()
	require.NoError(t, c.Close())
}

func TestConsumer_StartAfterClose(t *testing.T) {
	c := newTestConsumer(&fakeReader{}, nil, func(ctx context.Context, msg Message) error { return nil })
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.Start(context.Background()), ErrConsumerClosed)
}
