package mq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"parkhya_chat_server/internal/config"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu    sync.Mutex
	msgs  []kafka.Message
	err   error
	calls int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func testKafkaConfig() config.KafkaConfig {
	return config.KafkaConfig{WriteTimeout: 1, BreakerMaxFailures: 2, BreakerTimeout: 60}
}

func TestPublishSetsHeaders(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, testKafkaConfig())

	err := p.Publish(context.Background(), Record{Key: []byte("42"), Value: []byte(`{"id":"42"}`), EventID: "ev-1", Event: "newMessage"})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, []byte("42"), msg.Key)
	assert.Equal(t, []kafka.Header{
		{Key: HeaderEventID, Value: []byte("ev-1")},
		{Key: HeaderEvent, Value: []byte("newMessage")},
	}, msg.Headers)
}

func TestPublishBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w, testKafkaConfig())
	ctx := context.Background()

	assert.Error(t, p.Publish(ctx, Record{}))
	assert.Error(t, p.Publish(ctx, Record{}))

	err := p.Publish(ctx, Record{})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, w.calls)
}

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsumeRetriesFailedRecordBeforeMovingOn(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{
		{Offset: 1, Key: []byte("a"), Value: []byte("ok"), Headers: []kafka.Header{{Key: HeaderEventID, Value: []byte("ev-a")}}},
		{Offset: 2, Key: []byte("b"), Value: []byte("flaky")},
		{Offset: 3, Key: []byte("c"), Value: []byte("ok"), Headers: []kafka.Header{{Key: HeaderEvent, Value: []byte("newMessage")}}},
	}}
	s := &KafkaSubscriber{reader: r, backoff: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var (
		mu       sync.Mutex
		seen     []Record
		failures int
	)
	done := make(chan error, 1)
	go func() {
		done <- s.Consume(ctx, func(_ context.Context, rec Record) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, rec)
			if string(rec.Value) == "flaky" && failures < 2 {
				failures++
				return errors.New("emit")
			}
			return nil
		})
	}()

	assert.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.committed) == 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	values := make([]string, 0, len(seen))
	for _, rec := range seen {
		values = append(values, string(rec.Key))
	}
	// 第二条失败两次后重试成功，第三条一定在它之后处理
	assert.Equal(t, []string{"a", "b", "b", "b", "c"}, values)
	assert.Equal(t, "ev-a", seen[0].EventID)
	assert.Equal(t, "newMessage", seen[4].Event)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, []int64{1, 2, 3}, r.committed)
}

func TestConsumeStopsRetryingWhenCancelled(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{{Offset: 7, Value: []byte("stuck")}}}
	s := &KafkaSubscriber{reader: r, backoff: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 100)
	done := make(chan error, 1)
	go func() {
		done <- s.Consume(ctx, func(context.Context, Record) error {
			select {
			case calls <- struct{}{}:
			default:
			}
			return errors.New("down")
		})
	}()

	<-calls
	<-calls
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Empty(t, r.committed)
}

func TestInitDisabled(t *testing.T) {
	pub, sub := Init(config.KafkaConfig{Enabled: false})
	assert.Nil(t, pub)
	assert.Nil(t, sub)
}
