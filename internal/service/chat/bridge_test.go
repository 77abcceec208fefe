package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"parkhya_chat_server/internal/dto/respond"
	"parkhya_chat_server/internal/infrastructure/mq"
	"parkhya_chat_server/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	id    string
	event string
	data  any
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (e *fakeEmitter) Emit(id, event string, data any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emitted{id: id, event: event, data: data})
	return nil
}

func (e *fakeEmitter) all() []emitted {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]emitted(nil), e.events...)
}

type fakePublisher struct {
	mu      sync.Mutex
	records []mq.Record
	err     error
	block   chan struct{}
}

func (p *fakePublisher) Publish(_ context.Context, rec mq.Record) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, rec)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) all() []mq.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mq.Record(nil), p.records...)
}

func sampleMessage() *respond.MessageRespond {
	return &respond.MessageRespond{ID: "42", Content: "hi", Type: "public", SenderID: "u1"}
}

func TestEmitWithoutRelay(t *testing.T) {
	em := &fakeEmitter{}
	b := NewBridge(em, nil, 2, 10)
	defer b.Close()

	b.Emit(context.Background(), constants.EventUserStatusChange, respond.UserStatusEvent{UserID: "u1", IsOnline: true})
	b.EmitMessage(context.Background(), constants.EventNewMessage, sampleMessage())

	events := em.all()
	require.Len(t, events, 2)
	assert.NotEmpty(t, events[0].id)
	assert.Equal(t, constants.EventNewMessage, events[1].event)
}

func TestEmitMessageRelaysWithSameEventID(t *testing.T) {
	em := &fakeEmitter{}
	pub := &fakePublisher{}
	b := NewBridge(em, pub, 1, 10)

	b.EmitMessage(context.Background(), constants.EventNewMessage, sampleMessage())
	b.Emit(context.Background(), constants.EventMessageDeleted, respond.MessageDeletedEvent{MessageID: "42"})
	b.Close()

	records := pub.all()
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, []byte("42"), rec.Key)
	assert.Equal(t, constants.EventNewMessage, rec.Event)
	assert.Equal(t, em.all()[0].id, rec.EventID)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Value, &body))
	assert.Equal(t, "hi", body["content"])
}

func TestRelayFailureIsSwallowed(t *testing.T) {
	em := &fakeEmitter{}
	pub := &fakePublisher{err: errors.New("broker down")}
	b := NewBridge(em, pub, 1, 10)

	b.EmitMessage(context.Background(), constants.EventNewMessage, sampleMessage())
	b.Close()

	assert.Len(t, em.all(), 1)
	assert.Len(t, pub.all(), 1)
}

func TestRelayQueueFullDropsCopy(t *testing.T) {
	em := &fakeEmitter{}
	pub := &fakePublisher{block: make(chan struct{})}
	b := NewBridge(em, pub, 1, 1)

	// 第一条被 worker 取走并阻塞，第二条占满队列，第三条被丢弃
	b.EmitMessage(context.Background(), constants.EventNewMessage, sampleMessage())
	require.Eventually(t, func() bool { return len(b.tasks) == 0 }, time.Second, 5*time.Millisecond)
	b.EmitMessage(context.Background(), constants.EventNewMessage, sampleMessage())
	b.EmitMessage(context.Background(), constants.EventNewMessage, sampleMessage())

	close(pub.block)
	b.Close()

	assert.Len(t, em.all(), 3, "direct path never drops")
	assert.Len(t, pub.all(), 2)
}

func TestEmitMessageAfterCloseDoesNotPanic(t *testing.T) {
	b := NewBridge(&fakeEmitter{}, &fakePublisher{}, 1, 1)
	b.Close()
	b.Close()
	assert.NotPanics(t, func() {
		b.EmitMessage(context.Background(), constants.EventNewMessage, sampleMessage())
	})
}

type fakeSubscriber struct {
	records []mq.Record
	errs    []error
}

func (s *fakeSubscriber) Consume(ctx context.Context, fn mq.Handler) error {
	for _, rec := range s.records {
		s.errs = append(s.errs, fn(ctx, rec))
	}
	return nil
}

func (s *fakeSubscriber) Close() error { return nil }

func TestRelayConsumerReemitsWithOriginalEventID(t *testing.T) {
	em := &fakeEmitter{}
	sub := &fakeSubscriber{records: []mq.Record{
		{Key: []byte("42"), Value: []byte(`{"id":"42"}`), EventID: "ev-1", Event: constants.EventNewMessage},
		{Key: []byte("43"), Value: []byte(`not json`)},
		{Key: []byte("44"), Value: []byte(`{"id":"44"}`)},
	}}
	r := NewRelayConsumer(em, sub)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []error{nil, nil, nil}, sub.errs)
	events := em.all()
	require.Len(t, events, 2)
	assert.Equal(t, "ev-1", events[0].id)
	assert.Equal(t, constants.EventReceiveMessage, events[0].event)
	assert.Equal(t, json.RawMessage(`{"id":"42"}`), events[0].data)
	assert.NotEmpty(t, events[1].id)
}
