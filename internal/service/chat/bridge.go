package chat

import (
	"context"
	"encoding/json"
	"sync"

	"parkhya_chat_server/internal/dto/respond"
	"parkhya_chat_server/internal/infrastructure/metrics"
	"parkhya_chat_server/internal/infrastructure/mq"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bridge 扇出桥
// 直发同步进行；队列转发交给固定数量的后台协程，队列满时丢弃转发副本
type Bridge struct {
	emitter   Emitter
	publisher mq.Publisher

	mu     sync.RWMutex
	closed bool
	tasks  chan mq.Record
	wg     sync.WaitGroup
}

// NewBridge publisher 为 nil 表示未开启队列转发
func NewBridge(emitter Emitter, publisher mq.Publisher, workers, buffer int) *Bridge {
	b := &Bridge{emitter: emitter, publisher: publisher}
	if publisher == nil {
		return b
	}
	if workers <= 0 {
		workers = 1
	}
	b.tasks = make(chan mq.Record, buffer)
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go b.relayWorker()
	}
	return b
}

func (b *Bridge) Emit(_ context.Context, event string, data any) {
	b.direct(uuid.NewString(), event, data)
}

func (b *Bridge) EmitMessage(_ context.Context, event string, msg *respond.MessageRespond) {
	eventID := uuid.NewString()
	b.direct(eventID, event, msg)

	if b.publisher == nil {
		return
	}
	value, err := json.Marshal(msg)
	if err != nil {
		zap.L().Error("marshal relay record", zap.String("message_id", msg.ID), zap.Error(err))
		return
	}
	rec := mq.Record{Key: []byte(msg.ID), Value: value, EventID: eventID, Event: event}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	select {
	case b.tasks <- rec:
	default:
		metrics.RelayDropped.Inc()
		zap.L().Warn("relay queue full, relay copy dropped",
			zap.String("event", event),
			zap.String("message_id", msg.ID))
	}
}

func (b *Bridge) direct(eventID, event string, data any) {
	if err := b.emitter.Emit(eventID, event, data); err != nil {
		zap.L().Error("broadcast failed", zap.String("event", event), zap.Error(err))
		return
	}
	metrics.FanoutEvents.WithLabelValues(event, pathDirect).Inc()
}

func (b *Bridge) relayWorker() {
	defer b.wg.Done()
	for rec := range b.tasks {
		if err := b.publisher.Publish(context.Background(), rec); err != nil {
			metrics.RelayFailures.Inc()
			zap.L().Warn("relay publish failed",
				zap.String("event", rec.Event),
				zap.String("event_id", rec.EventID),
				zap.Error(err))
		}
	}
}

// Close 停止接收新的转发任务，等待队列中剩余任务发完
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed || b.tasks == nil {
		b.closed = true
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.tasks)
	b.mu.Unlock()
	b.wg.Wait()
}

var _ Broadcaster = (*Bridge)(nil)
