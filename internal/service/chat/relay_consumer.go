package chat

import (
	"context"
	"encoding/json"

	"parkhya_chat_server/internal/infrastructure/metrics"
	"parkhya_chat_server/internal/infrastructure/mq"
	"parkhya_chat_server/pkg/constants"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RelayConsumer 消费队列中的消息记录，以 receiveMessage 重新推送给本机连接
// 沿用发布时的 eventId，客户端可以据此与直发副本去重
type RelayConsumer struct {
	emitter    Emitter
	subscriber mq.Subscriber
}

func NewRelayConsumer(emitter Emitter, subscriber mq.Subscriber) *RelayConsumer {
	return &RelayConsumer{emitter: emitter, subscriber: subscriber}
}

// Run 阻塞直到 ctx 取消
func (r *RelayConsumer) Run(ctx context.Context) error {
	zap.L().Info("relay consumer started")
	defer zap.L().Info("relay consumer stopped")
	return r.subscriber.Consume(ctx, r.handle)
}

func (r *RelayConsumer) handle(_ context.Context, rec mq.Record) error {
	if !json.Valid(rec.Value) {
		// 无法解析的记录直接跳过并提交，避免反复投递
		zap.L().Error("relay record is not valid json", zap.ByteString("key", rec.Key))
		return nil
	}
	eventID := rec.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	if err := r.emitter.Emit(eventID, constants.EventReceiveMessage, json.RawMessage(rec.Value)); err != nil {
		return err
	}
	metrics.FanoutEvents.WithLabelValues(constants.EventReceiveMessage, pathRelay).Inc()
	return nil
}
