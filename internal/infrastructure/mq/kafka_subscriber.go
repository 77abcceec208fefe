package mq

import (
	"context"
	"errors"
	"time"

	"parkhya_chat_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// kafkaReader *kafka.Reader 中用到的部分
type kafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSubscriber 消费组订阅端
// 处理失败时按 backoff 重试同一条记录，成功后才提交位点，不会越过失败的记录（至少一次）
type KafkaSubscriber struct {
	reader  kafkaReader
	backoff time.Duration
}

// NewKafkaSubscriber 新消费组从最早位点开始
func NewKafkaSubscriber(cfg config.KafkaConfig) *KafkaSubscriber {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		StartOffset: kafka.FirstOffset,
		MaxWait:     time.Second,
	})
	return &KafkaSubscriber{reader: r, backoff: time.Second}
}

func (s *KafkaSubscriber) Consume(ctx context.Context, fn Handler) error {
	for {
		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			zap.L().Error("kafka fetch message", zap.Error(err))
			if !sleepCtx(ctx, s.backoff) {
				return nil
			}
			continue
		}

		rec := Record{Key: msg.Key, Value: msg.Value}
		for _, h := range msg.Headers {
			switch h.Key {
			case HeaderEventID:
				rec.EventID = string(h.Value)
			case HeaderEvent:
				rec.Event = string(h.Value)
			}
		}

		if !s.handle(ctx, fn, msg.Offset, rec) {
			return nil
		}
		if err := s.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			zap.L().Error("kafka commit", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// handle 重试直到处理成功，ctx 取消时返回 false，此时记录未提交
func (s *KafkaSubscriber) handle(ctx context.Context, fn Handler, offset int64, rec Record) bool {
	for attempt := 1; ; attempt++ {
		err := fn(ctx, rec)
		if err == nil {
			return true
		}
		zap.L().Error("relay handler failed",
			zap.String("event_id", rec.EventID),
			zap.Int64("offset", offset),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if !sleepCtx(ctx, s.backoff) {
			return false
		}
	}
}

func (s *KafkaSubscriber) Close() error {
	return s.reader.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

var _ Subscriber = (*KafkaSubscriber)(nil)
