package mq

import (
	"context"
	"time"

	"parkhya_chat_server/internal/config"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// kafkaWriter *kafka.Writer 中用到的部分
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 带熔断的 Kafka 发布端
// broker 不可用时连续失败达到阈值即熔断，之后的发布直接失败，不再占用超时时间
type KafkaPublisher struct {
	writer  kafkaWriter
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewKafkaPublisher 根据配置创建 Writer
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           time.Duration(cfg.WriteTimeout) * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w, cfg)
}

func newKafkaPublisher(w kafkaWriter, cfg config.KafkaConfig) *KafkaPublisher {
	st := gobreaker.Settings{
		Name:        "kafka-relay",
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.BreakerTimeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			zap.L().Warn("circuit breaker state",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &KafkaPublisher{
		writer:  w,
		cb:      gobreaker.NewCircuitBreaker(st),
		timeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}
}

// Publish 同步写入一条记录，受熔断器和超时约束
func (p *KafkaPublisher) Publish(ctx context.Context, rec Record) error {
	msg := kafka.Message{
		Key:   rec.Key,
		Value: rec.Value,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(rec.EventID)},
			{Key: HeaderEvent, Value: []byte(rec.Event)},
		},
		Time: time.Now(),
	}
	_, err := p.cb.Execute(func() (interface{}, error) {
		wctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return nil, p.writer.WriteMessages(wctx, msg)
	})
	return err
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ Publisher = (*KafkaPublisher)(nil)
