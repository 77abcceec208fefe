package mq

import (
	"parkhya_chat_server/internal/config"

	"go.uber.org/zap"
)

// Init 队列转发关闭时返回 nil, nil
func Init(cfg config.KafkaConfig) (Publisher, Subscriber) {
	if !cfg.Enabled {
		zap.L().Info("queue relay disabled")
		return nil, nil
	}
	zap.L().Info("queue relay enabled",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
		zap.String("group", cfg.GroupID))
	return NewKafkaPublisher(cfg), NewKafkaSubscriber(cfg)
}
