// Package mq 封装消息队列转发（relay）
// 上层只依赖 Publisher / Subscriber，Kafka 实现基于 segmentio/kafka-go
package mq

import (
	"context"
)

// 消息头
const (
	HeaderEventID = "event-id"
	HeaderEvent   = "event"
)

// Record 一条转发记录
type Record struct {
	Key     []byte
	Value   []byte
	EventID string
	Event   string
}

// Publisher 发布端
type Publisher interface {
	Publish(ctx context.Context, rec Record) error
	Close() error
}

// Handler 处理一条消费到的记录，返回错误时稍后重试同一条记录
// 无法处理的记录应自行记录日志并返回 nil
type Handler func(ctx context.Context, rec Record) error

// Subscriber 消费端，Consume 阻塞直到 ctx 取消
type Subscriber interface {
	Consume(ctx context.Context, fn Handler) error
	Close() error
}
