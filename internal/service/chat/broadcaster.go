// Package chat 实现实时推送的扇出桥：直发到 WebSocket 连接，并按需经消息队列转发
package chat

import (
	"context"

	"parkhya_chat_server/internal/dto/respond"
)

// Broadcaster Service 层依赖的推送接口
// 推送失败只记日志，不影响调用方的结果
type Broadcaster interface {
	// Emit 只走直发路径
	Emit(ctx context.Context, event string, data any)
	// EmitMessage 直发，并在开启转发时把消息记录投递到队列
	EmitMessage(ctx context.Context, event string, msg *respond.MessageRespond)
}

// Emitter 直发通道，由 websocket.Hub 实现
type Emitter interface {
	Emit(id, event string, data any) error
}

// 投递路径，用作指标标签
const (
	pathDirect = "direct"
	pathRelay  = "relay"
)
