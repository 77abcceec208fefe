package websocket

import "context"

// PresenceTracker 连接建立/断开时回调，只有握手带 userId 的连接才会触发
type PresenceTracker interface {
	Connect(ctx context.Context, userID string)
	Disconnect(ctx context.Context, userID string)
}

// InboundHandler 处理客户端上行事件
// userID 为握手时的 userId，可能为空
type InboundHandler interface {
	HandleSendMessage(ctx context.Context, userID string, payload SendMessagePayload) error
}
