package handler

import (
	"context"

	"parkhya_chat_server/internal/gateway/websocket"
	"parkhya_chat_server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WsHandler WebSocket 握手
type WsHandler struct {
	gateway *websocket.Gateway
}

func NewWsHandler(gateway *websocket.Gateway) *WsHandler {
	return &WsHandler{gateway: gateway}
}

// Serve 升级为 WebSocket 连接
// GET /ws?userId=xxx，userId 可选，携带时参与在线状态
func (h *WsHandler) Serve(c *gin.Context) {
	if err := h.gateway.Serve(c.Writer, c.Request, c.Query("userId")); err != nil {
		zap.L().Warn("ws upgrade failed", zap.String("remote", c.ClientIP()), zap.Error(err))
	}
}

// SocketInbound 把 WebSocket 上行的 sendMessage 交给消息服务
type SocketInbound struct {
	messageSvc service.MessageService
}

func NewSocketInbound(messageSvc service.MessageService) *SocketInbound {
	return &SocketInbound{messageSvc: messageSvc}
}

func (s *SocketInbound) HandleSendMessage(ctx context.Context, userID string, payload websocket.SendMessagePayload) error {
	_, err := s.messageSvc.SendFromSocket(ctx, userID, payload.SenderID, payload.Content)
	return err
}

var _ websocket.InboundHandler = (*SocketInbound)(nil)
