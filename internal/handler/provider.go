// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数，通过构造函数注入 Service 依赖
package handler

import (
	"parkhya_chat_server/internal/gateway/websocket"
	"parkhya_chat_server/internal/service"
)

// Handlers 聚合所有 Handler 实例，Router 层通过此结构访问各个 Handler
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Message *MessageHandler
	Channel *ChannelHandler
	Ws      *WsHandler
}

func NewHandlers(svc *service.Services, gateway *websocket.Gateway) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(svc.Auth),
		User:    NewUserHandler(svc.User, svc.Presence),
		Message: NewMessageHandler(svc.Message),
		Channel: NewChannelHandler(svc.Channel),
		Ws:      NewWsHandler(gateway),
	}
}
