// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"parkhya_chat_server/internal/dao/mysql/repository"
	myredis "parkhya_chat_server/internal/dao/redis"
	"parkhya_chat_server/internal/infrastructure/sms"
	"parkhya_chat_server/internal/service/auth"
	"parkhya_chat_server/internal/service/channel"
	"parkhya_chat_server/internal/service/chat"
	"parkhya_chat_server/internal/service/message"
	"parkhya_chat_server/internal/service/presence"
	"parkhya_chat_server/internal/service/user"
)

// Services 聚合所有 Service 实例
type Services struct {
	Auth     AuthService
	User     UserService
	Message  MessageService
	Channel  ChannelService
	Presence PresenceService
}

// Deps 构造 Service 所需的外部依赖
type Deps struct {
	Repos       *repository.Repositories
	Cache       myredis.AsyncCacheService
	SMS         sms.Sender
	Broadcaster chat.Broadcaster
	AdminEmails []string
}

// NewServices 创建并注入所有 Service 实例
// Broadcaster 以参数注入，测试中可替换为 chattest.Recorder
func NewServices(deps Deps) *Services {
	return &Services{
		Auth:     auth.NewAuthService(deps.Repos, deps.Cache, deps.SMS, deps.AdminEmails),
		User:     user.NewUserService(deps.Repos),
		Message:  message.NewMessageService(deps.Repos, deps.Broadcaster),
		Channel:  channel.NewChannelService(deps.Repos, deps.Broadcaster),
		Presence: presence.NewPresenceService(deps.Repos, deps.Cache, deps.Broadcaster),
	}
}
