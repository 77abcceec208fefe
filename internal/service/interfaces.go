// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
package service

import (
	"context"

	"parkhya_chat_server/internal/dto/request"
	"parkhya_chat_server/internal/dto/respond"
	"parkhya_chat_server/internal/service/message"
	"parkhya_chat_server/pkg/util/jwt"
)

// AuthService 账号认证
type AuthService interface {
	// Register 邮箱注册
	Register(ctx context.Context, req request.RegisterRequest) (*respond.UserRespond, error)
	// Login 邮箱密码登录
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	// SocialLogin 第三方登录，必要时关联或新建账号
	SocialLogin(ctx context.Context, req request.SocialLoginRequest) (*respond.LoginRespond, error)
	// ForgotPassword 发送重置密码验证码
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword 使用验证码重置密码
	ResetPassword(ctx context.Context, req request.ResetPasswordRequest) error
	// Logout 吊销当前 token
	Logout(ctx context.Context, claims *jwt.Claims) error
}

// UserService 用户资料管理
type UserService interface {
	Create(ctx context.Context, actorID string, req request.CreateUserRequest) (*respond.UserRespond, error)
	List(ctx context.Context, q request.ListUsersQuery) (*respond.UserListRespond, error)
	Get(ctx context.Context, id string) (*respond.UserRespond, error)
	Update(ctx context.Context, actorID, id string, req request.UpdateUserRequest) (*respond.UserRespond, error)
	Delete(ctx context.Context, actorID, id string) error
}

// MessageService 消息收发与已读、表情
type MessageService interface {
	Send(ctx context.Context, senderID string, in message.Input) (*respond.MessageRespond, error)
	// SendFromSocket 处理 WebSocket 上行消息
	SendFromSocket(ctx context.Context, userID, senderID, content string) (*respond.MessageRespond, error)
	List(ctx context.Context, callerID string, q request.ListMessagesQuery) ([]*respond.MessageRespond, *respond.Pagination, error)
	Update(ctx context.Context, callerID string, messageID int64, content string) (*respond.MessageRespond, error)
	Delete(ctx context.Context, callerID string, messageID int64) error
	MarkSeen(ctx context.Context, callerID string, messageID int64) (*respond.MessageRespond, error)
	SeenUsers(ctx context.Context, callerID string, messageID int64) ([]respond.UserSummary, error)
	AddReaction(ctx context.Context, callerID string, messageID int64, emoji string) ([]respond.ReactionRespond, error)
	Reactions(ctx context.Context, callerID string, messageID int64) ([]respond.ReactionRespond, error)
}

// ChannelService 频道与成员管理
type ChannelService interface {
	Create(ctx context.Context, creatorID string, req request.CreateChannelRequest) (*respond.ChannelRespond, error)
	List(ctx context.Context, callerID string) ([]*respond.ChannelRespond, error)
	Get(ctx context.Context, callerID, channelID string) (*respond.ChannelRespond, error)
	AddMember(ctx context.Context, callerID, channelID, userID string) (*respond.ChannelRespond, error)
	RemoveMember(ctx context.Context, callerID, channelID, userID string) error
	Update(ctx context.Context, callerID, channelID string, req request.UpdateChannelRequest) (*respond.ChannelRespond, error)
	Delete(ctx context.Context, callerID, channelID string) error
	Messages(ctx context.Context, callerID, channelID string, q request.PageQuery) ([]*respond.MessageRespond, *respond.Pagination, error)
}

// PresenceService 在线状态，Connect/Disconnect 由 WebSocket 网关回调
type PresenceService interface {
	Connect(ctx context.Context, userID string)
	Disconnect(ctx context.Context, userID string)
	OnlineUsers(ctx context.Context) ([]string, error)
}
