// Package presence 跟踪用户在线状态
// 连接建立置为在线、断开置为离线，每次变化都广播 userStatusChange；不做防抖
package presence

import (
	"context"
	"sort"

	"parkhya_chat_server/internal/dao/mysql/repository"
	myredis "parkhya_chat_server/internal/dao/redis"
	"parkhya_chat_server/internal/dto/respond"
	"parkhya_chat_server/internal/service/chat"
	"parkhya_chat_server/pkg/constants"
	"parkhya_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

type presenceService struct {
	repos       *repository.Repositories
	cache       myredis.AsyncCacheService
	broadcaster chat.Broadcaster
}

func NewPresenceService(repos *repository.Repositories, cache myredis.AsyncCacheService, broadcaster chat.Broadcaster) *presenceService {
	return &presenceService{repos: repos, cache: cache, broadcaster: broadcaster}
}

func (s *presenceService) Connect(ctx context.Context, userID string) {
	s.transition(ctx, userID, true)
}

func (s *presenceService) Disconnect(ctx context.Context, userID string) {
	s.transition(ctx, userID, false)
}

func (s *presenceService) transition(ctx context.Context, userID string, online bool) {
	// 连接断开时请求上下文往往已取消，状态仍需落库
	ctx = context.WithoutCancel(ctx)

	if err := s.repos.User.UpdateOnline(ctx, userID, online); err != nil {
		if errorx.IsNotFound(err) {
			zap.L().Warn("presence for unknown user ignored", zap.String("user_id", userID))
			return
		}
		zap.L().Error("update online status failed",
			zap.String("user_id", userID),
			zap.Bool("online", online),
			zap.Error(err))
		return
	}

	// 同一用户的上下线写入按顺序执行，避免快速重连时 SREM 覆盖较新的 SADD
	s.cache.SubmitTask(userID, func() {
		var err error
		if online {
			err = s.cache.AddToSet(ctx, myredis.OnlineUsersKey, userID)
		} else {
			err = s.cache.RemoveFromSet(ctx, myredis.OnlineUsersKey, userID)
		}
		if err != nil {
			zap.L().Warn("sync online set failed", zap.String("user_id", userID), zap.Error(err))
		}
	})

	s.broadcaster.Emit(ctx, constants.EventUserStatusChange, respond.UserStatusEvent{
		UserID:   userID,
		IsOnline: online,
	})
}

// OnlineUsers 当前在线的用户 id，按字典序返回
func (s *presenceService) OnlineUsers(ctx context.Context) ([]string, error) {
	ids, err := s.cache.GetSetMembers(ctx, myredis.OnlineUsersKey)
	if err != nil {
		return nil, errorx.Internal(err, "load online users")
	}
	sort.Strings(ids)
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
