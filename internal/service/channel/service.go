// Package channel 实现频道及成员管理
// 角色校验每次调用都重新查询成员表，不缓存授权结果
package channel

import (
	"context"
	"strings"

	"parkhya_chat_server/internal/dao/mysql/repository"
	"parkhya_chat_server/internal/dto/request"
	"parkhya_chat_server/internal/dto/respond"
	"parkhya_chat_server/internal/model"
	"parkhya_chat_server/internal/service/chat"
	"parkhya_chat_server/pkg/constants"
	"parkhya_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

const defaultPageLimit = 20

var (
	errChannelNotFound = errorx.New(errorx.CodeNotFound, "Channel not found")
	errNotMember       = errorx.New(errorx.CodeForbidden, "You are not a member of this channel")
	errNotAdmin        = errorx.New(errorx.CodeForbidden, "Only channel admins can perform this action")
	errNotCreator      = errorx.New(errorx.CodeForbidden, "Only the channel creator can delete it")
	errNameRequired    = errorx.New(errorx.CodeInvalidParam, "Channel name is required")
)

type channelService struct {
	repos       *repository.Repositories
	broadcaster chat.Broadcaster
}

func NewChannelService(repos *repository.Repositories, broadcaster chat.Broadcaster) *channelService {
	return &channelService{repos: repos, broadcaster: broadcaster}
}

// Create 创建频道，创建者作为唯一的初始管理员；频道与成员记录在同一事务中写入
func (s *channelService) Create(ctx context.Context, creatorID string, req request.CreateChannelRequest) (*respond.ChannelRespond, error) {
	ctx = context.WithoutCancel(ctx)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errNameRequired
	}

	ch := &model.Channel{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsPrivate:   req.IsPrivate,
		CreatedBy:   creatorID,
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Channel.Create(ctx, ch); err != nil {
			return err
		}
		return tx.ChannelMember.Create(ctx, &model.ChannelMember{
			ChannelID: ch.ID,
			UserID:    creatorID,
			Role:      model.RoleAdmin,
		})
	})
	if err != nil {
		return nil, errorx.Internal(err, "create channel", zap.String("creator_id", creatorID))
	}

	resp, err := s.reload(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	s.broadcaster.Emit(ctx, constants.EventChannelCreated, resp)
	return resp, nil
}

// List 当前用户加入的频道
func (s *channelService) List(ctx context.Context, callerID string) ([]*respond.ChannelRespond, error) {
	channels, err := s.repos.Channel.ListByMember(ctx, callerID)
	if err != nil {
		return nil, errorx.Internal(err, "list channels", zap.String("user_id", callerID))
	}
	return respond.NewChannelResponds(channels), nil
}

func (s *channelService) Get(ctx context.Context, callerID, channelID string) (*respond.ChannelRespond, error) {
	ch, err := s.load(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if findMember(ch, callerID) == nil {
		return nil, errNotMember
	}
	return respond.NewChannelRespond(ch), nil
}

// AddMember 管理员添加成员，新成员角色为 member
func (s *channelService) AddMember(ctx context.Context, callerID, channelID, userID string) (*respond.ChannelRespond, error) {
	ctx = context.WithoutCancel(ctx)
	if _, err := s.requireAdmin(ctx, channelID, callerID); err != nil {
		return nil, err
	}

	user, err := s.repos.User.FindByID(ctx, userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "User not found")
		}
		return nil, errorx.Internal(err, "load user", zap.String("user_id", userID))
	}

	member := &model.ChannelMember{ChannelID: channelID, UserID: userID, Role: model.RoleMember}
	if err := s.repos.ChannelMember.Create(ctx, member); err != nil {
		if errorx.IsConflict(err) {
			return nil, errorx.New(errorx.CodeConflict, "User is already a member of this channel")
		}
		return nil, errorx.Internal(err, "add channel member",
			zap.String("channel_id", channelID),
			zap.String("user_id", userID))
	}

	s.broadcaster.Emit(ctx, constants.EventChannelMemberAdded, respond.ChannelMemberAddedEvent{
		ChannelID: channelID,
		User:      respond.NewUserSummary(user),
	})
	return s.reload(ctx, channelID)
}

// RemoveMember 管理员移除成员；目标本身是管理员时拒绝
func (s *channelService) RemoveMember(ctx context.Context, callerID, channelID, userID string) error {
	ctx = context.WithoutCancel(ctx)
	ch, err := s.requireAdmin(ctx, channelID, callerID)
	if err != nil {
		return err
	}

	target := findMember(ch, userID)
	if target == nil {
		return errorx.New(errorx.CodeNotFound, "User is not a member of this channel")
	}
	if target.IsAdmin() {
		return errorx.New(errorx.CodeInvalidOperation, "Cannot remove the admin")
	}

	if err := s.repos.ChannelMember.Delete(ctx, channelID, userID); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "User is not a member of this channel")
		}
		return errorx.Internal(err, "remove channel member",
			zap.String("channel_id", channelID),
			zap.String("user_id", userID))
	}

	s.broadcaster.Emit(ctx, constants.EventChannelMemberRemoved, respond.ChannelMemberRemovedEvent{
		ChannelID: channelID,
		UserID:    userID,
	})
	return nil
}

// Update 部分更新，未提供的字段保持原值
func (s *channelService) Update(ctx context.Context, callerID, channelID string, req request.UpdateChannelRequest) (*respond.ChannelRespond, error) {
	ctx = context.WithoutCancel(ctx)
	ch, err := s.requireAdmin(ctx, channelID, callerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errNameRequired
		}
		ch.Name = name
	}
	if req.Description != nil {
		ch.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsPrivate != nil {
		ch.IsPrivate = *req.IsPrivate
	}

	if err := s.repos.Channel.UpdateFields(ctx, ch); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errChannelNotFound
		}
		return nil, errorx.Internal(err, "update channel", zap.String("channel_id", channelID))
	}

	resp, err := s.reload(ctx, channelID)
	if err != nil {
		return nil, err
	}
	s.broadcaster.Emit(ctx, constants.EventChannelUpdated, resp)
	return resp, nil
}

// Delete 只有创建者可以删除频道
func (s *channelService) Delete(ctx context.Context, callerID, channelID string) error {
	ctx = context.WithoutCancel(ctx)
	ch, err := s.load(ctx, channelID)
	if err != nil {
		return err
	}
	if ch.CreatedBy != callerID {
		return errNotCreator
	}

	if err := s.repos.Channel.Delete(ctx, channelID); err != nil {
		if errorx.IsNotFound(err) {
			return errChannelNotFound
		}
		return errorx.Internal(err, "delete channel", zap.String("channel_id", channelID))
	}

	s.broadcaster.Emit(ctx, constants.EventChannelDeleted, respond.ChannelDeletedEvent{ChannelID: channelID})
	return nil
}

// Messages 频道消息，按创建时间升序分页
func (s *channelService) Messages(ctx context.Context, callerID, channelID string, q request.PageQuery) ([]*respond.MessageRespond, *respond.Pagination, error) {
	if _, err := s.load(ctx, channelID); err != nil {
		return nil, nil, err
	}
	if _, err := s.repos.ChannelMember.Find(ctx, channelID, callerID); err != nil {
		if errorx.IsNotFound(err) {
			return nil, nil, errNotMember
		}
		return nil, nil, errorx.Internal(err, "check channel membership", zap.String("channel_id", channelID))
	}

	page, limit := q.Normalize(defaultPageLimit)
	messages, total, err := s.repos.Message.List(ctx, repository.MessageQuery{
		Type:      model.MessageTypeChannel,
		ChannelID: channelID,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return nil, nil, errorx.Internal(err, "list channel messages", zap.String("channel_id", channelID))
	}
	return respond.NewMessageResponds(messages), respond.NewPagination(page, limit, total), nil
}

// requireAdmin 频道存在且 callerID 是管理员，返回加载了成员的频道
func (s *channelService) requireAdmin(ctx context.Context, channelID, callerID string) (*model.Channel, error) {
	ch, err := s.load(ctx, channelID)
	if err != nil {
		return nil, err
	}
	m := findMember(ch, callerID)
	if m == nil || !m.IsAdmin() {
		return nil, errNotAdmin
	}
	return ch, nil
}

func (s *channelService) load(ctx context.Context, channelID string) (*model.Channel, error) {
	ch, err := s.repos.Channel.FindByID(ctx, channelID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errChannelNotFound
		}
		return nil, errorx.Internal(err, "load channel", zap.String("channel_id", channelID))
	}
	return ch, nil
}

func (s *channelService) reload(ctx context.Context, channelID string) (*respond.ChannelRespond, error) {
	ch, err := s.load(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return respond.NewChannelRespond(ch), nil
}

func findMember(ch *model.Channel, userID string) *model.ChannelMember {
	for i := range ch.Members {
		if ch.Members[i].UserID == userID {
			return &ch.Members[i]
		}
	}
	return nil
}
