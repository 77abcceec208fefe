// Package message 实现消息的发送、查询、修改、删除，以及已读集合与表情回应的合并
package message

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
	errMessageNotFound  = errorx.New(errorx.CodeNotFound, "Message not found")
	errReceiverNotFound = errorx.New(errorx.CodeNotFound, "Receiver not found")
	errNotChannelMember = errorx.New(errorx.CodeForbidden, "You are not a member of this channel")
	errNotSender        = errorx.New(errorx.CodeForbidden, "Only the sender can modify this message")
	errNotParticipant   = errorx.New(errorx.CodeForbidden, "You are not a participant of this conversation")
)

type messageService struct {
	repos       *repository.Repositories
	broadcaster chat.Broadcaster
}

func NewMessageService(repos *repository.Repositories, broadcaster chat.Broadcaster) *messageService {
	return &messageService{repos: repos, broadcaster: broadcaster}
}

// Send 持久化消息并广播 newMessage
func (s *messageService) Send(ctx context.Context, senderID string, in Input) (*respond.MessageRespond, error) {
	return s.send(ctx, senderID, in, constants.EventNewMessage)
}

// SendFromSocket 处理 WebSocket 上行的 sendMessage，按公共消息保存并广播 receiveMessage
// userID 为握手时携带的身份，senderID 非空时必须与之一致
func (s *messageService) SendFromSocket(ctx context.Context, userID, senderID, content string) (*respond.MessageRespond, error) {
	if userID == "" {
		return nil, errorx.New(errorx.CodeUnauthorized, "Connect with a userId before sending messages")
	}
	if senderID != "" && senderID != userID {
		return nil, errorx.New(errorx.CodeForbidden, "senderId does not match the connection")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "Message content is required")
	}
	return s.send(ctx, userID, PublicInput{Content: content}, constants.EventReceiveMessage)
}

func (s *messageService) send(ctx context.Context, senderID string, in Input, event string) (*respond.MessageRespond, error) {
	ctx = context.WithoutCancel(ctx)

	msg := &model.Message{
		Content:  in.Text(),
		Type:     in.Type(),
		SenderID: senderID,
	}
	switch v := in.(type) {
	case PublicInput:
	case PrivateInput:
		if err := s.requireReceiver(ctx, v.ReceiverID); err != nil {
			return nil, err
		}
		receiverID := v.ReceiverID
		msg.ReceiverID = &receiverID
	case ChannelInput:
		if err := s.requireMember(ctx, v.ChannelID, senderID); err != nil {
			return nil, err
		}
		channelID := v.ChannelID
		msg.ChannelID = &channelID
	default:
		return nil, errorx.ErrInvalidParam
	}

	if err := s.repos.Message.Create(ctx, msg); err != nil {
		return nil, errorx.Internal(err, "create message", zap.String("sender_id", senderID))
	}
	saved, err := s.repos.Message.FindByID(ctx, msg.ID)
	if err != nil {
		return nil, errorx.Internal(err, "reload message", zap.Int64("message_id", msg.ID))
	}

	resp := respond.NewMessageRespond(saved)
	s.broadcaster.EmitMessage(ctx, event, resp)
	return resp, nil
}

func (s *messageService) requireReceiver(ctx context.Context, receiverID string) error {
	if _, err := s.repos.User.FindByID(ctx, receiverID); err != nil {
		if errorx.IsNotFound(err) {
			return errReceiverNotFound
		}
		return errorx.Internal(err, "load receiver", zap.String("receiver_id", receiverID))
	}
	return nil
}

// List 消息列表
//   - 带 receiverId：当前用户与对方的私聊
//   - type=private 不带 receiverId：当前用户收发的全部私聊
//   - 其他：公共消息
func (s *messageService) List(ctx context.Context, callerID string, q request.ListMessagesQuery) ([]*respond.MessageRespond, *respond.Pagination, error) {
	page, limit := q.Normalize(defaultPageLimit)
	query := repository.MessageQuery{
		Content: q.Content,
		Offset:  (page - 1) * limit,
		Limit:   limit,
	}

	switch {
	case q.Type == model.MessageTypeChannel:
		return nil, nil, errorx.New(errorx.CodeInvalidParam, "Use /api/channels/:channelId/messages for channel messages")
	case q.ReceiverID != "":
		if q.Type != "" && q.Type != model.MessageTypePrivate {
			return nil, nil, errorx.New(errorx.CodeInvalidParam, "receiverId can only be used with private messages")
		}
		if err := s.requireReceiver(ctx, q.ReceiverID); err != nil {
			return nil, nil, err
		}
		query.Type = model.MessageTypePrivate
		query.UserID = callerID
		query.PeerID = q.ReceiverID
	case q.Type == model.MessageTypePrivate:
		query.Type = model.MessageTypePrivate
		query.UserID = callerID
	default:
		query.Type = model.MessageTypePublic
	}

	messages, total, err := s.repos.Message.List(ctx, query)
	if err != nil {
		return nil, nil, errorx.Internal(err, "list messages", zap.String("user_id", callerID))
	}
	return respond.NewMessageResponds(messages), respond.NewPagination(page, limit, total), nil
}

// Update 只有发送者可以修改内容，并发修改以最后一次写入为准
func (s *messageService) Update(ctx context.Context, callerID string, messageID int64, content string) (*respond.MessageRespond, error) {
	ctx = context.WithoutCancel(ctx)
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "Message content is required")
	}

	msg, err := s.load(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != callerID {
		return nil, errNotSender
	}
	if err := s.repos.Message.UpdateContent(ctx, messageID, content); err != nil {
		return nil, errorx.Internal(err, "update message", zap.Int64("message_id", messageID))
	}

	updated, err := s.load(ctx, messageID)
	if err != nil {
		return nil, err
	}
	resp := respond.NewMessageRespond(updated)
	s.broadcaster.Emit(ctx, constants.EventMessageUpdated, resp)
	return resp, nil
}

// Delete 只有发送者可以删除，已读与表情记录一并删除
func (s *messageService) Delete(ctx context.Context, callerID string, messageID int64) error {
	ctx = context.WithoutCancel(ctx)

	msg, err := s.load(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != callerID {
		return errNotSender
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Delivery.DeleteByMessage(ctx, messageID); err != nil {
			return err
		}
		return tx.Message.Delete(ctx, messageID)
	})
	if err != nil {
		if errorx.IsNotFound(err) {
			return errMessageNotFound
		}
		return errorx.Internal(err, "delete message", zap.Int64("message_id", messageID))
	}

	s.broadcaster.Emit(ctx, constants.EventMessageDeleted, respond.MessageDeletedEvent{
		MessageID: respond.MessageID(messageID),
	})
	return nil
}

// MarkSeen 幂等地把 callerID 加入已读集合，首次加入时置 seen=true；不广播
func (s *messageService) MarkSeen(ctx context.Context, callerID string, messageID int64) (*respond.MessageRespond, error) {
	ctx = context.WithoutCancel(ctx)

	msg, err := s.load(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, msg, callerID); err != nil {
		return nil, err
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		added, err := tx.Delivery.AddSeen(ctx, messageID, callerID)
		if err != nil || !added || msg.Seen {
			return err
		}
		return tx.Message.MarkSeen(ctx, messageID)
	})
	if err != nil {
		return nil, errorx.Internal(err, "mark message seen",
			zap.Int64("message_id", messageID),
			zap.String("user_id", callerID))
	}

	updated, err := s.load(ctx, messageID)
	if err != nil {
		return nil, err
	}
	return respond.NewMessageRespond(updated), nil
}

// SeenUsers 按已读先后返回用户摘要
func (s *messageService) SeenUsers(ctx context.Context, callerID string, messageID int64) ([]respond.UserSummary, error) {
	msg, err := s.load(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, msg, callerID); err != nil {
		return nil, err
	}
	users, err := s.repos.Delivery.SeenUsers(ctx, messageID)
	if err != nil {
		return nil, errorx.Internal(err, "load seen users", zap.Int64("message_id", messageID))
	}
	return respond.NewUserSummaries(users), nil
}

// AddReaction 同一用户重复添加同一个表情只保留一条
func (s *messageService) AddReaction(ctx context.Context, callerID string, messageID int64, emoji string) ([]respond.ReactionRespond, error) {
	ctx = context.WithoutCancel(ctx)
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "Emoji is required")
	}

	msg, err := s.load(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, msg, callerID); err != nil {
		return nil, err
	}

	reaction := &model.MessageReaction{MessageID: messageID, UserID: callerID, Emoji: emoji}
	if _, err := s.repos.Delivery.AddReaction(ctx, reaction); err != nil {
		return nil, errorx.Internal(err, "add reaction", zap.Int64("message_id", messageID))
	}
	return s.reactions(ctx, messageID)
}

func (s *messageService) Reactions(ctx context.Context, callerID string, messageID int64) ([]respond.ReactionRespond, error) {
	msg, err := s.load(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, msg, callerID); err != nil {
		return nil, err
	}
	return s.reactions(ctx, messageID)
}

func (s *messageService) reactions(ctx context.Context, messageID int64) ([]respond.ReactionRespond, error) {
	reactions, err := s.repos.Delivery.Reactions(ctx, messageID)
	if err != nil {
		return nil, errorx.Internal(err, "load reactions", zap.Int64("message_id", messageID))
	}
	return respond.NewReactions(reactions), nil
}

func (s *messageService) load(ctx context.Context, messageID int64) (*model.Message, error) {
	msg, err := s.repos.Message.FindByID(ctx, messageID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errMessageNotFound
		}
		return nil, errorx.Internal(err, "load message", zap.Int64("message_id", messageID))
	}
	return msg, nil
}

// authorize 已读与表情操作的参与者校验：公共消息不限，私聊限收发双方，频道消息限成员
func (s *messageService) authorize(ctx context.Context, msg *model.Message, callerID string) error {
	switch msg.Type {
	case model.MessageTypePublic:
		return nil
	case model.MessageTypePrivate:
		if !msg.IsParticipant(callerID) {
			return errNotParticipant
		}
		return nil
	case model.MessageTypeChannel:
		if msg.ChannelID == nil {
			return errNotParticipant
		}
		return s.requireMember(ctx, *msg.ChannelID, callerID)
	default:
		return errNotParticipant
	}
}

func (s *messageService) requireMember(ctx context.Context, channelID, userID string) error {
	if _, err := s.repos.ChannelMember.Find(ctx, channelID, userID); err != nil {
		if errorx.IsNotFound(err) {
			return errNotChannelMember
		}
		return errorx.Internal(err, "check channel membership",
			zap.String("channel_id", channelID),
			zap.String("user_id", userID))
	}
	return nil
}
