package message

import (
	"strings"

	"parkhya_chat_server/internal/dto/request"
	"parkhya_chat_server/internal/model"
	"parkhya_chat_server/pkg/errorx"
)

// Input 发送消息的入参，按消息类型区分，每种类型只携带自己需要的字段
type Input interface {
	Type() string
	Text() string
}

// PublicInput 公共消息
type PublicInput struct {
	Content string
}

// PrivateInput 私聊消息
type PrivateInput struct {
	Content    string
	ReceiverID string
}

// ChannelInput 频道消息
type ChannelInput struct {
	Content   string
	ChannelID string
}

func (in PublicInput) Type() string { return model.MessageTypePublic }
func (in PrivateInput) Type() string { return model.MessageTypePrivate }
func (in ChannelInput) Type() string { return model.MessageTypeChannel }

func (in PublicInput) Text() string { return in.Content }
func (in PrivateInput) Text() string { return in.Content }
func (in ChannelInput) Text() string { return in.Content }

// ParseInput 校验请求并转换为对应类型的 Input
// type 缺省为 private；与类型无关的 receiverId/channelId 会被忽略
func ParseInput(req request.SendMessageRequest) (Input, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "Message content is required")
	}
	msgType := req.Type
	if msgType == "" {
		msgType = model.MessageTypePrivate
	}

	switch msgType {
	case model.MessageTypePublic:
		return PublicInput{Content: content}, nil
	case model.MessageTypePrivate:
		receiverID := strings.TrimSpace(req.ReceiverID)
		if receiverID == "" {
			return nil, errorx.New(errorx.CodeInvalidParam, "receiverId is required for private messages")
		}
		return PrivateInput{Content: content, ReceiverID: receiverID}, nil
	case model.MessageTypeChannel:
		channelID := strings.TrimSpace(req.ChannelID)
		if channelID == "" {
			return nil, errorx.New(errorx.CodeInvalidParam, "channelId is required for channel messages")
		}
		return ChannelInput{Content: content, ChannelID: channelID}, nil
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "Invalid message type: %s", req.Type)
	}
}
