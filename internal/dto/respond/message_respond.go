package respond

import (
	"strconv"
	"time"

	"parkhya_chat_server/internal/model"
)

// ReactionRespond 表情回应
type ReactionRespond struct {
	UserID string `json:"userId"`
	Emoji  string `json:"emoji"`
}

// MessageRespond 消息记录，id 为雪花 id 的字符串形式
type MessageRespond struct {
	ID         string            `json:"id"`
	Content    string            `json:"content"`
	Type       string            `json:"type"`
	SenderID   string            `json:"senderId"`
	ReceiverID *string           `json:"receiverId"`
	ChannelID  *string           `json:"channelId"`
	Seen       bool              `json:"seen"`
	SeenBy     []string          `json:"seenBy"`
	Reactions  []ReactionRespond `json:"reactions"`
	Sender     UserSummary       `json:"sender"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// Pagination 消息分页信息
type Pagination struct {
	Page          int   `json:"page"`
	Limit         int   `json:"limit"`
	TotalMessages int64 `json:"totalMessages"`
	TotalPages    int   `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) *Pagination {
	return &Pagination{
		Page:          page,
		Limit:         limit,
		TotalMessages: total,
		TotalPages:    TotalPages(total, limit),
	}
}

// MessageID 消息 id 的对外表示
func MessageID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseMessageID 解析路径参数中的消息 id
func ParseMessageID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func NewMessageRespond(m *model.Message) *MessageRespond {
	seenBy := make([]string, 0, len(m.SeenBy))
	for _, s := range m.SeenBy {
		seenBy = append(seenBy, s.UserID)
	}
	return &MessageRespond{
		ID:         MessageID(m.ID),
		Content:    m.Content,
		Type:       m.Type,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		ChannelID:  m.ChannelID,
		Seen:       m.Seen,
		SeenBy:     seenBy,
		Reactions:  NewReactions(m.Reactions),
		Sender:     NewUserSummary(&m.Sender),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func NewMessageResponds(messages []model.Message) []*MessageRespond {
	out := make([]*MessageRespond, 0, len(messages))
	for i := range messages {
		out = append(out, NewMessageRespond(&messages[i]))
	}
	return out
}

func NewReactions(reactions []model.MessageReaction) []ReactionRespond {
	out := make([]ReactionRespond, 0, len(reactions))
	for _, r := range reactions {
		out = append(out, ReactionRespond{UserID: r.UserID, Emoji: r.Emoji})
	}
	return out
}

// MessageDeletedEvent messageDeleted 事件
type MessageDeletedEvent struct {
	MessageID string `json:"messageId"`
}
