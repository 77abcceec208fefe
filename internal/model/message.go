package model

import (
	"time"

	"parkhya_chat_server/pkg/util/snowflake"

	"gorm.io/gorm"
)

// 消息类型
const (
	MessageTypePublic  = "public"
	MessageTypePrivate = "private"
	MessageTypeChannel = "channel"
)

// ValidMessageType 判断类型是否合法
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypePublic, MessageTypePrivate, MessageTypeChannel:
		return true
	}
	return false
}

// Message 消息
// ReceiverID 仅私聊非空，ChannelID 仅频道消息非空，公共消息两者皆空
type Message struct {
	ID         int64             `gorm:"column:id;primaryKey;autoIncrement:false;comment:雪花 id"`
	Content    string            `gorm:"column:content;type:text;not null"`
	Type       string            `gorm:"column:type;type:varchar(10);not null;index"`
	SenderID   string            `gorm:"column:sender_id;type:char(36);not null;index"`
	ReceiverID *string           `gorm:"column:receiver_id;type:char(36);index"`
	ChannelID  *string           `gorm:"column:channel_id;type:char(36);index"`
	Seen       bool              `gorm:"column:seen;not null;default:false"`
	Sender     User              `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	SeenBy     []MessageSeen     `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
	Reactions  []MessageReaction `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;index"`
	UpdatedAt  time.Time         `gorm:"column:updated_at"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == 0 {
		m.ID = snowflake.GenerateID()
	}
	return nil
}

// IsParticipant 私聊消息的双方
func (m *Message) IsParticipant(userID string) bool {
	if m.SenderID == userID {
		return true
	}
	return m.ReceiverID != nil && *m.ReceiverID == userID
}

// MessageSeen 已读记录，按插入顺序构成 seenBy 集合
type MessageSeen struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	MessageID int64     `gorm:"column:message_id;not null;uniqueIndex:idx_message_seen_user"`
	UserID    string    `gorm:"column:user_id;type:char(36);not null;uniqueIndex:idx_message_seen_user"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (MessageSeen) TableName() string {
	return "message_seen"
}

// MessageReaction 表情回应，(message_id, user_id, emoji) 唯一
type MessageReaction struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	MessageID int64     `gorm:"column:message_id;not null;uniqueIndex:idx_message_reaction"`
	UserID    string    `gorm:"column:user_id;type:char(36);not null;uniqueIndex:idx_message_reaction"`
	Emoji     string    `gorm:"column:emoji;type:varchar(32);not null;uniqueIndex:idx_message_reaction"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (MessageReaction) TableName() string {
	return "message_reactions"
}
