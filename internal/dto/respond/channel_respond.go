package respond

import (
	"time"

	"parkhya_chat_server/internal/model"
)

// ChannelMemberRespond 频道成员：用户摘要 + 角色
type ChannelMemberRespond struct {
	UserSummary
	Role string `json:"role"`
}

// ChannelRespond 频道详情
type ChannelRespond struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	IsPrivate   bool                   `json:"isPrivate"`
	CreatedBy   string                 `json:"createdBy"`
	Members     []ChannelMemberRespond `json:"members"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

func NewChannelRespond(c *model.Channel) *ChannelRespond {
	members := make([]ChannelMemberRespond, 0, len(c.Members))
	for i := range c.Members {
		members = append(members, ChannelMemberRespond{
			UserSummary: NewUserSummary(&c.Members[i].User),
			Role:        c.Members[i].Role,
		})
	}
	return &ChannelRespond{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsPrivate:   c.IsPrivate,
		CreatedBy:   c.CreatedBy,
		Members:     members,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func NewChannelResponds(channels []model.Channel) []*ChannelRespond {
	out := make([]*ChannelRespond, 0, len(channels))
	for i := range channels {
		out = append(out, NewChannelRespond(&channels[i]))
	}
	return out
}

// ChannelMemberAddedEvent channelMemberAdded 事件
type ChannelMemberAddedEvent struct {
	ChannelID string      `json:"channelId"`
	User      UserSummary `json:"user"`
}

// ChannelMemberRemovedEvent channelMemberRemoved 事件
type ChannelMemberRemovedEvent struct {
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
}

// ChannelDeletedEvent channelDeleted 事件
type ChannelDeletedEvent struct {
	ChannelID string `json:"channelId"`
}
