package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 频道成员角色
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Channel 频道
// 删除频道时，成员关系与频道消息由外键级联删除
type Channel struct {
	ID          string          `gorm:"column:id;primaryKey;type:char(36)"`
	Name        string          `gorm:"column:name;type:varchar(100);not null;comment:频道名"`
	Description string          `gorm:"column:description;type:varchar(255);comment:描述"`
	IsPrivate   bool            `gorm:"column:is_private;not null;default:false"`
	CreatedBy   string          `gorm:"column:created_by;index;type:char(36);not null;comment:创建者"`
	Members     []ChannelMember `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE"`
	Messages    []Message       `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (Channel) TableName() string {
	return "channels"
}

func (c *Channel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ChannelMember 频道成员关系，(channel_id, user_id) 唯一
type ChannelMember struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ChannelID string    `gorm:"column:channel_id;type:char(36);not null;uniqueIndex:idx_channel_member"`
	UserID    string    `gorm:"column:user_id;type:char(36);not null;uniqueIndex:idx_channel_member;index"`
	Role      string    `gorm:"column:role;type:varchar(10);not null;default:member;comment:admin/member"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ChannelMember) TableName() string {
	return "channel_members"
}

func (m *ChannelMember) IsAdmin() bool {
	return m.Role == RoleAdmin
}
