// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"context"

	"parkhya_chat_server/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByMobile(ctx context.Context, mobile string) (*model.User, error)
	FindBySocialID(ctx context.Context, socialID string) (*model.User, error)
	// List 分页查询，keyword 对邮箱、手机号、姓名做大小写不敏感匹配
	List(ctx context.Context, keyword string, offset, limit int) ([]model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
	// UpdateOnline 只由在线状态跟踪修改
	UpdateOnline(ctx context.Context, id string, online bool) error
	Delete(ctx context.Context, id string) error
}

// ChannelRepository 频道数据访问接口
type ChannelRepository interface {
	Create(ctx context.Context, channel *model.Channel) error
	// FindByID 同时加载成员及成员的用户信息
	FindByID(ctx context.Context, id string) (*model.Channel, error)
	// ListByMember 查询用户加入的全部频道
	ListByMember(ctx context.Context, userID string) ([]model.Channel, error)
	// UpdateFields 只写 name/description/is_private
	UpdateFields(ctx context.Context, channel *model.Channel) error
	Delete(ctx context.Context, id string) error
}

// ChannelMemberRepository 频道成员数据访问接口
type ChannelMemberRepository interface {
	Create(ctx context.Context, member *model.ChannelMember) error
	Find(ctx context.Context, channelID, userID string) (*model.ChannelMember, error)
	Delete(ctx context.Context, channelID, userID string) error
	Count(ctx context.Context, channelID string) (int64, error)
}

// MessageQuery 消息列表查询条件
type MessageQuery struct {
	Type      string // public / private / channel，必填
	UserID    string // 私聊：当前用户
	PeerID    string // 私聊：对方，为空时查询当前用户收发的全部私聊
	ChannelID string // 频道消息
	Content   string // 内容关键字，大小写不敏感
	Offset    int
	Limit     int
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	// FindByID 同时加载发送者、已读记录、表情回应
	FindByID(ctx context.Context, id int64) (*model.Message, error)
	// List 按创建时间升序分页，返回当前页和总数
	List(ctx context.Context, q MessageQuery) ([]model.Message, int64, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	// MarkSeen 置 seen=true
	MarkSeen(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// DeliveryRepository 已读集合与表情回应
type DeliveryRepository interface {
	// AddSeen 幂等写入已读记录，返回是否为新增
	AddSeen(ctx context.Context, messageID int64, userID string) (bool, error)
	// SeenUsers 按已读先后返回用户
	SeenUsers(ctx context.Context, messageID int64) ([]model.User, error)
	// AddReaction 幂等写入表情回应，返回是否为新增
	AddReaction(ctx context.Context, reaction *model.MessageReaction) (bool, error)
	Reactions(ctx context.Context, messageID int64) ([]model.MessageReaction, error)
	DeleteByMessage(ctx context.Context, messageID int64) error
}

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db            *gorm.DB
	User          UserRepository
	Channel       ChannelRepository
	ChannelMember ChannelMemberRepository
	Message       MessageRepository
	Delivery      DeliveryRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		User:          NewUserRepository(db),
		Channel:       NewChannelRepository(db),
		ChannelMember: NewChannelMemberRepository(db),
		Message:       NewMessageRepository(db),
		Delivery:      NewDeliveryRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// fn 返回错误时整个事务回滚；fn 内部必须只使用 txRepos
func (r *Repositories) Transaction(ctx context.Context, fn func(txRepos *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
