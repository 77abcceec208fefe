package repository

import (
	"context"

	"parkhya_chat_server/internal/model"

	"gorm.io/gorm"
)

type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository 创建频道 Repository
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

// withMembers 预加载成员（按加入顺序）及成员用户
func withMembers(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Members.User")
}

func (r *channelRepository) Create(ctx context.Context, channel *model.Channel) error {
	if err := r.db.WithContext(ctx).Omit("Members", "Messages").Create(channel).Error; err != nil {
		return wrapDBErrorf(err, "create channel name=%s", channel.Name)
	}
	return nil
}

func (r *channelRepository) FindByID(ctx context.Context, id string) (*model.Channel, error) {
	var channel model.Channel
	if err := r.db.WithContext(ctx).Scopes(withMembers).First(&channel, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "find channel id=%s", id)
	}
	return &channel, nil
}

func (r *channelRepository) ListByMember(ctx context.Context, userID string) ([]model.Channel, error) {
	joined := r.db.Model(&model.ChannelMember{}).Select("channel_id").Where("user_id = ?", userID)

	channels := make([]model.Channel, 0)
	if err := r.db.WithContext(ctx).Scopes(withMembers).
		Where("id IN (?)", joined).
		Order("created_at ASC").Order("id ASC").
		Find(&channels).Error; err != nil {
		return nil, wrapDBErrorf(err, "list channels of user=%s", userID)
	}
	return channels, nil
}

func (r *channelRepository) UpdateFields(ctx context.Context, channel *model.Channel) error {
	err := r.db.WithContext(ctx).Model(&model.Channel{}).Where("id = ?", channel.ID).Updates(map[string]any{
		"name":        channel.Name,
		"description": channel.Description,
		"is_private":  channel.IsPrivate,
	}).Error
	if err != nil {
		return wrapDBErrorf(err, "update channel id=%s", channel.ID)
	}
	return nil
}

func (r *channelRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Channel{}, "id = ?", id)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "delete channel id=%s", id)
	}
	if res.RowsAffected == 0 {
		return notFound("delete channel id=%s", id)
	}
	return nil
}
