package repository

import (
	"context"

	"parkhya_chat_server/internal/model"

	"gorm.io/gorm"
)

type channelMemberRepository struct {
	db *gorm.DB
}

// NewChannelMemberRepository 创建频道成员 Repository
func NewChannelMemberRepository(db *gorm.DB) ChannelMemberRepository {
	return &channelMemberRepository{db: db}
}

func (r *channelMemberRepository) Create(ctx context.Context, member *model.ChannelMember) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(member).Error; err != nil {
		return wrapDBErrorf(err, "create channel member channel=%s user=%s", member.ChannelID, member.UserID)
	}
	return nil
}

func (r *channelMemberRepository) Find(ctx context.Context, channelID, userID string) (*model.ChannelMember, error) {
	var member model.ChannelMember
	err := r.db.WithContext(ctx).Preload("User").
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&member).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find channel member channel=%s user=%s", channelID, userID)
	}
	return &member, nil
}

func (r *channelMemberRepository) Delete(ctx context.Context, channelID, userID string) error {
	res := r.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Delete(&model.ChannelMember{})
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "delete channel member channel=%s user=%s", channelID, userID)
	}
	if res.RowsAffected == 0 {
		return notFound("channel member channel=%s user=%s", channelID, userID)
	}
	return nil
}

func (r *channelMemberRepository) Count(ctx context.Context, channelID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ChannelMember{}).Where("channel_id = ?", channelID).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count channel members channel=%s", channelID)
	}
	return count, nil
}
