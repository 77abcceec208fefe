package repository

import (
	"context"

	"parkhya_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository 创建已读/表情 Repository
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) AddSeen(ctx context.Context, messageID int64, userID string) (bool, error) {
	seen := &model.MessageSeen{MessageID: messageID, UserID: userID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(seen)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "add seen message=%d user=%s", messageID, userID)
	}
	return res.RowsAffected > 0, nil
}

func (r *deliveryRepository) SeenUsers(ctx context.Context, messageID int64) ([]model.User, error) {
	users := make([]model.User, 0)
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN message_seen ON message_seen.user_id = users.id").
		Where("message_seen.message_id = ?", messageID).
		Order("message_seen.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "list seen users message=%d", messageID)
	}
	return users, nil
}

func (r *deliveryRepository) AddReaction(ctx context.Context, reaction *model.MessageReaction) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(reaction)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "add reaction message=%d user=%s", reaction.MessageID, reaction.UserID)
	}
	return res.RowsAffected > 0, nil
}

func (r *deliveryRepository) Reactions(ctx context.Context, messageID int64) ([]model.MessageReaction, error) {
	reactions := make([]model.MessageReaction, 0)
	if err := r.db.WithContext(ctx).Where("message_id = ?", messageID).Order("id ASC").Find(&reactions).Error; err != nil {
		return nil, wrapDBErrorf(err, "list reactions message=%d", messageID)
	}
	return reactions, nil
}

// DeleteByMessage 删除消息的已读和表情记录，需与删除消息放在同一事务
func (r *deliveryRepository) DeleteByMessage(ctx context.Context, messageID int64) error {
	if err := r.db.WithContext(ctx).Where("message_id = ?", messageID).Delete(&model.MessageSeen{}).Error; err != nil {
		return wrapDBErrorf(err, "delete seen message=%d", messageID)
	}
	if err := r.db.WithContext(ctx).Where("message_id = ?", messageID).Delete(&model.MessageReaction{}).Error; err != nil {
		return wrapDBErrorf(err, "delete reactions message=%d", messageID)
	}
	return nil
}
