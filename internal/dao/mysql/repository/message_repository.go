package repository

import (
	"context"

	"parkhya_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// withDetails 预加载发送者、已读记录和表情回应，均按写入顺序
func withDetails(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }
	return db.
		Preload("Sender").
		Preload("SeenBy", byID).
		Preload("Reactions", byID)
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(msg).Error; err != nil {
		return wrapDBErrorf(err, "create message sender=%s", msg.SenderID)
	}
	return nil
}

func (r *messageRepository) FindByID(ctx context.Context, id int64) (*model.Message, error) {
	var msg model.Message
	if err := r.db.WithContext(ctx).Scopes(withDetails).First(&msg, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "find message id=%d", id)
	}
	return &msg, nil
}

func (r *messageRepository) List(ctx context.Context, q MessageQuery) ([]model.Message, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&model.Message{}).Where("type = ?", q.Type)
		switch q.Type {
		case model.MessageTypePrivate:
			if q.PeerID != "" {
				db = db.Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
					q.UserID, q.PeerID, q.PeerID, q.UserID)
			} else {
				db = db.Where("(sender_id = ? OR receiver_id = ?)", q.UserID, q.UserID)
			}
		case model.MessageTypeChannel:
			db = db.Where("channel_id = ?", q.ChannelID)
		}
		if q.Content != "" {
			db = db.Where("LOWER(content) LIKE ?"+likeEscape, likePattern(q.Content))
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "count messages type=%s", q.Type)
	}

	messages := make([]model.Message, 0, q.Limit)
	if err := r.db.WithContext(ctx).Scopes(filter, withDetails).
		Order("created_at ASC").Order("id ASC").
		Offset(q.Offset).Limit(q.Limit).
		Find(&messages).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "list messages type=%s", q.Type)
	}
	return messages, total, nil
}

func (r *messageRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	res := r.db.WithContext(ctx).Model(&model.Message{}).Where("id = ?", id).Updates(map[string]any{"content": content})
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "update message id=%d", id)
	}
	if res.RowsAffected == 0 {
		return r.exists(ctx, id)
	}
	return nil
}

func (r *messageRepository) MarkSeen(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.Message{}).Where("id = ?", id).Updates(map[string]any{"seen": true})
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "mark message seen id=%d", id)
	}
	if res.RowsAffected == 0 {
		return r.exists(ctx, id)
	}
	return nil
}

func (r *messageRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Message{}, "id = ?", id)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "delete message id=%d", id)
	}
	if res.RowsAffected == 0 {
		return notFound("delete message id=%d", id)
	}
	return nil
}

func (r *messageRepository) exists(ctx context.Context, id int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Message{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return wrapDBErrorf(err, "count message id=%d", id)
	}
	if count == 0 {
		return notFound("message id=%d", id)
	}
	return nil
}
