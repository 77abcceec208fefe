package repository

import (
	"context"

	"parkhya_chat_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrapDBErrorf(err, "create user email=%s", user.Email)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user id=%s", id)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", model.NormalizeEmail(email)).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user email=%s", email)
	}
	return &user, nil
}

func (r *userRepository) FindByMobile(ctx context.Context, mobile string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "mobile_number = ?", mobile).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user mobile=%s", mobile)
	}
	return &user, nil
}

func (r *userRepository) FindBySocialID(ctx context.Context, socialID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "social_id = ?", socialID).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user social_id=%s", socialID)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, keyword string, offset, limit int) ([]model.User, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&model.User{})
		if keyword != "" {
			like := likePattern(keyword)
			db = db.Where("(LOWER(email) LIKE ?"+likeEscape+" OR LOWER(full_name) LIKE ?"+likeEscape+" OR LOWER(mobile_number) LIKE ?"+likeEscape+")", like, like, like)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "count users")
	}
	users := make([]model.User, 0, limit)
	if err := r.db.WithContext(ctx).Scopes(filter).
		Order("created_at ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, wrapDBError(err, "list users")
	}
	return users, total, nil
}

// Update 全量保存，调用方负责先读后改
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return wrapDBErrorf(err, "update user id=%s", user.ID)
	}
	return nil
}

func (r *userRepository) UpdateOnline(ctx context.Context, id string, online bool) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("is_online", online)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "update presence id=%s", id)
	}
	if res.RowsAffected == 0 {
		// MySQL 值未变化时也返回 0 行，需要再确认一次是否存在
		return r.exists(ctx, id)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "delete user id=%s", id)
	}
	if res.RowsAffected == 0 {
		return notFound("delete user id=%s", id)
	}
	return nil
}

func (r *userRepository) exists(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return wrapDBErrorf(err, "count user id=%s", id)
	}
	if count == 0 {
		return notFound("user id=%s", id)
	}
	return nil
}
