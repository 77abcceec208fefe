// Package model 定义数据库实体模型
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt" // 密码哈希库
	"gorm.io/gorm"
)

// User 用户
// Email、MobileNumber、SocialID 均为唯一索引；后两者可空（NULL 不参与唯一约束）
type User struct {
	ID           string    `gorm:"column:id;primaryKey;type:char(36);comment:用户唯一id"`
	Email        string    `gorm:"column:email;uniqueIndex;type:varchar(191);not null;comment:邮箱（小写）"`
	Password     string    `gorm:"column:password;type:varchar(100);not null;comment:bcrypt 哈希"`
	FullName     string    `gorm:"column:full_name;type:varchar(100);comment:姓名"`
	MobileNumber *string   `gorm:"column:mobile_number;uniqueIndex;type:varchar(20);comment:手机号"`
	SocialID     *string   `gorm:"column:social_id;uniqueIndex;type:varchar(191);comment:第三方登录 id"`
	Avatar       *string   `gorm:"column:avatar;type:varchar(255);comment:头像 URL"`
	IsOnline     bool      `gorm:"column:is_online;not null;default:false;comment:在线状态，只由连接生命周期修改"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false;comment:系统管理员"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`

	// RawPassword 明文密码，不落库，由 BeforeSave 负责加密
	RawPassword string `gorm:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate 生成 UUID 主键
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave 统一邮箱格式并加密明文密码
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword 校验明文密码
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

// NormalizeEmail 邮箱统一去空格并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
