package respond

import (
	"time"

	"parkhya_chat_server/internal/model"
)

// UserSummary 嵌入在消息、频道成员、登录结果中的用户摘要
type UserSummary struct {
	ID       string  `json:"id"`
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Avatar   *string `json:"avatar"`
	IsOnline bool    `json:"isOnline"`
}

// UserRespond 用户详情，不包含密码
type UserRespond struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	MobileNumber *string   `json:"mobileNumber"`
	Avatar       *string   `json:"avatar"`
	IsOnline     bool      `json:"isOnline"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LoginRespond 登录/第三方登录结果
type LoginRespond struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// UserListRespond 用户分页列表
type UserListRespond struct {
	Users       []UserRespond `json:"users"`
	TotalUsers  int64         `json:"totalUsers"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
}

func NewUserSummary(u *model.User) UserSummary {
	return UserSummary{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Avatar:   u.Avatar,
		IsOnline: u.IsOnline,
	}
}

func NewUserSummaries(users []model.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		out = append(out, NewUserSummary(&users[i]))
	}
	return out
}

func NewUserRespond(u *model.User) UserRespond {
	return UserRespond{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		MobileNumber: u.MobileNumber,
		Avatar:       u.Avatar,
		IsOnline:     u.IsOnline,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// TotalPages 向上取整
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
