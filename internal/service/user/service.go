// Package user 用户资料管理：管理员建号、查询、更新、删除
package user

import (
	"context"
	"strings"

	"parkhya_chat_server/internal/dao/mysql/repository"
	"parkhya_chat_server/internal/dto/request"
	"parkhya_chat_server/internal/dto/respond"
	"parkhya_chat_server/internal/model"
	"parkhya_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

const defaultPageLimit = 10

var (
	errUserNotFound = errorx.New(errorx.CodeNotFound, "User not found")
	errUserExists   = errorx.New(errorx.CodeConflict, "Email or mobile number is already in use")
	errAdminOnly    = errorx.New(errorx.CodeForbidden, "Only admins can perform this action")
)

type userService struct {
	repos *repository.Repositories
}

func NewUserService(repos *repository.Repositories) *userService {
	return &userService{repos: repos}
}

// Create 管理员创建用户
func (s *userService) Create(ctx context.Context, actorID string, req request.CreateUserRequest) (*respond.UserRespond, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		RawPassword:  req.Password,
		MobileNumber: optional(req.MobileNumber),
		Avatar:       optional(req.Avatar),
		IsAdmin:      req.IsAdmin,
	}
	if err := s.repos.User.Create(ctx, u); err != nil {
		if errorx.IsConflict(err) {
			return nil, errUserExists
		}
		return nil, errorx.Internal(err, "create user", zap.String("email", req.Email))
	}
	resp := respond.NewUserRespond(u)
	return &resp, nil
}

// List 按关键字分页查询，关键字匹配邮箱、手机号、姓名
func (s *userService) List(ctx context.Context, q request.ListUsersQuery) (*respond.UserListRespond, error) {
	page, limit := q.Normalize(defaultPageLimit)
	users, total, err := s.repos.User.List(ctx, q.SearchTerm, (page-1)*limit, limit)
	if err != nil {
		return nil, errorx.Internal(err, "list users")
	}

	items := make([]respond.UserRespond, 0, len(users))
	for i := range users {
		items = append(items, respond.NewUserRespond(&users[i]))
	}
	return &respond.UserListRespond{
		Users:       items,
		TotalUsers:  total,
		TotalPages:  respond.TotalPages(total, limit),
		CurrentPage: page,
	}, nil
}

func (s *userService) Get(ctx context.Context, id string) (*respond.UserRespond, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := respond.NewUserRespond(u)
	return &resp, nil
}

// Update 本人或管理员可以修改；手机号、头像传空串表示清除
func (s *userService) Update(ctx context.Context, actorID, id string, req request.UpdateUserRequest) (*respond.UserRespond, error) {
	if actorID != id {
		if err := s.requireAdmin(ctx, actorID); err != nil {
			return nil, err
		}
	}

	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Password != nil {
		u.RawPassword = *req.Password
	}
	if req.MobileNumber != nil {
		u.MobileNumber = optional(req.MobileNumber)
	}
	if req.Avatar != nil {
		u.Avatar = optional(req.Avatar)
	}

	if err := s.repos.User.Update(ctx, u); err != nil {
		if errorx.IsConflict(err) {
			return nil, errUserExists
		}
		return nil, errorx.Internal(err, "update user", zap.String("user_id", id))
	}
	resp := respond.NewUserRespond(u)
	return &resp, nil
}

// Delete 仅管理员
func (s *userService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.repos.User.Delete(ctx, id); err != nil {
		if errorx.IsNotFound(err) {
			return errUserNotFound
		}
		return errorx.Internal(err, "delete user", zap.String("user_id", id))
	}
	return nil
}

func (s *userService) requireAdmin(ctx context.Context, actorID string) error {
	actor, err := s.repos.User.FindByID(ctx, actorID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errAdminOnly
		}
		return errorx.Internal(err, "load actor", zap.String("user_id", actorID))
	}
	if !actor.IsAdmin {
		return errAdminOnly
	}
	return nil
}

func (s *userService) load(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repos.User.FindByID(ctx, id)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errUserNotFound
		}
		return nil, errorx.Internal(err, "load user", zap.String("user_id", id))
	}
	return u, nil
}

// optional 空白字符串视为未填写
func optional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
