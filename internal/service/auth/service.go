// Package auth 注册、登录、第三方登录、找回密码与登出
package auth

import (
	"context"
	"strings"
	"time"

	"parkhya_chat_server/internal/dao/mysql/repository"
	myredis "parkhya_chat_server/internal/dao/redis"
	"parkhya_chat_server/internal/dto/request"
	"parkhya_chat_server/internal/dto/respond"
	"parkhya_chat_server/internal/infrastructure/sms"
	"parkhya_chat_server/internal/model"
	"parkhya_chat_server/pkg/constants"
	"parkhya_chat_server/pkg/errorx"
	"parkhya_chat_server/pkg/util/jwt"
	"parkhya_chat_server/pkg/util/random"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errUserExists         = errorx.New(errorx.CodeConflict, "User already exists")
	errInvalidCredentials = errorx.New(errorx.CodeInvalidPassword, "Invalid email or password")
	errInvalidResetCode   = errorx.New(errorx.CodeInvalidParam, "Invalid or expired reset code")
	errResetCodePending   = errorx.New(errorx.CodeInvalidParam, "A reset code has already been sent, please try again later")
)

type authService struct {
	repos       *repository.Repositories
	cache       myredis.CacheService
	sender      sms.Sender
	adminEmails map[string]struct{}
}

// NewAuthService adminEmails 中的邮箱注册后自动成为管理员
func NewAuthService(repos *repository.Repositories, cache myredis.CacheService, sender sms.Sender, adminEmails []string) *authService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[model.NormalizeEmail(email)] = struct{}{}
	}
	return &authService{repos: repos, cache: cache, sender: sender, adminEmails: admins}
}

// Register 邮箱或手机号已被占用时返回冲突
func (s *authService) Register(ctx context.Context, req request.RegisterRequest) (*respond.UserRespond, error) {
	email := model.NormalizeEmail(req.Email)
	_, isAdmin := s.adminEmails[email]

	u := &model.User{
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		RawPassword:  req.Password,
		MobileNumber: optional(req.MobileNumber),
		Avatar:       optional(req.Avatar),
		IsAdmin:      isAdmin,
	}
	if err := s.repos.User.Create(ctx, u); err != nil {
		if errorx.IsConflict(err) {
			return nil, errUserExists
		}
		return nil, errorx.Internal(err, "register user", zap.String("email", email))
	}
	zap.L().Info("user registered", zap.String("user_id", u.ID), zap.Bool("admin", isAdmin))

	resp := respond.NewUserRespond(u)
	return &resp, nil
}

// Login 邮箱密码登录，邮箱不存在与密码错误返回同一个错误
func (s *authService) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	u, err := s.repos.User.FindByEmail(ctx, req.Email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, errorx.Internal(err, "load user for login")
	}
	if !u.CheckPassword(req.Password) {
		return nil, errInvalidCredentials
	}
	return s.issue(u)
}

// SocialLogin 先按第三方 id 查找，其次按邮箱关联，都没有则新建账号
// profile 原样信任，第三方 token 的校验由接入层负责；未经校验直接对外开放时，
// 任何人提交他人邮箱即可登录该账号
func (s *authService) SocialLogin(ctx context.Context, req request.SocialLoginRequest) (*respond.LoginRespond, error) {
	profile := req.Profile
	socialID := req.Provider + ":" + profile.ID

	u, err := s.repos.User.FindBySocialID(ctx, socialID)
	if err == nil {
		return s.issue(u)
	}
	if !errorx.IsNotFound(err) {
		return nil, errorx.Internal(err, "load user by social id")
	}

	u, err = s.repos.User.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		u.SocialID = &socialID
		if u.Avatar == nil && profile.Picture != "" {
			picture := profile.Picture
			u.Avatar = &picture
		}
		if err := s.repos.User.Update(ctx, u); err != nil {
			return nil, errorx.Internal(err, "link social account", zap.String("user_id", u.ID))
		}
	case errorx.IsNotFound(err):
		email := model.NormalizeEmail(profile.Email)
		_, isAdmin := s.adminEmails[email]
		u = &model.User{
			Email:       email,
			FullName:    strings.TrimSpace(profile.Name),
			RawPassword: uuid.NewString(),
			SocialID:    &socialID,
			Avatar:      optional(&profile.Picture),
			IsAdmin:     isAdmin,
		}
		if err := s.repos.User.Create(ctx, u); err != nil {
			return nil, errorx.Internal(err, "create social user", zap.String("email", email))
		}
	default:
		return nil, errorx.Internal(err, "load user by email")
	}
	return s.issue(u)
}

// ForgotPassword 生成 6 位验证码，15 分钟内有效；未注册的邮箱同样返回成功
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repos.User.FindByEmail(ctx, email)
	if err != nil {
		if errorx.IsNotFound(err) {
			zap.L().Info("password reset for unknown email", zap.String("email", email))
			return nil
		}
		return errorx.Internal(err, "load user for password reset")
	}

	key := myredis.ResetCodeKey(u.Email)
	pending, err := s.cache.Get(ctx, key)
	if err != nil {
		return errorx.Internal(err, "read reset code")
	}
	if pending != "" {
		return errResetCodePending
	}

	code := random.GetCode(constants.RESET_CODE_LENGTH)
	if err := s.cache.Set(ctx, key, code, constants.RESET_CODE_TTL); err != nil {
		return errorx.Internal(err, "store reset code")
	}

	if u.MobileNumber == nil {
		zap.L().Warn("reset code issued for account without mobile number", zap.String("user_id", u.ID))
		return nil
	}
	if err := s.sender.SendResetCode(ctx, *u.MobileNumber, code); err != nil {
		// 发送失败时撤销验证码，允许用户立即重试
		_ = s.cache.Delete(ctx, key)
		zap.L().Error("send reset code failed", zap.String("user_id", u.ID), zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// ResetPassword 校验验证码后替换密码，验证码只能使用一次
func (s *authService) ResetPassword(ctx context.Context, req request.ResetPasswordRequest) error {
	key := myredis.ResetCodeKey(model.NormalizeEmail(req.Email))
	stored, err := s.cache.Get(ctx, key)
	if err != nil {
		return errorx.Internal(err, "read reset code")
	}
	if stored == "" || stored != req.Code {
		return errInvalidResetCode
	}

	u, err := s.repos.User.FindByEmail(ctx, req.Email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errInvalidResetCode
		}
		return errorx.Internal(err, "load user for password reset")
	}
	u.RawPassword = req.NewPassword
	if err := s.repos.User.Update(ctx, u); err != nil {
		return errorx.Internal(err, "reset password", zap.String("user_id", u.ID))
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		zap.L().Warn("consume reset code failed", zap.String("user_id", u.ID), zap.Error(err))
	}
	return nil
}

// Logout 吊销当前 token，直到它自然过期
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.ID == "" {
		return errorx.ErrUnauthorized
	}
	// 没有过期时间的 token 永久吊销
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		if ttl = time.Until(claims.ExpiresAt.Time); ttl <= 0 {
			return nil
		}
	}
	if err := s.cache.Set(ctx, myredis.RevokedTokenKey(claims.ID), claims.UserID, ttl); err != nil {
		return errorx.Internal(err, "revoke token", zap.String("user_id", claims.UserID))
	}
	return nil
}

func (s *authService) issue(u *model.User) (*respond.LoginRespond, error) {
	token, _, err := jwt.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		zap.L().Error("generate access token failed", zap.String("user_id", u.ID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.LoginRespond{Token: token, User: respond.NewUserSummary(u)}, nil
}

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
