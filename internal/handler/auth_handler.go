package handler

import (
	"parkhya_chat_server/internal/dto/request"
	"parkhya_chat_server/internal/service"
	"parkhya_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证相关接口
type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 注册
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, "User registered successfully", data)
}

// Login 邮箱密码登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Login successful", data)
}

// SocialLogin 第三方登录
// POST /api/auth/social-login
func (h *AuthHandler) SocialLogin(c *gin.Context) {
	var req request.SocialLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.SocialLogin(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Login successful", data)
}

// ForgotPassword 申请重置验证码，邮箱是否注册都返回相同结果
// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req request.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "If the email is registered, a reset code has been sent", nil)
}

// ResetPassword POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req request.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.authSvc.ResetPassword(c.Request.Context(), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Password reset successfully", nil)
}

// Logout 吊销当前 token，需要登录
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Logged out successfully", nil)
}
