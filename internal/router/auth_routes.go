// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"parkhya_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由，整组按 IP 限流
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	if rt.authLimiter != nil {
		authGroup.Use(rt.authLimiter.Handler())
	}
	{
		authGroup.POST("/register", rt.handlers.Auth.Register)
		authGroup.POST("/login", rt.handlers.Auth.Login)
		authGroup.POST("/social-login", rt.handlers.Auth.SocialLogin)
		authGroup.POST("/forgot-password", rt.handlers.Auth.ForgotPassword)
		authGroup.POST("/reset-password", rt.handlers.Auth.ResetPassword)
		authGroup.POST("/logout", middleware.JWTAuth(rt.cache), rt.handlers.Auth.Logout) // 吊销当前 token
	}
}
