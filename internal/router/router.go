// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	myredis "parkhya_chat_server/internal/dao/redis"
	"parkhya_chat_server/internal/handler"
	"parkhya_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 持有注册路由所需的 handler 与中间件依赖
type Router struct {
	handlers    *handler.Handlers
	cache       myredis.CacheService
	authLimiter *middleware.IPRateLimiter
}

// NewRouter authLimiter 为 nil 时认证接口不限流
func NewRouter(handlers *handler.Handlers, cache myredis.CacheService, authLimiter *middleware.IPRateLimiter) *Router {
	return &Router{handlers: handlers, cache: cache, authLimiter: authLimiter}
}

// RegisterRoutes 注册所有路由
// /api 下除登录注册类接口外都需要 JWT
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	rt.RegisterAuthRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(rt.cache))
	{
		rt.RegisterUserRoutes(protected)    // 用户路由
		rt.RegisterMessageRoutes(protected) // 消息路由
		rt.RegisterChannelRoutes(protected) // 频道路由
	}

	rt.RegisterWebSocketRoutes(r)
}
