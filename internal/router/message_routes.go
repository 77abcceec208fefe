// Package router 提供 HTTP 路由注册
// 本文件定义消息相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册消息相关路由（需要认证）
// 包括收发、编辑删除、已读回执和表情回应
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messageGroup := rg.Group("/messages")
	{
		messageGroup.POST("", rt.handlers.Message.Send)
		messageGroup.GET("", rt.handlers.Message.List)
		messageGroup.PUT("/seen/:messageId", rt.handlers.Message.MarkSeen)
		messageGroup.GET("/seen/:messageId", rt.handlers.Message.SeenUsers)
		messageGroup.PUT("/:messageId", rt.handlers.Message.Update)
		messageGroup.DELETE("/:messageId", rt.handlers.Message.Delete)
		messageGroup.POST("/:messageId/reactions", rt.handlers.Message.AddReaction)
		messageGroup.GET("/:messageId/reactions", rt.handlers.Message.Reactions)
	}
}
