package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterChannelRoutes 注册频道相关路由（需要认证）
func (rt *Router) RegisterChannelRoutes(rg *gin.RouterGroup) {
	channelGroup := rg.Group("/channels")
	{
		channelGroup.POST("", rt.handlers.Channel.Create)
		channelGroup.GET("", rt.handlers.Channel.List)
		channelGroup.GET("/:channelId", rt.handlers.Channel.Get)
		channelGroup.PUT("/:channelId", rt.handlers.Channel.Update)
		channelGroup.DELETE("/:channelId", rt.handlers.Channel.Delete) // 仅创建者
		channelGroup.POST("/:channelId/members", rt.handlers.Channel.AddMember)
		channelGroup.DELETE("/:channelId/members/:userId", rt.handlers.Channel.RemoveMember)
		channelGroup.GET("/:channelId/messages", rt.handlers.Channel.Messages)
	}
}
