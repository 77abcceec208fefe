package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户相关路由（需要认证）
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/users")
	{
		userGroup.POST("", rt.handlers.User.Create) // 仅管理员
		userGroup.GET("", rt.handlers.User.List)
		userGroup.GET("/online", rt.handlers.User.Online) // 在线用户 id 列表
		userGroup.GET("/:userId", rt.handlers.User.Get)
		userGroup.PUT("/:userId", rt.handlers.User.Update)    // 本人或管理员
		userGroup.DELETE("/:userId", rt.handlers.User.Delete) // 仅管理员
	}
}
