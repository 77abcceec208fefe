package handler

import (
	"parkhya_chat_server/internal/dto/respond"
	"parkhya_chat_server/internal/infrastructure/middleware"
	"parkhya_chat_server/pkg/errorx"
	"parkhya_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// currentUserID JWT 中间件写入的用户 id
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

func currentClaims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(middleware.CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

// messageIDParam 解析路径中的 messageId，非法时已写好错误响应
func messageIDParam(c *gin.Context) (int64, bool) {
	id, ok := respond.ParseMessageID(c.Param("messageId"))
	if !ok {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "Invalid message id"))
	}
	return id, ok
}
