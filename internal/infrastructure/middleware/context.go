// Package middleware 提供 gin 中间件：JWT 认证、按 IP 限流、安全响应头
package middleware

import (
	"github.com/gin-gonic/gin"
)

// gin.Context 中的键
const (
	CtxUserIDKey = "user_id"
	CtxClaimsKey = "claims"
)

// abortWithEnvelope 以统一响应结构终止请求
func abortWithEnvelope(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"message": message,
		"error":   true,
		"status":  status,
	})
}
