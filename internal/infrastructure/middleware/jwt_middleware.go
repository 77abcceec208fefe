package middleware

import (
	"net/http"
	"strings"

	myredis "parkhya_chat_server/internal/dao/redis"
	"parkhya_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuth JWT 认证中间件
// 验证 Access Token、检查是否已登出，并将用户信息存入上下文
func JWTAuth(cache myredis.CacheService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 Header 获取 Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithEnvelope(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		// 2. 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithEnvelope(c, http.StatusUnauthorized, "Invalid authorization header, use Bearer token")
			return
		}

		// 3. 验证 Token
		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			abortWithEnvelope(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// 4. 验证是否为 Access Token
		if claims.Subject != jwt.AccessSubject {
			abortWithEnvelope(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// 5. 已登出的 Token；缓存不可用时放行，只记录日志
		if claims.ID != "" {
			revoked, err := cache.Get(c.Request.Context(), myredis.RevokedTokenKey(claims.ID))
			if err != nil {
				zap.L().Error("check token revocation", zap.String("jti", claims.ID), zap.Error(err))
			} else if revoked != "" {
				abortWithEnvelope(c, http.StatusUnauthorized, "Token has been revoked")
				return
			}
		}

		// 6. 将用户信息存入上下文，供后续 Handler 使用
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}
