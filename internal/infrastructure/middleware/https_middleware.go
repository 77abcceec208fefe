package middleware

import (
	"parkhya_chat_server/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// SecureHeaders 安全响应头；开启 sslRedirect 时同时把 HTTP 请求重定向到 HTTPS
func SecureHeaders(cfg config.SecurityConfig, mode string) gin.HandlerFunc {
	// 在返回函数之前初始化，避免每次请求都重复创建对象
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		SSLRedirect:        cfg.SSLRedirect,
		SSLHost:            cfg.SSLHost,
		IsDevelopment:      mode == "dev",
	})

	return func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			// 重定向或被拒绝时 secure 已经写过响应
			zap.L().Warn("secure middleware rejected request", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Abort()
			return
		}
		c.Next()
	}
}
