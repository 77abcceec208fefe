// Package https_server 提供 HTTP 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件与路由
package https_server

import (
	"net/http"
	"time"

	"parkhya_chat_server/internal/config"
	"parkhya_chat_server/internal/handler"
	"parkhya_chat_server/internal/infrastructure/logger"
	"parkhya_chat_server/internal/infrastructure/metrics"
	"parkhya_chat_server/internal/infrastructure/middleware"
	"parkhya_chat_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options 构建引擎所需的外部依赖
type Options struct {
	Router   *router.Router
	Cors     config.CorsConfig
	Security config.SecurityConfig
	Mode     string
}

// Init 创建 Gin 引擎并返回
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志和恢复中间件
//  3. 安全响应头与 CORS
//  4. 健康检查与指标
//  5. 注册业务路由
func Init(opts Options) *gin.Engine {
	if opts.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))
	engine.Use(middleware.SecureHeaders(opts.Security, opts.Mode))
	engine.Use(cors.New(corsConfig(opts.Cors)))

	engine.GET("/health", func(c *gin.Context) {
		handler.HandleSuccess(c, "ok", gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	opts.Router.RegisterRoutes(engine)
	return engine
}

func corsConfig(cfg config.CorsConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	c.MaxAge = 12 * time.Hour

	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.AllowOrigins
	c.AllowCredentials = true
	return c
}
