package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkhya_chat_server/internal/config"
	dao "parkhya_chat_server/internal/dao/mysql"
	myredis "parkhya_chat_server/internal/dao/redis"
	"parkhya_chat_server/internal/gateway/websocket"
	"parkhya_chat_server/internal/handler"
	"parkhya_chat_server/internal/https_server"
	"parkhya_chat_server/internal/infrastructure/logger"
	"parkhya_chat_server/internal/infrastructure/metrics"
	"parkhya_chat_server/internal/infrastructure/middleware"
	mq "parkhya_chat_server/internal/infrastructure/mq"
	"parkhya_chat_server/internal/infrastructure/sms"
	"parkhya_chat_server/internal/router"
	"parkhya_chat_server/internal/service"
	"parkhya_chat_server/internal/service/chat"
	"parkhya_chat_server/pkg/util/jwt"
	"parkhya_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置，找不到配置文件时使用默认值继续启动
	conf, err := config.Load(config.DefaultPaths...)
	if err != nil {
		log.Printf("load config: %v, falling back to defaults", err)
	}

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer zap.L().Sync()
	zap.L().Info("日志初始化成功", zap.String("app", conf.AppName))

	// 3. 基础组件
	jwt.Init(conf.JWTConfig.Secret, conf.AccessTokenExpiry)
	if err := snowflake.Init(conf.SnowflakeConfig.MachineID); err != nil {
		zap.L().Fatal("init snowflake failed", zap.Error(err))
	}
	metrics.Init()
	if err := handler.InitTrans("en"); err != nil {
		zap.L().Fatal("init validator translations failed", zap.Error(err))
	}

	// 4. 初始化数据库
	_, repos, err := dao.Init(conf.MysqlConfig, conf.Mode)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}
	zap.L().Info("数据库初始化成功")

	// 5. 初始化缓存
	cache, err := myredis.Init(conf.RedisConfig)
	if err != nil {
		zap.L().Fatal("Redis 初始化失败", zap.Error(err))
	}

	// 6. 初始化 SMS
	sender, err := sms.Init(conf.AuthCodeConfig)
	if err != nil {
		zap.L().Fatal("SMS Service 初始化失败", zap.Error(err))
	}

	// 7. 扇出：Hub 负责本机连接，Bridge 负责直发与队列转发
	publisher, subscriber := mq.Init(conf.KafkaConfig)
	hub := websocket.NewHub()
	bridge := chat.NewBridge(hub, publisher, conf.RelayWorkers, conf.RelayBuffer)

	// 8. Service 与网关
	services := service.NewServices(service.Deps{
		Repos:       repos,
		Cache:       cache,
		SMS:         sender,
		Broadcaster: bridge,
		AdminEmails: conf.AdminEmails,
	})
	gateway := websocket.NewGateway(hub, services.Presence, handler.NewSocketInbound(services.Message), conf.AllowOrigins)

	ctx, stop := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	if subscriber != nil {
		consumer := chat.NewRelayConsumer(hub, subscriber)
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zap.L().Error("relay consumer exited", zap.Error(err))
			}
		}()
	} else {
		close(consumerDone)
	}

	// 9. HTTP 服务
	authLimiter := middleware.NewIPRateLimiter(conf.AuthPerMinute, conf.Burst)
	engine := https_server.Init(https_server.Options{
		Router:   router.NewRouter(handler.NewHandlers(services, gateway), cache, authLimiter),
		Cors:     conf.CorsConfig,
		Security: conf.SecurityConfig,
		Mode:     conf.Mode,
	})
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("http shutdown", zap.Error(err))
	}

	stop()
	<-consumerDone
	// 先断开连接并补发下线，再关闭扇出桥
	gateway.Close(shutdownCtx)
	bridge.Close()
	authLimiter.Stop()
	closeQuietly("publisher", publisher)
	closeQuietly("subscriber", subscriber)
	if c, ok := cache.(io.Closer); ok {
		closeQuietly("cache", c)
	}

	zap.L().Info("服务器已关闭")
}

func closeQuietly(name string, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		zap.L().Warn("close "+name+" failed", zap.Error(err))
	}
}
