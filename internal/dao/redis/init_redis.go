// Package redis 提供缓存服务的 Redis 与进程内实现
// Redis 客户端使用 github.com/redis/go-redis/v9
package redis

import (
	"context"
	"strconv"
	"time"

	"parkhya_chat_server/internal/config"
	"parkhya_chat_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	workerNum    = 15
	taskChanSize = 3000
)

// Init 根据配置创建缓存服务
// Redis 关闭时返回进程内缓存；开启时连接失败直接返回错误
func Init(cfg config.RedisConfig) (AsyncCacheService, error) {
	if !cfg.Enabled {
		zap.L().Info("redis disabled, using in-process cache")
		return NewMemoryCache(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.Db,
		PoolSize:     50, // 最大连接数
		MinIdleConns: 15, // 最小空闲连接，与 Worker 数量匹配
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errorx.Wrapf(err, errorx.CodeCacheError, "redis ping %s:%d", cfg.Host, cfg.Port)
	}
	return NewRedisCache(client, workerNum, taskChanSize), nil
}
