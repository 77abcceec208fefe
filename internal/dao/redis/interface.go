// Package redis 缓存层：吊销的 token、重置密码验证码、在线用户集合
// Service 只依赖本文件的接口，开发环境可用进程内实现替换 Redis
package redis

import (
	"context"
	"time"
)

// CacheService 缓存读写
type CacheService interface {
	// Set ttl 为 0 表示不过期
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get 键不存在时返回空字符串和 nil
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	AddToSet(ctx context.Context, key string, members ...string) error
	GetSetMembers(ctx context.Context, key string) ([]string, error)
	RemoveFromSet(ctx context.Context, key string, members ...string) error
}

// AsyncCacheService 附带后台任务队列，在线状态之类不要求强一致的写入通过 SubmitTask 异步执行
type AsyncCacheService interface {
	CacheService
	// SubmitTask key 相同的任务按提交顺序执行
	SubmitTask(key string, action func())
}
