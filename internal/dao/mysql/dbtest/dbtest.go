// Package dbtest 为测试提供基于内存 SQLite 的 Repository，表结构与线上迁移一致
package dbtest

import (
	"fmt"
	"testing"

	dao "parkhya_chat_server/internal/dao/mysql"
	"parkhya_chat_server/internal/dao/mysql/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// OpenDB 每次调用得到一个独立的内存库，测试结束自动关闭
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := dao.Open(sqlite.Open(dsn), "test")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只在连接存活期间存在
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, dao.Migrate(db))
	return db
}

// Open 返回已迁移的 Repository 聚合
func Open(t testing.TB) *repository.Repositories {
	t.Helper()
	return repository.NewRepositories(OpenDB(t))
}
