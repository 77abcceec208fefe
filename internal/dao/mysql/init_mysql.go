// Package dao 负责建立数据库连接、自动迁移表结构并构造 Repository 层
package dao

import (
	"fmt"
	"time"

	"parkhya_chat_server/internal/config"
	"parkhya_chat_server/internal/dao/mysql/repository"
	"parkhya_chat_server/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models 需要迁移的实体，按外键依赖顺序排列
var Models = []any{
	&model.User{},
	&model.Channel{},
	&model.ChannelMember{},
	&model.Message{},
	&model.MessageSeen{},
	&model.MessageReaction{},
}

// DSN 根据配置拼接 MySQL 连接串，cfg.DSN 非空时直接使用
func DSN(cfg config.MysqlConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DatabaseName,
	)
}

// Init 连接 MySQL、执行迁移并返回 Repository 聚合
func Init(cfg config.MysqlConfig, mode string) (*gorm.DB, *repository.Repositories, error) {
	db, err := Open(mysql.Open(DSN(cfg)), mode)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, nil, err
	}
	zap.L().Info("mysql connected", zap.String("database", cfg.DatabaseName))
	return db, repository.NewRepositories(db), nil
}

// Open 用给定的方言打开 gorm 连接
// TranslateError 让驱动把唯一键冲突翻译为 gorm.ErrDuplicatedKey
func Open(dialector gorm.Dialector, mode string) (*gorm.DB, error) {
	level := gormlogger.Warn
	if mode == "dev" {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Migrate 自动迁移表结构（只增不删）
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
