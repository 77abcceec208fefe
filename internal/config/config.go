// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找，并允许通过环境变量（含 .env 文件）覆盖关键项
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
	"github.com/joho/godotenv"   // .env 文件加载
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName     string   `toml:"appName"`     // 应用名称，用于日志标识等
	Host        string   `toml:"host"`        // 服务器监听地址，如 "0.0.0.0"
	Port        int      `toml:"port"`        // 服务器监听端口，如 8000
	Mode        string   `toml:"mode"`        // 运行模式：dev / release
	AdminEmails []string `toml:"adminEmails"` // 注册时自动授予管理员权限的邮箱
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
	DSN          string `toml:"dsn"`          // 完整 DSN，非空时优先于上面的字段
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`  // 关闭时使用进程内缓存（单机开发）
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// AuthCodeConfig 短信验证码服务配置（阿里云 SMS），用于找回密码
type AuthCodeConfig struct {
	AccessKeyID     string `toml:"accessKeyID"`     // 阿里云 AccessKey ID
	AccessKeySecret string `toml:"accessKeySecret"` // 阿里云 AccessKey Secret
	SignName        string `toml:"signName"`        // 短信签名名称
	TemplateCode    string `toml:"templateCode"`    // 短信模板 Code
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 队列转发（relay）配置
type KafkaConfig struct {
	Enabled            bool     `toml:"enabled"`            // 是否开启队列转发
	Brokers            []string `toml:"brokers"`            // broker 地址列表
	Topic              string   `toml:"topic"`              // 消息主题，默认 messages
	GroupID            string   `toml:"groupId"`            // 消费组，默认 chat-group
	WriteTimeout       int      `toml:"writeTimeout"`       // 单次发布超时（秒）
	BreakerMaxFailures uint32   `toml:"breakerMaxFailures"` // 连续失败多少次后熔断
	BreakerTimeout     int      `toml:"breakerTimeout"`     // 熔断后多久进入半开（秒）
	RelayWorkers       int      `toml:"relayWorkers"`       // 发布协程数
	RelayBuffer        int      `toml:"relayBuffer"`        // 发布队列长度，满了直接丢弃
}

// CorsConfig 跨域配置，同时约束 WebSocket 握手的 Origin
type CorsConfig struct {
	AllowOrigins []string `toml:"allowOrigins"`
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret            string `toml:"secret"`            // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry int    `toml:"accessTokenExpiry"` // Token 有效期（分钟）
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 雪花算法节点 ID，范围 0-1023，分布式部署时每台机器需唯一
}

// RateLimitConfig 认证接口的按 IP 限流配置
type RateLimitConfig struct {
	AuthPerMinute int `toml:"authPerMinute"`
	Burst         int `toml:"burst"`
}

// SecurityConfig 安全响应头配置
type SecurityConfig struct {
	SSLRedirect bool   `toml:"sslRedirect"` // 由 Nginx 终止 TLS 时保持关闭
	SSLHost     string `toml:"sslHost"`
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	AuthCodeConfig  `toml:"authCodeConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	CorsConfig      `toml:"corsConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	RateLimitConfig `toml:"rateLimitConfig"`
	SecurityConfig  `toml:"securityConfig"`
}

// DefaultPaths 候选配置文件路径（优先加载本地配置）
var DefaultPaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml",
	"../../configs/config.toml",
}

var (
	config     *Config
	configOnce sync.Once
)

// Load 按顺序尝试加载配置文件，找到第一个可用的即停止
// 没有任何文件可用时返回纯默认值配置和错误，调用方可以选择忽略该错误
func Load(paths ...string) (*Config, error) {
	// .env 不存在不算错误
	_ = godotenv.Load()

	cfg := new(Config)
	var loadErr error = fmt.Errorf("could not find configuration file in any of the search paths")
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			loadErr = fmt.Errorf("decode %s: %w", path, err)
			break
		}
		loadErr = nil
		break
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, loadErr
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，加载失败时使用默认值
func GetConfig() *Config {
	configOnce.Do(func() {
		config, _ = Load(DefaultPaths...)
	})
	return config
}

// applyEnv 环境变量覆盖
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("KAFKA_ENABLED"); ok {
		cfg.KafkaConfig.Enabled = parseBool(v)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaConfig.Brokers = splitList(v)
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CorsConfig.AllowOrigins = splitList(v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTConfig.Secret = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MainConfig.Port = port
		}
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		cfg.MysqlConfig.DSN = v
	}
	if v, ok := os.LookupEnv("REDIS_ENABLED"); ok {
		cfg.RedisConfig.Enabled = parseBool(v)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.AppName == "" {
		cfg.AppName = "parkhya_chat_server"
	}
	if cfg.MainConfig.Host == "" {
		cfg.MainConfig.Host = "0.0.0.0"
	}
	if cfg.MainConfig.Port == 0 {
		cfg.MainConfig.Port = 8000
	}
	if cfg.Mode == "" {
		cfg.Mode = "dev"
	}
	if cfg.MysqlConfig.Port == 0 {
		cfg.MysqlConfig.Port = 3306
	}
	if cfg.RedisConfig.Port == 0 {
		cfg.RedisConfig.Port = 6379
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "./logs"
	}
	if cfg.KafkaConfig.Topic == "" {
		cfg.KafkaConfig.Topic = "messages"
	}
	if cfg.KafkaConfig.GroupID == "" {
		cfg.KafkaConfig.GroupID = "chat-group"
	}
	if len(cfg.KafkaConfig.Brokers) == 0 {
		cfg.KafkaConfig.Brokers = []string{"localhost:9092"}
	}
	if cfg.KafkaConfig.WriteTimeout <= 0 {
		cfg.KafkaConfig.WriteTimeout = 3
	}
	if cfg.BreakerMaxFailures == 0 {
		cfg.BreakerMaxFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30
	}
	if cfg.RelayWorkers <= 0 {
		cfg.RelayWorkers = 4
	}
	if cfg.RelayBuffer <= 0 {
		cfg.RelayBuffer = 1000
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	if cfg.JWTConfig.Secret == "" {
		cfg.JWTConfig.Secret = "change-me-in-production"
	}
	if cfg.AccessTokenExpiry <= 0 {
		cfg.AccessTokenExpiry = 7 * 24 * 60 // 7 天
	}
	if cfg.AuthPerMinute <= 0 {
		cfg.AuthPerMinute = 30
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
