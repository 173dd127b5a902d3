package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"verwatch/internal/util"
)

// EnvConfig 统一环境变量配置结构
type EnvConfig struct {
	// 服务配置
	Port    string
	GinMode string
	WebDir  string

	// 版本检测配置
	BaseURL       string
	VersionURL    string
	StorageKey    string
	CheckInterval time.Duration
	InitialDelay  time.Duration

	// 构建期配置
	OutputDir    string
	MetadataPath string
	Filename     string
	Debug        bool

	// 存储配置
	StoreKind  string // none | memory | sqlite | mysql | redis
	SQLitePath string
	MySQLDSN   string
	RedisURL   string
	CacheDir   string
}

// LoadFromEnv 从环境变量加载配置并验证
func LoadFromEnv() (*EnvConfig, error) {
	cfg := &EnvConfig{}

	// 服务配置
	cfg.Port = normalizePort(getEnvOrDefault("PORT", DefaultPort))
	cfg.GinMode = os.Getenv("GIN_MODE")
	cfg.WebDir = getEnvOrDefault("VERWATCH_WEB_DIR", DefaultWebDir)

	// 版本检测配置
	cfg.BaseURL = os.Getenv("VERWATCH_BASE_URL")
	cfg.VersionURL = getEnvOrDefault("VERWATCH_VERSION_URL", DefaultVersionURL)
	cfg.StorageKey = getEnvOrDefault("VERWATCH_STORAGE_KEY", DefaultStorageKey)
	cfg.CheckInterval = getDurationMsEnv("VERWATCH_CHECK_INTERVAL", DefaultCheckInterval)
	cfg.InitialDelay = getDurationMsEnv("VERWATCH_INITIAL_DELAY", DefaultInitialDelay)

	// 构建期配置
	cfg.OutputDir = os.Getenv("VERWATCH_OUTPUT_DIR")
	cfg.MetadataPath = getEnvOrDefault("VERWATCH_METADATA", DefaultMetadataFile)
	cfg.Filename = getEnvOrDefault("VERWATCH_FILENAME", DefaultDescriptorFilename)
	cfg.Debug = getBoolEnv("VERWATCH_DEBUG", false)

	// 存储配置
	cfg.StoreKind = strings.ToLower(getEnvOrDefault("VERWATCH_STORE", DefaultStoreKind))
	cfg.SQLitePath = getEnvOrDefault("SQLITE_PATH", DefaultSQLitePath)
	cfg.MySQLDSN = os.Getenv("VERWATCH_MYSQL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.CacheDir = os.Getenv("VERWATCH_CACHE_DIR")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return cfg, nil
}

// Validate 验证配置合法性
func (c *EnvConfig) Validate() error {
	if c.Port != "" && strings.HasPrefix(c.Port, ":") {
		portNum, err := strconv.Atoi(c.Port[1:])
		if err != nil || portNum < 1 || portNum > 65535 {
			return fmt.Errorf("无效端口号: %s", c.Port)
		}
	}

	if c.CheckInterval < time.Second {
		return fmt.Errorf("CheckInterval 过短（至少1s）: %v", c.CheckInterval)
	}
	if c.InitialDelay < 0 {
		return fmt.Errorf("InitialDelay 不能为负: %v", c.InitialDelay)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("StorageKey 不能为空")
	}
	if c.Filename == "" || strings.ContainsAny(c.Filename, `/\`) {
		return fmt.Errorf("Filename 非法: %q", c.Filename)
	}

	switch c.StoreKind {
	case "none", "memory", "sqlite":
	case "mysql":
		if c.MySQLDSN == "" {
			return fmt.Errorf("VERWATCH_STORE=mysql 必须配置 VERWATCH_MYSQL")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("VERWATCH_STORE=redis 必须配置 REDIS_URL")
		}
	default:
		return fmt.Errorf("未知存储后端: %q", c.StoreKind)
	}

	return nil
}

// normalizePort 补全端口前缀冒号
func normalizePort(v string) string {
	if v != "" && !strings.Contains(v, ":") {
		return ":" + v
	}
	return v
}

// 辅助函数：获取环境变量或默认值
func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// 辅助函数：获取布尔环境变量
func getBoolEnv(key string, defaultValue bool) bool {
	return util.ParseBoolDefault(os.Getenv(key), defaultValue)
}

// 辅助函数：获取时长环境变量（纯数字按毫秒，也接受 "5m" 写法）
func getDurationMsEnv(key string, defaultValue time.Duration) time.Duration {
	if d, ok := util.ParseDuration(os.Getenv(key)); ok {
		return d
	}
	return defaultValue
}
