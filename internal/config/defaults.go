package config

import "time"

// 版本检测默认值
const (
	// DefaultCheckInterval 周期检测间隔（5分钟）
	DefaultCheckInterval = 5 * time.Minute

	// DefaultInitialDelay 首次检测延迟，给应用留出启动时间
	DefaultInitialDelay = 10 * time.Second

	// DefaultVersionURL 版本描述文件URL
	DefaultVersionURL = "/version.json"

	// DefaultStorageKey 持久化存储中的版本键
	DefaultStorageKey = "app_version"

	// AutoStartDelay 适配器自动启动延迟，等待应用树挂载完成
	AutoStartDelay = 100 * time.Millisecond
)

// 构建期默认值
const (
	// DefaultDescriptorFilename 版本描述文件名
	DefaultDescriptorFilename = "version.json"

	// DefaultOutputDir 构建产物目录（未从构建统计中获得时使用）
	DefaultOutputDir = "dist"

	// DefaultMetadataFile 项目元数据文件
	DefaultMetadataFile = "package.json"
)

// HTTP客户端配置常量
const (
	// HTTPRequestTimeout 单次拉取版本描述的超时
	HTTPRequestTimeout = 10 * time.Second

	// HTTPDialTimeout DNS解析+TCP连接建立超时
	HTTPDialTimeout = 5 * time.Second

	// HTTPKeepAliveInterval TCP keepalive间隔
	HTTPKeepAliveInterval = 15 * time.Second

	// HTTPTLSHandshakeTimeout TLS握手超时
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPMaxIdleConns 全局空闲连接池大小（只访问单一host，无需很大）
	HTTPMaxIdleConns = 10

	// HTTPMaxIdleConnsPerHost 单host空闲连接数
	HTTPMaxIdleConnsPerHost = 2

	// HTTPIdleConnTimeout 空闲连接存活时间，略大于检测间隔无意义，取1分钟
	HTTPIdleConnTimeout = 1 * time.Minute
)

// 服务配置常量
const (
	// DefaultPort 默认监听端口
	DefaultPort = ":8080"

	// DefaultWebDir 默认静态目录（即构建产物目录）
	DefaultWebDir = DefaultOutputDir

	// ShutdownTimeout 优雅关闭超时
	ShutdownTimeout = 5 * time.Second
)

// 存储配置常量
const (
	// DefaultStoreKind 默认存储后端
	DefaultStoreKind = "sqlite"

	// DefaultSQLitePath 默认SQLite路径
	DefaultSQLitePath = "data/verwatch.db"

	// SQLiteConnMaxLifetime 连接最大生命周期
	SQLiteConnMaxLifetime = 5 * time.Minute

	// MySQLMaxOpenConns MySQL最大连接数（单键读写，很小即可）
	MySQLMaxOpenConns = 4

	// StartupDBPingTimeout 启动时数据库连通性检测超时
	StartupDBPingTimeout = 5 * time.Second

	// StartupMigrationTimeout 启动时建表超时
	StartupMigrationTimeout = 10 * time.Second

	// RedisKeyPrefix Redis键前缀
	RedisKeyPrefix = "verwatch:"

	// RedisOpTimeout Redis单次操作超时
	RedisOpTimeout = 2 * time.Second
)
