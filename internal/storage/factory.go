package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"verwatch/internal/config"
	redisstore "verwatch/internal/storage/redis"
	sqlstore "verwatch/internal/storage/sql"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// NewStore 根据配置创建存储实例（工厂模式）
//
// 五种模式（VERWATCH_STORE）：
//   - none：存储不可用，返回 nil（等价于非浏览器环境）
//   - memory：进程内存储
//   - sqlite：本地文件（默认，SQLITE_PATH）
//   - mysql：VERWATCH_MYSQL DSN
//   - redis：REDIS_URL，多实例共享
func NewStore(cfg *config.EnvConfig) (Store, error) {
	switch cfg.StoreKind {
	case "none":
		log.Print("[INFO] 持久化存储未启用，版本比较将始终视为首次访问")
		return nil, nil
	case "memory":
		log.Print("[INFO] 使用内存存储（进程退出后丢失）")
		return NewMemoryStore(), nil
	case "mysql":
		s, err := createMySQLStore(cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("MySQL 初始化失败: %w", err)
		}
		log.Print("[INFO] 使用 MySQL 存储")
		return s, nil
	case "redis":
		s, err := redisstore.NewStore(cfg.RedisURL, config.RedisKeyPrefix, config.RedisOpTimeout)
		if err != nil {
			return nil, fmt.Errorf("Redis 初始化失败: %w", err)
		}
		log.Print("[INFO] 使用 Redis 存储")
		return s, nil
	case "", "sqlite":
		s, err := createSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("SQLite 初始化失败: %w", err)
		}
		log.Printf("[INFO] 使用 SQLite 存储: %s", cfg.SQLitePath)
		return s, nil
	default:
		return nil, fmt.Errorf("未知存储后端: %q", cfg.StoreKind)
	}
}

// CreateSQLiteStore 直接创建 SQLite 存储实例（测试辅助函数）
func CreateSQLiteStore(path string) (Store, error) {
	s, err := createSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// createSQLiteStore 内部函数，返回具体类型
func createSQLiteStore(path string) (*sqlstore.SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil { //nolint:gosec // G301: 数据目录需要进程可写
		return nil, err
	}

	db, err := sql.Open(DialectSQLite.String(), buildSQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("打开SQLite失败: %w", err)
	}

	// 单写者模式：避免 SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(config.SQLiteConnMaxLifetime)

	migrateCtx, cancel := context.WithTimeout(context.Background(), config.StartupMigrationTimeout)
	defer cancel()
	if err := migrate(migrateCtx, db, DialectSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("SQLite迁移失败（超时%v）: %w", config.StartupMigrationTimeout, err)
	}

	return sqlstore.NewSQLStore(db, DialectSQLite.String()), nil
}

// createMySQLStore 内部函数，返回具体类型
func createMySQLStore(dsn string) (*sqlstore.SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MySQL DSN不能为空")
	}

	db, err := sql.Open(DialectMySQL.String(), dsn)
	if err != nil {
		return nil, fmt.Errorf("打开MySQL连接失败: %w", err)
	}

	db.SetMaxOpenConns(config.MySQLMaxOpenConns)
	db.SetMaxIdleConns(config.MySQLMaxOpenConns)
	db.SetConnMaxLifetime(config.SQLiteConnMaxLifetime)

	// 测试连接（带超时，Fail-Fast）
	pingCtx, pingCancel := context.WithTimeout(context.Background(), config.StartupDBPingTimeout)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("MySQL连接测试失败（超时%v）: %w", config.StartupDBPingTimeout, err)
	}

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), config.StartupMigrationTimeout)
	defer migrateCancel()
	if err := migrate(migrateCtx, db, DialectMySQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("MySQL迁移失败（超时%v）: %w", config.StartupMigrationTimeout, err)
	}

	return sqlstore.NewSQLStore(db, DialectMySQL.String()), nil
}

// buildSQLiteDSN 构建SQLite DSN
func buildSQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}
