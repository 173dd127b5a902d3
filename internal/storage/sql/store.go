package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLStore 通用SQL键值存储实现
// 支持 SQLite 和 MySQL（仅 upsert 语法不同）
type SQLStore struct {
	db      *sql.DB
	dialect string // "sqlite" | "mysql"
}

// NewSQLStore 创建通用SQL存储实例
// db: 数据库连接（由调用方初始化并完成建表）
func NewSQLStore(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// Dialect 返回数据库方言
func (s *SQLStore) Dialect() string {
	return s.dialect
}

// GetItem 读取键值
func (s *SQLStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT `value` FROM client_storage WHERE `key` = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query client_storage: %w", err)
	}
	return value, true, nil
}

// SetItem 写入键值（upsert，最后写入者胜出）
func (s *SQLStore) SetItem(ctx context.Context, key, value string) error {
	now := time.Now().Unix()

	var query string
	if s.dialect == "mysql" {
		query = "INSERT INTO client_storage (`key`, `value`, updated_at) VALUES (?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE `value` = VALUES(`value`), updated_at = VALUES(updated_at)"
	} else {
		query = "INSERT INTO client_storage (`key`, `value`, updated_at) VALUES (?, ?, ?) " +
			"ON CONFLICT(`key`) DO UPDATE SET `value` = excluded.`value`, updated_at = excluded.updated_at"
	}

	if _, err := s.db.ExecContext(ctx, query, key, value, now); err != nil {
		return fmt.Errorf("upsert client_storage: %w", err)
	}
	return nil
}

// UpdatedAt 返回键最后写入时间（键不存在返回零值）
func (s *SQLStore) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var unix int64
	err := s.db.QueryRowContext(ctx,
		"SELECT updated_at FROM client_storage WHERE `key` = ?", key,
	).Scan(&unix)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query updated_at: %w", err)
	}
	return time.Unix(unix, 0), nil
}

// Close 关闭数据库连接
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
