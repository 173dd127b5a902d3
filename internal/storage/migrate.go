package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"verwatch/internal/storage/schema"
)

// Dialect 数据库方言
type Dialect int

// Dialect 数据库方言常量
const (
	// DialectSQLite SQLite数据库方言
	DialectSQLite Dialect = iota
	// DialectMySQL MySQL数据库方言
	DialectMySQL
)

// String 返回 database/sql 驱动名
func (d Dialect) String() string {
	if d == DialectMySQL {
		return "mysql"
	}
	return "sqlite"
}

// migrate 统一迁移逻辑（建表 + 索引，幂等）
func migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	tables := []func() *schema.TableBuilder{
		schema.DefineClientStorageTable,
	}

	for _, defineTable := range tables {
		tb := defineTable()

		if _, err := db.ExecContext(ctx, buildDDL(tb, dialect)); err != nil {
			return fmt.Errorf("create %s table: %w", tb.Name(), err)
		}

		for _, idx := range buildIndexes(tb, dialect) {
			if err := createIndex(ctx, db, idx, dialect); err != nil {
				return fmt.Errorf("create index %s: %w", idx.Name, err)
			}
		}
	}

	return nil
}

func buildDDL(tb *schema.TableBuilder, dialect Dialect) string {
	if dialect == DialectMySQL {
		return tb.BuildMySQL()
	}
	return tb.BuildSQLite()
}

func buildIndexes(tb *schema.TableBuilder, dialect Dialect) []schema.IndexDef {
	if dialect == DialectMySQL {
		return tb.GetIndexesMySQL()
	}
	return tb.GetIndexesSQLite()
}

func createIndex(ctx context.Context, db *sql.DB, idx schema.IndexDef, dialect Dialect) error {
	_, err := db.ExecContext(ctx, idx.SQL)
	if err == nil {
		return nil
	}

	// MySQL不支持CREATE INDEX IF NOT EXISTS，忽略重复索引错误
	if dialect == DialectMySQL && strings.Contains(err.Error(), "Duplicate key name") {
		return nil
	}

	return err
}
