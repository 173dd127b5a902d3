package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"verwatch/internal/storage"
)

// SetupTestStore 创建一个用于测试的 SQLite 存储实例
// 返回 store 实例和 cleanup 函数
// 使用方式：store, cleanup := testutil.SetupTestStore(t); defer cleanup()
func SetupTestStore(t testing.TB) (storage.Store, func()) {
	t.Helper()

	store, err := storage.CreateSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("创建测试数据库失败: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// FailingStore 所有操作都返回固定错误的存储
type FailingStore struct {
	Err error
}

// GetItem 返回固定错误
func (s FailingStore) GetItem(context.Context, string) (string, bool, error) {
	return "", false, s.Err
}

// SetItem 返回固定错误
func (s FailingStore) SetItem(context.Context, string, string) error {
	return s.Err
}

// Close 无操作
func (s FailingStore) Close() error { return nil }
