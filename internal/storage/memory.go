package storage

import (
	"context"
	"sync"
)

// MemoryStore 进程内存储（测试与一次性命令使用，进程退出即丢失）
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

// GetItem 读取键值
func (m *MemoryStore) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem 写入键值
func (m *MemoryStore) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// Close 无资源需要释放
func (m *MemoryStore) Close() error {
	return nil
}
