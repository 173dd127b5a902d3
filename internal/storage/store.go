// Package storage 提供客户端持久化存储（等价于浏览器 localStorage）
//
// 版本监控只需要"按键读写一个字符串"，因此接口刻意保持最小。
// 存储不可用（非浏览器环境）用 nil Store 表示：读返回空，写为 no-op。
package storage

import "context"

// Store 键值持久化存储
type Store interface {
	// GetItem 读取键值；键不存在时 ok=false 且 err=nil
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// SetItem 写入键值（覆盖）
	SetItem(ctx context.Context, key, value string) error
	// Close 释放底层连接
	Close() error
}
