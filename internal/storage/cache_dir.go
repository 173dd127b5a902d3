package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirCache 基于目录的缓存存储：根目录下每个子目录即一个命名缓存
type DirCache struct {
	root string
}

// NewDirCache 创建目录缓存（根目录可以不存在，视为没有缓存）
func NewDirCache(root string) *DirCache {
	return &DirCache{root: root}
}

// Root 返回缓存根目录
func (c *DirCache) Root() string {
	return c.root
}

// Keys 列出全部缓存名（按名称排序）
func (c *DirCache) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete 删除命名缓存；缓存不存在时返回 false
func (c *DirCache) Delete(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	// 拒绝路径穿越
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return false, fmt.Errorf("invalid cache name: %q", name)
	}

	dir := filepath.Join(c.root, name)
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat cache %s: %w", name, err)
	}
	if !info.IsDir() {
		return false, nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("remove cache %s: %w", name, err)
	}
	return true, nil
}
