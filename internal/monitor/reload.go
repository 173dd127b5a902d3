package monitor

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// CacheStorage 可枚举、可删除的命名缓存（storage.DirCache 实现）
type CacheStorage interface {
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) (bool, error)
}

// Reloader 强制刷新动作（从服务端重新加载）
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloaderFunc 函数适配器
type ReloaderFunc func(ctx context.Context) error

// Reload 调用函数本身
func (f ReloaderFunc) Reload(ctx context.Context) error {
	return f(ctx)
}

// ForceReload 尽力清空全部缓存后无条件执行刷新
// 缓存清理失败只记录日志，调用方无法区分；未配置 Reloader 时无需刷新。
func (m *Monitor) ForceReload(ctx context.Context) error {
	if m.cache != nil {
		m.clearCaches(ctx)
	}

	if m.reloader == nil {
		return nil
	}
	return m.reloader.Reload(ctx)
}

// clearCaches 并发删除全部缓存
func (m *Monitor) clearCaches(ctx context.Context) {
	names, err := m.cache.Keys(ctx)
	if err != nil {
		log.Printf("[VersionCheck] 枚举缓存失败: %v", err)
		return
	}

	var g errgroup.Group
	for _, name := range names {
		g.Go(func() error {
			if _, err := m.cache.Delete(ctx, name); err != nil {
				log.Printf("[VersionCheck] 删除缓存 %s 失败: %v", name, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// CommandReloader 通过执行外部命令刷新（如重启前端容器、通知浏览器刷新）
type CommandReloader struct {
	Name string
	Args []string
}

// Reload 执行命令，输出透传到当前进程
func (r CommandReloader) Reload(ctx context.Context) error {
	if r.Name == "" {
		return fmt.Errorf("reload command is empty")
	}
	cmd := exec.CommandContext(ctx, r.Name, r.Args...) //nolint:gosec // G204: 命令来自操作者配置
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("reload command %s: %w", r.Name, err)
	}
	return nil
}
