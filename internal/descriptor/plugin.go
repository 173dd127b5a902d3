package descriptor

import (
	"context"
	"log"
)

// AfterBuildHook 构建完成回调
type AfterBuildHook func(ctx context.Context, stats *BuildStats)

// BuildAPI 构建宿主暴露给插件的注册接口
type BuildAPI interface {
	OnAfterBuild(hook AfterBuildHook)
}

// Plugin 构建插件：构建完成后写入版本描述文件
type Plugin struct {
	writer *Writer
}

// NewPlugin 创建构建插件
func NewPlugin(opts Options) *Plugin {
	return &Plugin{writer: NewWriter(opts)}
}

// Name 插件名称
func (p *Plugin) Name() string {
	return PluginName
}

// Writer 返回底层生成器
func (p *Plugin) Writer() *Writer {
	return p.writer
}

// Setup 在宿主上注册构建完成钩子
func (p *Plugin) Setup(api BuildAPI) {
	api.OnAfterBuild(p.writer.AfterBuild)
}

// Host 最小化的进程内构建宿主（CLI generate 使用）
type Host struct {
	hooks []AfterBuildHook
}

// NewHost 创建构建宿主并安装插件
func NewHost(plugins ...*Plugin) *Host {
	h := &Host{}
	for _, p := range plugins {
		log.Printf("[INFO] 加载构建插件: %s", p.Name())
		p.Setup(h)
	}
	return h
}

// OnAfterBuild 注册构建完成钩子
func (h *Host) OnAfterBuild(hook AfterBuildHook) {
	h.hooks = append(h.hooks, hook)
}

// RunAfterBuild 按注册顺序执行构建完成钩子
func (h *Host) RunAfterBuild(ctx context.Context, stats *BuildStats) {
	for _, hook := range h.hooks {
		hook(ctx, stats)
	}
}
