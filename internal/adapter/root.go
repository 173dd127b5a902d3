// Package adapter 将版本监控器接入带挂载/卸载生命周期的应用根节点
package adapter

import (
	"log"
	"sync"
)

// Root 应用根节点的生命周期注册接口
type Root interface {
	// Provide 依赖注入通道
	Provide(key string, value any)
	Inject(key string) (any, bool)
	// SetGlobal 全局属性通道
	SetGlobal(key string, value any)
	Global(key string) (any, bool)
	// RegisterComponent 按名称注册组件
	RegisterComponent(name string, component any)
	// OnTeardown 卸载前执行的钩子（先于原卸载逻辑）
	OnTeardown(hook func())
}

// App Root 的通用实现
type App struct {
	mu         sync.RWMutex
	provided   map[string]any
	globals    map[string]any
	components map[string]any
	teardown   []func()
	unmount    func()
	mounted    bool
}

// NewApp 创建应用根节点；unmount 为原始卸载逻辑（可为 nil）
func NewApp(unmount func()) *App {
	return &App{
		provided:   make(map[string]any),
		globals:    make(map[string]any),
		components: make(map[string]any),
		unmount:    unmount,
	}
}

// Provide 注入值
func (a *App) Provide(key string, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.provided[key] = value
}

// Inject 读取注入值
func (a *App) Inject(key string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.provided[key]
	return v, ok
}

// SetGlobal 设置全局属性
func (a *App) SetGlobal(key string, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.globals[key] = value
}

// Global 读取全局属性
func (a *App) Global(key string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.globals[key]
	return v, ok
}

// RegisterComponent 注册组件（同名覆盖）
func (a *App) RegisterComponent(name string, component any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.components[name]; exists {
		log.Printf("[WARN] 组件 %s 已注册，将被覆盖", name)
	}
	a.components[name] = component
}

// Component 读取已注册组件
func (a *App) Component(name string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c, ok := a.components[name]
	return c, ok
}

// OnTeardown 注册卸载钩子
func (a *App) OnTeardown(hook func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.teardown = append(a.teardown, hook)
}

// Mount 标记为已挂载
func (a *App) Mount() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mounted = true
}

// Mounted 是否已挂载
func (a *App) Mounted() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mounted
}

// Unmount 逆序执行卸载钩子，再执行原卸载逻辑
// 未挂载时钩子照常执行（插件安装后即可能已在运行），原卸载逻辑只在已挂载时执行；钩子只执行一次
func (a *App) Unmount() {
	a.mu.Lock()
	mounted := a.mounted
	a.mounted = false
	hooks := a.teardown
	a.teardown = nil
	unmount := a.unmount
	a.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
	if mounted && unmount != nil {
		unmount()
	}
}
