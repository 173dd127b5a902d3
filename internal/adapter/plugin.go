package adapter

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"verwatch/internal/config"
	"verwatch/internal/errors"
	"verwatch/internal/model"
	"verwatch/internal/monitor"
)

// 根节点上使用的固定键名
const (
	PluginKey                 = "versionCheck"
	GlobalInstanceKey         = "$versionCheck"
	GlobalUpdateKey           = "$versionUpdate"
	NotificationComponentName = "VersionUpdateNotification"
)

// Options 适配器配置
type Options struct {
	monitor.Options

	// NotificationComponent 非空时注册为 VersionUpdateNotification
	NotificationComponent any
	// AutoStart 安装后自动启动，默认 true
	AutoStart *bool
	// InstallGlobalProperties 暴露 $versionCheck 全局属性，默认 true
	InstallGlobalProperties *bool
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Plugin 版本检测插件（每个应用根节点一个实例）
type Plugin struct {
	mon  *monitor.Monitor
	opts Options
}

// NewPlugin 创建插件
func NewPlugin(mon *monitor.Monitor, opts Options) *Plugin {
	return &Plugin{mon: mon, opts: opts}
}

// Install 安装到应用根节点；重复安装只告警并返回已有实例
func (p *Plugin) Install(root Root) (*Instance, error) {
	if root == nil {
		return nil, fmt.Errorf("install %s: root is nil", PluginKey)
	}
	if p.mon == nil {
		return nil, errors.MissingConfigError("monitor")
	}

	if installed, ok := root.Global(PluginKey); ok && installed == true {
		log.Print("[VersionCheck] Plugin already installed")
		inst, _ := lookupInstance(root)
		return inst, nil
	}
	root.SetGlobal(PluginKey, true)

	inst := newInstance(p.mon, root, p.opts.Options)

	if boolOr(p.opts.InstallGlobalProperties, true) {
		root.SetGlobal(GlobalInstanceKey, inst)
	}
	root.Provide(PluginKey, inst)

	if p.opts.NotificationComponent != nil {
		root.RegisterComponent(NotificationComponentName, p.opts.NotificationComponent)
	}

	if boolOr(p.opts.AutoStart, true) {
		inst.scheduleAutoStart(config.AutoStartDelay)
	}

	root.OnTeardown(inst.Stop)
	return inst, nil
}

// UseVersionCheck 从根节点取出已安装的实例
func UseVersionCheck(root Root) (*Instance, error) {
	inst, ok := lookupInstance(root)
	if !ok {
		return nil, errors.NotInstalledError(PluginKey)
	}
	return inst, nil
}

func lookupInstance(root Root) (*Instance, bool) {
	if root == nil {
		return nil, false
	}
	v, ok := root.Inject(PluginKey)
	if !ok {
		return nil, false
	}
	inst, ok := v.(*Instance)
	return inst, ok
}

// Instance 绑定到某个根节点的监控实例
type Instance struct {
	mon      *monitor.Monitor
	root     Root
	opts     monitor.Options
	onUpdate func(model.UpdateInfo)

	mu         sync.Mutex
	schedule   *monitor.Schedule
	cancelInit context.CancelFunc
	autoStart  *time.Timer
	lastUpdate *model.UpdateInfo
	wg         sync.WaitGroup
}

func newInstance(mon *monitor.Monitor, root Root, opts monitor.Options) *Instance {
	opts = opts.WithDefaults()
	inst := &Instance{
		mon:      mon,
		root:     root,
		onUpdate: opts.OnUpdateAvailable,
	}
	opts.OnUpdateAvailable = inst.handleUpdate
	inst.opts = opts
	return inst
}

// scheduleAutoStart 延迟启动，等待应用树挂载完成；Stop 会取消尚未触发的启动
func (i *Instance) scheduleAutoStart(delay time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		i.mu.Lock()
		if i.autoStart != t {
			i.mu.Unlock()
			return
		}
		i.autoStart = nil
		i.mu.Unlock()
		i.Start()
	})
	i.autoStart = t
}

// Start 开始周期检测；已在运行时只告警
func (i *Instance) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.schedule != nil {
		log.Print("[VersionCheck] Already started")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	i.cancelInit = cancel

	check := i.opts.CheckOptions()
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		i.mon.InitializeVersion(ctx, check)
	}()

	s := i.mon.StartSchedule(ctx, i.opts)
	i.schedule = s

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		<-s.Done()
		s.Wait()
	}()
}

// Stop 停止周期检测（幂等）
func (i *Instance) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.autoStart != nil {
		i.autoStart.Stop()
		i.autoStart = nil
	}
	if i.schedule == nil {
		return
	}
	i.schedule.Cancel()
	i.cancelInit()
	i.schedule = nil
	i.cancelInit = nil
}

// Wait 等待后台初始化与进行中的检测结束（在 Stop 之后调用）
func (i *Instance) Wait() {
	i.wg.Wait()
}

// CheckNow 立即检测一次（不经过调度），错误直接返回
func (i *Instance) CheckNow(ctx context.Context) (*model.CheckResult, error) {
	return i.mon.CheckForUpdates(ctx, i.opts.CheckOptions())
}

// Running 是否正在周期检测
func (i *Instance) Running() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.schedule != nil
}

// LastUpdate 最近一次发现的新版本
func (i *Instance) LastUpdate() (model.UpdateInfo, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.lastUpdate == nil {
		return model.UpdateInfo{}, false
	}
	return *i.lastUpdate, true
}

// StorageKey 持久化存储键
func (i *Instance) StorageKey() string {
	return i.opts.StorageKey
}

// handleUpdate 自定义回调优先，否则写入全局属性 $versionUpdate
func (i *Instance) handleUpdate(info model.UpdateInfo) {
	i.mu.Lock()
	i.lastUpdate = &info
	i.mu.Unlock()

	if i.onUpdate != nil {
		i.onUpdate(info)
		return
	}
	i.root.SetGlobal(GlobalUpdateKey, info)
}
