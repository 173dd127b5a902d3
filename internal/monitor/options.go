package monitor

import (
	"net/http"
	"time"

	"verwatch/internal/config"
	"verwatch/internal/model"
)

// Options 周期检测配置（零值字段使用默认值）
type Options struct {
	// CheckInterval 周期检测间隔，默认5分钟
	CheckInterval time.Duration
	// InitialDelay 首次检测延迟，默认10秒；负值表示立即检测
	InitialDelay time.Duration
	// VersionURL 版本描述URL，默认 /version.json
	VersionURL string
	// StorageKey 持久化存储键，默认 app_version
	StorageKey string
	// OnUpdateAvailable 发现新版本时回调（可能在多个goroutine中并发调用）
	OnUpdateAvailable func(info model.UpdateInfo)
}

// WithDefaults 填充零值字段（幂等）
func (o Options) WithDefaults() Options {
	if o.CheckInterval <= 0 {
		o.CheckInterval = config.DefaultCheckInterval
	}
	if o.InitialDelay == 0 {
		o.InitialDelay = config.DefaultInitialDelay
	}
	if o.VersionURL == "" {
		o.VersionURL = config.DefaultVersionURL
	}
	if o.StorageKey == "" {
		o.StorageKey = config.DefaultStorageKey
	}
	return o
}

// CheckOptions 返回单次检测使用的 URL 与存储键
func (o Options) CheckOptions() CheckOptions {
	return CheckOptions{URL: o.VersionURL, StorageKey: o.StorageKey}.withDefaults()
}

// CheckOptions 单次检测配置
type CheckOptions struct {
	URL        string
	StorageKey string
}

func (o CheckOptions) withDefaults() CheckOptions {
	if o.URL == "" {
		o.URL = config.DefaultVersionURL
	}
	if o.StorageKey == "" {
		o.StorageKey = config.DefaultStorageKey
	}
	return o
}

// Option 监控器构造选项
type Option func(*Monitor)

// WithHTTPClient 自定义HTTP客户端
func WithHTTPClient(client *http.Client) Option {
	return func(m *Monitor) {
		if client != nil {
			m.client = client
		}
	}
}

// WithClock 自定义时钟（影响缓存穿透参数 t）
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// WithBaseURL 相对的版本描述URL基于此地址解析
func WithBaseURL(base string) Option {
	return func(m *Monitor) {
		m.baseURL = base
	}
}

// WithCacheStorage 设置强制刷新时要清空的缓存存储
func WithCacheStorage(cache CacheStorage) Option {
	return func(m *Monitor) {
		m.cache = cache
	}
}

// WithReloader 设置强制刷新动作
func WithReloader(r Reloader) Option {
	return func(m *Monitor) {
		m.reloader = r
	}
}
