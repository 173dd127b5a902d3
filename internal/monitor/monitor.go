// Package monitor 运行期版本监控：拉取版本描述、与持久化版本比较、周期检测
package monitor

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"verwatch/internal/errors"
	"verwatch/internal/model"
	"verwatch/internal/storage"
	"verwatch/internal/util"
)

// maxDescriptorSize 版本描述响应体上限
const maxDescriptorSize = 1 << 20

// Monitor 版本监控器
type Monitor struct {
	store    storage.Store
	client   *http.Client
	now      func() time.Time
	baseURL  string
	cache    CacheStorage
	reloader Reloader
}

// New 创建版本监控器；store 为 nil 表示没有可用的持久化存储
func New(store storage.Store, opts ...Option) *Monitor {
	m := &Monitor{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.client == nil {
		m.client = NewHTTPClient()
	}
	return m
}

// CurrentVersion 读取持久化的版本；存储不可用或未存储时返回 nil
func (m *Monitor) CurrentVersion(ctx context.Context, storageKey string) (*string, error) {
	if m.store == nil {
		return nil, nil
	}
	v, ok, err := m.store.GetItem(ctx, storageKey)
	if err != nil {
		return nil, errors.StorageError("get", storageKey, err)
	}
	if !ok {
		return nil, nil
	}
	return &v, nil
}

// SetCurrentVersion 写入持久化版本；存储不可用时为 no-op
func (m *Monitor) SetCurrentVersion(ctx context.Context, version, storageKey string) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.SetItem(ctx, storageKey, version); err != nil {
		return errors.StorageError("set", storageKey, err)
	}
	return nil
}

// FetchLatestVersion 拉取最新版本描述（附加 t=<毫秒时间戳> 与 no-cache 头绕过缓存）
func (m *Monitor) FetchLatestVersion(ctx context.Context, versionURL string) (*model.VersionDescriptor, error) {
	target, err := m.resolve(versionURL)
	if err != nil {
		return nil, errors.FetchError(util.RedactURL(versionURL), err)
	}
	logURL := util.RedactURL(target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cacheBust(target, m.now()), nil)
	if err != nil {
		return nil, errors.FetchError(logURL, err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errors.FetchError(logURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 排空响应体以复用连接
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDescriptorSize))
		return nil, errors.FetchStatusError(logURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptorSize))
	if err != nil {
		return nil, errors.FetchError(logURL, err)
	}

	var desc model.VersionDescriptor
	if err := util.UnmarshalJSON(body, &desc); err != nil {
		return nil, errors.ParseError(logURL, err)
	}
	if desc.Version == "" {
		return nil, errors.ParseError(logURL, fmt.Errorf("missing version field"))
	}
	return &desc, nil
}

// CheckForUpdates 比较持久化版本与最新版本
// 仅当已存储版本存在且与最新版本不同时 HasUpdate 为 true
func (m *Monitor) CheckForUpdates(ctx context.Context, opts CheckOptions) (*model.CheckResult, error) {
	opts = opts.withDefaults()

	current, err := m.CurrentVersion(ctx, opts.StorageKey)
	if err != nil {
		return nil, err
	}

	latest, err := m.FetchLatestVersion(ctx, opts.URL)
	if err != nil {
		return nil, err
	}

	return &model.CheckResult{
		HasUpdate:      current != nil && *current != latest.Version,
		CurrentVersion: current,
		LatestVersion:  latest.Version,
		BuildTime:      latest.BuildTime,
	}, nil
}

// InitializeVersion 首次加载时记录版本
// 仅在未存储或已存储版本等于最新版本时写入；过期的存储版本保持不变，留给周期检测触发更新通知。
// 错误只记录日志。
func (m *Monitor) InitializeVersion(ctx context.Context, opts CheckOptions) {
	if err := m.initializeVersion(ctx, opts.withDefaults()); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("[VersionCheck] 初始化版本失败: %v", err)
	}
}

func (m *Monitor) initializeVersion(ctx context.Context, opts CheckOptions) error {
	latest, err := m.FetchLatestVersion(ctx, opts.URL)
	if err != nil {
		return err
	}

	stored, err := m.CurrentVersion(ctx, opts.StorageKey)
	if err != nil {
		return err
	}

	if stored == nil || *stored == "" || *stored == latest.Version {
		return m.SetCurrentVersion(ctx, latest.Version, opts.StorageKey)
	}
	return nil
}

// resolve 相对URL基于 baseURL 解析
func (m *Monitor) resolve(raw string) (string, error) {
	if m.baseURL == "" {
		return raw, nil
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return raw, nil
	}
	base, err := url.Parse(m.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// cacheBust 追加 t=<毫秒时间戳> 查询参数（已有查询串时用 & 连接）
func cacheBust(raw string, now time.Time) string {
	fragment := ""
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw, fragment = raw[:i], raw[i:]
	}
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + "t=" + strconv.FormatInt(now.UnixMilli(), 10) + fragment
}
