package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"verwatch/internal/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestContext 创建用于测试的 gin.Context 和响应记录器
func NewTestContext(t testing.TB, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// NewRequest 创建 HTTP 请求
func NewRequest(method, target string, body []byte) *http.Request {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	return httptest.NewRequest(method, target, reader)
}

// ServeHTTP 执行 HTTP 处理器并返回响应
func ServeHTTP(t testing.TB, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// MustUnmarshalJSON 反序列化 JSON，失败时终止测试
func MustUnmarshalJSON(t testing.TB, b []byte, v any) {
	t.Helper()
	if err := util.UnmarshalJSON(b, v); err != nil {
		t.Fatalf("unmarshal json failed: %v", err)
	}
}

// RoundTripFunc 函数形式的 http.RoundTripper
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip 调用函数本身
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// NewClient 使用给定 RoundTripFunc 创建 HTTP 客户端
func NewClient(fn RoundTripFunc) *http.Client {
	return &http.Client{Transport: fn}
}

// TextResponse 构造响应
func TextResponse(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

// BuildTime 测试服务返回的固定构建时间
const BuildTime = "2025-01-01T00:00:00.000Z"

// DescriptorServer 可切换版本号的 version.json 测试服务
type DescriptorServer struct {
	*httptest.Server

	mu       sync.Mutex
	version  string
	status   int
	delay    time.Duration
	requests atomic.Int64
	last     *http.Request
}

// NewDescriptorServer 启动测试服务（测试结束自动关闭）
func NewDescriptorServer(t testing.TB, version string) *DescriptorServer {
	t.Helper()

	ds := &DescriptorServer{version: version, status: http.StatusOK}
	ds.Server = httptest.NewServer(http.HandlerFunc(ds.serve))
	t.Cleanup(ds.Close)
	return ds
}

func (ds *DescriptorServer) serve(w http.ResponseWriter, r *http.Request) {
	ds.requests.Add(1)

	ds.mu.Lock()
	ds.last = r.Clone(r.Context())
	version, status, delay := ds.version, ds.status, ds.delay
	ds.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}

	body, _ := util.MarshalJSON(struct {
		Version   string `json:"version"`
		BuildTime string `json:"buildTime"`
	}{version, BuildTime})
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// SetVersion 切换远端版本
func (ds *DescriptorServer) SetVersion(v string) {
	ds.mu.Lock()
	ds.version = v
	ds.mu.Unlock()
}

// SetStatus 切换响应状态码（非200返回错误页）
func (ds *DescriptorServer) SetStatus(status int) {
	ds.mu.Lock()
	ds.status = status
	ds.mu.Unlock()
}

// SetDelay 设置响应前的等待时间（模拟慢速源站）
func (ds *DescriptorServer) SetDelay(d time.Duration) {
	ds.mu.Lock()
	ds.delay = d
	ds.mu.Unlock()
}

// Requests 已收到的请求数
func (ds *DescriptorServer) Requests() int64 {
	return ds.requests.Load()
}

// LastRequest 最近一次请求
func (ds *DescriptorServer) LastRequest() *http.Request {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.last
}

// DescriptorURL 版本描述文件地址
func (ds *DescriptorServer) DescriptorURL() string {
	return ds.Server.URL + "/version.json"
}
