package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"verwatch/internal/adapter"
	"verwatch/internal/monitor"
	"verwatch/internal/storage"
	"verwatch/internal/testutil"

	"github.com/gin-gonic/gin"
)

func serveHTTP(t testing.TB, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	return testutil.ServeHTTP(t, h, req)
}

func newRequest(method, target string) *http.Request {
	return testutil.NewRequest(method, target, nil)
}

func mustUnmarshalJSON(t testing.TB, b []byte, v any) {
	testutil.MustUnmarshalJSON(t, b, v)
}

func writeWebFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

type testEnv struct {
	srv    *Server
	engine *gin.Engine
	ds     *testutil.DescriptorServer
	webDir string
	store  storage.Store
}

// newTestServer 构建产物目录 + 远端版本服务 + 内存存储（不自动启动监控）
func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	webDir := t.TempDir()
	writeWebFile(t, webDir, "index.html", "<html>app</html>")
	writeWebFile(t, webDir, "version.json", "{\n  \"version\": \"1.4.0\",\n  \"buildTime\": \"2025-02-02T00:00:00.000Z\"\n}")
	writeWebFile(t, webDir, "assets/app.js", "console.log('app')")
	writeWebFile(t, webDir, "manifest.json", `{"name":"app"}`)

	ds := testutil.NewDescriptorServer(t, "1.4.0")
	store := storage.NewMemoryStore()
	autoStart := false

	srv, err := NewServer(Config{
		WebDir:  webDir,
		Monitor: monitor.New(store),
		Plugin: adapter.Options{
			Options: monitor.Options{
				VersionURL:    ds.DescriptorURL(),
				InitialDelay:  -1,
				CheckInterval: time.Hour,
			},
			AutoStart: &autoStart,
		},
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() {
		srv.root.Unmount()
		srv.inst.Wait()
	})

	return &testEnv{
		srv:    srv,
		engine: srv.NewEngine(),
		ds:     ds,
		webDir: webDir,
		store:  store,
	}
}
