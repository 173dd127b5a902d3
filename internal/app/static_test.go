package app

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"verwatch/internal/version"
)

func TestStaticFileServing(t *testing.T) {
	env := newTestServer(t)
	origVersion := version.Version
	defer func() { version.Version = origVersion }()

	t.Run("root_redirects_to_index", func(t *testing.T) {
		w := serveHTTP(t, env.engine, newRequest(http.MethodGet, "/"))
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/web/index.html" {
			t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
		}
	})

	t.Run("descriptor_never_cached", func(t *testing.T) {
		version.Version = "1.0.0"
		w := serveHTTP(t, env.engine, newRequest(http.MethodGet, "/web/version.json"))
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d", w.Code)
		}
		if got := w.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
			t.Fatalf("Cache-Control=%q", got)
		}
	})

	t.Run("html_never_cached", func(t *testing.T) {
		version.Version = "1.0.0"
		w := serveHTTP(t, env.engine, newRequest(http.MethodGet, "/web/index.html"))
		if w.Code != http.StatusOK || w.Body.String() != "<html>app</html>" {
			t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
		}
		if got := w.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
			t.Fatalf("Cache-Control=%q", got)
		}
	})

	t.Run("directory_serves_index", func(t *testing.T) {
		w := serveHTTP(t, env.engine, newRequest(http.MethodGet, "/web/"))
		if w.Code != http.StatusOK || w.Body.String() != "<html>app</html>" {
			t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
		}
	})

	t.Run("assets_long_cache_when_not_dev", func(t *testing.T) {
		version.Version = "1.0.0"
		w := serveHTTP(t, env.engine, newRequest(http.MethodGet, "/web/assets/app.js"))
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d", w.Code)
		}
		if got := w.Header().Get("Cache-Control"); got != "public, max-age=31536000, immutable" {
			t.Fatalf("Cache-Control=%q", got)
		}
	})

	t.Run("assets_no_cache_in_dev", func(t *testing.T) {
		version.Version = "dev"
		w := serveHTTP(t, env.engine, newRequest(http.MethodGet, "/web/assets/app.js"))
		if got := w.Header().Get("Cache-Control"); got != "no-cache, must-revalidate" {
			t.Fatalf("Cache-Control=%q", got)
		}
	})

	t.Run("manifest_short_cache", func(t *testing.T) {
		version.Version = "1.0.0"
		w := serveHTTP(t, env.engine, newRequest(http.MethodGet, "/web/manifest.json"))
		if got := w.Header().Get("Cache-Control"); got != "public, max-age=3600, must-revalidate" {
			t.Fatalf("Cache-Control=%q", got)
		}
	})

	t.Run("missing_file_404", func(t *testing.T) {
		w := serveHTTP(t, env.engine, newRequest(http.MethodGet, "/web/nope.js"))
		if w.Code != http.StatusNotFound {
			t.Fatalf("status=%d", w.Code)
		}
	})

	t.Run("traversal_rejected", func(t *testing.T) {
		w := serveHTTP(t, env.engine, newRequest(http.MethodGet, "/web/../../etc/passwd"))
		if w.Code == http.StatusOK {
			t.Fatalf("traversal served: %q", w.Body.String())
		}
	})
}

func TestStaticFileServing_SymlinkEscape(t *testing.T) {
	env := newTestServer(t)

	outside := filepath.Join(t.TempDir(), "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Symlink(outside, filepath.Join(env.webDir, "leak.txt")); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	w := serveHTTP(t, env.engine, newRequest(http.MethodGet, "/web/leak.txt"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d, want 403", w.Code)
	}
}

func TestIsPathUnder(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "srv", "dist")
	tests := []struct {
		path string
		want bool
	}{
		{base, true},
		{filepath.Join(base, "a", "b.js"), true},
		{filepath.Join(base, "..", "etc"), false},
		{filepath.Join(string(filepath.Separator), "srv", "dist2", "x"), false},
	}
	for _, tt := range tests {
		if got := isPathUnder(tt.path, base); got != tt.want {
			t.Errorf("isPathUnder(%q)=%v, want %v", tt.path, got, tt.want)
		}
	}
}
