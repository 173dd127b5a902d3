package version

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func TestResolve_PrefersInjectedVersion(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "v1.4.0"
	if got := Resolve(); got != "v1.4.0" {
		t.Fatalf("Resolve()=%q, want v1.4.0", got)
	}
}

func TestWriteBanner_NoColor(t *testing.T) {
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	Version, Commit, BuildTime = "test-ver", "test-commit", "test-time"
	defer func() { Version, Commit, BuildTime = origVersion, origCommit, origBuildTime }()

	var buf bytes.Buffer
	writeBanner(&buf, false)

	s := buf.String()
	if strings.Contains(s, "\033[") {
		t.Fatalf("unexpected ANSI codes in plain banner:\n%s", s)
	}
	for _, mustContain := range []string{tagline, "Version:", "test-ver", "Commit:", "test-commit", "Build Time:", "test-time"} {
		if !strings.Contains(s, mustContain) {
			t.Fatalf("banner output missing %q, got:\n%s", mustContain, s)
		}
	}
}

func TestPrintBanner_NonTTY(t *testing.T) {
	// pipe 上 term.IsTerminal 为 false，走非彩色分支
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe failed: %v", err)
	}
	os.Stderr = w
	defer func() {
		os.Stderr = old
		_ = r.Close()
	}()

	PrintBanner()
	_ = w.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read stderr failed: %v", err)
	}
	if strings.Contains(string(out), colorCyan) {
		t.Fatal("expected no color on non-TTY stderr")
	}
	if !strings.Contains(string(out), "Version:") {
		t.Fatalf("banner missing version line:\n%s", out)
	}
}
