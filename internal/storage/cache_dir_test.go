package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDirCache_KeysAndDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	for _, name := range []string{"workbox-precache", "assets-v1"} {
		if err := os.MkdirAll(filepath.Join(root, name), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	// 普通文件不是缓存
	if err := os.WriteFile(filepath.Join(root, "README"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	c := NewDirCache(root)
	keys, err := c.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "assets-v1" || keys[1] != "workbox-precache" {
		t.Fatalf("Keys=%v", keys)
	}

	deleted, err := c.Delete(ctx, "assets-v1")
	if err != nil || !deleted {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", deleted, err)
	}
	if _, err := os.Stat(filepath.Join(root, "assets-v1")); !os.IsNotExist(err) {
		t.Fatalf("cache dir still exists: %v", err)
	}

	deleted, err = c.Delete(ctx, "missing")
	if err != nil || deleted {
		t.Fatalf("Delete(missing) = (%v, %v), want (false, nil)", deleted, err)
	}

	deleted, err = c.Delete(ctx, "README")
	if err != nil || deleted {
		t.Fatalf("Delete(file) = (%v, %v), want (false, nil)", deleted, err)
	}
}

func TestDirCache_RejectsTraversal(t *testing.T) {
	c := NewDirCache(t.TempDir())
	for _, name := range []string{"", ".", "..", "../etc", `a\b`} {
		if _, err := c.Delete(context.Background(), name); err == nil {
			t.Errorf("Delete(%q) expected error", name)
		}
	}
}

func TestDirCache_MissingRoot(t *testing.T) {
	c := NewDirCache(filepath.Join(t.TempDir(), "nope"))
	keys, err := c.Keys(context.Background())
	if err != nil || len(keys) != 0 {
		t.Fatalf("Keys on missing root = (%v, %v)", keys, err)
	}
}
