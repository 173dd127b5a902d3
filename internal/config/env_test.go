package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "VERWATCH_VERSION_URL", "VERWATCH_STORAGE_KEY", "VERWATCH_CHECK_INTERVAL",
		"VERWATCH_INITIAL_DELAY", "VERWATCH_STORE", "VERWATCH_FILENAME",
	} {
		t.Setenv(k, "")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port=%q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.CheckInterval != DefaultCheckInterval || cfg.InitialDelay != DefaultInitialDelay {
		t.Errorf("durations=(%v,%v)", cfg.CheckInterval, cfg.InitialDelay)
	}
	if cfg.StoreKind != DefaultStoreKind {
		t.Errorf("StoreKind=%q", cfg.StoreKind)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("VERWATCH_CHECK_INTERVAL", "60000")
	t.Setenv("VERWATCH_INITIAL_DELAY", "2s")
	t.Setenv("VERWATCH_STORAGE_KEY", "my_key")
	t.Setenv("VERWATCH_STORE", "Memory")
	t.Setenv("VERWATCH_DEBUG", "true")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Port != ":9090" {
		t.Errorf("Port=%q, want :9090", cfg.Port)
	}
	if cfg.CheckInterval != time.Minute {
		t.Errorf("CheckInterval=%v, want 1m", cfg.CheckInterval)
	}
	if cfg.InitialDelay != 2*time.Second {
		t.Errorf("InitialDelay=%v, want 2s", cfg.InitialDelay)
	}
	if cfg.StorageKey != "my_key" || cfg.StoreKind != "memory" || !cfg.Debug {
		t.Errorf("unexpected cfg: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *EnvConfig {
		return &EnvConfig{
			Port:          ":8080",
			CheckInterval: DefaultCheckInterval,
			StorageKey:    DefaultStorageKey,
			Filename:      DefaultDescriptorFilename,
			StoreKind:     "memory",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *EnvConfig)
		wantErr bool
	}{
		{"valid", func(c *EnvConfig) {}, false},
		{"bad port", func(c *EnvConfig) { c.Port = ":99999" }, true},
		{"tiny interval", func(c *EnvConfig) { c.CheckInterval = time.Millisecond }, true},
		{"negative delay", func(c *EnvConfig) { c.InitialDelay = -time.Second }, true},
		{"empty key", func(c *EnvConfig) { c.StorageKey = "" }, true},
		{"filename with slash", func(c *EnvConfig) { c.Filename = "a/version.json" }, true},
		{"mysql without dsn", func(c *EnvConfig) { c.StoreKind = "mysql" }, true},
		{"redis without url", func(c *EnvConfig) { c.StoreKind = "redis" }, true},
		{"redis with url", func(c *EnvConfig) { c.StoreKind = "redis"; c.RedisURL = "redis://localhost:6379/0" }, false},
		{"unknown store", func(c *EnvConfig) { c.StoreKind = "etcd" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
