package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Dashboard.Year != nil || cfg.Cache.Backend != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[dashboard]
year = 2023
type = "Ride"

[cache]
backend = "sqlite"

[sync]
every = "90m"

[server]
addr = ":9000"
cache-ttl = "30s"

[log]
level = "debug"
json = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Dashboard.Year == nil || *cfg.Dashboard.Year != 2023 {
		t.Fatalf("unexpected year: %v", cfg.Dashboard.Year)
	}
	if cfg.Dashboard.Type == nil || *cfg.Dashboard.Type != "Ride" {
		t.Fatalf("unexpected type: %v", cfg.Dashboard.Type)
	}
	if cfg.Cache.Backend == nil || *cfg.Cache.Backend != "sqlite" {
		t.Fatalf("unexpected backend: %v", cfg.Cache.Backend)
	}
	if cfg.Cache.Path != nil {
		t.Fatalf("expected unset cache path")
	}
	if cfg.Sync.Every == nil || cfg.Sync.Every.Duration != 90*time.Minute {
		t.Fatalf("unexpected sync interval: %v", cfg.Sync.Every)
	}
	if cfg.Server.CacheTTL == nil || cfg.Server.CacheTTL.Duration != 30*time.Second {
		t.Fatalf("unexpected cache ttl: %v", cfg.Server.CacheTTL)
	}
	if cfg.Log.JSON == nil || !*cfg.Log.JSON {
		t.Fatalf("expected json logging")
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[sync]\nevery = \"soon\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultCachePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultCachePath("json"); got != filepath.Join("/data", "ridestats", "activities.json") {
		t.Fatalf("unexpected json path: %s", got)
	}
	if got := DefaultCachePath("sqlite"); got != filepath.Join("/data", "ridestats", "activities.db") {
		t.Fatalf("unexpected sqlite path: %s", got)
	}
}
