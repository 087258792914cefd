// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Dashboard DashboardConfig `toml:"dashboard"`
	Cache     CacheConfig     `toml:"cache"`
	Sync      SyncConfig      `toml:"sync"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

// DashboardConfig maps report selection settings.
type DashboardConfig struct {
	Year *int    `toml:"year"`
	Type *string `toml:"type"`
}

// CacheConfig maps activity cache settings.
type CacheConfig struct {
	Backend *string `toml:"backend"`
	Path    *string `toml:"path"`
}

// SyncConfig maps provider sync settings.
type SyncConfig struct {
	Every   *Duration `toml:"every"`
	PerPage *int      `toml:"per-page"`
}

// ServerConfig maps HTTP API settings.
type ServerConfig struct {
	Addr     *string   `toml:"addr"`
	CacheTTL *Duration `toml:"cache-ttl"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
	JSON  *bool   `toml:"json"`
}

// Duration decodes TOML strings such as "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
