// Package config loads builder settings from TOML. File values overlay the
// defaults key by key; command flags are applied on top by the caller.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds settings shared by the serve and build commands.
type Config struct {
	Addr            string
	Title           string
	Catalog         string
	WatchCatalog    bool
	ThemeDir        string
	Theme           string
	Variant         string
	AssetsPrefix    string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	SessionTTL      time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            ":8080",
		AssetsPrefix:    "/assets",
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 10 * time.Second,
		SessionTTL:      30 * time.Minute,
	}
}

type fileConfig struct {
	Addr            string `toml:"addr"`
	Title           string `toml:"title"`
	Catalog         string `toml:"catalog"`
	WatchCatalog    bool   `toml:"watch_catalog"`
	ThemeDir        string `toml:"theme_dir"`
	Theme           string `toml:"theme"`
	Variant         string `toml:"variant"`
	AssetsPrefix    string `toml:"assets_prefix"`
	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	SessionTTL      string `toml:"session_ttl"`
}

// Load reads path over Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("title") {
		cfg.Title = strings.TrimSpace(raw.Title)
	}
	if meta.IsDefined("catalog") {
		cfg.Catalog = strings.TrimSpace(raw.Catalog)
	}
	if meta.IsDefined("watch_catalog") {
		cfg.WatchCatalog = raw.WatchCatalog
	}
	if meta.IsDefined("theme_dir") {
		cfg.ThemeDir = strings.TrimSpace(raw.ThemeDir)
	}
	if meta.IsDefined("theme") {
		cfg.Theme = strings.TrimSpace(raw.Theme)
	}
	if meta.IsDefined("variant") {
		cfg.Variant = strings.TrimSpace(raw.Variant)
	}
	if meta.IsDefined("assets_prefix") {
		cfg.AssetsPrefix = strings.TrimSpace(raw.AssetsPrefix)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = strings.TrimSpace(raw.LogFormat)
	}
	if meta.IsDefined("shutdown_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ShutdownTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if meta.IsDefined("session_ttl") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.SessionTTL))
		if err != nil {
			return Config{}, fmt.Errorf("parse session_ttl: %w", err)
		}
		cfg.SessionTTL = d
	}

	return cfg, cfg.Validate()
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr is required")
	}
	if c.WatchCatalog && c.Catalog == "" {
		return fmt.Errorf("config: watch_catalog requires catalog")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdown_timeout must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session_ttl must be positive")
	}
	return nil
}
