// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads runtime settings from a YAML file and FIVEGMS_*
// environment variables.
//
// Precedence: defaults, then the file, then the environment. The merged
// result is validated before it is returned.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ManuGH/fivegms/internal/cache"
	"github.com/ManuGH/fivegms/internal/log"
	"github.com/ManuGH/fivegms/internal/store"
)

// Config is the complete runtime configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
	Cache  CacheConfig  `yaml:"cache"`
	Schema SchemaConfig `yaml:"schema"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig addresses a redis server.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheConfig tunes the parsed-instance cache.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanupInterval"`
	MaxEntries      int           `yaml:"maxEntries"`
}

// SchemaConfig toggles the OpenAPI contract check on decode.
type SchemaConfig struct {
	Check bool `yaml:"check"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:   "info",
			Service: "fivegms",
		},
		Store: StoreConfig{
			Backend: store.BackendMemory,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             5 * time.Minute,
			CleanupInterval: time.Minute,
			MaxEntries:      1024,
		},
	}
}

// Load reads path (optional), applies environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := decodeFile(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(log.WithComponent("config"), &cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeFile merges YAML data over cfg. Unknown keys are rejected.
func decodeFile(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	return nil
}

func applyEnv(logger zerolog.Logger, cfg *Config) {
	cfg.Log.Level = parseString(logger, "FIVEGMS_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Service = parseString(logger, "FIVEGMS_LOG_SERVICE", cfg.Log.Service)

	cfg.Store.Backend = parseString(logger, "FIVEGMS_STORE_BACKEND", cfg.Store.Backend)
	cfg.Store.Path = parseString(logger, "FIVEGMS_STORE_PATH", cfg.Store.Path)
	cfg.Store.Redis.Addr = parseString(logger, "FIVEGMS_REDIS_ADDR", cfg.Store.Redis.Addr)
	cfg.Store.Redis.Password = parseString(logger, "FIVEGMS_REDIS_PASSWORD", cfg.Store.Redis.Password)
	cfg.Store.Redis.DB = parseInt(logger, "FIVEGMS_REDIS_DB", cfg.Store.Redis.DB)

	cfg.Cache.Enabled = parseBool(logger, "FIVEGMS_CACHE_ENABLED", cfg.Cache.Enabled)
	cfg.Cache.TTL = parseDuration(logger, "FIVEGMS_CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.CleanupInterval = parseDuration(logger, "FIVEGMS_CACHE_CLEANUP_INTERVAL", cfg.Cache.CleanupInterval)
	cfg.Cache.MaxEntries = parseInt(logger, "FIVEGMS_CACHE_MAX_ENTRIES", cfg.Cache.MaxEntries)

	cfg.Schema.Check = parseBool(logger, "FIVEGMS_SCHEMA_CHECK", cfg.Schema.Check)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	switch c.Store.Backend {
	case store.BackendMemory, store.BackendBadger:
	case store.BackendSQLite, store.BackendFile:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for backend %q", c.Store.Backend)
		}
	case store.BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required for backend \"redis\"")
		}
		if c.Store.Redis.DB < 0 {
			return fmt.Errorf("store.redis.db must be >= 0, got %d", c.Store.Redis.DB)
		}
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled, got %s", c.Cache.TTL)
	}
	if c.Cache.CleanupInterval < 0 {
		return fmt.Errorf("cache.cleanupInterval must be >= 0, got %s", c.Cache.CleanupInterval)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.maxEntries must be >= 0, got %d", c.Cache.MaxEntries)
	}
	return nil
}

// StoreConfig converts the store section for store.OpenStore.
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Backend: c.Store.Backend,
		Path:    c.Store.Path,
		Redis: store.RedisConfig{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
		},
	}
}

// CacheOptions converts the cache section for cache.NewMemory.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		CleanupInterval: c.Cache.CleanupInterval,
		MaxEntries:      c.Cache.MaxEntries,
	}
}

// LogConfig converts the log section for log.Reconfigure.
func (c Config) LogConfig(out io.Writer) log.Config {
	return log.Config{Level: c.Log.Level, Service: c.Log.Service, Output: out}
}
