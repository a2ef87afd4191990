// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
)

// Backend names accepted by OpenStore.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	Path    string // sqlite database file, badger or file store directory
	Redis   RedisConfig
}

// OpenStore creates an instrumented Store for cfg.Backend. An empty backend means memory.
func OpenStore(ctx context.Context, cfg Config) (Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = BackendMemory
	}

	var (
		s   Store
		err error
	)
	switch backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("store backend %s requires a path", backend)
		}
		s, err = OpenSQLiteStore(ctx, cfg.Path)
	case BackendBadger:
		s, err = OpenBadgerStore(cfg.Path)
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("store backend %s requires an address", backend)
		}
		s, err = NewRedisStore(ctx, cfg.Redis)
	case BackendFile:
		s, err = OpenFileStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}
	return Instrument(s, backend), nil
}
