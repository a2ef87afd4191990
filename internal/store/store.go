// SPDX-License-Identifier: MIT

// Package store persists serialized records by kind and key.
//
// Stores hold bytes only. Typed access goes through Repository, which encodes
// on write and re-validates on read.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ManuGH/fivegms/internal/model"
)

var (
	// ErrNotFound is returned when no record exists under the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidKey is returned for keys that cannot be stored portably.
	ErrInvalidKey = errors.New("invalid record key")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
)

const maxKeyLen = 200

// Store persists serialized records.
type Store interface {
	// Put stores data under kind/key, replacing any previous value.
	Put(ctx context.Context, kind model.Kind, key string, data []byte) error
	// Get returns the bytes stored under kind/key or ErrNotFound.
	Get(ctx context.Context, kind model.Kind, key string) ([]byte, error)
	// Delete removes kind/key or returns ErrNotFound.
	Delete(ctx context.Context, kind model.Kind, key string) error
	// List returns the keys stored for kind in ascending order.
	List(ctx context.Context, kind model.Kind) ([]string, error)
	// Close releases backend resources.
	Close() error
}

// CheckKey validates kind and key. Keys are non-empty, at most 200 bytes,
// never start with a dot and contain no path separators or control characters.
func CheckKey(kind model.Kind, key string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidKey, kind)
	}
	switch {
	case key == "", strings.HasPrefix(key, "."):
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	case len(key) > maxKeyLen:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidKey, maxKeyLen)
	case strings.ContainsAny(key, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidKey, key)
	case strings.IndexFunc(key, unicode.IsControl) >= 0:
		return fmt.Errorf("%w: %q contains a control character", ErrInvalidKey, key)
	}
	return nil
}
