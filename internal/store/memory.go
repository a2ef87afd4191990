// SPDX-License-Identifier: MIT

package store

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/ManuGH/fivegms/internal/model"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[model.Kind]map[string][]byte
	closed  bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[model.Kind]map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, kind model.Kind, key string, data []byte) error {
	if err := CheckKey(kind, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	byKey := s.records[kind]
	if byKey == nil {
		byKey = make(map[string][]byte)
		s.records[kind] = byKey
	}
	byKey[key] = bytes.Clone(data)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, kind model.Kind, key string) ([]byte, error) {
	if err := CheckKey(kind, key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	data, ok := s.records[kind][key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(data), nil
}

func (s *MemoryStore) Delete(_ context.Context, kind model.Kind, key string) error {
	if err := CheckKey(kind, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.records[kind][key]; !ok {
		return ErrNotFound
	}
	delete(s.records[kind], key)
	return nil
}

func (s *MemoryStore) List(_ context.Context, kind model.Kind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(s.records[kind]))
	for k := range s.records[kind] {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}
