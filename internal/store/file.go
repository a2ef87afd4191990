// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/fivegms/internal/log"
	"github.com/ManuGH/fivegms/internal/model"
)

const fileExt = ".json"

// FileStore keeps one JSON file per record under <root>/<kind>/<key>.json.
// Writes are atomic and durable.
type FileStore struct {
	root string
}

// OpenFileStore creates root if needed.
func OpenFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("file store: empty root directory")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) path(kind model.Kind, key string) string {
	return filepath.Join(s.root, string(kind), key+fileExt)
}

func (s *FileStore) Put(ctx context.Context, kind model.Kind, key string, data []byte) error {
	if err := CheckKey(kind, key); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(s.root, string(kind)), 0o750); err != nil {
		return fmt.Errorf("file store: %w", err)
	}

	// renameio handles temp file creation, fsync, atomic rename and cleanup.
	pending, err := renameio.NewPendingFile(s.path(kind, key), renameio.WithPermissions(0o640))
	if err != nil {
		return fmt.Errorf("create pending record file: %w", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			log.FromContext(ctx).Debug().Err(err).Str(log.FieldKey, key).Msg("cleanup pending record file")
		}
	}()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace record file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, kind model.Kind, key string) ([]byte, error) {
	if err := CheckKey(kind, key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(kind, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FileStore) Delete(_ context.Context, kind model.Kind, key string) error {
	if err := CheckKey(kind, key); err != nil {
		return err
	}
	err := os.Remove(s.path(kind, key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func (s *FileStore) List(_ context.Context, kind model.Kind) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, string(kind)))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	keys := []string{}
	for _, e := range entries {
		name := e.Name()
		// Skip renameio temp files and anything foreign.
		if e.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *FileStore) Close() error { return nil }
