// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/ManuGH/fivegms/internal/model"
)

// BadgerStore implements Store on badger. Keys are "<kind>/<key>".
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens a badger database in dir. An empty dir opens an
// in-memory database.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func badgerKey(kind model.Kind, key string) []byte {
	return []byte(string(kind) + "/" + key)
}

func (s *BadgerStore) Put(_ context.Context, kind model.Kind, key string, data []byte) error {
	if err := CheckKey(kind, key); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(kind, key), data)
	})
}

func (s *BadgerStore) Get(_ context.Context, kind model.Kind, key string) ([]byte, error) {
	if err := CheckKey(kind, key); err != nil {
		return nil, err
	}
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(kind, key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return out, err
}

func (s *BadgerStore) Delete(_ context.Context, kind model.Kind, key string) error {
	if err := CheckKey(kind, key); err != nil {
		return err
	}
	k := badgerKey(kind, key)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(k); err != nil {
			return err
		}
		return txn.Delete(k)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *BadgerStore) List(_ context.Context, kind model.Kind) ([]string, error) {
	prefix := []byte(string(kind) + "/")
	keys := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		// Badger iterates in byte order, which is the ascending key order.
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return keys, err
}

func (s *BadgerStore) Close() error { return s.db.Close() }
