// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ManuGH/fivegms/internal/log"
	"github.com/ManuGH/fivegms/internal/metrics"
	"github.com/ManuGH/fivegms/internal/model"
)

// instrumented counts and logs every operation of the wrapped Store.
type instrumented struct {
	next    Store
	backend string
	logger  zerolog.Logger
}

// Instrument wraps s so that each operation is counted in
// fivegms_store_ops_total and failures are logged.
func Instrument(s Store, backend string) Store {
	return &instrumented{
		next:    s,
		backend: backend,
		logger:  log.WithComponent("store").With().Str(log.FieldBackend, backend).Logger(),
	}
}

func (s *instrumented) observe(ctx context.Context, op string, kind model.Kind, key string, err error) {
	result := metrics.ResultOK
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = metrics.ResultNotFound
	default:
		result = metrics.ResultError
	}
	metrics.RecordStoreOp(s.backend, op, result)

	if err != nil && result == metrics.ResultError {
		l := log.WithContext(ctx, s.logger)
		l.Warn().
			Err(err).
			Str(log.FieldOp, op).
			Str(log.FieldKind, kind.String()).
			Str(log.FieldKey, key).
			Msg("store operation failed")
	}
}

func (s *instrumented) Put(ctx context.Context, kind model.Kind, key string, data []byte) error {
	err := s.next.Put(ctx, kind, key, data)
	s.observe(ctx, "put", kind, key, err)
	return err
}

func (s *instrumented) Get(ctx context.Context, kind model.Kind, key string) ([]byte, error) {
	data, err := s.next.Get(ctx, kind, key)
	s.observe(ctx, "get", kind, key, err)
	return data, err
}

func (s *instrumented) Delete(ctx context.Context, kind model.Kind, key string) error {
	err := s.next.Delete(ctx, kind, key)
	s.observe(ctx, "delete", kind, key, err)
	return err
}

func (s *instrumented) List(ctx context.Context, kind model.Kind) ([]string, error) {
	keys, err := s.next.List(ctx, kind)
	s.observe(ctx, "list", kind, "", err)
	return keys, err
}

func (s *instrumented) Close() error {
	return s.next.Close()
}

// Unwrap returns the backend store.
func (s *instrumented) Unwrap() Store { return s.next }
