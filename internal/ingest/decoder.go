// SPDX-License-Identifier: MIT

// Package ingest is the caller-side entry point for serialized records. It
// decodes bytes into validated records, memoizes successful results and
// accounts for every outcome.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/ManuGH/fivegms/internal/cache"
	"github.com/ManuGH/fivegms/internal/log"
	"github.com/ManuGH/fivegms/internal/metrics"
	"github.com/ManuGH/fivegms/internal/model"
	"github.com/ManuGH/fivegms/internal/schema"
)

// Entry is a cached decode result and the exact bytes it was decoded from.
type Entry struct {
	Source []byte
	Record model.Record
}

// Options configures a Decoder.
type Options struct {
	// Cache holds parsed records keyed by kind and content hash. Nil disables caching.
	Cache cache.Cache[Entry]
	// TTL bounds how long a parsed record is reused.
	TTL time.Duration
	// SchemaCheck additionally checks accepted input against the OpenAPI contract.
	SchemaCheck bool
	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// Decoder turns serialized records into validated instances. It is safe for
// concurrent use.
type Decoder struct {
	cache       cache.Cache[Entry]
	ttl         time.Duration
	schemaCheck bool
	logger      zerolog.Logger
}

// NewDecoder builds a Decoder.
func NewDecoder(opts Options) *Decoder {
	c := opts.Cache
	if c == nil {
		c = cache.NewNoOp[Entry]()
	}
	var logger zerolog.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	} else {
		logger = log.WithComponent("ingest")
	}
	return &Decoder{
		cache:       c,
		ttl:         opts.TTL,
		schemaCheck: opts.SchemaCheck,
		logger:      logger,
	}
}

// CacheKey identifies a serialized record by kind and content hash. Distinct
// inputs may share a key; entries carry their source bytes for that reason.
func CacheKey(kind model.Kind, data []byte) string {
	return string(kind) + ":" + strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Decode deserializes and validates data as kind. Only fully validated records
// are cached; failures are recomputed on every call.
func (d *Decoder) Decode(kind model.Kind, data []byte) (model.Record, error) {
	return d.DecodeContext(context.Background(), kind, data)
}

// DecodeContext is Decode with request and correlation IDs from ctx attached
// to the rejection log.
func (d *Decoder) DecodeContext(ctx context.Context, kind model.Kind, data []byte) (model.Record, error) {
	if !kind.IsValid() {
		metrics.RecordDecode("unknown", metrics.ResultError)
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}

	key := CacheKey(kind, data)
	if e, ok := d.cache.Get(key); ok && bytes.Equal(e.Source, data) {
		metrics.RecordCacheLookup(true)
		metrics.RecordDecode(kind.String(), metrics.ResultOK)
		return e.Record, nil
	}
	metrics.RecordCacheLookup(false)

	rec, err := model.Decode(kind, data)
	if err == nil && d.schemaCheck {
		err = schema.Check(kind, data)
	}
	result := Classify(err)
	metrics.RecordDecode(kind.String(), result)
	if err != nil {
		d.logFailure(ctx, kind, len(data), err)
		return nil, err
	}

	d.cache.Set(key, Entry{Source: bytes.Clone(data), Record: rec}, d.ttl)
	return rec, nil
}

// DecodeM8 decodes an M8 document.
func (d *Decoder) DecodeM8(data []byte) (model.M8Model, error) {
	return as[model.M8Model](d.Decode(model.KindM8, data))
}

// DecodeServiceAccess decodes a ServiceAccessInformation document.
func (d *Decoder) DecodeServiceAccess(data []byte) (model.ServiceAccessInformation, error) {
	return as[model.ServiceAccessInformation](d.Decode(model.KindServiceAccessInformation, data))
}

// DecodeConsumptionReport decodes a ConsumptionReporting document.
func (d *Decoder) DecodeConsumptionReport(data []byte) (model.ConsumptionReporting, error) {
	return as[model.ConsumptionReporting](d.Decode(model.KindConsumptionReporting, data))
}

// Stats exposes the parsed-instance cache counters.
func (d *Decoder) Stats() cache.Stats {
	return d.cache.Stats()
}

// Close releases cache resources.
func (d *Decoder) Close() {
	d.cache.Stop()
}

// Classify maps a decode error to a metrics result label.
func Classify(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, model.ErrSyntax):
		return metrics.ResultSyntax
	case errors.Is(err, model.ErrValidation), errors.Is(err, schema.ErrSchema):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

func (d *Decoder) logFailure(ctx context.Context, kind model.Kind, size int, err error) {
	logger := log.WithContext(ctx, d.logger)
	ev := logger.Debug().
		Err(err).
		Str(log.FieldKind, kind.String()).
		Int(log.FieldBytes, size)
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		ev = ev.Str(log.FieldPath, ve.Path).Str(log.FieldReason, string(ve.Reason))
	}
	ev.Msg("record rejected")
}

func as[T model.Record](rec model.Record, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := rec.(T)
	if !ok {
		return zero, errors.New("decoded record has unexpected type")
	}
	return v, nil
}
