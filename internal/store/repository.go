// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ManuGH/fivegms/internal/ingest"
	"github.com/ManuGH/fivegms/internal/model"
	"github.com/ManuGH/fivegms/internal/validate"
)

// Repository gives typed access to a Store. Records are serialized through
// the model layer on write, and stored bytes are decoded and validated again
// on read.
type Repository struct {
	store   Store
	decoder *ingest.Decoder
}

// NewRepository wraps s. A nil decoder decodes without caching.
func NewRepository(s Store, dec *ingest.Decoder) *Repository {
	if dec == nil {
		dec = ingest.NewDecoder(ingest.Options{})
	}
	return &Repository{store: s, decoder: dec}
}

// Save stores any record under key.
func (r *Repository) Save(ctx context.Context, key string, rec model.Record) error {
	data, err := model.Encode(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", rec.Kind(), err)
	}
	return r.store.Put(ctx, rec.Kind(), key, data)
}

// Load reads and validates the record of kind stored under key.
func (r *Repository) Load(ctx context.Context, kind model.Kind, key string) (model.Record, error) {
	data, err := r.store.Get(ctx, kind, key)
	if err != nil {
		return nil, err
	}
	rec, err := r.decoder.DecodeContext(ctx, kind, data)
	if err != nil {
		return nil, fmt.Errorf("stored %s %q: %w", kind, key, err)
	}
	return rec, nil
}

// Delete removes the record of kind stored under key.
func (r *Repository) Delete(ctx context.Context, kind model.Kind, key string) error {
	return r.store.Delete(ctx, kind, key)
}

// Keys lists the keys stored for kind.
func (r *Repository) Keys(ctx context.Context, kind model.Kind) ([]string, error) {
	return r.store.List(ctx, kind)
}

// SaveM8 stores an M8 document under key.
func (r *Repository) SaveM8(ctx context.Context, key string, m model.M8Model) error {
	return r.Save(ctx, key, m)
}

// LoadM8 reads the M8 document stored under key.
func (r *Repository) LoadM8(ctx context.Context, key string) (model.M8Model, error) {
	return load[model.M8Model](r.Load(ctx, model.KindM8, key))
}

// SaveServiceAccess stores s under its provisioning session ID. An ID that is
// not a usable key fails as a validation error on provisioningSessionId.
func (r *Repository) SaveServiceAccess(ctx context.Context, s model.ServiceAccessInformation) error {
	id := s.ProvisioningSessionID()
	if err := CheckKey(model.KindServiceAccessInformation, id); err != nil {
		return validate.Fail("provisioningSessionId", validate.ReasonMalformed, id, "cannot be used as a store key: %v", err)
	}
	return r.Save(ctx, id, s)
}

// LoadServiceAccess reads the ServiceAccessInformation of a provisioning session.
func (r *Repository) LoadServiceAccess(ctx context.Context, provisioningSessionID string) (model.ServiceAccessInformation, error) {
	return load[model.ServiceAccessInformation](r.Load(ctx, model.KindServiceAccessInformation, provisioningSessionID))
}

// SaveConsumptionReport stores a report under a freshly generated key and returns it.
func (r *Repository) SaveConsumptionReport(ctx context.Context, report model.ConsumptionReporting) (string, error) {
	key := uuid.NewString()
	if err := r.Save(ctx, key, report); err != nil {
		return "", err
	}
	return key, nil
}

// LoadConsumptionReport reads the report stored under key.
func (r *Repository) LoadConsumptionReport(ctx context.Context, key string) (model.ConsumptionReporting, error) {
	return load[model.ConsumptionReporting](r.Load(ctx, model.KindConsumptionReporting, key))
}

func load[T model.Record](rec model.Record, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := rec.(T)
	if !ok {
		return zero, fmt.Errorf("stored record is %T", rec)
	}
	return v, nil
}
