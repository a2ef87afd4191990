// SPDX-License-Identifier: MIT

// Package schema checks serialized records against the embedded OpenAPI
// component schemas.
package schema

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ManuGH/fivegms/internal/model"
)

//go:embed openapi.yaml
var contract []byte

// ErrSchema is matched by every schema violation returned from Check.
var ErrSchema = errors.New("schema violation")

var componentByKind = map[model.Kind]string{
	model.KindM8:                       "M8Model",
	model.KindServiceAccessInformation: "ServiceAccessInformation",
	model.KindConsumptionReporting:     "ConsumptionReporting",
}

var (
	loadOnce sync.Once
	doc      *openapi3.T
	loadErr  error
)

// Document returns the parsed and validated OpenAPI document.
func Document() (*openapi3.T, error) {
	loadOnce.Do(func() {
		loader := openapi3.NewLoader()
		d, err := loader.LoadFromData(contract)
		if err != nil {
			loadErr = fmt.Errorf("failed to parse OpenAPI document: %w", err)
			return
		}
		if err := d.Validate(context.Background()); err != nil {
			loadErr = fmt.Errorf("invalid OpenAPI document: %w", err)
			return
		}
		doc = d
	})
	return doc, loadErr
}

// Raw returns a copy of the embedded OpenAPI document.
func Raw() []byte {
	return bytes.Clone(contract)
}

// Component returns the schema name backing kind.
func Component(kind model.Kind) (string, bool) {
	name, ok := componentByKind[kind]
	return name, ok
}

// Check validates data, a serialized document of the given kind, against its
// component schema. Record-layer validation remains authoritative; Check is a
// contract test for the wire shape.
func Check(kind model.Kind, data []byte) error {
	name, ok := Component(kind)
	if !ok {
		return fmt.Errorf("unknown record kind %q", kind)
	}
	d, err := Document()
	if err != nil {
		return err
	}
	ref := d.Components.Schemas[name]
	if ref == nil || ref.Value == nil {
		return fmt.Errorf("schema %s not defined", name)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSchema, name, err)
	}
	if err := ref.Value.VisitJSON(value); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSchema, name, err)
	}
	return nil
}
