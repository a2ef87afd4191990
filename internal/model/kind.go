// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"fmt"
)

// Kind names a top-level document exchanged over M5 or M8.
type Kind string

const (
	KindConsumptionReporting     Kind = "consumption-reporting"
	KindServiceAccessInformation Kind = "service-access-information"
	KindM8                       Kind = "m8"
)

// Record is a validated top-level document.
type Record interface {
	json.Marshaler
	Kind() Kind
}

// Kinds lists every top-level document kind.
func Kinds() []Kind {
	return []Kind{KindConsumptionReporting, KindServiceAccessInformation, KindM8}
}

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindConsumptionReporting, KindServiceAccessInformation, KindM8:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// ParseKind parses a string into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown record kind %q (must be one of %v)", s, Kinds())
	}
	return k, nil
}

// Decode deserializes and validates data as a document of the given kind.
func Decode(kind Kind, data []byte) (Record, error) {
	switch kind {
	case KindConsumptionReporting:
		return asRecord[ConsumptionReporting](DecodeConsumptionReporting(data))
	case KindServiceAccessInformation:
		return asRecord[ServiceAccessInformation](DecodeServiceAccessInformation(data))
	case KindM8:
		return asRecord[M8Model](DecodeM8Model(data))
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
}

func asRecord[T Record](r T, err error) (Record, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}
