// SPDX-License-Identifier: MIT

package model

import (
	"errors"
	"fmt"

	"github.com/ManuGH/fivegms/internal/validate"
)

// ValidationError reports a well-formed document that violates a field contract.
type ValidationError = validate.Error

// Reason classifies a ValidationError.
type Reason = validate.Reason

const (
	ReasonMissing   = validate.ReasonMissing
	ReasonWrongType = validate.ReasonWrongType
	ReasonMalformed = validate.ReasonMalformed
)

// Sentinels for errors.Is classification.
var (
	ErrValidation = validate.ErrInvalid
	ErrSyntax     = errors.New("malformed JSON")
)

// SyntaxError reports input that is not a single well-formed JSON value.
type SyntaxError struct {
	Offset int64 // Byte offset at which decoding stopped
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed JSON at offset %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Is matches ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
