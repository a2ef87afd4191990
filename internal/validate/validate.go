// SPDX-License-Identifier: MIT

// Package validate walks decoded JSON trees and checks field contracts.
//
// Every accessor fails fast and reports the first offending field as an *Error
// carrying the field path (e.g. "consumptionReportingUnits[2].duration") and a
// Reason. The package is pure: it never logs and holds no state.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Reason classifies why a field failed validation.
type Reason string

const (
	ReasonMissing   Reason = "missing"
	ReasonWrongType Reason = "wrong-type"
	ReasonMalformed Reason = "malformed-value"
)

// ErrInvalid is matched by every *Error via errors.Is.
var ErrInvalid = errors.New("validation failed")

// Error represents a single field contract violation.
type Error struct {
	Path     string // Field path, empty for the document root
	Reason   Reason // missing, wrong-type or malformed-value
	Message  string // Human-readable detail
	Value    any    // The offending raw value (nil when missing)
	Optional bool   // The failing field is optional in its record
}

// Error implements the error interface
func (e *Error) Error() string {
	path := e.Path
	if path == "" {
		path = "(root)"
	}
	if e.Message == "" {
		return fmt.Sprintf("validation failed for %s: %s", path, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s: %s", path, e.Reason, e.Message)
}

// Is reports ErrInvalid as a match so callers can classify without errors.As.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Fail builds an *Error for path.
func Fail(path string, reason Reason, value any, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Path: path, Reason: reason, Message: msg, Value: value}
}

// Optional marks err as originating from an optional field. Non-*Error values
// pass through unchanged.
func Optional(err error) error {
	var ve *Error
	if errors.As(err, &ve) {
		ve.Optional = true
	}
	return err
}

// OptionalAt marks err as an optional-field failure only when it was raised at
// path itself, leaving failures deeper in a nested record untouched.
func OptionalAt(err error, path string) error {
	var ve *Error
	if errors.As(err, &ve) && ve.Path == path {
		ve.Optional = true
	}
	return err
}

// Join appends a member name to a field path.
func Join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// Index appends an array index to a field path.
func Index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// Object is a read cursor over a decoded JSON object.
type Object struct {
	path   string
	fields map[string]any
}

// AsObject asserts that raw is a JSON object.
func AsObject(path string, raw any) (Object, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Object{}, Fail(path, ReasonWrongType, raw, "expected object, got %s", typeName(raw))
	}
	return Object{path: path, fields: m}, nil
}

// Path returns the full path of the named member.
func (o Object) Path(name string) string {
	return Join(o.path, name)
}

func (o Object) lookup(name string, optional bool) (any, bool, error) {
	v, ok := o.fields[name]
	if !ok {
		if optional {
			return nil, false, nil
		}
		return nil, false, Fail(o.Path(name), ReasonMissing, nil, "required field is absent")
	}
	return v, true, nil
}

func (o Object) wrongType(name string, v any, want string, optional bool) error {
	err := Fail(o.Path(name), ReasonWrongType, v, "expected %s, got %s", want, typeName(v))
	err.Optional = optional
	return err
}

// Value returns a required member without checking its type.
func (o Object) Value(name string) (any, error) {
	v, _, err := o.lookup(name, false)
	return v, err
}

// OptionalValue returns an optional member without checking its type.
func (o Object) OptionalValue(name string) (any, bool) {
	v, ok := o.fields[name]
	return v, ok
}

// String reads a required string member.
func (o Object) String(name string) (string, error) {
	v, _, err := o.lookup(name, false)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", o.wrongType(name, v, "string", false)
	}
	return s, nil
}

// OptionalString reads an optional string member.
func (o Object) OptionalString(name string) (string, bool, error) {
	v, present, err := o.lookup(name, true)
	if err != nil || !present {
		return "", false, err
	}
	s, ok := v.(string)
	if !ok {
		return "", false, o.wrongType(name, v, "string", true)
	}
	return s, true, nil
}

// Int reads a required integral number member.
func (o Object) Int(name string) (int64, error) {
	v, _, err := o.lookup(name, false)
	if err != nil {
		return 0, err
	}
	return Integer(o.Path(name), v)
}

// Array reads a required array member.
func (o Object) Array(name string) ([]any, error) {
	v, _, err := o.lookup(name, false)
	if err != nil {
		return nil, err
	}
	a, ok := v.([]any)
	if !ok {
		return nil, o.wrongType(name, v, "array", false)
	}
	return a, nil
}

// OptionalArray reads an optional array member. A present empty array is
// reported as present.
func (o Object) OptionalArray(name string) ([]any, bool, error) {
	v, present, err := o.lookup(name, true)
	if err != nil || !present {
		return nil, false, err
	}
	a, ok := v.([]any)
	if !ok {
		return nil, false, o.wrongType(name, v, "array", true)
	}
	return a, true, nil
}

// Object reads a required nested object member.
func (o Object) Object(name string) (Object, error) {
	v, _, err := o.lookup(name, false)
	if err != nil {
		return Object{}, err
	}
	return AsObject(o.Path(name), v)
}

// OptionalObject reads an optional nested object member.
func (o Object) OptionalObject(name string) (Object, bool, error) {
	v, present, err := o.lookup(name, true)
	if err != nil || !present {
		return Object{}, false, err
	}
	obj, err := AsObject(o.Path(name), v)
	if err != nil {
		return Object{}, false, Optional(err)
	}
	return obj, true, nil
}

// Integer converts a raw JSON number to int64. json.Number, float64 and the
// native integer kinds are accepted; fractional or out-of-range values are
// malformed.
func Integer(path string, v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		// 30.0 and 1e3 are integral numbers in JSON.
		f, err := n.Float64()
		if err != nil || !integral(f) {
			return 0, Fail(path, ReasonMalformed, v, "expected integer, got %s", n.String())
		}
		return int64(f), nil
	case float64:
		if !integral(n) {
			return 0, Fail(path, ReasonMalformed, v, "expected integer, got %v", n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, Fail(path, ReasonWrongType, v, "expected number, got %s", typeName(v))
	}
}

// integral reports whether f is a whole number representable as int64.
func integral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}

// Strings converts a raw array of strings, reporting the first non-string element.
func Strings(path string, raw []any) ([]string, error) {
	out := make([]string, 0, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, Fail(Index(path, i), ReasonWrongType, v, "expected string, got %s", typeName(v))
		}
		out = append(out, s)
	}
	return out, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int32, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
