// SPDX-License-Identifier: MIT

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/ManuGH/fivegms/internal/validate"
)

// decodeTree parses data into a raw JSON tree with numbers kept as json.Number.
// Exactly one top-level value is accepted; trailing non-whitespace is a syntax error.
func decodeTree(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SyntaxError{Offset: 0, Err: errors.New("empty input")}
		}
		return nil, newSyntaxError(dec, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, newSyntaxError(dec, err)
	}
	return tree, nil
}

func newSyntaxError(dec *json.Decoder, err error) *SyntaxError {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return &SyntaxError{Offset: se.Offset, Err: err}
	}
	return &SyntaxError{Offset: dec.InputOffset(), Err: err}
}

// decode runs the full deserialize pipeline: bytes -> raw tree -> validated record.
func decode[T any](data []byte, parse func(path string, raw any) (T, error)) (T, error) {
	tree, err := decodeTree(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return parse("", tree)
}

// parseArray validates each element of raw in index order.
func parseArray[T any](path string, raw []any, parse func(path string, raw any) (T, error)) ([]T, error) {
	out := make([]T, 0, len(raw))
	for i, elem := range raw {
		v, err := parse(validate.Index(path, i), elem)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseOptionalArray reads an optional array member and validates its elements.
// Element failures are flagged as optional-field failures.
func parseOptionalArray[T any](obj validate.Object, name string, parse func(path string, raw any) (T, error)) (Optional[[]T], error) {
	raw, present, err := obj.OptionalArray(name)
	if err != nil || !present {
		return None[[]T](), err
	}
	items, err := parseArray(obj.Path(name), raw, func(path string, elem any) (T, error) {
		v, err := parse(path, elem)
		return v, validate.OptionalAt(err, path)
	})
	if err != nil {
		return None[[]T](), err
	}
	return Some(items), nil
}

// checkArray runs check over each element of a typed slice in index order.
func checkArray[T any](path string, items []T, check func(T, string) error) error {
	for i, item := range items {
		if err := check(item, validate.Index(path, i)); err != nil {
			return err
		}
	}
	return nil
}

// checkText rejects strings json.Marshal would rewrite.
func checkText(s, path string) error { return validate.UTF8(path, s) }

func checkOptionalText(path string, o Optional[string]) error {
	if s, ok := o.Get(); ok {
		return validate.Optional(checkText(s, path))
	}
	return nil
}

func checkOptionalTexts(s, path string) error { return validate.Optional(checkText(s, path)) }

func checkOptionalArray[T any](path string, o Optional[[]T], check func(T, string) error) error {
	items, ok := o.Get()
	if !ok {
		return nil
	}
	return checkArray(path, items, check)
}

// Encode serializes a record to its canonical JSON form.
func Encode(r Record) ([]byte, error) {
	return json.Marshal(r)
}
