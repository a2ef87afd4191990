// SPDX-License-Identifier: MIT
package validate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "duration", Join("", "duration"))
	assert.Equal(t, "units[2].duration", Join(Index("units", 2), "duration"))
	assert.Equal(t, "serviceList[0].entryPoints[1]", Index(Join(Index("serviceList", 0), "entryPoints"), 1))
}

func TestObject_Accessors(t *testing.T) {
	raw := map[string]any{
		"name":     "stream",
		"count":    json.Number("4"),
		"items":    []any{"a", "b"},
		"empty":    []any{},
		"child":    map[string]any{"x": "y"},
		"badArray": "nope",
		"nullish":  nil,
	}
	obj, err := AsObject("root", raw)
	require.NoError(t, err)

	s, err := obj.String("name")
	require.NoError(t, err)
	assert.Equal(t, "stream", s)

	n, err := obj.Int("count")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	items, err := obj.Array("items")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	empty, present, err := obj.OptionalArray("empty")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Empty(t, empty)

	_, present, err = obj.OptionalArray("absent")
	require.NoError(t, err)
	assert.False(t, present)

	child, err := obj.Object("child")
	require.NoError(t, err)
	assert.Equal(t, "root.child.x", child.Path("x"))
}

func TestObject_Errors(t *testing.T) {
	obj, err := AsObject("", map[string]any{
		"str":     json.Number("1"),
		"nullish": nil,
		"arr":     "x",
		"frac":    json.Number("1.5"),
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		call     func() error
		path     string
		reason   Reason
		optional bool
	}{
		{"missing string", func() error { _, err := obj.String("nope"); return err }, "nope", ReasonMissing, false},
		{"number as string", func() error { _, err := obj.String("str"); return err }, "str", ReasonWrongType, false},
		{"null optional string", func() error { _, _, err := obj.OptionalString("nullish"); return err }, "nullish", ReasonWrongType, true},
		{"string as array", func() error { _, _, err := obj.OptionalArray("arr"); return err }, "arr", ReasonWrongType, true},
		{"fractional int", func() error { _, err := obj.Int("frac"); return err }, "frac", ReasonMalformed, false},
		{"string as object", func() error { _, _, err := obj.OptionalObject("arr"); return err }, "arr", ReasonWrongType, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var ve *Error
			require.True(t, errors.As(err, &ve), "expected *Error, got %v", err)
			assert.Equal(t, tt.path, ve.Path)
			assert.Equal(t, tt.reason, ve.Reason)
			assert.Equal(t, tt.optional, ve.Optional)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestAsObject_RootWrongType(t *testing.T) {
	_, err := AsObject("", []any{})
	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "", ve.Path)
	assert.Equal(t, ReasonWrongType, ve.Reason)
	assert.Contains(t, err.Error(), "(root)")
}

func TestInteger(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int64
		wantErr Reason
	}{
		{"json number", json.Number("42"), 42, ""},
		{"negative", json.Number("-1"), -1, ""},
		{"float integral", float64(7), 7, ""},
		{"native int", 3, 3, ""},
		{"float fraction", 1.25, 0, ReasonMalformed},
		{"exponent", json.Number("1e3"), 1000, ""},
		{"integral decimal", json.Number("30.0"), 30, ""},
		{"decimal fraction", json.Number("30.5"), 0, ReasonMalformed},
		{"exponent fraction", json.Number("1e-3"), 0, ReasonMalformed},
		{"too large", json.Number("1e30"), 0, ReasonMalformed},
		{"string", "12", 0, ReasonWrongType},
		{"bool", true, 0, ReasonWrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Integer("n", tt.value)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			var ve *Error
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantErr, ve.Reason)
		})
	}
}

func TestStrings(t *testing.T) {
	got, err := Strings("profiles", []any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = Strings("profiles", []any{"a", json.Number("2")})
	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "profiles[1]", ve.Path)
	assert.Equal(t, ReasonWrongType, ve.Reason)
}

func TestOptional_MarksError(t *testing.T) {
	err := Optional(Fail("profiles[0]", ReasonWrongType, 1, "expected string"))
	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Optional)

	plain := errors.New("boom")
	assert.Same(t, plain, Optional(plain))
}
