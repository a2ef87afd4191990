// SPDX-License-Identifier: MIT

package model

// Optional is a tagged optional value. The zero value is absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrElse returns the held value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if !o.set {
		return def
	}
	return o.value
}

// ptr returns a pointer to the value for omitempty wire encoding, nil when absent.
func (o Optional[T]) ptr() *T {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

func optionalSlice[T any](o Optional[[]T]) Optional[[]T] {
	v, ok := o.Get()
	if !ok {
		return o
	}
	return Some(cloneSlice(v))
}

func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func equalSlices[T any](a, b []T, eq func(T, T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalOptional[T any](a, b Optional[T], eq func(T, T) bool) bool {
	if a.set != b.set {
		return false
	}
	return !a.set || eq(a.value, b.value)
}

func equalOptionalSlices[T any](a, b Optional[[]T], eq func(T, T) bool) bool {
	return equalOptional(a, b, func(x, y []T) bool { return equalSlices(x, y, eq) })
}

func sameString(a, b string) bool { return a == b }
