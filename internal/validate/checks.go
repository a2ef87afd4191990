// SPDX-License-Identifier: MIT

package validate

import (
	"math"
	"mime"
	"net/netip"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// NotEmpty validates that a string is not empty. Whitespace counts as content.
func NotEmpty(path, value string) error {
	if value == "" {
		return Fail(path, ReasonMalformed, value, "value cannot be empty")
	}
	return nil
}

// UTF8 validates that value is well-formed UTF-8. JSON cannot carry other
// byte sequences unchanged.
func UTF8(path, value string) error {
	if !utf8.ValidString(value) {
		return Fail(path, ReasonMalformed, value, "value is not valid UTF-8")
	}
	return nil
}

// NonNegative validates that a number is non-negative (>= 0)
func NonNegative(path string, value int64) error {
	if value < 0 {
		return Fail(path, ReasonMalformed, value, "value cannot be negative, got %d", value)
	}
	return nil
}

// Int32 validates that value fits a signed 32-bit integer.
func Int32(path string, value int64) error {
	if value < math.MinInt32 || value > math.MaxInt32 {
		return Fail(path, ReasonMalformed, value, "value out of 32-bit range, got %d", value)
	}
	return nil
}

// Port validates a port number (0-65535)
func Port(path string, port int64) error {
	if port < 0 || port > 65535 {
		return Fail(path, ReasonMalformed, port, "port must be between 0 and 65535, got %d", port)
	}
	return nil
}

// URI validates an absolute URI: it must parse and carry a scheme.
func URI(path, value string) error {
	if value == "" {
		return Fail(path, ReasonMalformed, value, "URI cannot be empty")
	}
	u, err := url.Parse(value)
	if err != nil {
		return Fail(path, ReasonMalformed, value, "invalid URI: %v", err)
	}
	if u.Scheme == "" {
		return Fail(path, ReasonMalformed, value, "URI must be absolute (missing scheme)")
	}
	if u.Opaque == "" && u.Host == "" && u.Path == "" {
		return Fail(path, ReasonMalformed, value, "URI has no hierarchical part")
	}
	return nil
}

// MediaType validates a MIME type of the form type/subtype, optionally
// followed by parameters.
func MediaType(path, value string) error {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return Fail(path, ReasonMalformed, value, "invalid media type: %v", err)
	}
	major, minor, ok := strings.Cut(mediaType, "/")
	if !ok || major == "" || minor == "" || strings.Contains(minor, "/") {
		return Fail(path, ReasonMalformed, value, "media type must have the form type/subtype")
	}
	return nil
}

// Timestamp validates an RFC 3339 date-time (the ISO 8601 profile used on the wire).
func Timestamp(path, value string) error {
	if _, err := time.Parse(time.RFC3339Nano, value); err != nil {
		return Fail(path, ReasonMalformed, value, "invalid RFC 3339 timestamp")
	}
	return nil
}

// IPv4 validates a dotted-quad IPv4 address.
func IPv4(path, value string) error {
	addr, err := netip.ParseAddr(value)
	if err != nil || !addr.Is4() {
		return Fail(path, ReasonMalformed, value, "invalid IPv4 address")
	}
	return nil
}

// IPv6 validates an IPv6 address.
func IPv6(path, value string) error {
	addr, err := netip.ParseAddr(value)
	if err != nil || !addr.Is6() {
		return Fail(path, ReasonMalformed, value, "invalid IPv6 address")
	}
	return nil
}

// OneOf validates that a value is one of the allowed values
func OneOf(path, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return Fail(path, ReasonMalformed, value, "value must be one of %v, got %q", allowed, value)
}
