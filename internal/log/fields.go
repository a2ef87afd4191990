// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService       = "service"
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"

	// Record fields
	FieldKind   = "kind"
	FieldKey    = "key"
	FieldPath   = "field_path"
	FieldReason = "reason"

	// Source fields
	FieldFile   = "file"
	FieldSource = "source"
	FieldBytes  = "bytes"

	// Storage fields
	FieldBackend = "backend"
	FieldOp      = "op"
)
