// SPDX-License-Identifier: MIT

// Package model defines the immutable 5G Media Streaming records exchanged with
// the M5 and M8 interfaces: consumption reports, service access information and
// the M8 service list.
//
// Every record offers a validated constructor (NewX), a validator over a decoded
// JSON tree (ParseX), a deterministic serializer (MarshalJSON) and a decoder from
// bytes (DecodeX). Validation is recursive and fails fast on the first field in
// declaration order, reporting a *ValidationError with the field path. Malformed
// JSON is reported as *SyntaxError. The package performs no I/O and never logs.
package model
