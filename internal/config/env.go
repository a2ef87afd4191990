// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// parseString reads a string from the environment or keeps current.
// It logs the source (environment or current) for observability.
func parseString(logger zerolog.Logger, key, current string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return current
	}
	lowerKey := strings.ToLower(key)
	if strings.Contains(lowerKey, "token") || strings.Contains(lowerKey, "password") {
		logger.Debug().
			Str("key", key).
			Str("source", "environment").
			Bool("sensitive", true).
			Msg("using environment variable")
		return v
	}
	logger.Debug().
		Str("key", key).
		Str("value", v).
		Str("source", "environment").
		Msg("using environment variable")
	return v
}

// parseInt reads an integer from the environment. Invalid input keeps current.
func parseInt(logger zerolog.Logger, key string, current int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return current
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Int("current", current).
			Msg("invalid integer in environment variable, ignoring")
		return current
	}
	logger.Debug().Str("key", key).Int("value", i).Str("source", "environment").Msg("using environment variable")
	return i
}

// parseDuration reads a Go duration (e.g. "5s") from the environment.
// Invalid input keeps current.
func parseDuration(logger zerolog.Logger, key string, current time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return current
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Dur("current", current).
			Msg("invalid duration in environment variable, ignoring")
		return current
	}
	logger.Debug().Str("key", key).Dur("value", d).Str("source", "environment").Msg("using environment variable")
	return d
}

// parseBool reads a boolean from the environment. It accepts "true", "false",
// "1", "0", "yes", "no" (case-insensitive); anything else keeps current.
func parseBool(logger zerolog.Logger, key string, current bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return current
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	logger.Warn().
		Str("key", key).
		Str("value", v).
		Bool("current", current).
		Msg("invalid boolean in environment variable, ignoring")
	return current
}
