// Package common defines shared constants and sentinel errors used across
// the edupocket client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Remote API errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")
	ErrorUnavailable  = errors.New("server unavailable")
)
