// Package common defines shared constants and sentinel errors used across
// the fluxapi client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Dispatch errors, raised before any network I/O happens.
	ErrEmptyURL     = errors.New("URL is required")
	ErrSendInFlight = errors.New("a send for this request is already in flight")

	// Draft and tab errors.
	ErrNotPersisted  = errors.New("request has no stored record")
	ErrTabNotFound   = errors.New("tab not found")
	ErrNotRequestTab = errors.New("tab does not hold a request")
	ErrInvalidMethod = errors.New("invalid HTTP method")
	ErrEmptyName     = errors.New("name must not be empty")
)
