package types

import "errors"

var (
	// ErrValidation marks a missing or malformed request field.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced asset that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamFetch marks an article that could not be fetched or parsed.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrProviderUnavailable marks an ML/OCR backend that is missing or erroring.
	// Callers degrade instead of surfacing it.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
