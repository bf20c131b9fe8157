package errors

import "errors"

// Remote API errors.
var (
	ErrAPIRequest      = errors.New("API request failed")
	ErrAPIResponse     = errors.New("unexpected API response")
	ErrInvalidID       = errors.New("invalid Notion id")
	ErrTooManyChildren = errors.New("too many children in one request")
)

// Sync errors.
var (
	ErrSourceNotFound = errors.New("source directory not found")
	ErrRender         = errors.New("rendering markdown failed")
)
