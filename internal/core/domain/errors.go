package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown backend or metric name.
	ErrUnsupportedType = errors.New("unsupported type")

	// Resolution Errors.

	// ErrNoCoordinatesInURL indicates the final address after redirection
	// carried no parsable @lat,lon segment.
	ErrNoCoordinatesInURL = errors.New("no coordinates in url")

	// ErrBrowserUnavailable indicates no browser session could be obtained.
	// Every cache miss in the batch is counted as failed.
	ErrBrowserUnavailable = errors.New("browser unavailable")

	// ErrSessionClosed indicates the browser session has been released.
	ErrSessionClosed = errors.New("browser session closed")

	// Storage Errors.

	// ErrCacheUnavailable indicates the cache store could not be read or written.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
