package config

import "errors"

// Validation errors returned by Config.Validate. Callers can match them
// with errors.Is.
var (
	// ErrInvalidSize is returned when the output size is not positive
	ErrInvalidSize = errors.New("invalid size: must be positive")

	// ErrInvalidQuality is returned when the WebP quality is outside 1-100
	ErrInvalidQuality = errors.New("invalid quality: must be between 1 and 100")

	// ErrInvalidAspect is returned when the aspect mode is not one of
	// portrait, square or circle
	ErrInvalidAspect = errors.New("invalid aspect mode")

	// ErrInvalidBackend is returned when the detection backend is unknown
	ErrInvalidBackend = errors.New("invalid detection backend: must be vision, cascade, ollama or llamacpp")

	// ErrInvalidWorkers is returned when the worker count is not positive
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")
)
