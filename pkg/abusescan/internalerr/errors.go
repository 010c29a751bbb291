package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrMissingColumn    = errors.New("required column missing")
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
