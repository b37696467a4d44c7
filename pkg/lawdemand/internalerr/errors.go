package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrFetch         = errors.New("document fetch failed")
	ErrDecode        = errors.New("document decode failed")
)
