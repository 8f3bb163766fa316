package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrInvalidEntry = errors.New("invalid cache entry")
)
