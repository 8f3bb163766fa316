package azure

import "errors"

// Sentinel kinds for provider errors.
var (
	ErrUnavailable = errors.New("provider unavailable")
	ErrNoToken     = errors.New("no management token configured")
)
