package service

import "errors"

// Error taxonomy surfaced to the transport layer.
var (
	// ErrValidation marks bad or missing caller input (400-equivalent).
	ErrValidation = errors.New("validation failed")

	// ErrUpstream marks a failed or timed-out provider call
	// (5xx-equivalent). Results of failed calls are never cached.
	ErrUpstream = errors.New("upstream unavailable")
)
