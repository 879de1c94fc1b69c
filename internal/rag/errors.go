package rag

import "errors"

// Sentinel errors for pipeline operations, checked via errors.Is().
var (
	// ErrInvalidInput indicates a question or document that is empty after
	// trimming whitespace. Surfaced as a client error; no remote call is
	// made before this check.
	ErrInvalidInput = errors.New("invalid input")
)
