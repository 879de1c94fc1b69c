package knowledge

import "errors"

// Sentinel errors for store operations, checked via errors.Is().
var (
	// ErrDimensionMismatch indicates an embedding whose length does not
	// match the store's configured dimensionality. This is a hard failure:
	// vectors are never truncated or padded.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
