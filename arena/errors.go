package arena

import "github.com/pkg/errors"

var (
	// ErrExhausted indicates that the arena has no room left for a request.
	ErrExhausted = errors.New("arena: capacity exhausted")

	// ErrBadAlign indicates an alignment that is not a power of two.
	ErrBadAlign = errors.New("arena: alignment must be a power of two")
)
