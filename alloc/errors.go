package alloc

import "github.com/pkg/errors"

// ErrInvalidSize indicates a request for zero, negative or overflowing element counts.
var ErrInvalidSize = errors.New("alloc: invalid allocation size")
