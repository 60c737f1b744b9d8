package deque

import "github.com/pkg/errors"

// ErrOutOfRange indicates an index or position outside the deque.
var ErrOutOfRange = errors.New("deque: index out of range")
