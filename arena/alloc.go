package arena

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Alloc returns a pointer to a zeroed T stored inside the arena.
// The returned pointer is valid as long as the arena hasn't been reset or released.
func Alloc[T any](a *Arena) (*T, error) {
	var zero T
	p, err := a.RawAlloc(unsafe.Sizeof(zero), unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// AllocSlice allocates a zeroed slice of n elements of type T inside the arena.
// Returns nil, nil if n <= 0.
func AllocSlice[T any](a *Arena, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	elemSize := unsafe.Sizeof(zero)
	if elemSize != 0 && uintptr(n) > ^uintptr(0)/elemSize {
		return nil, errors.Wrapf(ErrExhausted, "slice of %d elements overflows", n)
	}
	p, err := a.RawAlloc(elemSize*uintptr(n), unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(p), n), nil
}

// SizeFor returns the number of arena bytes n values of T occupy when
// allocated back to back, assuming the cursor starts suitably aligned.
func SizeFor[T any](n int) int {
	var zero T
	size := alignUp(unsafe.Sizeof(zero), unsafe.Alignof(zero))
	return int(size) * n
}
