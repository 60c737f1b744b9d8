// Package alloc is the allocator abstraction shared by the containers in
// this module.
//
// Memory comes from a Resource: an untyped source such as the Go heap or an
// *arena.Arena. An Allocator[T] is a small copyable handle that binds a
// Resource to an element type and carries the propagate-on-copy policy.
// Containers that need storage for an internal type rebind the handle with
// Rebind, which keeps the resource and the policy.
package alloc

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Resource is an untyped memory source.
//
// Implementations must be comparable: two Allocators are considered
// interchangeable exactly when their resources compare equal.
type Resource interface {
	// RawAlloc returns zeroed storage of size bytes aligned to align.
	RawAlloc(size, align uintptr) (unsafe.Pointer, error)
	// RawFree releases storage obtained from RawAlloc with the same size
	// and align. Resources may treat it as a no-op.
	RawFree(p unsafe.Pointer, size, align uintptr)
}

// Option configures an Allocator.
type Option func(*options)

type options struct {
	propagate bool
}

// WithPropagateOnCopy sets whether a container copy adopts the source
// container's allocator (on) or falls back to its own (off, the default).
func WithPropagateOnCopy(on bool) Option {
	return func(o *options) {
		o.propagate = on
	}
}

// Allocator hands out storage for values of type T from a Resource.
// The zero value allocates from the Go heap.
type Allocator[T any] struct {
	res       Resource
	propagate bool
}

// For binds r to element type T.
func For[T any](r Resource, opts ...Option) Allocator[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return Allocator[T]{res: r, propagate: o.propagate}
}

// Default returns a heap allocator for T.
func Default[T any]() Allocator[T] {
	return Allocator[T]{res: Heap{}}
}

// Rebind returns an allocator for U drawing from the same resource with
// the same propagation policy as a.
func Rebind[U, T any](a Allocator[T]) Allocator[U] {
	return Allocator[U]{res: a.res, propagate: a.propagate}
}

// SelectOnCopy returns the allocator a container copied from one using a
// should use: a itself if it propagates on copy, a heap allocator otherwise.
func SelectOnCopy[T any](a Allocator[T]) Allocator[T] {
	if a.propagate {
		return a
	}
	return Default[T]()
}

// Compatible reports whether memory obtained through a may be released
// through b, regardless of the element types they are bound to.
func Compatible[T, U any](a Allocator[T], b Allocator[U]) bool {
	return a.Resource() == b.Resource()
}

// Resource returns the memory source a draws from.
func (a Allocator[T]) Resource() Resource {
	if a.res == nil {
		return Heap{}
	}
	return a.res
}

// PropagateOnCopy reports whether container copies adopt this allocator.
func (a Allocator[T]) PropagateOnCopy() bool {
	return a.propagate
}

// Equal reports whether a and b draw from the same resource.
func (a Allocator[T]) Equal(b Allocator[T]) bool {
	return Compatible(a, b)
}

// Allocate returns storage for n contiguous values of T. The storage is
// zeroed but holds no constructed values; use Construct before reading.
func (a Allocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "allocate %d elements", n)
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if _, ok := a.Resource().(Heap); ok || size == 0 {
		return make([]T, n), nil
	}
	if uintptr(n) > ^uintptr(0)/size {
		return nil, errors.Wrapf(ErrInvalidSize, "allocate %d elements of %d bytes", n, size)
	}
	p, err := a.res.RawAlloc(size*uintptr(n), unsafe.Alignof(zero))
	if err != nil {
		return nil, errors.Wrapf(err, "allocate %d elements", n)
	}
	return unsafe.Slice((*T)(p), n), nil
}

// Deallocate returns storage obtained from Allocate. Every element must
// have been destroyed first.
func (a Allocator[T]) Deallocate(s []T) {
	if len(s) == 0 {
		return
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if _, ok := a.Resource().(Heap); ok || size == 0 {
		return
	}
	a.res.RawFree(unsafe.Pointer(unsafe.SliceData(s)), size*uintptr(len(s)), unsafe.Alignof(zero))
}

// Construct places v into the slot p.
func (a Allocator[T]) Construct(p *T, v T) {
	*p = v
}

// Destroy ends the lifetime of the value at p. The slot is zeroed so it no
// longer keeps anything reachable.
func (a Allocator[T]) Destroy(p *T) {
	var zero T
	*p = zero
}

// New allocates a single T through a and constructs v into it.
func New[T any](a Allocator[T], v T) (*T, error) {
	s, err := a.Allocate(1)
	if err != nil {
		return nil, err
	}
	p := &s[0]
	a.Construct(p, v)
	return p, nil
}

// Delete destroys the value at p and returns its storage to a.
func Delete[T any](a Allocator[T], p *T) {
	a.Destroy(p)
	a.Deallocate(unsafe.Slice(p, 1))
}
