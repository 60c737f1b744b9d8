package arena

import (
	"unsafe"

	"github.com/pkg/errors"
)

// DefaultCapacity is the default capacity for new arenas (64 KiB).
const DefaultCapacity = 1 << 16

// zeroSized is the address handed out for zero-byte requests.
var zeroSized [0]byte

// noCopy makes go vet's copylocks check flag copies of an Arena.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Arena is a fixed-capacity bump allocator. Not goroutine-safe.
//
// The backing buffer is a plain byte slice, so the garbage collector does
// not scan it. Values placed in an arena must not hold the only reference
// to heap memory; pointers into the same arena are fine.
type Arena struct {
	_ noCopy

	buf    []byte  // backing memory, nil after Release
	offset uintptr // next free byte within buf
	peak   uintptr // high-water mark of offset across resets
	allocs int
	frees  int
}

// New creates an Arena holding exactly capacity bytes.
// If capacity <= 0, DefaultCapacity is used.
func New(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Arena{buf: make([]byte, capacity)}
}

// RawAlloc carves size bytes aligned to align out of the arena and returns
// zeroed storage. It fails with ErrExhausted when the padded request does
// not fit in the remaining capacity; the cursor is not moved in that case.
func (a *Arena) RawAlloc(size, align uintptr) (unsafe.Pointer, error) {
	a.panicIfReleased()
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return nil, errors.Wrapf(ErrBadAlign, "align %d", align)
	}

	// Pad relative to the real address, the buffer itself is only
	// guaranteed the allocator's minimum alignment.
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.buf)))
	off := alignUp(base+a.offset, align) - base
	end := off + size
	if end < off || end > uintptr(len(a.buf)) {
		return nil, errors.Wrapf(ErrExhausted, "requested %d bytes (align %d), %d available",
			size, align, a.Available())
	}

	a.offset = end
	if a.offset > a.peak {
		a.peak = a.offset
	}
	a.allocs++
	if size == 0 {
		return unsafe.Pointer(&zeroSized), nil
	}
	clear(a.buf[off:end])
	return unsafe.Pointer(&a.buf[off]), nil
}

// RawFree is a no-op for memory: arena storage is only reclaimed by Reset
// or Release. The call is still counted so callers can check that every
// allocation was paired with a free.
func (a *Arena) RawFree(p unsafe.Pointer, size, align uintptr) {
	if p == nil {
		return
	}
	a.frees++
}

// AllocBytes returns a pointer-aligned []byte of length n inside the arena.
// Returns nil, nil if n <= 0.
func (a *Arena) AllocBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	p, err := a.RawAlloc(uintptr(n), unsafe.Sizeof(uintptr(0)))
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(p), n), nil
}

// Reset rewinds the cursor to the start of the buffer. Every pointer
// previously handed out becomes invalid at once.
func (a *Arena) Reset() {
	a.panicIfReleased()
	a.offset = 0
}

// Release drops the backing buffer and makes the arena unusable.
// Any subsequent allocation will panic.
func (a *Arena) Release() {
	a.buf = nil
	a.offset = 0
}

// panicIfReleased panics if the arena has been released.
func (a *Arena) panicIfReleased() {
	if a.buf == nil {
		panic("arena: use after Release()")
	}
}

// alignUp rounds off up to a multiple of align, which must be a power of two.
func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}
