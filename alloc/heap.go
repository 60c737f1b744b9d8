package alloc

import "unsafe"

// zeroSized is the address handed out for zero-byte requests.
var zeroSized [0]byte

// Heap is the Resource backed by the Go heap. All Heap values are equal.
//
// Allocator[T] recognises Heap and allocates with make([]T, n), so the
// garbage collector sees the element type. RawAlloc is the fallback for
// callers holding only a Resource and returns pointer-free storage.
type Heap struct{}

func (Heap) RawAlloc(size, align uintptr) (unsafe.Pointer, error) {
	if size == 0 {
		return unsafe.Pointer(&zeroSized), nil
	}
	if align == 0 {
		align = 1
	}
	buf := make([]byte, size+align-1)
	p := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	pad := (align - p%align) % align
	return unsafe.Pointer(&buf[pad]), nil
}

// RawFree leaves reclamation to the garbage collector.
func (Heap) RawFree(unsafe.Pointer, uintptr, uintptr) {}
