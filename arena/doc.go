// Package arena implements a fixed-capacity bump allocator (memory arena).
//
// # Overview
//
// An arena hands out consecutive slices of one buffer that is allocated up
// front. Individual allocations are never reclaimed; the whole buffer is
// recycled with Reset or dropped with Release. This suits containers whose
// working set has a known upper bound:
//
//   - Bounded lists and deques that must not touch the Go heap after setup
//   - Scratch structures rebuilt from scratch on every pass
//   - Tests that need to observe exhaustion deterministically
//
// # Basic Usage
//
//	a := arena.New(4096)
//	defer a.Release()
//
//	// Typed values and slices
//	p, err := arena.Alloc[int64](a)
//	s, err := arena.AllocSlice[int32](a, 100)
//
//	// Bind a container through package alloc
//	l, err := list.New(list.WithAllocator(alloc.For[int](a)))
//
// # Exhaustion
//
// The capacity is fixed. A request that does not fit returns an error
// wrapping ErrExhausted and leaves the cursor where it was, so a smaller
// request may still succeed afterwards.
//
// # Memory Layout
//
// Each request is padded forward to the alignment of the requested type,
// measured against the real address of the buffer. SizeFor reports the
// footprint of n back-to-back values, which is what an exactly sized arena
// needs.
//
// # Important Notes
//
//   - Allocated memory is only valid while the arena exists and until Reset
//   - The buffer is not scanned by the garbage collector: values stored in
//     it must not hold the only reference to heap memory
//   - Arenas must not be copied; pass *Arena
//   - Not goroutine-safe; callers serialize access
//
// # Metrics and Monitoring
//
//	m := a.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//
//	prometheus.MustRegister(arena.NewCollector("nodes", a))
package arena
