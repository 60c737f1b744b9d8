package deque

// cursor addresses a slot as (block, offset within block).
type cursor struct {
	block int
	off   int
}

// add moves c by delta slots in O(1), whatever the sign or size of delta.
func (c cursor) add(delta int) cursor {
	abs := c.block*BlockSize + c.off + delta
	block := abs / BlockSize
	off := abs % BlockSize
	if off < 0 {
		block--
		off += BlockSize
	}
	return cursor{block: block, off: off}
}

// sub returns the number of slots from o to c.
func (c cursor) sub(o cursor) int {
	return (c.block-o.block)*BlockSize + c.off - o.off
}

func (c cursor) less(o cursor) bool {
	return c.block < o.block || (c.block == o.block && c.off < o.off)
}

// Iterator is a random-access position in a Deque. Iterators are values;
// the movement methods return a new iterator.
type Iterator[T any] struct {
	d   *Deque[T]
	pos cursor
}

// Begin returns an iterator to the first element.
func (d *Deque[T]) Begin() Iterator[T] {
	return Iterator[T]{d: d, pos: d.left}
}

// End returns the iterator one past the last element.
func (d *Deque[T]) End() Iterator[T] {
	return Iterator[T]{d: d, pos: d.right}
}

// Next returns the iterator one element forward.
func (it Iterator[T]) Next() Iterator[T] {
	return it.Add(1)
}

// Prev returns the iterator one element back.
func (it Iterator[T]) Prev() Iterator[T] {
	return it.Add(-1)
}

// Add returns the iterator delta elements away. delta may be negative.
func (it Iterator[T]) Add(delta int) Iterator[T] {
	it.pos = it.pos.add(delta)
	return it
}

// Sub returns the signed distance from o to it, so that o.Add(it.Sub(o))
// equals it for iterators of the same deque.
func (it Iterator[T]) Sub(o Iterator[T]) int {
	return it.pos.sub(o.pos)
}

// Distance returns the number of steps from it forward to o, that is
// o.Sub(it). It is negative when o precedes it.
func (it Iterator[T]) Distance(o Iterator[T]) int {
	return o.Sub(it)
}

// Less orders iterators by (block, offset).
func (it Iterator[T]) Less(o Iterator[T]) bool {
	return it.pos.less(o.pos)
}

// Greater reports whether it comes after o.
func (it Iterator[T]) Greater(o Iterator[T]) bool {
	return o.pos.less(it.pos)
}

// LessEq reports whether it does not come after o.
func (it Iterator[T]) LessEq(o Iterator[T]) bool {
	return !it.Greater(o)
}

// GreaterEq reports whether it does not come before o.
func (it Iterator[T]) GreaterEq(o Iterator[T]) bool {
	return !it.Less(o)
}

// Equal reports whether it and o denote the same position of the same
// deque. Iterators of different deques are never equal.
func (it Iterator[T]) Equal(o Iterator[T]) bool {
	return it.d == o.d && it.pos == o.pos
}

// Value returns the element at it.
func (it Iterator[T]) Value() T {
	return *it.d.slot(it.pos)
}

// Ptr returns a pointer to the element at it.
func (it Iterator[T]) Ptr() *T {
	return it.d.slot(it.pos)
}

// Set replaces the element at it.
func (it Iterator[T]) Set(v T) {
	*it.d.slot(it.pos) = v
}
