package list

// Iterator is a bidirectional position in a List. End is the sentinel.
type Iterator[T any] struct {
	l *List[T]
	n *node[T]
}

// Begin returns an iterator to the first element, or End if the list is empty.
func (l *List[T]) Begin() Iterator[T] {
	return Iterator[T]{l: l, n: l.root.next}
}

// End returns the iterator one past the last element.
func (l *List[T]) End() Iterator[T] {
	return Iterator[T]{l: l, n: l.root}
}

// Next returns the iterator to the following node. Next of the last
// element is End.
func (it Iterator[T]) Next() Iterator[T] {
	it.n = it.n.next
	return it
}

// Prev returns the iterator to the preceding node. Prev of Begin is End.
func (it Iterator[T]) Prev() Iterator[T] {
	it.n = it.n.prev
	return it
}

// Advance steps k elements forward, one link at a time.
func (it Iterator[T]) Advance(k int) Iterator[T] {
	for ; k > 0; k-- {
		it.n = it.n.next
	}
	for ; k < 0; k++ {
		it.n = it.n.prev
	}
	return it
}

// Retreat steps k elements back. It is Advance(-k).
func (it Iterator[T]) Retreat(k int) Iterator[T] {
	return it.Advance(-k)
}

// Equal reports whether it and o denote the same node of the same list.
func (it Iterator[T]) Equal(o Iterator[T]) bool {
	return it.n == o.n && it.l == o.l
}

// Value returns the element at it. It panics at End.
func (it Iterator[T]) Value() T {
	return it.deref().value
}

// Set replaces the element at it. It panics at End.
func (it Iterator[T]) Set(v T) {
	it.deref().value = v
}

func (it Iterator[T]) deref() *node[T] {
	if it.n.kind != valueNode {
		panic("list: dereference of End iterator")
	}
	return it.n
}
