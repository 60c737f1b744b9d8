// Package list implements a doubly linked list whose nodes are obtained
// from an alloc.Allocator.
//
// The list rebinds its element allocator to its node type, so a list bound
// to an arena keeps both the sentinel and every value node inside that
// arena. Copies follow the allocator's propagate-on-copy policy, and every
// operation that can fail (allocation, element copy) leaves the list as it
// was before the call.
package list

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/containers/alloc"
)

type nodeKind uint8

const (
	sentinelNode nodeKind = iota
	valueNode
)

// node is either the list's sentinel or a value node. The sentinel's next
// is the first element and its prev the last; value is unused.
type node[T any] struct {
	next, prev *node[T]
	kind       nodeKind
	value      T
}

// Option configures a List at construction.
type Option[T any] func(*List[T])

// WithAllocator makes the list draw its nodes from a, rebound to the node type.
func WithAllocator[T any](a alloc.Allocator[T]) Option[T] {
	return func(l *List[T]) {
		l.alloc = a
	}
}

// WithClone sets the function used whenever the list stores a copy of a
// value. A clone error aborts the operation; storage already taken for the
// node is returned first.
func WithClone[T any](fn func(T) (T, error)) Option[T] {
	return func(l *List[T]) {
		l.clone = fn
	}
}

// List is a doubly linked list of T. Create lists with New, NewSized or
// NewFilled; after Release the list must not be used.
type List[T any] struct {
	root  *node[T]
	len   int
	alloc alloc.Allocator[T]
	nodes alloc.Allocator[node[T]]
	clone func(T) (T, error)
}

// New returns an empty list.
func New[T any](opts ...Option[T]) (*List[T], error) {
	l := &List[T]{alloc: alloc.Default[T]()}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.init(); err != nil {
		return nil, err
	}
	return l, nil
}

// NewSized returns a list holding n zero values.
func NewSized[T any](n int, opts ...Option[T]) (*List[T], error) {
	l, err := New(opts...)
	if err != nil {
		return nil, err
	}
	var zero T
	for range n {
		if _, err := l.link(l.root, zero); err != nil {
			l.Release()
			return nil, err
		}
	}
	return l, nil
}

// NewFilled returns a list holding n copies of v.
func NewFilled[T any](n int, v T, opts ...Option[T]) (*List[T], error) {
	l, err := New(opts...)
	if err != nil {
		return nil, err
	}
	for range n {
		if err := l.PushBack(v); err != nil {
			l.Release()
			return nil, err
		}
	}
	return l, nil
}

// init rebinds the allocator and links a fresh sentinel to itself.
func (l *List[T]) init() error {
	l.nodes = alloc.Rebind[node[T]](l.alloc)
	root, err := alloc.New(l.nodes, node[T]{kind: sentinelNode})
	if err != nil {
		return errors.Wrap(err, "list: allocate sentinel")
	}
	root.next = root
	root.prev = root
	l.root = root
	l.len = 0
	return nil
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return l.len
}

// Empty reports whether the list holds no elements.
func (l *List[T]) Empty() bool {
	return l.root.next == l.root
}

// Allocator returns the element allocator the list was built with.
func (l *List[T]) Allocator() alloc.Allocator[T] {
	return l.alloc
}

// Front returns the first element, or false if the list is empty.
func (l *List[T]) Front() (T, bool) {
	if l.Empty() {
		var zero T
		return zero, false
	}
	return l.root.next.value, true
}

// Back returns the last element, or false if the list is empty.
func (l *List[T]) Back() (T, bool) {
	if l.Empty() {
		var zero T
		return zero, false
	}
	return l.root.prev.value, true
}

func (l *List[T]) copyOf(v T) (T, error) {
	if l.clone == nil {
		return v, nil
	}
	return l.clone(v)
}

// insert allocates a node, copies v into it and links it before at.
// If the copy fails the node storage is returned before the error is.
func (l *List[T]) insert(at *node[T], v T) (*node[T], error) {
	s, err := l.nodes.Allocate(1)
	if err != nil {
		return nil, errors.Wrap(err, "list: allocate node")
	}
	v, err = l.copyOf(v)
	if err != nil {
		l.nodes.Deallocate(s)
		return nil, err
	}
	n := &s[0]
	l.nodes.Construct(n, node[T]{kind: valueNode, value: v})
	l.splice(at, n)
	return n, nil
}

// link is insert without the element copy.
func (l *List[T]) link(at *node[T], v T) (*node[T], error) {
	n, err := alloc.New(l.nodes, node[T]{kind: valueNode, value: v})
	if err != nil {
		return nil, errors.Wrap(err, "list: allocate node")
	}
	l.splice(at, n)
	return n, nil
}

// splice links n immediately before at.
func (l *List[T]) splice(at, n *node[T]) {
	n.prev = at.prev
	n.next = at
	at.prev.next = n
	at.prev = n
	l.len++
}

// unlink removes n from the chain, destroys it and frees its storage.
func (l *List[T]) unlink(n *node[T]) T {
	if n.kind == sentinelNode {
		panic("list: remove from empty list")
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	l.len--
	v := n.value
	alloc.Delete(l.nodes, n)
	return v
}

// PushBack appends a copy of v.
func (l *List[T]) PushBack(v T) error {
	_, err := l.insert(l.root, v)
	return err
}

// PushFront prepends a copy of v.
func (l *List[T]) PushFront(v T) error {
	_, err := l.insert(l.root.next, v)
	return err
}

// PopBack removes and returns the last element. It panics if the list is empty.
func (l *List[T]) PopBack() T {
	return l.unlink(l.root.prev)
}

// PopFront removes and returns the first element. It panics if the list is empty.
func (l *List[T]) PopFront() T {
	return l.unlink(l.root.next)
}

// Insert places a copy of v before it and returns an iterator to it.
// No other iterator is invalidated.
func (l *List[T]) Insert(it Iterator[T], v T) (Iterator[T], error) {
	l.checkOwner(it)
	n, err := l.insert(it.n, v)
	if err != nil {
		return Iterator[T]{}, err
	}
	return Iterator[T]{l: l, n: n}, nil
}

// Erase removes the element at it and returns an iterator to the element
// that followed it. Only iterators to the erased element are invalidated.
func (l *List[T]) Erase(it Iterator[T]) Iterator[T] {
	l.checkOwner(it)
	next := it.n.next
	l.unlink(it.n)
	return Iterator[T]{l: l, n: next}
}

// Clone returns a deep copy of l. The copy's allocator is chosen by
// alloc.SelectOnCopy. If an element copy or allocation fails, every node
// built so far is released and Clone returns nil.
func (l *List[T]) Clone() (*List[T], error) {
	return l.cloneWith(alloc.SelectOnCopy(l.alloc), l.clone)
}

func (l *List[T]) cloneWith(a alloc.Allocator[T], clone func(T) (T, error)) (*List[T], error) {
	c := &List[T]{alloc: a, clone: clone}
	if err := c.init(); err != nil {
		return nil, err
	}
	for n := l.root.next; n != l.root; n = n.next {
		if _, err := c.insert(c.root, n.value); err != nil {
			c.Release()
			return nil, err
		}
	}
	return c, nil
}

// Assign replaces the contents of l with copies of other's elements. If
// other's allocator propagates on copy, l adopts it; otherwise l keeps its
// own allocator. The copy is built aside and swapped in, so l is unchanged
// when Assign fails.
func (l *List[T]) Assign(other *List[T]) error {
	a := l.alloc
	if other.alloc.PropagateOnCopy() {
		a = other.alloc
	}
	tmp, err := other.cloneWith(a, l.clone)
	if err != nil {
		return err
	}
	l.Swap(tmp)
	tmp.Release()
	return nil
}

// Swap exchanges the contents and allocators of l and other.
func (l *List[T]) Swap(other *List[T]) {
	*l, *other = *other, *l
}

// Clear removes every element. The sentinel is kept.
func (l *List[T]) Clear() {
	for !l.Empty() {
		l.PopBack()
	}
}

// Release removes every element and frees the sentinel.
func (l *List[T]) Release() {
	if l.root == nil {
		return
	}
	l.Clear()
	alloc.Delete(l.nodes, l.root)
	l.root = nil
}

// All returns an iterator over index/value pairs from front to back.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0
		for n := l.root.next; n != l.root; n = n.next {
			if !yield(i, n.value) {
				return
			}
			i++
		}
	}
}

// Backward returns an iterator over index/value pairs from back to front.
func (l *List[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := l.len - 1
		for n := l.root.prev; n != l.root; n = n.prev {
			if !yield(i, n.value) {
				return
			}
			i--
		}
	}
}

// Slice copies the elements into a new slice.
func (l *List[T]) Slice() []T {
	out := make([]T, 0, l.len)
	for _, v := range l.All() {
		out = append(out, v)
	}
	return out
}

func (l *List[T]) checkOwner(it Iterator[T]) {
	if it.l != l {
		panic("list: iterator belongs to another list")
	}
}
