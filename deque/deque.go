// Package deque implements a double-ended queue stored as an expandable
// array of fixed-capacity blocks.
//
// Elements live in blocks of BlockSize slots obtained from an
// alloc.Allocator. Two cursors, each a (block, offset) pair, delimit the
// live range [left, right). Pushing at either end is amortized O(1): when a
// cursor runs off the block array, the array grows at that end by as many
// blocks as the live span covers. Indexed access is O(1) through
// (block, offset) arithmetic.
//
// Iterators are invalidated by any push that grows the block array at the
// front and by Swap, Assign, Clear and Release.
package deque

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/containers/alloc"
)

// BlockSize is the number of element slots per block.
const BlockSize = 32

// defaultBlocks is the block count of a deque created with New.
const defaultBlocks = 10

// Option configures a Deque at construction.
type Option[T any] func(*Deque[T])

// WithAllocator makes the deque draw its blocks from a.
func WithAllocator[T any](a alloc.Allocator[T]) Option[T] {
	return func(d *Deque[T]) {
		d.alloc = a
	}
}

// WithClone sets the function used whenever the deque stores a copy of a
// value: pushes, filled construction and container copies. A clone error
// aborts the operation and leaves the deque as it was before the call.
func WithClone[T any](fn func(T) (T, error)) Option[T] {
	return func(d *Deque[T]) {
		d.clone = fn
	}
}

// Deque is a double-ended queue of T. The zero value is not usable;
// create deques with New, NewSized or NewFilled.
type Deque[T any] struct {
	blocks      [][]T
	left, right cursor
	alloc       alloc.Allocator[T]
	clone       func(T) (T, error)
}

// New returns an empty deque.
func New[T any](opts ...Option[T]) (*Deque[T], error) {
	return newDeque(defaultBlocks, opts)
}

// NewSized returns a deque holding n zero values.
func NewSized[T any](n int, opts ...Option[T]) (*Deque[T], error) {
	d, err := newDeque(blocksFor(n), opts)
	if err != nil {
		return nil, err
	}
	var zero T
	for range n {
		if err := d.construct(zero); err != nil {
			d.Release()
			return nil, err
		}
	}
	return d, nil
}

// NewFilled returns a deque holding n copies of v.
func NewFilled[T any](n int, v T, opts ...Option[T]) (*Deque[T], error) {
	d, err := newDeque(blocksFor(n), opts)
	if err != nil {
		return nil, err
	}
	for range n {
		if err := d.PushBack(v); err != nil {
			d.Release()
			return nil, err
		}
	}
	return d, nil
}

func blocksFor(n int) int {
	if n < 0 {
		n = 0
	}
	return (n/BlockSize + 1) * 2
}

func newDeque[T any](nblocks int, opts []Option[T]) (*Deque[T], error) {
	d := &Deque[T]{alloc: alloc.Default[T]()}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.reserve(nblocks); err != nil {
		return nil, err
	}
	return d, nil
}

// reserve allocates nblocks blocks and parks both cursors at the start of
// the middle block. The deque must hold no blocks.
func (d *Deque[T]) reserve(nblocks int) error {
	blocks, err := d.allocBlocks(nblocks)
	if err != nil {
		return err
	}
	d.blocks = blocks
	mid := 0
	if nblocks > 0 {
		mid = (nblocks - 1) / 2
	}
	d.left = cursor{block: mid}
	d.right = d.left
	return nil
}

// allocBlocks allocates n blocks, returning none of them on failure.
func (d *Deque[T]) allocBlocks(n int) ([][]T, error) {
	blocks := make([][]T, 0, n)
	for range n {
		b, err := d.alloc.Allocate(BlockSize)
		if err != nil {
			for _, b := range blocks {
				d.alloc.Deallocate(b)
			}
			return nil, errors.Wrap(err, "deque: allocate block")
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// Len returns the number of elements.
func (d *Deque[T]) Len() int {
	return d.right.sub(d.left)
}

// Empty reports whether the deque holds no elements.
func (d *Deque[T]) Empty() bool {
	return d.left == d.right
}

// Allocator returns the allocator the deque draws blocks from.
func (d *Deque[T]) Allocator() alloc.Allocator[T] {
	return d.alloc
}

func (d *Deque[T]) slot(c cursor) *T {
	return &d.blocks[c.block][c.off]
}

// Ptr returns a pointer to element i. No bounds check beyond the slice's.
func (d *Deque[T]) Ptr(i int) *T {
	return d.slot(d.left.add(i))
}

// Index returns element i without checking i against Len.
func (d *Deque[T]) Index(i int) T {
	return *d.Ptr(i)
}

// Set replaces element i without checking i against Len.
func (d *Deque[T]) Set(i int, v T) {
	*d.Ptr(i) = v
}

// At returns element i, or ErrOutOfRange if i is not in [0, Len()).
func (d *Deque[T]) At(i int) (T, error) {
	if n := d.Len(); i < 0 || i >= n {
		var zero T
		return zero, errors.Wrapf(ErrOutOfRange, "index %d, length %d", i, n)
	}
	return d.Index(i), nil
}

// Front returns the first element, or false if the deque is empty.
func (d *Deque[T]) Front() (T, bool) {
	if d.Empty() {
		var zero T
		return zero, false
	}
	return *d.slot(d.left), true
}

// Back returns the last element, or false if the deque is empty.
func (d *Deque[T]) Back() (T, bool) {
	if d.Empty() {
		var zero T
		return zero, false
	}
	return *d.slot(d.right.add(-1)), true
}

func (d *Deque[T]) copyOf(v T) (T, error) {
	if d.clone == nil {
		return v, nil
	}
	return d.clone(v)
}

// PushBack appends a copy of v.
func (d *Deque[T]) PushBack(v T) error {
	v, err := d.copyOf(v)
	if err != nil {
		return err
	}
	return d.construct(v)
}

// construct places v at the right cursor, growing the block array first
// when the cursor sits past the last block.
func (d *Deque[T]) construct(v T) error {
	if d.right.off == 0 && d.right.block == len(d.blocks) {
		if err := d.growBack(); err != nil {
			return err
		}
	}
	d.alloc.Construct(d.slot(d.right), v)
	d.right = d.right.add(1)
	return nil
}

// PushFront prepends a copy of v.
func (d *Deque[T]) PushFront(v T) error {
	v, err := d.copyOf(v)
	if err != nil {
		return err
	}
	return d.constructFront(v)
}

// PopBack removes and returns the last element. It panics if the deque is empty.
func (d *Deque[T]) PopBack() T {
	d.panicIfEmpty("PopBack")
	d.right = d.right.add(-1)
	p := d.slot(d.right)
	v := *p
	d.alloc.Destroy(p)
	return v
}

// PopFront removes and returns the first element. It panics if the deque is empty.
func (d *Deque[T]) PopFront() T {
	d.panicIfEmpty("PopFront")
	p := d.slot(d.left)
	v := *p
	d.alloc.Destroy(p)
	d.left = d.left.add(1)
	return v
}

// growBack appends as many blocks as [left, right] touches.
func (d *Deque[T]) growBack() error {
	blocks, err := d.allocBlocks(d.span())
	if err != nil {
		return err
	}
	d.blocks = append(d.blocks, blocks...)
	return nil
}

// growFront prepends as many blocks as [left, right] touches
// and shifts both cursors past them.
func (d *Deque[T]) growFront() error {
	add := d.span()
	blocks, err := d.allocBlocks(add)
	if err != nil {
		return err
	}
	d.blocks = append(blocks, d.blocks...)
	d.left.block += add
	d.right.block += add
	return nil
}

// span is the number of blocks touched by [left, right], used as the
// growth increment so that repeated pushes stay amortized O(1).
func (d *Deque[T]) span() int {
	return d.right.block - d.left.block + 1
}

// Insert places a copy of v before it and returns an iterator to the new
// element. Elements between it and the nearer end are shifted by one.
func (d *Deque[T]) Insert(it Iterator[T], v T) (Iterator[T], error) {
	d.checkOwner(it)
	n := d.Len()
	idx := it.pos.sub(d.left)
	if idx < 0 || idx > n {
		return Iterator[T]{}, errors.Wrapf(ErrOutOfRange, "insert at %d, length %d", idx, n)
	}
	v, err := d.copyOf(v)
	if err != nil {
		return Iterator[T]{}, err
	}

	if idx < n/2 {
		if err := d.insertNearFront(v, idx); err != nil {
			return Iterator[T]{}, err
		}
	} else {
		if err := d.insertNearBack(v, idx, n); err != nil {
			return Iterator[T]{}, err
		}
	}
	return d.Begin().Add(idx), nil
}

// insertNearFront duplicates the first element at the front, then shifts
// elements [1, idx) one slot toward the front to open position idx.
func (d *Deque[T]) insertNearFront(v T, idx int) error {
	if idx == 0 {
		return d.constructFront(v)
	}
	if err := d.constructFront(d.Index(0)); err != nil {
		return err
	}
	for k := 1; k < idx; k++ {
		*d.Ptr(k) = d.Index(k + 1)
	}
	*d.Ptr(idx) = v
	return nil
}

// insertNearBack duplicates the last element at the back, then shifts
// elements [idx, n-1) one slot toward the back to open position idx.
func (d *Deque[T]) insertNearBack(v T, idx, n int) error {
	if idx == n {
		return d.construct(v)
	}
	if err := d.construct(d.Index(n - 1)); err != nil {
		return err
	}
	for k := n - 1; k > idx; k-- {
		*d.Ptr(k) = d.Index(k - 1)
	}
	*d.Ptr(idx) = v
	return nil
}

// constructFront places v just before the left cursor, growing the block
// array first when the cursor sits at the start of the first block.
func (d *Deque[T]) constructFront(v T) error {
	if d.left.off == 0 && d.left.block == 0 {
		if err := d.growFront(); err != nil {
			return err
		}
	}
	d.left = d.left.add(-1)
	d.alloc.Construct(d.slot(d.left), v)
	return nil
}

// Erase removes the element at it and returns an iterator to the element
// that followed it. Elements between it and the nearer end are shifted.
func (d *Deque[T]) Erase(it Iterator[T]) Iterator[T] {
	d.checkOwner(it)
	n := d.Len()
	idx := it.pos.sub(d.left)
	if idx < 0 || idx >= n {
		panic("deque: Erase outside [Begin, End)")
	}

	if idx < n/2 {
		for k := idx; k > 0; k-- {
			*d.Ptr(k) = d.Index(k - 1)
		}
		d.PopFront()
	} else {
		for k := idx; k < n-1; k++ {
			*d.Ptr(k) = d.Index(k + 1)
		}
		d.PopBack()
	}
	return d.Begin().Add(idx)
}

// Clone returns a deep copy whose blocks exactly fit the current elements.
// The copy draws from alloc.SelectOnCopy of this deque's allocator.
func (d *Deque[T]) Clone() (*Deque[T], error) {
	return d.cloneWith(alloc.SelectOnCopy(d.alloc), d.clone)
}

func (d *Deque[T]) cloneWith(a alloc.Allocator[T], clone func(T) (T, error)) (*Deque[T], error) {
	n := d.Len()
	c := &Deque[T]{alloc: a, clone: clone}
	blocks, err := c.allocBlocks((n + BlockSize - 1) / BlockSize)
	if err != nil {
		return nil, err
	}
	c.blocks = blocks
	for it := d.Begin(); !it.Equal(d.End()); it = it.Next() {
		if err := c.PushBack(it.Value()); err != nil {
			c.Release()
			return nil, err
		}
	}
	return c, nil
}

// Assign replaces the contents of d with copies of other's elements, made
// with d's clone function. If other's allocator propagates on copy, d adopts it; otherwise d keeps
// its own. On error d is left unchanged.
func (d *Deque[T]) Assign(other *Deque[T]) error {
	a := d.alloc
	if other.alloc.PropagateOnCopy() {
		a = other.alloc
	}
	tmp, err := other.cloneWith(a, d.clone)
	if err != nil {
		return err
	}
	d.Swap(tmp)
	tmp.Release()
	return nil
}

// Swap exchanges the contents and allocators of d and other.
func (d *Deque[T]) Swap(other *Deque[T]) {
	*d, *other = *other, *d
}

// Clear destroys every element. Blocks are kept for reuse.
func (d *Deque[T]) Clear() {
	for !d.Empty() {
		d.PopBack()
	}
}

// Release destroys every element and returns all blocks to the allocator.
// The deque stays usable and regrows on the next push.
func (d *Deque[T]) Release() {
	d.Clear()
	for _, b := range d.blocks {
		d.alloc.Deallocate(b)
	}
	d.blocks = nil
	d.left = cursor{}
	d.right = cursor{}
}

// All returns an iterator over index/value pairs from front to back.
func (d *Deque[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0
		for c := d.left; c != d.right; c = c.add(1) {
			if !yield(i, *d.slot(c)) {
				return
			}
			i++
		}
	}
}

// Backward returns an iterator over index/value pairs from back to front.
func (d *Deque[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := d.Len() - 1; i >= 0; i-- {
			if !yield(i, d.Index(i)) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements from front to back.
func (d *Deque[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range d.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Slice copies the elements into a new slice.
func (d *Deque[T]) Slice() []T {
	out := make([]T, 0, d.Len())
	for v := range d.Values() {
		out = append(out, v)
	}
	return out
}

func (d *Deque[T]) panicIfEmpty(op string) {
	if d.Empty() {
		panic("deque: " + op + " on empty deque")
	}
}

func (d *Deque[T]) checkOwner(it Iterator[T]) {
	if it.d != d {
		panic("deque: iterator belongs to another deque")
	}
}
