package deque

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/containers/alloc"
	"github.com/pavanmanishd/containers/arena"
)

var errBoom = errors.New("boom")

// flakyClone returns a clone function that fails on the n-th call after
// arm is called. Before arming it never fails.
func flakyClone() (clone func(int) (int, error), arm func(n int)) {
	calls, failOn := 0, -1
	clone = func(v int) (int, error) {
		calls++
		if calls == failOn {
			return 0, errBoom
		}
		return v, nil
	}
	arm = func(n int) {
		calls, failOn = 0, n
	}
	return clone, arm
}

func newInts(t *testing.T, vals []int, opts ...Option[int]) *Deque[int] {
	t.Helper()
	d, err := New(opts...)
	require.NoError(t, err)
	for _, v := range vals {
		require.NoError(t, d.PushBack(v))
	}
	return d
}

func TestNew(t *testing.T) {
	d, err := New[int]()
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
	assert.True(t, d.Empty())
	assert.Len(t, d.blocks, defaultBlocks)
	assert.Equal(t, cursor{block: 4}, d.left)
	assert.True(t, d.Begin().Equal(d.End()))

	_, ok := d.Front()
	assert.False(t, ok)
	_, ok = d.Back()
	assert.False(t, ok)
}

func TestNewSized(t *testing.T) {
	tests := []struct {
		n      int
		blocks int
	}{
		{0, 2},
		{5, 2},
		{31, 2},
		{32, 4},
		{100, 8},
	}

	for _, tt := range tests {
		d, err := NewSized[string](tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.n, d.Len())
		assert.Len(t, d.blocks, tt.blocks, "n=%d", tt.n)
		for _, v := range d.All() {
			assert.Empty(t, v)
		}
	}
}

func TestNewFilled(t *testing.T) {
	d, err := NewFilled(70, "x")
	require.NoError(t, err)
	assert.Equal(t, 70, d.Len())
	assert.Equal(t, slices.Repeat([]string{"x"}, 70), d.Slice())
}

func TestNewFilledCloneFailure(t *testing.T) {
	clone, arm := flakyClone()
	arm(3)
	d, err := NewFilled(10, 1, WithClone(clone))
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, d)
}

func TestPushPopScenario(t *testing.T) {
	d := newInts(t, lo.RangeFrom(1, 100))
	for range 50 {
		d.PopFront()
	}
	for i := 10; i >= 1; i-- {
		require.NoError(t, d.PushFront(-i))
	}

	assert.Equal(t, 60, d.Len())
	first, err := d.At(0)
	require.NoError(t, err)
	assert.Equal(t, -1, first)
	last, err := d.At(59)
	require.NoError(t, err)
	assert.Equal(t, 100, last)
	assert.Equal(t, -10, d.Index(9))
	assert.Equal(t, 51, d.Index(10))
}

func TestAtOutOfRange(t *testing.T) {
	d := newInts(t, []int{1, 2, 3})

	for _, i := range []int{-1, 3, 100} {
		_, err := d.At(i)
		assert.ErrorIs(t, err, ErrOutOfRange, "index %d", i)
	}

	v, err := d.At(2)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestRandomOpsMatchSlice(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	d, err := New[int]()
	require.NoError(t, err)
	var model []int

	for step := range 5000 {
		switch op := rng.Intn(4); {
		case op == 0:
			require.NoError(t, d.PushBack(step))
			model = append(model, step)
		case op == 1:
			require.NoError(t, d.PushFront(step))
			model = slices.Insert(model, 0, step)
		case op == 2 && len(model) > 0:
			assert.Equal(t, model[len(model)-1], d.PopBack())
			model = model[:len(model)-1]
		case op == 3 && len(model) > 0:
			assert.Equal(t, model[0], d.PopFront())
			model = model[1:]
		}
		require.Equal(t, len(model), d.Len(), "step %d", step)
	}

	for i, v := range model {
		require.Equal(t, v, d.Index(i))
	}
}

func TestGrowth(t *testing.T) {
	const k = 10_000
	d, err := New[int]()
	require.NoError(t, err)

	for i := range k {
		require.NoError(t, d.PushBack(i))
		require.NoError(t, d.PushFront(-i - 1))
	}

	require.Equal(t, 2*k, d.Len())
	for i := range k {
		require.Equal(t, -k+i, d.Index(i))
		require.Equal(t, i, d.Index(k+i))
	}
	front, ok := d.Front()
	require.True(t, ok)
	assert.Equal(t, -k, front)
	back, ok := d.Back()
	require.True(t, ok)
	assert.Equal(t, k-1, back)

	// Growth is proportional to the span, not one block at a time
	assert.Less(t, len(d.blocks), 4*(2*k/BlockSize+1))
}

func TestPopDestroysSlot(t *testing.T) {
	d, err := New[*int]()
	require.NoError(t, err)
	x := 5
	require.NoError(t, d.PushBack(&x))
	require.NoError(t, d.PushFront(&x))

	back := d.right.add(-1)
	assert.Same(t, &x, d.PopBack())
	assert.Nil(t, *d.slot(back))

	front := d.left
	assert.Same(t, &x, d.PopFront())
	assert.Nil(t, *d.slot(front))
}

func TestPopEmptyPanics(t *testing.T) {
	d, err := New[int]()
	require.NoError(t, err)
	assert.PanicsWithValue(t, "deque: PopBack on empty deque", func() { d.PopBack() })
	assert.PanicsWithValue(t, "deque: PopFront on empty deque", func() { d.PopFront() })
}

func TestInsert(t *testing.T) {
	base := lo.Range(100)

	for _, idx := range []int{0, 1, 17, 49, 50, 51, 99, 100} {
		d := newInts(t, base)
		it, err := d.Insert(d.Begin().Add(idx), -1)
		require.NoError(t, err)

		assert.Equal(t, -1, it.Value(), "idx %d", idx)
		assert.Equal(t, idx, it.Sub(d.Begin()))
		assert.Equal(t, slices.Insert(slices.Clone(base), idx, -1), d.Slice(), "idx %d", idx)
	}
}

func TestInsertAcrossFrontGrowth(t *testing.T) {
	d, err := New[int]()
	require.NoError(t, err)
	var model []int
	for i := range 300 {
		idx := i / 3
		_, err := d.Insert(d.Begin().Add(idx), i)
		require.NoError(t, err)
		model = slices.Insert(model, idx, i)
	}
	assert.Equal(t, model, d.Slice())
}

func TestErase(t *testing.T) {
	base := lo.Range(100)

	for _, idx := range []int{0, 1, 17, 49, 50, 51, 98, 99} {
		d := newInts(t, base)
		next := d.Erase(d.Begin().Add(idx))

		want := slices.Delete(slices.Clone(base), idx, idx+1)
		assert.Equal(t, want, d.Slice(), "idx %d", idx)
		if idx < len(want) {
			assert.Equal(t, want[idx], next.Value())
		} else {
			assert.True(t, next.Equal(d.End()))
		}
	}
}

func TestForeignIteratorPanics(t *testing.T) {
	a := newInts(t, []int{1, 2})
	b := newInts(t, []int{1, 2})
	assert.Panics(t, func() { a.Erase(b.Begin()) })
	assert.Panics(t, func() { _, _ = a.Insert(b.Begin(), 3) })
}

func TestCloneIsDeep(t *testing.T) {
	d := newInts(t, lo.Range(70))
	d.PopFront()

	c, err := d.Clone()
	require.NoError(t, err)
	assert.Equal(t, d.Slice(), c.Slice())
	assert.Len(t, c.blocks, 3, "69 elements fit exactly in 3 blocks")

	c.Set(0, 1000)
	require.NoError(t, c.PushBack(-1))
	require.NoError(t, c.PushFront(-2))
	c.Erase(c.Begin().Add(10))

	assert.Equal(t, lo.RangeFrom(1, 69), d.Slice())
}

func TestCloneEmpty(t *testing.T) {
	d, err := New[int]()
	require.NoError(t, err)
	c, err := d.Clone()
	require.NoError(t, err)
	assert.Empty(t, c.blocks)

	require.NoError(t, c.PushFront(1))
	require.NoError(t, c.PushBack(2))
	assert.Equal(t, []int{1, 2}, c.Slice())
}

func TestCloneAllocatorSelection(t *testing.T) {
	r := arena.New(1 << 14)

	on := alloc.For[int](r, alloc.WithPropagateOnCopy(true))
	c, err := newInts(t, lo.Range(40), WithAllocator(on)).Clone()
	require.NoError(t, err)
	assert.True(t, c.Allocator().Equal(on))

	off := alloc.For[int](r)
	src := newInts(t, lo.Range(40), WithAllocator(off))
	allocs := r.Allocs()
	c, err = src.Clone()
	require.NoError(t, err)
	assert.True(t, c.Allocator().Equal(alloc.Default[int]()))
	assert.Equal(t, allocs, r.Allocs(), "a heap copy takes nothing from the arena")
	assert.Equal(t, lo.Range(40), c.Slice())
}

func TestCloneFailureLeavesSourceUntouched(t *testing.T) {
	r := arena.New(1 << 16)
	clone, arm := flakyClone()
	a := alloc.For[int](r, alloc.WithPropagateOnCopy(true))
	d := newInts(t, lo.Range(100), WithAllocator(a), WithClone(clone))

	allocs := r.Allocs()
	arm(40)
	c, err := d.Clone()
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, c)
	assert.Equal(t, lo.Range(100), d.Slice())
	assert.Equal(t, r.Allocs()-allocs, r.Frees(), "every block of the partial copy is returned")
}

func TestAssign(t *testing.T) {
	src := newInts(t, []int{1, 2, 3})
	dst := newInts(t, lo.Range(50))

	require.NoError(t, dst.Assign(src))
	assert.Equal(t, []int{1, 2, 3}, dst.Slice())

	require.NoError(t, dst.PushBack(4))
	assert.Equal(t, []int{1, 2, 3}, src.Slice())
}

func TestAssignFailureLeavesReceiver(t *testing.T) {
	clone, arm := flakyClone()
	src := newInts(t, lo.Range(10))
	dst := newInts(t, []int{7, 8, 9}, WithClone(clone))

	arm(5)
	assert.ErrorIs(t, dst.Assign(src), errBoom)
	assert.Equal(t, []int{7, 8, 9}, dst.Slice())

	// The receiver's clone function travels with it through the swap
	require.NoError(t, dst.Assign(src))
	arm(1)
	assert.ErrorIs(t, dst.PushBack(10), errBoom)
}

func TestAssignIgnoresSourceClone(t *testing.T) {
	clone, arm := flakyClone()
	src := newInts(t, lo.Range(10), WithClone(clone))
	dst := newInts(t, []int{7, 8, 9})

	arm(1)
	require.NoError(t, dst.Assign(src))
	assert.Equal(t, lo.Range(10), dst.Slice())
}

func TestAssignAllocatorPropagation(t *testing.T) {
	r1 := arena.New(1 << 16)
	r2 := arena.New(1 << 16)

	t.Run("propagating source", func(t *testing.T) {
		srcAlloc := alloc.For[int](r1, alloc.WithPropagateOnCopy(true))
		src := newInts(t, []int{1, 2}, WithAllocator(srcAlloc))
		dst := newInts(t, []int{3}, WithAllocator(alloc.For[int](r2)))

		require.NoError(t, dst.Assign(src))
		assert.True(t, dst.Allocator().Equal(srcAlloc))
	})

	t.Run("non-propagating source", func(t *testing.T) {
		src := newInts(t, []int{1, 2}, WithAllocator(alloc.For[int](r1)))
		dstAlloc := alloc.For[int](r2)
		dst := newInts(t, []int{3}, WithAllocator(dstAlloc))

		require.NoError(t, dst.Assign(src))
		assert.True(t, dst.Allocator().Equal(dstAlloc))
		assert.Equal(t, []int{1, 2}, dst.Slice())
	})
}

func TestArenaExhaustion(t *testing.T) {
	r := arena.New(arena.SizeFor[int](defaultBlocks * BlockSize))
	d, err := New(WithAllocator(alloc.For[int](r)))
	require.NoError(t, err)

	// The middle block is 4, so six blocks lie at and after the cursor
	const room = (defaultBlocks - 4) * BlockSize
	for i := range room {
		require.NoError(t, d.PushBack(i))
	}

	err = d.PushBack(room)
	assert.ErrorIs(t, err, arena.ErrExhausted)
	assert.Equal(t, room, d.Len())
	back, _ := d.Back()
	assert.Equal(t, room-1, back)

	// Front slots are still free
	require.NoError(t, d.PushFront(-1))
	front, _ := d.Front()
	assert.Equal(t, -1, front)
}

func TestReleaseReturnsBlocks(t *testing.T) {
	r := arena.New(1 << 16)
	d := newInts(t, lo.Range(100), WithAllocator(alloc.For[int](r)))

	d.Release()
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, r.Allocs(), r.Frees())

	require.NoError(t, d.PushBack(1))
	assert.Equal(t, []int{1}, d.Slice())
}

func TestSwap(t *testing.T) {
	a := newInts(t, []int{1, 2})
	b := newInts(t, []int{3})
	a.Swap(b)
	assert.Equal(t, []int{3}, a.Slice())
	assert.Equal(t, []int{1, 2}, b.Slice())
}

func TestClear(t *testing.T) {
	d := newInts(t, lo.Range(40))
	blocks := len(d.blocks)
	d.Clear()
	assert.True(t, d.Empty())
	assert.Len(t, d.blocks, blocks)
}

func TestTraversal(t *testing.T) {
	d := newInts(t, lo.Range(40))
	require.NoError(t, d.PushFront(-1))

	var forward []int
	for i, v := range d.All() {
		assert.Equal(t, d.Index(i), v)
		forward = append(forward, v)
	}
	assert.Equal(t, append([]int{-1}, lo.Range(40)...), forward)

	var backward []int
	for i, v := range d.Backward() {
		assert.Equal(t, d.Index(i), v)
		backward = append(backward, v)
	}
	assert.Equal(t, lo.Reverse(slices.Clone(forward)), backward)

	// Early exit
	n := 0
	for range d.Values() {
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, 5, n)
}
