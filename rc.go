package observer

import "sync/atomic"

// Rc is a reference-counted handle for values shared within one goroutine.
// The count is not atomic; use Arc when handles cross goroutines. A nil *Rc
// behaves as a released handle.
//
// Each handle is released independently. Once every handle is released the
// value is no longer referenced and is left to the garbage collector; it is
// never closed or modified.
type Rc[T any] struct {
	box *rcBox[T]
}

type rcBox[T any] struct {
	value  T
	strong int
}

// NewRc returns the first handle to value.
func NewRc[T any](value T) *Rc[T] {
	return &Rc[T]{box: &rcBox[T]{value: value, strong: 1}}
}

// Get returns the shared value.
func (r *Rc[T]) Get() T {
	if r == nil || r.box == nil {
		panic(newViolation(ReleasedViolation, "Rc.Get", ErrReleased, 1))
	}
	return r.box.value
}

// Clone returns a new handle to the same value.
func (r *Rc[T]) Clone() *Rc[T] {
	if r == nil || r.box == nil {
		panic(newViolation(ReleasedViolation, "Rc.Clone", ErrReleased, 1))
	}
	r.box.strong++
	return &Rc[T]{box: r.box}
}

// Release drops this handle. It reports true when it was the last handle.
// Releasing an already released handle is a no-op.
func (r *Rc[T]) Release() bool {
	if r == nil || r.box == nil {
		return false
	}
	b := r.box
	r.box = nil
	b.strong--
	return b.strong == 0
}

// StrongCount returns the number of live handles, or 0 if r was released.
func (r *Rc[T]) StrongCount() int {
	if r == nil || r.box == nil {
		return 0
	}
	return r.box.strong
}

// SameAs reports whether both handles point at the same allocation.
func (r *Rc[T]) SameAs(other *Rc[T]) bool {
	return r != nil && other != nil && r.box != nil && r.box == other.box
}

// Arc is the goroutine-safe counterpart of Rc with an atomic count. A nil
// *Arc behaves as a released handle.
type Arc[T any] struct {
	box atomic.Pointer[arcBox[T]]
}

type arcBox[T any] struct {
	value  T
	strong atomic.Int64
}

// NewArc returns the first handle to value.
func NewArc[T any](value T) *Arc[T] {
	b := &arcBox[T]{value: value}
	b.strong.Store(1)
	a := &Arc[T]{}
	a.box.Store(b)
	return a
}

// Get returns the shared value.
func (a *Arc[T]) Get() T {
	b := a.load()
	if b == nil {
		panic(newViolation(ReleasedViolation, "Arc.Get", ErrReleased, 1))
	}
	return b.value
}

// Clone returns a new handle to the same value.
func (a *Arc[T]) Clone() *Arc[T] {
	b := a.load()
	if b == nil {
		panic(newViolation(ReleasedViolation, "Arc.Clone", ErrReleased, 1))
	}
	b.strong.Add(1)
	c := &Arc[T]{}
	c.box.Store(b)
	return c
}

// Release drops this handle. It reports true when it was the last handle.
// Concurrent releases of the same handle decrement the count once.
func (a *Arc[T]) Release() bool {
	if a == nil {
		return false
	}
	b := a.box.Swap(nil)
	if b == nil {
		return false
	}
	return b.strong.Add(-1) == 0
}

// StrongCount returns the number of live handles, or 0 if a was released.
func (a *Arc[T]) StrongCount() int {
	b := a.load()
	if b == nil {
		return 0
	}
	return int(b.strong.Load())
}

// SameAs reports whether both handles point at the same allocation.
func (a *Arc[T]) SameAs(other *Arc[T]) bool {
	b := a.load()
	return b != nil && b == other.load()
}

// load returns the box, or nil for a released or nil handle.
func (a *Arc[T]) load() *arcBox[T] {
	if a == nil {
		return nil
	}
	return a.box.Load()
}
