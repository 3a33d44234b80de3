package observer

// BorrowState is the borrow count of a RefCell: zero when free, the number of
// readers when shared, MutablyBorrowed when held exclusively.
type BorrowState int

const (
	Unborrowed      BorrowState = 0
	MutablyBorrowed BorrowState = -1
)

// RefCell gives checked interior mutability to a value shared within one
// goroutine. Conflicting borrows are detected at run time: Borrow and
// BorrowMut panic with a *Violation, TryBorrow and TryBorrowMut return it.
//
// A borrow lasts exactly as long as the callback and is released even when
// the callback panics. RefCell is not safe for concurrent use.
type RefCell[T any] struct {
	value  T
	borrow BorrowState
}

// NewRefCell wraps value in a RefCell.
func NewRefCell[T any](value T) *RefCell[T] {
	return &RefCell[T]{value: value}
}

// Borrow calls fn with shared access to the value.
func (c *RefCell[T]) Borrow(fn func(v T)) {
	if v := c.acquireShared("RefCell.Borrow", 2); v != nil {
		panic(v)
	}
	defer c.releaseShared()
	fn(c.value)
}

// TryBorrow is Borrow but returns the conflict instead of panicking.
func (c *RefCell[T]) TryBorrow(fn func(v T)) error {
	if v := c.acquireShared("RefCell.TryBorrow", 2); v != nil {
		return v
	}
	defer c.releaseShared()
	fn(c.value)
	return nil
}

// BorrowMut calls fn with exclusive access to the value.
func (c *RefCell[T]) BorrowMut(fn func(v *T)) {
	if v := c.acquireExclusive("RefCell.BorrowMut", 2); v != nil {
		panic(v)
	}
	defer c.releaseExclusive()
	fn(&c.value)
}

// TryBorrowMut is BorrowMut but returns the conflict instead of panicking.
func (c *RefCell[T]) TryBorrowMut(fn func(v *T)) error {
	if v := c.acquireExclusive("RefCell.TryBorrowMut", 2); v != nil {
		return v
	}
	defer c.releaseExclusive()
	fn(&c.value)
	return nil
}

// BorrowState reports the current borrow count.
func (c *RefCell[T]) BorrowState() BorrowState {
	return c.borrow
}

func (c *RefCell[T]) acquireShared(op string, skip int) *Violation {
	if c.borrow == MutablyBorrowed {
		return newViolation(BorrowViolation, op, ErrAlreadyMutablyBorrowed, skip)
	}
	c.borrow++
	return nil
}

func (c *RefCell[T]) releaseShared() { c.borrow-- }

func (c *RefCell[T]) acquireExclusive(op string, skip int) *Violation {
	if c.borrow != Unborrowed {
		return newViolation(BorrowViolation, op, ErrAlreadyBorrowed, skip)
	}
	c.borrow = MutablyBorrowed
	return nil
}

func (c *RefCell[T]) releaseExclusive() { c.borrow = Unborrowed }
