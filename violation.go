package observer

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

var (
	ErrAlreadyBorrowed        = errors.New("already borrowed")
	ErrAlreadyMutablyBorrowed = errors.New("already mutably borrowed")
	ErrPoisoned               = errors.New("poisoned lock: a previous holder panicked")
	ErrOutOfBounds            = errors.New("index out of bounds")
	ErrReleased               = errors.New("use of released handle")
)

// ViolationKind classifies an unrecoverable misuse detected by the library.
type ViolationKind int

const (
	// BorrowViolation is a conflicting RefCell borrow.
	BorrowViolation ViolationKind = iota + 1
	// PoisonViolation is an acquisition of a lock whose previous holder panicked.
	PoisonViolation
	// BoundsViolation is a stale or invalid Subject handle.
	BoundsViolation
	// ReleasedViolation is the use of an Rc or Arc handle after Release.
	ReleasedViolation
)

func (k ViolationKind) String() string {
	switch k {
	case BorrowViolation:
		return "borrow"
	case PoisonViolation:
		return "poison"
	case BoundsViolation:
		return "bounds"
	case ReleasedViolation:
		return "released"
	default:
		return fmt.Sprintf("ViolationKind(%d)", int(k))
	}
}

// Violation is the panic value raised for access and bounds violations.
// It also satisfies error, so the Try* variants and Recover can hand it back
// to callers that prefer an error value.
type Violation struct {
	Kind ViolationKind
	Op   string

	// Index and Len are set for bounds violations only.
	Index int
	Len   int

	// File and Line locate the call that triggered the violation.
	File string
	Line int

	err error
}

func (v *Violation) Error() string {
	msg := fmt.Sprintf("observer: %s violation in %s: %v", v.Kind, v.Op, v.err)
	if v.Kind == BoundsViolation {
		msg += fmt.Sprintf(" (index %d, len %d)", v.Index, v.Len)
	}
	if v.File != "" {
		msg += fmt.Sprintf(" at %s:%d", filepath.Base(v.File), v.Line)
	}
	return msg
}

func (v *Violation) Unwrap() error { return v.err }

// newViolation records the location skip frames above its caller.
func newViolation(kind ViolationKind, op string, err error, skip int) *Violation {
	v := &Violation{Kind: kind, Op: op, err: err}
	if _, file, line, ok := runtime.Caller(skip + 1); ok {
		v.File, v.Line = file, line
	}
	return v
}

func newBoundsViolation(op string, index, length, skip int) *Violation {
	v := newViolation(BoundsViolation, op, ErrOutOfBounds, skip+1)
	v.Index, v.Len = index, length
	return v
}

// Recover runs fn and converts a *Violation panic raised inside it into an
// error. Any other panic is propagated unchanged.
func Recover(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if v, ok := r.(*Violation); ok {
			err = v
			return
		}
		panic(r)
	}()
	fn()
	return nil
}
