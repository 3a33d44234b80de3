package observer

import (
	"sync"
	"sync/atomic"
)

// Mutex guards a value with mutual exclusion and poisoning.
//
// The critical section is the callback passed to Lock. If it panics the
// mutex is marked poisoned before it is unlocked and the panic continues.
// Every later acquisition reports ErrPoisoned without running its callback
// until ClearPoison is called.
type Mutex[T any] struct {
	mu       sync.Mutex
	poisoned atomic.Bool
	value    T
}

// NewMutex wraps value in a Mutex.
func NewMutex[T any](value T) *Mutex[T] {
	return &Mutex[T]{value: value}
}

// Lock blocks until the mutex is held, then calls fn with exclusive access to
// the value.
func (m *Mutex[T]) Lock(fn func(v *T)) error {
	m.mu.Lock()
	return m.locked("Mutex.Lock", fn)
}

// TryLock is Lock without blocking. It reports false if the mutex was held
// elsewhere or poisoned.
func (m *Mutex[T]) TryLock(fn func(v *T)) (bool, error) {
	if !m.mu.TryLock() {
		return false, nil
	}
	if err := m.locked("Mutex.TryLock", fn); err != nil {
		return false, err
	}
	return true, nil
}

// IsPoisoned reports whether a critical section panicked.
func (m *Mutex[T]) IsPoisoned() bool { return m.poisoned.Load() }

// ClearPoison accepts the guarded value as consistent again.
func (m *Mutex[T]) ClearPoison() { m.poisoned.Store(false) }

// locked runs fn with m.mu held and always unlocks it.
func (m *Mutex[T]) locked(op string, fn func(v *T)) error {
	defer m.mu.Unlock()
	if m.poisoned.Load() {
		return newViolation(PoisonViolation, op, ErrPoisoned, 2)
	}
	done := false
	defer func() {
		if !done {
			m.poisoned.Store(true)
		}
	}()
	fn(&m.value)
	done = true
	return nil
}

// RWMutex guards a value with a reader/writer lock and poisoning.
// Only a panicking writer poisons the lock.
type RWMutex[T any] struct {
	mu       sync.RWMutex
	poisoned atomic.Bool
	value    T
}

// NewRWMutex wraps value in an RWMutex.
func NewRWMutex[T any](value T) *RWMutex[T] {
	return &RWMutex[T]{value: value}
}

// RLock blocks until shared access is granted, then calls fn.
func (m *RWMutex[T]) RLock(fn func(v T)) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.poisoned.Load() {
		return newViolation(PoisonViolation, "RWMutex.RLock", ErrPoisoned, 1)
	}
	fn(m.value)
	return nil
}

// Lock blocks until exclusive access is granted, then calls fn.
func (m *RWMutex[T]) Lock(fn func(v *T)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.poisoned.Load() {
		return newViolation(PoisonViolation, "RWMutex.Lock", ErrPoisoned, 1)
	}
	done := false
	defer func() {
		if !done {
			m.poisoned.Store(true)
		}
	}()
	fn(&m.value)
	done = true
	return nil
}

// IsPoisoned reports whether a writer panicked.
func (m *RWMutex[T]) IsPoisoned() bool { return m.poisoned.Load() }

// ClearPoison accepts the guarded value as consistent again.
func (m *RWMutex[T]) ClearPoison() { m.poisoned.Store(false) }
