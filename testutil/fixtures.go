// Package testutil provides observer fixtures shared by the root package
// tests and the production adapter tests.
package testutil

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	observer "github.com/kan1-u/event-observer"
)

// Event is the payload used throughout the tests.
type Event struct {
	Seq  int
	Name string
}

// Entry is one reaction seen by a Journal.
type Entry struct {
	Observer string
	Event    Event
}

// Journal records reactions in call order. Safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
}

func (j *Journal) Add(name string, e Event) {
	j.mu.Lock()
	j.entries = append(j.entries, Entry{Observer: name, Event: e})
	j.mu.Unlock()
}

// Entries returns a copy of everything recorded so far.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Names returns the observer name of each entry.
func (j *Journal) Names() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	for i, e := range j.entries {
		out[i] = e.Observer
	}
	return out
}

func (j *Journal) Reset() {
	j.mu.Lock()
	j.entries = nil
	j.mu.Unlock()
}

// Probe is a read-only observer writing to a Journal.
type Probe struct {
	Name    string
	Journal *Journal
}

func (p *Probe) OnNotify(e Event) { p.Journal.Add(p.Name, e) }

// Counter is a mutable observer. It has no synchronization of its own and
// relies on the wrapper it is registered through.
type Counter struct {
	N    int
	Last Event
}

func (c *Counter) OnNotifyMut(e Event) {
	c.N++
	c.Last = e
}

// AtomicCounter is a read-only observer safe to share through an Arc.
type AtomicCounter struct {
	n atomic.Int64
}

func (c *AtomicCounter) OnNotify(Event) { c.n.Add(1) }
func (c *AtomicCounter) Count() int64   { return c.n.Load() }

// OverlapDetector is a mutable observer that counts reactions which started
// while another reaction on the same detector was still running.
type OverlapDetector struct {
	// Hold keeps each reaction busy to widen the race window.
	Hold time.Duration

	inside   atomic.Int32
	overlaps atomic.Int64
	calls    atomic.Int64
}

func (d *OverlapDetector) OnNotifyMut(Event) {
	if d.inside.Add(1) != 1 {
		d.overlaps.Add(1)
	}
	if d.Hold > 0 {
		time.Sleep(d.Hold)
	} else {
		runtime.Gosched()
	}
	d.calls.Add(1)
	d.inside.Add(-1)
}

func (d *OverlapDetector) Overlaps() int64 { return d.overlaps.Load() }

func (d *OverlapDetector) Calls() int64 { return d.calls.Load() }

// Panicker panics with Value from either contract.
type Panicker struct {
	Value any
}

func (p *Panicker) OnNotify(Event)    { panic(p.Value) }
func (p *Panicker) OnNotifyMut(Event) { panic(p.Value) }

// MustViolate runs fn and fails the test unless it panics with a
// *observer.Violation wrapping want.
func MustViolate(t testing.TB, want error, fn func()) *observer.Violation {
	t.Helper()
	err := observer.Recover(fn)
	var v *observer.Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected violation, got %v", err)
	}
	if want != nil && !errors.Is(v, want) {
		t.Fatalf("expected %v, got %v", want, v)
	}
	return v
}
