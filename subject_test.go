package observer_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	. "github.com/kan1-u/event-observer"
	"github.com/kan1-u/event-observer/testutil"
)

type event = testutil.Event

func probes(s *Subject[event], j *testutil.Journal, names ...string) []int {
	handles := make([]int, len(names))
	for i, name := range names {
		handles[i] = s.AddObserver(&testutil.Probe{Name: name, Journal: j})
	}
	return handles
}

func equalNames(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNotifyEmptySubject(t *testing.T) {
	s := NewSubject[event]()
	if err := Recover(func() { s.Notify(event{Seq: 1}) }); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected 0 observers, got %d", s.Len())
	}
}

func TestZeroValueSubject(t *testing.T) {
	var s Subject[event]
	var j testutil.Journal
	probes(&s, &j, "a")
	s.Notify(event{Seq: 1})
	equalNames(t, j.Names(), []string{"a"})
}

func TestNotifyRegistrationOrder(t *testing.T) {
	s := NewSubject[event]()
	var j testutil.Journal
	handles := probes(s, &j, "o1", "o2", "o3", "o4")
	for i, h := range handles {
		if h != i {
			t.Errorf("expected handle %d, got %d", i, h)
		}
	}

	s.Notify(event{Seq: 1})
	s.Notify(event{Seq: 2})

	equalNames(t, j.Names(), []string{"o1", "o2", "o3", "o4", "o1", "o2", "o3", "o4"})
	for i, e := range j.Entries() {
		if want := i/4 + 1; e.Event.Seq != want {
			t.Errorf("entry %d: expected seq %d, got %d", i, want, e.Event.Seq)
		}
	}
}

func TestRemoveObserverCompacts(t *testing.T) {
	s := NewSubject[event]()
	var j testutil.Journal
	probes(s, &j, "o1", "o2", "o3")

	removed := s.RemoveObserver(1)
	if p, ok := removed.(*testutil.Probe); !ok || p.Name != "o2" {
		t.Fatalf("expected o2 back, got %#v", removed)
	}
	s.Notify(event{})
	equalNames(t, j.Names(), []string{"o1", "o3"})

	// o3 moved from handle 2 to handle 1.
	if s.Len() != 2 {
		t.Fatalf("expected 2 observers, got %d", s.Len())
	}
	if p := s.RemoveObserver(1).(*testutil.Probe); p.Name != "o3" {
		t.Errorf("expected o3 at handle 1, got %s", p.Name)
	}
	if h := s.AddObserver(&testutil.Probe{Name: "o4", Journal: &j}); h != 1 {
		t.Errorf("expected next handle 1, got %d", h)
	}
}

func TestRemoveObserverOutOfBounds(t *testing.T) {
	s := NewSubject[event]()
	var j testutil.Journal
	probes(s, &j, "o1", "o2")

	for _, index := range []int{2, 5, -1} {
		v := testutil.MustViolate(t, ErrOutOfBounds, func() { s.RemoveObserver(index) })
		if v.Kind != BoundsViolation {
			t.Errorf("expected bounds violation, got %v", v.Kind)
		}
		if v.Index != index || v.Len != 2 {
			t.Errorf("expected index %d len 2, got index %d len %d", index, v.Index, v.Len)
		}
		if !strings.HasSuffix(v.File, "subject_test.go") {
			t.Errorf("expected location in the caller, got %s", v.File)
		}
	}

	if s.Len() != 2 {
		t.Fatalf("expected collection unchanged, got %d observers", s.Len())
	}
	s.Notify(event{})
	equalNames(t, j.Names(), []string{"o1", "o2"})
}

func TestNotifyAbortsOnPanic(t *testing.T) {
	s := NewSubject[event]()
	var j testutil.Journal
	probes(s, &j, "before")
	s.AddObserver(&testutil.Panicker{Value: "boom"})
	probes(s, &j, "after")

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("expected reaction panic to propagate, got %v", r)
			}
		}()
		s.Notify(event{})
	}()
	equalNames(t, j.Names(), []string{"before"})
}

func TestNotifyDoesNotIsolateViolations(t *testing.T) {
	s := NewSubject[event]()
	var j testutil.Journal

	cell := NewRc(NewRefCell[MutObserver[event]](&testutil.Counter{}))
	probes(s, &j, "first")
	s.AddRcRefCellMutObserver(cell.Clone())
	probes(s, &j, "last")

	// Hold the cell while notifying so the bridge cannot borrow it.
	cell.Get().Borrow(func(MutObserver[event]) {
		testutil.MustViolate(t, ErrAlreadyBorrowed, func() { s.Notify(event{}) })
	})
	equalNames(t, j.Names(), []string{"first"})

	j.Reset()
	s.Notify(event{})
	equalNames(t, j.Names(), []string{"first", "last"})
}

func TestNotifyLogsViolation(t *testing.T) {
	var buf bytes.Buffer
	s := NewSubject[event](WithName("orders"), WithLogger(zerolog.New(&buf)))
	if s.Name() != "orders" {
		t.Errorf("expected name orders, got %q", s.Name())
	}

	m := NewMutex[Observer[event]](&testutil.Panicker{Value: "boom"})
	s.AddArcMutexObserver(NewArc(m))
	func() {
		defer func() { _ = recover() }()
		s.Notify(event{})
	}()
	if !m.IsPoisoned() {
		t.Fatal("expected mutex poisoned by the panicking observer")
	}
	buf.Reset()

	testutil.MustViolate(t, ErrPoisoned, func() { s.Notify(event{}) })

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if line["level"] != "error" || line["subject"] != "orders" || line["kind"] != "arc-mutex" || line["violation"] != "poison" {
		t.Errorf("unexpected log line: %v", line)
	}
}

func TestCloseReleasesHandles(t *testing.T) {
	s := NewSubject[event]()
	shared := NewArc[Observer[event]](&testutil.AtomicCounter{})
	local := NewRc[Observer[event]](&testutil.AtomicCounter{})

	s.AddArcObserver(shared.Clone())
	s.AddRcObserver(local.Clone())
	s.AddBoxObserver(&testutil.AtomicCounter{})
	if shared.StrongCount() != 2 || local.StrongCount() != 2 {
		t.Fatalf("expected counts 2/2, got %d/%d", shared.StrongCount(), local.StrongCount())
	}

	s.Close()
	if s.Len() != 0 {
		t.Errorf("expected empty subject, got %d", s.Len())
	}
	if shared.StrongCount() != 1 || local.StrongCount() != 1 {
		t.Errorf("expected counts 1/1, got %d/%d", shared.StrongCount(), local.StrongCount())
	}
	// Observers referenced elsewhere stay usable.
	shared.Get().OnNotify(event{})
	if c := shared.Get().(*testutil.AtomicCounter).Count(); c != 1 {
		t.Errorf("expected 1, got %d", c)
	}
}

func TestRemovedAdapterKeepsHandle(t *testing.T) {
	s := NewSubject[event]()
	counter := &testutil.Counter{}
	arc := NewArc(NewRWMutex[MutObserver[event]](counter))
	s.AddArcRWMutexMutObserver(arc.Clone())

	removed, ok := s.RemoveObserver(0).(*ArcRWMutexMutObserver[event])
	if !ok {
		t.Fatal("expected the RWMutex adapter back")
	}
	if !removed.Handle().SameAs(arc) {
		t.Error("expected adapter to hold the registered handle")
	}
	removed.OnNotify(event{Seq: 9})
	if counter.N != 1 || counter.Last.Seq != 9 {
		t.Errorf("unexpected counter state %+v", counter)
	}
	if removed.Release() {
		t.Error("expected another live handle")
	}
	testutil.MustViolate(t, ErrReleased, func() { removed.OnNotify(event{}) })
	if errors.Is(Recover(func() { arc.Get() }), ErrReleased) {
		t.Error("original handle must stay usable")
	}
}

func TestKindsInRegistrationOrder(t *testing.T) {
	s := NewSubject[event]()
	s.AddBoxObserver(&testutil.AtomicCounter{})
	s.AddArcMutexMutObserver(NewArc(NewMutex[MutObserver[event]](&testutil.Counter{})))
	s.AddRcRefCellObserver(NewRc(NewRefCell[Observer[event]](&testutil.AtomicCounter{})))

	got := s.Kinds()
	want := []Kind{KindBox, KindArcMutexMut, KindRcRefCell}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
