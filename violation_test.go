package observer_test

import (
	"errors"
	"strings"
	"testing"

	. "github.com/kan1-u/event-observer"
)

func TestViolationMessage(t *testing.T) {
	s := NewSubject[int]()
	err := Recover(func() { s.RemoveObserver(3) })

	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected *Violation, got %T", err)
	}
	msg := v.Error()
	for _, want := range []string{"bounds violation", "Subject.RemoveObserver", "index 3, len 0", "violation_test.go:"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestRecoverPassesOtherPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "other" {
			t.Errorf("expected non-violation panic to propagate, got %v", r)
		}
	}()
	_ = Recover(func() { panic("other") })
	t.Error("unreachable")
}

func TestRecoverWithoutPanic(t *testing.T) {
	if err := Recover(func() {}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestKindNames(t *testing.T) {
	for _, k := range AllKinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("weak"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if !KindArcMutexMut.Mutable() || KindArcMutex.Mutable() {
		t.Error("unexpected Mutable result")
	}
	if KindRcRefCell.Concurrent() || !KindArcRWMutex.Concurrent() {
		t.Error("unexpected Concurrent result")
	}
	if got := ViolationKind(99).String(); got != "ViolationKind(99)" {
		t.Errorf("unexpected fallback name %q", got)
	}
}
