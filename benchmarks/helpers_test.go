package benchmarks

import (
	"bytes"
	"testing"

	observer "github.com/kan1-u/event-observer"
)

func TestGenSubject(t *testing.T) {
	for _, k := range observer.AllKinds() {
		s := GenSubject(k, 3)
		if s.Len() != 3 {
			t.Errorf("%s: Len = %d, want 3", k, s.Len())
		}
		for i, got := range s.Kinds() {
			if got != k {
				t.Errorf("%s: Kinds()[%d] = %s", k, i, got)
			}
		}
		s.Notify(Tick{N: 1})
		s.Close()
	}
}

func TestGenRecordingYAML(t *testing.T) {
	data := GenRecordingYAML(2)
	if !bytes.Contains(data, []byte("name: ticks_2")) || bytes.Count(data, []byte("seq:")) != 2 {
		t.Errorf("unexpected YAML:\n%s", data)
	}
}
