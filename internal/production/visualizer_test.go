// Tests for DefaultVisualizer DOT and JSON export.
package production

import (
	"encoding/json"
	"strings"
	"testing"

	observer "github.com/kan1-u/event-observer"
	"github.com/kan1-u/event-observer/testutil"
)

func TestDefaultVisualizer_ExportDOT(t *testing.T) {
	shared := observer.NewArc(observer.NewMutex[observer.MutObserver[testutil.Event]](&testutil.Counter{}))

	a := observer.NewSubject[testutil.Event](observer.WithName("a"))
	a.AddArcMutexMutObserver(shared.Clone())
	a.AddBoxObserver(&testutil.AtomicCounter{})
	b := observer.NewSubject[testutil.Event](observer.WithName("b"))
	b.AddArcMutexMutObserver(shared.Clone())

	v := &DefaultVisualizer{}
	dot := v.ExportDOT(Describe(a, "counter"), Describe(b, "counter"))

	if !strings.HasPrefix(dot, "digraph Observers {") {
		t.Error("Missing DOT header")
	}
	if strings.Count(dot, `"counter" [label=`) != 1 {
		t.Errorf("expected one shared counter node:\n%s", dot)
	}
	for _, want := range []string{
		`"a" -> "counter" [label="0"];`,
		`"b" -> "counter" [label="0"];`,
		`"a" -> "a#1" [label="1"];`,
		`fillcolor=orange`,
		`\narc-mutex-mut`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
}

func TestDefaultVisualizer_ExportJSON(t *testing.T) {
	s := observer.NewSubject[testutil.Event](observer.WithName("s"))
	s.AddRcRefCellObserver(observer.NewRc(observer.NewRefCell[observer.Observer[testutil.Event]](&testutil.AtomicCounter{})))

	data, err := (&DefaultVisualizer{}).ExportJSON(Describe(s))
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	var views []View
	if err := json.Unmarshal(data, &views); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(views) != 1 || views[0].Subject != "s" || len(views[0].Observers) != 1 {
		t.Fatalf("unexpected views: %+v", views)
	}
	if views[0].Observers[0].Kind != observer.KindRcRefCell {
		t.Errorf("expected rc-refcell, got %v", views[0].Observers[0].Kind)
	}
	if !strings.Contains(string(data), `"kind": "rc-refcell"`) {
		t.Errorf("expected kind as text, got %s", data)
	}
}
