package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	observer "github.com/kan1-u/event-observer"
)

// View describes the observers registered on one subject.
type View struct {
	Subject   string         `json:"subject"`
	Observers []ObserverView `json:"observers"`
}

// ObserverView is one registration. Registrations with the same Label are
// drawn as a single shared node.
type ObserverView struct {
	Index int           `json:"index"`
	Kind  observer.Kind `json:"kind"`
	Label string        `json:"label,omitempty"`
}

// Describe captures the current registrations of s. labels, when given, name
// the observers by handle.
func Describe[E any](s *observer.Subject[E], labels ...string) View {
	v := View{Subject: s.Name()}
	for i, k := range s.Kinds() {
		ov := ObserverView{Index: i, Kind: k}
		if i < len(labels) {
			ov.Label = labels[i]
		}
		v.Observers = append(v.Observers, ov)
	}
	return v
}

// DefaultVisualizer renders views as Graphviz DOT or JSON.
type DefaultVisualizer struct{}

// ExportDOT draws subjects on the left and observers on the right, with one
// edge per registration labelled with its handle.
func (v *DefaultVisualizer) ExportDOT(views ...View) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Observers {\n  rankdir=LR;\n  node [fontsize=10];\n  edge [fontsize=9];\n")

	nodes := map[string]observer.Kind{}
	for _, view := range views {
		fmt.Fprintf(&buf, "  %q [shape=box style=rounded];\n", view.Subject)
		for _, ov := range view.Observers {
			nodes[nodeID(view, ov)] = ov.Kind
		}
	}

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		k := nodes[id]
		fmt.Fprintf(&buf, "  %q [label=\"%s\\n%s\"%s];\n", id, id, k, nodeStyle(k))
	}

	for _, view := range views {
		for _, ov := range view.Observers {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", view.Subject, nodeID(view, ov), ov.Index)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the views.
func (v *DefaultVisualizer) ExportJSON(views ...View) ([]byte, error) {
	return json.MarshalIndent(views, "", "  ")
}

func nodeID(view View, ov ObserverView) string {
	if ov.Label != "" {
		return ov.Label
	}
	return fmt.Sprintf("%s#%d", view.Subject, ov.Index)
}

func nodeStyle(k observer.Kind) string {
	switch {
	case k.Mutable():
		return " shape=ellipse style=filled fillcolor=orange"
	case k.Concurrent():
		return " shape=ellipse style=filled fillcolor=lightblue"
	default:
		return " shape=ellipse"
	}
}
