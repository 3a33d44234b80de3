// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	observer "github.com/kan1-u/event-observer"
	"github.com/kan1-u/event-observer/internal/production"
)

// Tick is the benchmark event.
type Tick struct {
	N int `yaml:"n"`
}

type nop struct{}

func (nop) OnNotify(Tick) {}

type nopMut struct{ n int }

func (o *nopMut) OnNotifyMut(Tick) { o.n++ }

// GenSubject builds a subject with n observers of kind k, all sharing one
// underlying observer where the kind allows sharing.
func GenSubject(k observer.Kind, n int) *observer.Subject[Tick] {
	if n < 1 {
		n = 1
	}
	s := observer.NewSubject[Tick](observer.WithName(fmt.Sprintf("%s_%d", k, n)))
	var ro observer.Observer[Tick] = nop{}
	var rw observer.MutObserver[Tick] = &nopMut{}
	switch k {
	case observer.KindBox:
		for range n {
			s.AddBoxObserver(nop{})
		}
	case observer.KindRc:
		share(n, observer.NewRc(ro), s.AddRcObserver)
	case observer.KindRcRefCell:
		share(n, observer.NewRc(observer.NewRefCell(ro)), s.AddRcRefCellObserver)
	case observer.KindRcRefCellMut:
		share(n, observer.NewRc(observer.NewRefCell(rw)), s.AddRcRefCellMutObserver)
	case observer.KindArc:
		shareArc(n, observer.NewArc(ro), s.AddArcObserver)
	case observer.KindArcMutex:
		shareArc(n, observer.NewArc(observer.NewMutex(ro)), s.AddArcMutexObserver)
	case observer.KindArcMutexMut:
		shareArc(n, observer.NewArc(observer.NewMutex(rw)), s.AddArcMutexMutObserver)
	case observer.KindArcRWMutex:
		shareArc(n, observer.NewArc(observer.NewRWMutex(ro)), s.AddArcRWMutexObserver)
	case observer.KindArcRWMutexMut:
		shareArc(n, observer.NewArc(observer.NewRWMutex(rw)), s.AddArcRWMutexMutObserver)
	}
	return s
}

func share[T any](n int, rc *observer.Rc[T], add func(*observer.Rc[T]) int) {
	for range n - 1 {
		add(rc.Clone())
	}
	add(rc)
}

func shareArc[T any](n int, arc *observer.Arc[T], add func(*observer.Arc[T]) int) {
	for range n - 1 {
		add(arc.Clone())
	}
	add(arc)
}

// GenRecordingYAML records n ticks and returns the YAML encoding.
func GenRecordingYAML(n int) []byte {
	rec := production.NewRecorder[Tick]()
	for i := range n {
		rec.OnNotifyMut(Tick{N: i})
	}
	snap := rec.Recording(fmt.Sprintf("ticks_%d", n))
	snap.Saved = time.Time{}
	data, err := yaml.Marshal(snap)
	if err != nil {
		panic(err)
	}
	return data
}
