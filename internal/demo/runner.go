// Package demo builds and drives the subjects described by a scenario.
package demo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	observer "github.com/kan1-u/event-observer"
	"github.com/kan1-u/event-observer/internal/config"
	"github.com/kan1-u/event-observer/internal/production"
)

// Event is the payload broadcast by the demo.
type Event struct {
	Subject string `json:"subject" yaml:"subject"`
	Seq     int    `json:"seq" yaml:"seq"`
}

// Report summarizes a run.
type Report struct {
	Scenario string
	Notifies int
	// Reactions counts reactions per wrapper kind, summed over subjects.
	Reactions map[string]int64
	// Recordings lists the files written for mutable observers.
	Recordings []string
	Views      []production.View
}

// Kinds returns the reaction keys in sorted order.
func (r *Report) Kinds() []string {
	out := make([]string, 0, len(r.Reactions))
	for k := range r.Reactions {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// fleet holds the observers shared by every subject of a run.
type fleet struct {
	reg       *prometheus.Registry
	log       zerolog.Logger
	recorders map[observer.Kind]*production.Recorder[Event]
	register  []func(s *observer.Subject[Event]) error
	closers   []func()
}

func newFleet(kinds []observer.Kind, log zerolog.Logger) (*fleet, error) {
	f := &fleet{
		reg:       prometheus.NewRegistry(),
		log:       log,
		recorders: map[observer.Kind]*production.Recorder[Event]{},
	}
	for _, k := range kinds {
		if err := f.add(k); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *fleet) metrics(k observer.Kind) (observer.Observer[Event], error) {
	return production.NewMetricsObserver[Event](f.reg, k.String())
}

// add prepares one shared observer of kind k and a function registering a
// fresh handle to it on a subject.
func (f *fleet) add(k observer.Kind) error {
	if k.Mutable() {
		rec := production.NewRecorder[Event]()
		f.recorders[k] = rec
		var m observer.MutObserver[Event] = rec
		switch k {
		case observer.KindRcRefCellMut:
			rc := observer.NewRc(observer.NewRefCell(m))
			f.share(func(s *observer.Subject[Event]) { s.AddRcRefCellMutObserver(rc.Clone()) }, func() { rc.Release() })
		case observer.KindArcMutexMut:
			arc := observer.NewArc(observer.NewMutex(m))
			f.share(func(s *observer.Subject[Event]) { s.AddArcMutexMutObserver(arc.Clone()) }, func() { arc.Release() })
		case observer.KindArcRWMutexMut:
			arc := observer.NewArc(observer.NewRWMutex(m))
			f.share(func(s *observer.Subject[Event]) { s.AddArcRWMutexMutObserver(arc.Clone()) }, func() { arc.Release() })
		}
		return nil
	}

	if k == observer.KindBox {
		// Each subject owns its own observer; they share one counter series.
		f.register = append(f.register, func(s *observer.Subject[Event]) error {
			o, err := f.metrics(k)
			if err != nil {
				return err
			}
			s.AddBoxObserver(o)
			return nil
		})
		return nil
	}

	o, err := f.metrics(k)
	if err != nil {
		return err
	}
	switch k {
	case observer.KindRc:
		rc := observer.NewRc(o)
		f.share(func(s *observer.Subject[Event]) { s.AddRcObserver(rc.Clone()) }, func() { rc.Release() })
	case observer.KindRcRefCell:
		rc := observer.NewRc(observer.NewRefCell(o))
		f.share(func(s *observer.Subject[Event]) { s.AddRcRefCellObserver(rc.Clone()) }, func() { rc.Release() })
	case observer.KindArc:
		arc := observer.NewArc(o)
		f.share(func(s *observer.Subject[Event]) { s.AddArcObserver(arc.Clone()) }, func() { arc.Release() })
	case observer.KindArcMutex:
		arc := observer.NewArc(observer.NewMutex(o))
		f.share(func(s *observer.Subject[Event]) { s.AddArcMutexObserver(arc.Clone()) }, func() { arc.Release() })
	case observer.KindArcRWMutex:
		arc := observer.NewArc(observer.NewRWMutex(o))
		f.share(func(s *observer.Subject[Event]) { s.AddArcRWMutexObserver(arc.Clone()) }, func() { arc.Release() })
	default:
		return fmt.Errorf("unsupported observer kind %s", k)
	}
	return nil
}

func (f *fleet) share(register func(s *observer.Subject[Event]), release func()) {
	f.register = append(f.register, func(s *observer.Subject[Event]) error {
		register(s)
		return nil
	})
	f.closers = append(f.closers, release)
}

func (f *fleet) attach(s *observer.Subject[Event]) error {
	for _, register := range f.register {
		if err := register(s); err != nil {
			return err
		}
	}
	return nil
}

func (f *fleet) close() {
	for _, release := range f.closers {
		release()
	}
}

// reactions reads the read-only counters back from the registry and the
// mutable ones from their recorders.
func (f *fleet) reactions() (map[string]int64, error) {
	out := map[string]int64{}
	mfs, err := f.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "observer_notifications_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "observer" {
					out[l.GetValue()] += int64(m.GetCounter().GetValue())
				}
			}
		}
	}
	for k, rec := range f.recorders {
		out[k.String()] = int64(rec.Len())
	}
	return out, nil
}

// Run builds sc.Subjects subjects sharing one observer per configured kind
// and notifies each of them sc.Events times.
func Run(ctx context.Context, sc config.Scenario, log zerolog.Logger) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	f, err := newFleet(sc.Wrappers, log)
	if err != nil {
		return nil, err
	}
	defer f.close()

	subjects := make([]*observer.Subject[Event], sc.Subjects)
	labels := make([]string, len(sc.Wrappers))
	for i, k := range sc.Wrappers {
		labels[i] = k.String()
	}
	report := &Report{Scenario: sc.Name}
	for i := range subjects {
		name := fmt.Sprintf("subject-%d", i)
		s := observer.NewSubject[Event](observer.WithName(name), observer.WithLogger(log))
		if err := f.attach(s); err != nil {
			return nil, err
		}
		subjects[i] = s
		report.Views = append(report.Views, describe(s, labels))
	}
	defer func() {
		for _, s := range subjects {
			s.Close()
		}
	}()

	errs := make([]error, len(subjects))
	counts := make([]int, len(subjects))
	drive := func(i int) {
		s := subjects[i]
		errs[i] = observer.Recover(func() {
			for n := 1; n <= sc.Events; n++ {
				if ctx.Err() != nil {
					return
				}
				s.Notify(Event{Subject: s.Name(), Seq: n})
				counts[i]++
			}
		})
	}
	if sc.Concurrent {
		var wg sync.WaitGroup
		for i := range subjects {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				drive(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range subjects {
			drive(i)
		}
	}
	for _, c := range counts {
		report.Notifies += c
	}
	if err := errors.Join(errs...); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	if report.Reactions, err = f.reactions(); err != nil {
		return report, err
	}
	if sc.RecordDir != "" {
		if err := f.save(ctx, sc, report); err != nil {
			return report, err
		}
	}
	log.Info().Str("scenario", sc.Name).Int("subjects", len(subjects)).Int("notifies", report.Notifies).Msg("run complete")
	return report, nil
}

func (f *fleet) save(ctx context.Context, sc config.Scenario, report *Report) error {
	p, err := production.NewPersister[Event](sc.RecordFormat, sc.RecordDir)
	if err != nil {
		return err
	}
	for _, k := range sc.Wrappers {
		rec, ok := f.recorders[k]
		if !ok {
			continue
		}
		name := sc.Name + "-" + k.String()
		if err := p.Save(ctx, rec.Recording(name)); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		report.Recordings = append(report.Recordings, name)
		f.log.Debug().Str("recording", name).Int("records", rec.Len()).Msg("recording saved")
	}
	return nil
}

func describe(s *observer.Subject[Event], labels []string) production.View {
	// Box observers are private to their subject.
	own := make([]string, len(labels))
	for i, k := range s.Kinds() {
		if k != observer.KindBox && i < len(labels) {
			own[i] = labels[i]
		}
	}
	return production.Describe(s, own...)
}
