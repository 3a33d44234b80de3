package observer

import (
	"slices"

	"github.com/rs/zerolog"
)

// Subject broadcasts events of type E to its observers in registration order.
//
// Handles returned by the Add methods are positions. RemoveObserver compacts
// the list, so handles of observers registered after the removed one shift
// down by one and must be recomputed by the caller.
//
// A Subject is not safe for concurrent use; it arbitrates access to each
// observer through its wrapper but does not guard its own list. The list
// must not be modified from inside a reaction.
type Subject[E any] struct {
	observers []Observer[E]
	name      string
	log       zerolog.Logger
}

// Option configures a Subject.
type Option func(*options)

type options struct {
	name string
	log  zerolog.Logger
}

// WithName labels the subject in log output.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger installs a structured logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// NewSubject returns an empty Subject.
func NewSubject[E any](opts ...Option) *Subject[E] {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Subject[E]{
		name: o.name,
		log:  o.log.With().Str("subject", o.name).Logger(),
	}
}

// Notify calls every observer with event, one at a time, in order.
// A panic in a reaction, including a *Violation raised by a wrapper, is
// logged and propagates; later observers are not notified for this call.
func (s *Subject[E]) Notify(event E) {
	i := 0
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ev := s.log.Error().Int("index", i)
		if i < len(s.observers) {
			ev = ev.Stringer("kind", kindOf(s.observers[i]))
		}
		if v, ok := r.(*Violation); ok {
			ev = ev.Err(v).Stringer("violation", v.Kind)
		} else {
			ev = ev.Interface("panic", r)
		}
		ev.Msg("notify aborted")
		panic(r)
	}()
	for ; i < len(s.observers); i++ {
		s.observers[i].OnNotify(event)
	}
}

// AddObserver appends o and returns its index.
func (s *Subject[E]) AddObserver(o Observer[E]) int {
	s.observers = append(s.observers, o)
	index := len(s.observers) - 1
	s.log.Debug().Int("index", index).Stringer("kind", kindOf(o)).Msg("observer added")
	return index
}

// RemoveObserver removes and returns the observer at index, shifting later
// observers down by one. An index outside [0, Len()) panics with a bounds
// *Violation and leaves the list unchanged.
func (s *Subject[E]) RemoveObserver(index int) Observer[E] {
	if index < 0 || index >= len(s.observers) {
		panic(newBoundsViolation("Subject.RemoveObserver", index, len(s.observers), 1))
	}
	o := s.observers[index]
	s.observers = slices.Delete(s.observers, index, index+1)
	s.log.Debug().Int("index", index).Stringer("kind", kindOf(o)).Msg("observer removed")
	return o
}

// Name returns the label set with WithName.
func (s *Subject[E]) Name() string { return s.name }

// Len returns the number of registered observers.
func (s *Subject[E]) Len() int { return len(s.observers) }

// Kinds returns the ownership kind of each observer in registration order.
func (s *Subject[E]) Kinds() []Kind {
	out := make([]Kind, len(s.observers))
	for i, o := range s.observers {
		out[i] = kindOf(o)
	}
	return out
}

// Close releases every registered wrapper and empties the subject. Shared
// observers still referenced through other handles stay usable.
func (s *Subject[E]) Close() {
	released, last := 0, 0
	for _, o := range s.observers {
		if r, ok := o.(Releaser); ok {
			released++
			if r.Release() {
				last++
			}
		}
	}
	s.observers = nil
	s.log.Debug().Int("released", released).Int("dropped", last).Msg("subject closed")
}

// AddBoxObserver registers an observer owned by the subject alone.
func (s *Subject[E]) AddBoxObserver(o Observer[E]) int {
	return s.AddObserver(o)
}

// AddRcObserver registers a handle to an observer shared within one goroutine.
// The subject takes ownership of the handle; clone it first to keep one.
func (s *Subject[E]) AddRcObserver(rc *Rc[Observer[E]]) int {
	return s.AddObserver(&RcObserver[E]{rc: rc})
}

func (s *Subject[E]) AddRcRefCellObserver(rc *Rc[*RefCell[Observer[E]]]) int {
	return s.AddObserver(&RcRefCellObserver[E]{rc: rc})
}

func (s *Subject[E]) AddRcRefCellMutObserver(rc *Rc[*RefCell[MutObserver[E]]]) int {
	return s.AddObserver(&RcRefCellMutObserver[E]{rc: rc})
}

// AddArcObserver registers a handle to an observer shared across goroutines.
// The subject takes ownership of the handle; clone it first to keep one.
func (s *Subject[E]) AddArcObserver(arc *Arc[Observer[E]]) int {
	return s.AddObserver(&ArcObserver[E]{arc: arc})
}

func (s *Subject[E]) AddArcMutexObserver(arc *Arc[*Mutex[Observer[E]]]) int {
	return s.AddObserver(&ArcMutexObserver[E]{arc: arc})
}

func (s *Subject[E]) AddArcMutexMutObserver(arc *Arc[*Mutex[MutObserver[E]]]) int {
	return s.AddObserver(&ArcMutexMutObserver[E]{arc: arc})
}

func (s *Subject[E]) AddArcRWMutexObserver(arc *Arc[*RWMutex[Observer[E]]]) int {
	return s.AddObserver(&ArcRWMutexObserver[E]{arc: arc})
}

func (s *Subject[E]) AddArcRWMutexMutObserver(arc *Arc[*RWMutex[MutObserver[E]]]) int {
	return s.AddObserver(&ArcRWMutexMutObserver[E]{arc: arc})
}
