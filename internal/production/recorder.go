package production

import "time"

// Record is one event captured by a Recorder.
type Record[E any] struct {
	Seq   int       `json:"seq" yaml:"seq"`
	Time  time.Time `json:"time" yaml:"time"`
	Event E         `json:"event" yaml:"event"`
}

// Recorder is a mutable observer that keeps every event it receives.
// It has no lock of its own: register it through a RefCell, Mutex or RWMutex
// wrapper and read it once notifications are done.
type Recorder[E any] struct {
	records []Record[E]
	now     func() time.Time
}

// NewRecorder returns an empty Recorder.
func NewRecorder[E any]() *Recorder[E] {
	return &Recorder[E]{now: func() time.Time { return time.Now().UTC() }}
}

func (r *Recorder[E]) OnNotifyMut(event E) {
	r.records = append(r.records, Record[E]{
		Seq:   len(r.records) + 1,
		Time:  r.now(),
		Event: event,
	})
}

// Len returns the number of recorded events.
func (r *Recorder[E]) Len() int { return len(r.records) }

// Records returns a copy of the recorded events.
func (r *Recorder[E]) Records() []Record[E] {
	out := make([]Record[E], len(r.records))
	copy(out, r.records)
	return out
}

// Recording snapshots the recorder under name for persistence.
func (r *Recorder[E]) Recording(name string) Recording[E] {
	return Recording[E]{
		Name:    name,
		Saved:   r.now(),
		Records: r.Records(),
	}
}
