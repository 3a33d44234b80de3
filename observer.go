package observer

import "fmt"

// Observer reacts to an event without requiring exclusive access to itself.
type Observer[E any] interface {
	OnNotify(event E)
}

// MutObserver reacts to an event and requires exclusive access to itself for
// the duration of the call. It is reached through a wrapper that provides that
// exclusion (RefCell, Mutex or RWMutex).
type MutObserver[E any] interface {
	OnNotifyMut(event E)
}

// Func adapts a plain function to Observer.
type Func[E any] func(event E)

func (f Func[E]) OnNotify(event E) { f(event) }

// MutFunc adapts a plain function to MutObserver.
type MutFunc[E any] func(event E)

func (f MutFunc[E]) OnNotifyMut(event E) { f(event) }

// Releaser is implemented by wrappers holding a shared handle.
// Release drops the handle and reports whether it was the last one.
type Releaser interface {
	Release() bool
}

// Kind names the ownership discipline of a registered observer.
type Kind int

const (
	KindBox Kind = iota
	KindRc
	KindRcRefCell
	KindRcRefCellMut
	KindArc
	KindArcMutex
	KindArcMutexMut
	KindArcRWMutex
	KindArcRWMutexMut
)

var kindNames = [...]string{
	KindBox:           "box",
	KindRc:            "rc",
	KindRcRefCell:     "rc-refcell",
	KindRcRefCellMut:  "rc-refcell-mut",
	KindArc:           "arc",
	KindArcMutex:      "arc-mutex",
	KindArcMutexMut:   "arc-mutex-mut",
	KindArcRWMutex:    "arc-rwmutex",
	KindArcRWMutexMut: "arc-rwmutex-mut",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Mutable reports whether the kind reaches a MutObserver.
func (k Kind) Mutable() bool {
	return k == KindRcRefCellMut || k == KindArcMutexMut || k == KindArcRWMutexMut
}

// Concurrent reports whether the kind may be shared across goroutines.
func (k Kind) Concurrent() bool {
	return k >= KindArc && k <= KindArcRWMutexMut
}

// AllKinds lists every kind in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind resolves a kind from its String form.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown observer kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid observer kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type kinded interface {
	Kind() Kind
}

func kindOf[E any](o Observer[E]) Kind {
	if k, ok := o.(kinded); ok {
		return k.Kind()
	}
	return KindBox
}
