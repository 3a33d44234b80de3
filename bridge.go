package observer

// The adapters below reach a shared observer through its handle and the
// access discipline of its wrapper, then forward the event. A conflicting
// borrow, a poisoned lock or a released handle panics with a *Violation.
// Adapters are built by the Subject Add methods; a zero adapter holds no
// handle and reacts as if its handle had been released.

// RcObserver forwards to an observer shared within one goroutine.
type RcObserver[E any] struct {
	rc *Rc[Observer[E]]
}

func (o *RcObserver[E]) OnNotify(event E)         { o.rc.Get().OnNotify(event) }
func (o *RcObserver[E]) Handle() *Rc[Observer[E]] { return o.rc }
func (o *RcObserver[E]) Release() bool            { return o.rc.Release() }
func (o *RcObserver[E]) Kind() Kind               { return KindRc }

// RcRefCellObserver takes a shared borrow for each notification.
type RcRefCellObserver[E any] struct {
	rc *Rc[*RefCell[Observer[E]]]
}

func (o *RcRefCellObserver[E]) OnNotify(event E) {
	o.rc.Get().Borrow(func(ob Observer[E]) { ob.OnNotify(event) })
}
func (o *RcRefCellObserver[E]) Handle() *Rc[*RefCell[Observer[E]]] { return o.rc }
func (o *RcRefCellObserver[E]) Release() bool                      { return o.rc.Release() }
func (o *RcRefCellObserver[E]) Kind() Kind                         { return KindRcRefCell }

// RcRefCellMutObserver takes an exclusive borrow for each notification.
type RcRefCellMutObserver[E any] struct {
	rc *Rc[*RefCell[MutObserver[E]]]
}

func (o *RcRefCellMutObserver[E]) OnNotify(event E) {
	o.rc.Get().BorrowMut(func(ob *MutObserver[E]) { (*ob).OnNotifyMut(event) })
}
func (o *RcRefCellMutObserver[E]) Handle() *Rc[*RefCell[MutObserver[E]]] { return o.rc }
func (o *RcRefCellMutObserver[E]) Release() bool                         { return o.rc.Release() }
func (o *RcRefCellMutObserver[E]) Kind() Kind                            { return KindRcRefCellMut }

// ArcObserver forwards to an observer shared across goroutines. The observer
// itself must be safe for concurrent OnNotify calls.
type ArcObserver[E any] struct {
	arc *Arc[Observer[E]]
}

func (o *ArcObserver[E]) OnNotify(event E)          { o.arc.Get().OnNotify(event) }
func (o *ArcObserver[E]) Handle() *Arc[Observer[E]] { return o.arc }
func (o *ArcObserver[E]) Release() bool             { return o.arc.Release() }
func (o *ArcObserver[E]) Kind() Kind                { return KindArc }

// ArcMutexObserver holds the mutex for each notification.
type ArcMutexObserver[E any] struct {
	arc *Arc[*Mutex[Observer[E]]]
}

func (o *ArcMutexObserver[E]) OnNotify(event E) {
	if err := o.arc.Get().Lock(func(ob *Observer[E]) { (*ob).OnNotify(event) }); err != nil {
		panic(err)
	}
}
func (o *ArcMutexObserver[E]) Handle() *Arc[*Mutex[Observer[E]]] { return o.arc }
func (o *ArcMutexObserver[E]) Release() bool                     { return o.arc.Release() }
func (o *ArcMutexObserver[E]) Kind() Kind                        { return KindArcMutex }

// ArcMutexMutObserver holds the mutex for each notification of a MutObserver.
type ArcMutexMutObserver[E any] struct {
	arc *Arc[*Mutex[MutObserver[E]]]
}

func (o *ArcMutexMutObserver[E]) OnNotify(event E) {
	if err := o.arc.Get().Lock(func(ob *MutObserver[E]) { (*ob).OnNotifyMut(event) }); err != nil {
		panic(err)
	}
}
func (o *ArcMutexMutObserver[E]) Handle() *Arc[*Mutex[MutObserver[E]]] { return o.arc }
func (o *ArcMutexMutObserver[E]) Release() bool                        { return o.arc.Release() }
func (o *ArcMutexMutObserver[E]) Kind() Kind                           { return KindArcMutexMut }

// ArcRWMutexObserver holds a read lock for each notification, so several
// subjects may notify it at once.
type ArcRWMutexObserver[E any] struct {
	arc *Arc[*RWMutex[Observer[E]]]
}

func (o *ArcRWMutexObserver[E]) OnNotify(event E) {
	if err := o.arc.Get().RLock(func(ob Observer[E]) { ob.OnNotify(event) }); err != nil {
		panic(err)
	}
}
func (o *ArcRWMutexObserver[E]) Handle() *Arc[*RWMutex[Observer[E]]] { return o.arc }
func (o *ArcRWMutexObserver[E]) Release() bool                       { return o.arc.Release() }
func (o *ArcRWMutexObserver[E]) Kind() Kind                          { return KindArcRWMutex }

// ArcRWMutexMutObserver holds the write lock for each notification.
type ArcRWMutexMutObserver[E any] struct {
	arc *Arc[*RWMutex[MutObserver[E]]]
}

func (o *ArcRWMutexMutObserver[E]) OnNotify(event E) {
	if err := o.arc.Get().Lock(func(ob *MutObserver[E]) { (*ob).OnNotifyMut(event) }); err != nil {
		panic(err)
	}
}
func (o *ArcRWMutexMutObserver[E]) Handle() *Arc[*RWMutex[MutObserver[E]]] { return o.arc }
func (o *ArcRWMutexMutObserver[E]) Release() bool                          { return o.arc.Release() }
func (o *ArcRWMutexMutObserver[E]) Kind() Kind                             { return KindArcRWMutexMut }
