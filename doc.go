// Package observer implements a synchronous subject/observer registry whose
// observers can be held under different ownership and sharing disciplines.
//
// A Subject stores every observer behind the single Observer contract. The
// Add*Observer methods wrap a shared handle in an adapter that obtains access
// the way its discipline requires before forwarding the event:
//
//	AddBoxObserver            Observer owned by the subject    direct call
//	AddRcObserver             *Rc[Observer]                    direct call
//	AddRcRefCellObserver      *Rc[*RefCell[Observer]]          shared borrow
//	AddRcRefCellMutObserver   *Rc[*RefCell[MutObserver]]       exclusive borrow
//	AddArcObserver            *Arc[Observer]                   direct call
//	AddArcMutexObserver       *Arc[*Mutex[Observer]]           mutex
//	AddArcMutexMutObserver    *Arc[*Mutex[MutObserver]]        mutex
//	AddArcRWMutexObserver     *Arc[*RWMutex[Observer]]         read lock
//	AddArcRWMutexMutObserver  *Arc[*RWMutex[MutObserver]]      write lock
//
// Rc and RefCell are for values confined to one goroutine; Arc, Mutex and
// RWMutex may be shared freely.
//
// # Violations
//
// Misuse is reported by panicking with a *Violation: a conflicting RefCell
// borrow, a lock poisoned by a panicking holder, a released handle, or an
// out-of-range index passed to RemoveObserver. Notify does not isolate
// observers, so a violation aborts the rest of that pass. Use errors.Is on a
// recovered *Violation (see Recover) to tell the kinds apart.
//
// # Example
//
//	type Tick struct{ N int }
//
//	counter := &Counter{}
//	shared := observer.NewArc(observer.NewMutex[observer.MutObserver[Tick]](counter))
//
//	a := observer.NewSubject[Tick]()
//	b := observer.NewSubject[Tick]()
//	a.AddArcMutexMutObserver(shared.Clone())
//	b.AddArcMutexMutObserver(shared)
//
//	a.Notify(Tick{N: 1})
//	b.Notify(Tick{N: 2})
package observer
