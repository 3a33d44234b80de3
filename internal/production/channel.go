package production

import "sync/atomic"

// ChannelObserver forwards every event to a Go channel.
// Non-blocking send with drop on backpressure.
type ChannelObserver[E any] struct {
	ch      chan<- E
	dropped atomic.Int64
}

// NewChannelObserver creates a ChannelObserver writing to ch.
func NewChannelObserver[E any](ch chan<- E) *ChannelObserver[E] {
	return &ChannelObserver[E]{ch: ch}
}

func (o *ChannelObserver[E]) OnNotify(event E) {
	select {
	case o.ch <- event:
	default:
		o.dropped.Add(1)
	}
}

// Dropped returns the number of events lost to a full channel.
func (o *ChannelObserver[E]) Dropped() int64 { return o.dropped.Load() }

// Close closes the channel. Remove the observer from every subject first.
func (o *ChannelObserver[E]) Close() error {
	close(o.ch)
	return nil
}
