package live

import "sync"

// Subscription is one standing connection to the feed. Deliveries are full
// snapshots; at most one is pending and a newer one replaces an unread older one.
type Subscription struct {
	id   uint64
	feed *Feed
	ch   chan Delivery
	done chan struct{}
	once sync.Once
}

// Snapshots yields deliveries in order. The channel is closed by Cancel.
func (s *Subscription) Snapshots() <-chan Delivery { return s.ch }

// Done is closed once the subscription has been cancelled.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Cancel ends the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		close(s.done)
		s.feed.remove(s)
	})
}

// offer must be called with feed.mu held.
func (s *Subscription) offer(d Delivery) {
	select {
	case s.ch <- d:
		return
	default:
	}
	// replace the stale pending snapshot
	select {
	case <-s.ch:
	default:
	}
	s.ch <- d
}
