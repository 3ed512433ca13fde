package live

import (
	"context"
	"sync"

	"github.com/golang/glog"

	"herbal/entities"
)

// Source loads the full plants collection, newest first.
type Source interface {
	ListNewestFirst(ctx context.Context) ([]entities.Plant, error)
}

// Delivery is one full snapshot of the collection, or the error that prevented
// loading it.
type Delivery struct {
	Plants []entities.Plant
	Err    error
}

// Feed turns change notifications into full-snapshot deliveries for every
// active subscription. Each subscription gets its own copy of every snapshot.
type Feed struct {
	src Source

	// loadMu orders snapshot loads so one subscription never sees an older
	// snapshot after a newer one.
	loadMu sync.Mutex

	mu   sync.Mutex
	subs map[uint64]*Subscription
	next uint64
}

func NewFeed(src Source) *Feed {
	return &Feed{src: src, subs: map[uint64]*Subscription{}}
}

// Subscribe registers a subscription and primes it with the current snapshot in
// the background. The subscription is cancelled when ctx ends.
func (f *Feed) Subscribe(ctx context.Context) *Subscription {
	f.mu.Lock()
	f.next++
	s := &Subscription{
		id:   f.next,
		feed: f,
		ch:   make(chan Delivery, 1),
		done: make(chan struct{}),
	}
	f.subs[s.id] = s
	n := len(f.subs)
	f.mu.Unlock()

	glog.V(1).Infof("[live] subscribe id=%d active=%d", s.id, n)

	go func() {
		select {
		case <-ctx.Done():
			s.Cancel()
		case <-s.done:
		}
	}()
	go f.prime(ctx, s)
	return s
}

// Notify loads one snapshot and delivers it to every live subscription. Call it
// after any write to the collection.
func (f *Feed) Notify(ctx context.Context) {
	f.loadMu.Lock()
	defer f.loadMu.Unlock()

	plants, err := f.src.ListNewestFirst(ctx)
	if err != nil {
		glog.Warningf("[live] load snapshot: %v", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		s.offer(snapshot(plants, err))
	}
	glog.V(1).Infof("[live] notify plants=%d subscribers=%d", len(plants), len(f.subs))
}

// Len reports the number of active subscriptions.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed) prime(ctx context.Context, s *Subscription) {
	f.loadMu.Lock()
	defer f.loadMu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}
	plants, err := f.src.ListNewestFirst(ctx)
	if err != nil {
		glog.Warningf("[live] initial snapshot id=%d: %v", s.id, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[s.id]; ok {
		s.offer(snapshot(plants, err))
	}
}

func (f *Feed) remove(s *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, s.id)
	// drop an unread delivery so nothing arrives after cancel
	select {
	case <-s.ch:
	default:
	}
	close(s.ch)
	glog.V(1).Infof("[live] cancel id=%d active=%d", s.id, len(f.subs))
}

func snapshot(plants []entities.Plant, err error) Delivery {
	if err != nil {
		return Delivery{Err: err}
	}
	out := make([]entities.Plant, len(plants))
	for i, p := range plants {
		if p.Compounds != nil {
			p.Compounds = append(make([]entities.Compound, 0, len(p.Compounds)), p.Compounds...)
		}
		out[i] = p
	}
	return Delivery{Plants: out}
}
