package catalog

import (
	"context"
	"sync"

	"herbal/entities"
	"herbal/pkg/live"
)

// Frame is what a screen renders: the filtered list plus the load state.
type Frame struct {
	Query  string           `json:"query"`
	State  State            `json:"state"`
	Error  string           `json:"error,omitempty"`
	Loaded bool             `json:"loaded"`
	Total  int              `json:"total"`
	Plants []entities.Plant `json:"plants"`
}

// Empty reports whether the screen should show its "nothing found" state. It is
// false until a snapshot has actually arrived.
func (f Frame) Empty() bool { return f.Loaded && len(f.Plants) == 0 }

// View binds one live subscription to one search box. A single goroutine owns
// the canonical list and re-derives the filtered list after every delivery and
// every query change.
type View struct {
	sub     *live.Subscription
	queries chan string
	frames  chan Frame
	done    chan struct{}

	searchMu  sync.Mutex
	closeOnce sync.Once
}

// Open subscribes to feed and starts the view loop. The first frame is always
// the loading frame.
func Open(ctx context.Context, feed *live.Feed, query string) *View {
	v := &View{
		sub:     feed.Subscribe(ctx),
		queries: make(chan string, 1),
		frames:  make(chan Frame, 1),
		done:    make(chan struct{}),
	}
	go v.run(query)
	return v
}

// Frames yields the latest frame; intermediate frames may be skipped when the
// reader is slower than the updates. Closed when the view ends.
func (v *View) Frames() <-chan Frame { return v.frames }

// Search changes the query. Only the latest pending query is kept.
func (v *View) Search(query string) {
	v.searchMu.Lock()
	defer v.searchMu.Unlock()
	select {
	case <-v.done:
		return
	default:
	}
	select {
	case v.queries <- query:
		return
	default:
	}
	select {
	case <-v.queries:
	default:
	}
	v.queries <- query
}

// Close cancels the subscription. Safe to call more than once.
func (v *View) Close() {
	v.closeOnce.Do(func() {
		close(v.done)
		v.sub.Cancel()
	})
}

func (v *View) run(query string) {
	defer close(v.frames)
	defer v.Close()

	var s Subscriber
	v.emit(render(&s, query))
	for {
		select {
		case d, ok := <-v.sub.Snapshots():
			if !ok {
				return
			}
			s.Apply(d)
		case q := <-v.queries:
			if q == query {
				continue
			}
			query = q
		case <-v.done:
			return
		}
		v.emit(render(&s, query))
	}
}

func (v *View) emit(f Frame) {
	select {
	case v.frames <- f:
		return
	default:
	}
	select {
	case <-v.frames:
	default:
	}
	v.frames <- f
}

func render(s *Subscriber, query string) Frame {
	plants := Filter(s.Plants(), query)
	if plants == nil {
		plants = []entities.Plant{}
	}
	f := Frame{
		Query:  query,
		State:  s.State(),
		Loaded: s.Loaded(),
		Total:  len(s.Plants()),
		Plants: plants,
	}
	if err := s.Err(); err != nil {
		f.Error = err.Error()
	}
	return f
}
