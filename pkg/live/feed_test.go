package live

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"herbal/entities"
)

type fakeSource struct {
	mu     sync.Mutex
	plants []entities.Plant
	err    error
	calls  int
}

func (f *fakeSource) set(plants []entities.Plant, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plants = plants
	f.err = err
}

func (f *fakeSource) ListNewestFirst(ctx context.Context) ([]entities.Plant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]entities.Plant(nil), f.plants...), nil
}

func next(t *testing.T, s *Subscription) Delivery {
	t.Helper()
	select {
	case d, ok := <-s.Snapshots():
		if !ok {
			t.Fatal("subscription closed")
		}
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery")
	}
	return Delivery{}
}

func names(plants []entities.Plant) []string {
	out := []string{}
	for _, p := range plants {
		out = append(out, p.Name)
	}
	return out
}

func TestSubscribePrimesWithSnapshot(t *testing.T) {
	src := &fakeSource{plants: []entities.Plant{{ID: "1", Name: "Kunyit"}, {ID: "2", Name: "Jahe"}}}
	feed := NewFeed(src)

	s := feed.Subscribe(context.Background())
	defer s.Cancel()

	d := next(t, s)
	assert.Equal(t, d.Err, nil)
	assert.Equal(t, names(d.Plants), []string{"Kunyit", "Jahe"})
	assert.Equal(t, feed.Len(), 1)
}

func TestNotifyReplacesWholeSnapshot(t *testing.T) {
	src := &fakeSource{plants: []entities.Plant{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}, {ID: "3", Name: "C"}}}
	feed := NewFeed(src)
	s := feed.Subscribe(context.Background())
	defer s.Cancel()
	assert.Equal(t, len(next(t, s).Plants), 3)

	src.set([]entities.Plant{{ID: "2", Name: "B"}}, nil)
	feed.Notify(context.Background())

	d := next(t, s)
	assert.Equal(t, names(d.Plants), []string{"B"})
}

func TestPendingSnapshotIsReplaced(t *testing.T) {
	src := &fakeSource{}
	feed := NewFeed(src)
	s := feed.Subscribe(context.Background())
	defer s.Cancel()
	next(t, s)

	src.set([]entities.Plant{{ID: "1", Name: "old"}}, nil)
	feed.Notify(context.Background())
	src.set([]entities.Plant{{ID: "2", Name: "new"}}, nil)
	feed.Notify(context.Background())

	d := next(t, s)
	assert.Equal(t, names(d.Plants), []string{"new"})
	select {
	case <-s.Snapshots():
		t.Fatal("stale delivery left in the channel")
	default:
	}
}

func TestSubscriptionsAreIndependent(t *testing.T) {
	src := &fakeSource{plants: []entities.Plant{{ID: "1", Name: "Sirih", Compounds: []entities.Compound{{Name: "x", Amount: "1"}}}}}
	feed := NewFeed(src)
	a := feed.Subscribe(context.Background())
	b := feed.Subscribe(context.Background())
	defer a.Cancel()
	defer b.Cancel()

	da := next(t, a)
	db := next(t, b)
	da.Plants[0].Name = "mutated"
	da.Plants[0].Compounds[0].Name = "mutated"
	assert.Equal(t, db.Plants[0].Name, "Sirih")
	assert.Equal(t, db.Plants[0].Compounds[0].Name, "x")

	a.Cancel()
	feed.Notify(context.Background())
	assert.Equal(t, len(next(t, b).Plants), 1)
	assert.Equal(t, feed.Len(), 1)
}

func TestCancelTwiceStopsDeliveries(t *testing.T) {
	src := &fakeSource{plants: []entities.Plant{{ID: "1", Name: "Jahe"}}}
	feed := NewFeed(src)
	s := feed.Subscribe(context.Background())
	next(t, s)

	s.Cancel()
	s.Cancel()
	feed.Notify(context.Background())

	_, ok := <-s.Snapshots()
	assert.Equal(t, ok, false)
	assert.Equal(t, feed.Len(), 0)
	select {
	case <-s.Done():
	default:
		t.Fatal("done not closed")
	}
}

func TestContextCancelEndsSubscription(t *testing.T) {
	feed := NewFeed(&fakeSource{})
	ctx, cancel := context.WithCancel(context.Background())
	s := feed.Subscribe(ctx)
	cancel()

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription outlived its context")
	}
	assert.Equal(t, feed.Len(), 0)
}

func TestLoadErrorIsDelivered(t *testing.T) {
	boom := errors.New("store offline")
	src := &fakeSource{err: boom}
	feed := NewFeed(src)
	s := feed.Subscribe(context.Background())
	defer s.Cancel()

	d := next(t, s)
	assert.Equal(t, d.Err, boom)
	assert.Equal(t, len(d.Plants), 0)

	src.set([]entities.Plant{{ID: "1", Name: "Jahe"}}, nil)
	feed.Notify(context.Background())
	d = next(t, s)
	assert.Equal(t, d.Err, nil)
	assert.Equal(t, names(d.Plants), []string{"Jahe"})
}
