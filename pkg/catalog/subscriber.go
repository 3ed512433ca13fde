package catalog

import (
	"fmt"

	"herbal/entities"
	"herbal/pkg/live"
)

type State int

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "loading":
		*s = Loading
	case "ready":
		*s = Ready
	case "failed":
		*s = Failed
	default:
		return fmt.Errorf("catalog: unknown state %q", b)
	}
	return nil
}

// Subscriber holds the canonical list for one view. It is not safe for
// concurrent use; the owning view's loop is its only caller.
type Subscriber struct {
	plants []entities.Plant
	state  State
	err    error
	loaded bool
}

// Apply replaces the canonical list with a delivered snapshot. A failed delivery
// keeps the last good list and moves to Failed until the next good snapshot.
func (s *Subscriber) Apply(d live.Delivery) {
	if d.Err != nil {
		s.state = Failed
		s.err = d.Err
		return
	}
	s.plants = d.Plants
	s.state = Ready
	s.err = nil
	s.loaded = true
}

func (s *Subscriber) Plants() []entities.Plant { return s.plants }

func (s *Subscriber) State() State { return s.state }

func (s *Subscriber) Err() error { return s.err }

// Loaded reports whether at least one snapshot has been applied. A view that
// failed before its first snapshot is not loaded.
func (s *Subscriber) Loaded() bool { return s.loaded }
