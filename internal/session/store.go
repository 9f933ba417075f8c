package session

import (
	"sync"
	"time"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
)

// Store owns the session State. All mutation goes through its transition
// methods; readers take a Snapshot.
type Store struct {
	mu      sync.RWMutex
	state   State
	closed  bool
	changes chan struct{}
}

// NewStore creates an idle store.
func NewStore() *Store {
	return &Store{
		changes: make(chan struct{}, 1),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Changes returns a channel that receives a signal after state changes.
// Signals coalesce: a reader that falls behind sees one pending signal, not
// one per change. The channel is closed by Close.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// BeginLoading marks a fetch as in flight.
func (s *Store) BeginLoading() bool {
	return s.update(func(st *State) bool {
		st.Phase = PhaseLoading
		return true
	})
}

// ApplySuccess publishes a new pair of views, stamps LastUpdate and clears any
// previous error. If no plant is selected, the first summary is selected.
func (s *Store) ApplySuccess(res plant.Result, at time.Time) bool {
	return s.update(func(st *State) bool {
		st.Summaries = res.Summaries
		st.Details = res.Details
		st.Skipped = len(res.Skipped)
		st.LastUpdate = at
		st.LastError = nil
		st.Phase = PhaseReady
		st.Polls++
		if st.SelectedPlantID == "" && len(st.Summaries) > 0 {
			st.SelectedPlantID = st.Summaries[0].ID
		}
		return true
	})
}

// ApplyFailure records a failed poll. The previous views stay in place.
func (s *Store) ApplyFailure(err error) bool {
	return s.update(func(st *State) bool {
		st.LastError = err
		st.Phase = PhaseFailed
		st.Polls++
		return true
	})
}

// Select makes id the selected plant. Selecting the current plant again is a
// no-op and returns false. An empty id clears the selection.
func (s *Store) Select(id string) bool {
	if id == "" {
		return s.Deselect()
	}
	return s.update(func(st *State) bool {
		if st.SelectedPlantID == id {
			return false
		}
		st.SelectedPlantID = id
		return true
	})
}

// Deselect clears the selection, so the next successful poll auto-selects.
func (s *Store) Deselect() bool {
	return s.update(func(st *State) bool {
		if st.SelectedPlantID == "" {
			return false
		}
		st.SelectedPlantID = ""
		return true
	})
}

// Close stops the store from accepting transitions. Results that arrive after
// Close are dropped.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.changes)
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// update applies fn under the write lock and signals Changes when fn reports a
// change. It returns false when the store is closed or nothing changed.
func (s *Store) update(fn func(*State) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if !fn(&s.state) {
		return false
	}
	select {
	case s.changes <- struct{}{}:
	default:
	}
	return true
}
