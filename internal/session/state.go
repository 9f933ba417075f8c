// Package session holds the live state of a dashboard session: the latest
// derived views, which plant is selected, and the refresh loop that keeps the
// views current.
package session

import (
	"time"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
)

// Phase is where the session is in its fetch cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of the session. Summaries and Details are
// replaced together on every successful poll and never mutated afterwards, so a
// State can be read without holding any lock.
type State struct {
	Summaries       []plant.Summary
	Details         []plant.DetailPoint
	SelectedPlantID string
	LastUpdate      time.Time
	Phase           Phase
	// LastError is the most recent poll failure. It survives a following
	// Loading phase and is cleared only by a successful poll.
	LastError error
	// Skipped counts the malformed records dropped by the last successful poll.
	Skipped int
	Polls   int
}

// IsLoading reports whether a fetch is in flight.
func (s State) IsLoading() bool {
	return s.Phase == PhaseLoading
}

// HasData reports whether any poll has ever succeeded.
func (s State) HasData() bool {
	return !s.LastUpdate.IsZero()
}
