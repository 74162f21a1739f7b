package timekeeper

import (
	"time"

	"pomo/internal/core/phase"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventAborted     EventType = "aborted"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type      EventType
	Kind      phase.Kind
	Remaining time.Duration
	Progress  float64
	Message   string
	At        time.Time
}

func progressOf(period, remaining time.Duration) float64 {
	if period <= 0 {
		return 1
	}
	progress := float64(period-remaining) / float64(period)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
