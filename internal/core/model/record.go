package model

import (
	"time"

	"pomo/internal/core/phase"
)

// Outcome describes how a timed phase ended.
type Outcome string

const (
	// OutcomeCompleted means the full period elapsed.
	OutcomeCompleted Outcome = "completed"
	// OutcomeStopped means the phase was stopped before its period elapsed.
	OutcomeStopped Outcome = "stopped"
	// OutcomeSkipped means the phase was declined at its prompt and never ran.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the run aborted because the display could not be updated.
	OutcomeFailed Outcome = "failed"
)

// IsValid reports whether outcome is a known value.
func (outcome Outcome) IsValid() bool {
	switch outcome {
	case OutcomeCompleted, OutcomeStopped, OutcomeSkipped, OutcomeFailed:
		return true
	default:
		return false
	}
}

// PhaseRecord is one finished timed phase in the history journal.
type PhaseRecord struct {
	ID        string
	CycleID   string
	Kind      phase.Kind
	Outcome   Outcome
	Planned   time.Duration
	Actual    time.Duration
	StartedAt time.Time
	EndedAt   time.Time
}

// HistorySummary aggregates the journal over a time window.
type HistorySummary struct {
	Since           time.Time
	CompletedWork   int
	StoppedWork     int
	CompletedBreaks int
	FocusTime       time.Duration
}
