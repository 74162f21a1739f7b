package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDuration indicates a negative or otherwise unusable duration.
var ErrInvalidDuration = errors.New("invalid duration")

// TimerConfig contains runtime settings for one work/break cycle.
type TimerConfig struct {
	WorkPeriod   time.Duration
	BreakLength  time.Duration
	TickInterval time.Duration

	// AutoContinue answers every continuation prompt with yes.
	AutoContinue bool
	// MaxCycles stops the session after this many cycles. Zero means no limit.
	MaxCycles int
}

// Validate reports durations that a phase must never be constructed with.
func (config TimerConfig) Validate() error {
	if config.WorkPeriod < 0 {
		return fmt.Errorf("work period %s: %w", config.WorkPeriod, ErrInvalidDuration)
	}
	if config.BreakLength < 0 {
		return fmt.Errorf("break length %s: %w", config.BreakLength, ErrInvalidDuration)
	}
	if config.TickInterval <= 0 {
		return fmt.Errorf("tick interval %s: %w", config.TickInterval, ErrInvalidDuration)
	}
	if config.MaxCycles < 0 {
		return fmt.Errorf("max cycles %d must not be negative", config.MaxCycles)
	}
	return nil
}
