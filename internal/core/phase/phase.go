// Package phase implements the work/break cycle as a set of immutable phase values.
//
// Each phase is its own type and transitions are methods defined only where they
// are legal, so PreWork can only start Working, PostWork can only start a Break, and
// only the timed phases can tick or stop. A transition returns a new value and
// leaves the receiver untouched.
package phase

import "time"

// PreWork is the initial phase before any timing starts.
type PreWork struct{}

// Working is an active work interval.
type Working struct {
	startTime     time.Time
	workingPeriod time.Duration
}

// PostWork marks a finished work interval awaiting the decision to take a break.
type PostWork struct{}

// Break is an active break interval.
type Break struct {
	startTime   time.Time
	breakLength time.Duration
}

// Complete marks a finished break and the end of one cycle.
type Complete struct{}

// New returns the starting phase of a cycle.
func New() PreWork {
	return PreWork{}
}

// Kind returns KindPreWork.
func (PreWork) Kind() Kind { return KindPreWork }

// StartWorking begins a work interval of the given period at start.
// A zero period elapses on the first tick.
func (PreWork) StartWorking(period time.Duration, start time.Time) Working {
	return Working{
		startTime:     start,
		workingPeriod: period,
	}
}

// Kind returns KindWorking.
func (Working) Kind() Kind { return KindWorking }

// PeriodLength returns the configured work period.
func (working Working) PeriodLength() time.Duration {
	return working.workingPeriod
}

// StartTime returns the instant the work interval began.
func (working Working) StartTime() time.Time {
	return working.startTime
}

// Tick continues with the same value while elapsed is below the work period
// and completes into PostWork once it is reached.
func (working Working) Tick(elapsed time.Duration) TickResult[Working, PostWork] {
	if elapsed < working.workingPeriod {
		return continueWith[Working, PostWork](working)
	}
	return completeWith[Working](PostWork{})
}

// Stop abandons the work interval regardless of elapsed time.
func (Working) Stop() PreWork {
	return New()
}

// Kind returns KindPostWork.
func (PostWork) Kind() Kind { return KindPostWork }

// StartBreak begins a break of the given length at start.
func (PostWork) StartBreak(length time.Duration, start time.Time) Break {
	return Break{
		startTime:   start,
		breakLength: length,
	}
}

// Kind returns KindBreak.
func (Break) Kind() Kind { return KindBreak }

// PeriodLength returns the configured break length.
func (brk Break) PeriodLength() time.Duration {
	return brk.breakLength
}

// StartTime returns the instant the break began.
func (brk Break) StartTime() time.Time {
	return brk.startTime
}

// Tick continues with the same value while elapsed is below the break length
// and completes into Complete once it is reached.
func (brk Break) Tick(elapsed time.Duration) TickResult[Break, Complete] {
	if elapsed < brk.breakLength {
		return continueWith[Break, Complete](brk)
	}
	return completeWith[Break](Complete{})
}

// Stop ends the break early. The cycle still counts as complete.
func (Break) Stop() Complete {
	return Complete{}
}

// Kind returns KindComplete.
func (Complete) Kind() Kind { return KindComplete }
