// Package timekeeper drives a timed phase to completion against a periodic tick source.
package timekeeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"pomo/internal/core/phase"
)

// Marker is a phase value produced when a timed phase completes.
type Marker interface {
	Kind() phase.Kind
}

// Timed is a timed phase S that completes into N.
type Timed[S, N any] interface {
	Kind() phase.Kind
	PeriodLength() time.Duration
	StartTime() time.Time
	Tick(elapsed time.Duration) phase.TickResult[S, N]
}

// ReportFunc receives the current phase and its remaining time after every
// tick that does not complete it. A returned error aborts the run.
type ReportFunc[S any] func(current S, remaining time.Duration) error

// Config contains runtime options for TimeKeeper.
type Config struct {
	Clock        clock.Clock // a clock that may be replaced by a mock when testing
	TickInterval time.Duration
}

// TimeKeeper owns the clock used to stamp and measure phases and fans run
// progress out to observers.
type TimeKeeper struct {
	mu      sync.Mutex
	options Config
	events  []chan Event
}

// New creates a TimeKeeper with the provided options.
func New(options Config) *TimeKeeper {
	if options.Clock == nil {
		options.Clock = clock.New()
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	return &TimeKeeper{options: options}
}

// Now returns the current time on the keeper's clock.
func (keeper *TimeKeeper) Now() time.Time {
	return keeper.options.Clock.Now()
}

// TickInterval returns the reporting cadence.
func (keeper *TimeKeeper) TickInterval() time.Duration {
	return keeper.options.TickInterval
}

// NewTicker starts a tick source at the keeper's cadence.
func (keeper *TimeKeeper) NewTicker() TickSource {
	return NewTicker(keeper.options.Clock, keeper.options.TickInterval)
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Close closes every observer channel.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Run ticks initial immediately and then once per boundary of ticks until
// its period has elapsed, returning the successor phase. Each tick that does
// not complete the phase is reported before the next wait begins.
//
// A report error or a cancelled ctx ends the run; the phase in progress is
// discarded and the caller decides how to recover.
func Run[S Timed[S, N], N Marker](ctx context.Context, keeper *TimeKeeper, initial S, ticks TickSource, report ReportFunc[S]) (N, error) {
	var zero N
	clk := keeper.options.Clock
	start := initial.StartTime()

	keeper.emit(Event{
		Type:      EventStateChange,
		Kind:      initial.Kind(),
		Remaining: initial.PeriodLength(),
		At:        clk.Now(),
	})

	elapsed := clk.Since(start)
	result := initial.Tick(elapsed)
	for {
		current, running := result.Continue()
		if !running {
			break
		}

		remaining := current.PeriodLength() - elapsed
		if err := report(current, remaining); err != nil {
			keeper.emitAborted(current.Kind(), err, clk.Now())
			return zero, fmt.Errorf("report %s: %w", current.Kind(), err)
		}
		keeper.emit(Event{
			Type:      EventProgress,
			Kind:      current.Kind(),
			Remaining: remaining,
			Progress:  progressOf(current.PeriodLength(), remaining),
			At:        clk.Now(),
		})

		if err := ticks.Wait(ctx); err != nil {
			keeper.emitAborted(current.Kind(), err, clk.Now())
			return zero, fmt.Errorf("wait for tick: %w", err)
		}

		elapsed = clk.Since(start)
		result = current.Tick(elapsed)
	}

	next, _ := result.Complete()
	keeper.emit(Event{
		Type:     EventStateChange,
		Kind:     next.Kind(),
		Progress: 1,
		At:       clk.Now(),
	})
	return next, nil
}

func (keeper *TimeKeeper) emitAborted(kind phase.Kind, err error, now time.Time) {
	keeper.emit(Event{
		Type:    EventAborted,
		Kind:    kind,
		Message: err.Error(),
		At:      now,
	})
}

func (keeper *TimeKeeper) emit(event Event) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
