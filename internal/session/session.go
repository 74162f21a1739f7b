// Package session runs work/break cycles on top of the phase state machine,
// prompting between phases and journaling how each timed phase ended.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pomo/internal/core/model"
	"pomo/internal/core/phase"
	"pomo/internal/core/timekeeper"
)

// ErrInterrupted indicates the session was cancelled while a phase was running.
var ErrInterrupted = errors.New("session interrupted")

const (
	promptBreak   = "Work completed. Continue with break (Y/n)?"
	promptAnother = "All complete! Ready for another (Y/n)?"
)

// Display shows the countdown and session messages.
type Display interface {
	Status(kind phase.Kind, remaining time.Duration) error
	Message(text string) error
}

// Prompter asks whether to carry on at a phase boundary.
type Prompter interface {
	ReadContinue(ctx context.Context) (bool, error)
}

// Recorder stores finished phases.
type Recorder interface {
	Record(ctx context.Context, record model.PhaseRecord) error
}

// Deps are the collaborators a Session drives.
type Deps struct {
	Display  Display
	Prompter Prompter
	// Recorder may be nil to disable the journal.
	Recorder Recorder
	Logger   *slog.Logger
}

// Session runs cycles with a fixed timer configuration.
type Session struct {
	keeper   *timekeeper.TimeKeeper
	config   model.TimerConfig
	display  Display
	prompter Prompter
	recorder Recorder
	logger   *slog.Logger
	newID    func() string
	current  phase.Kind
	cycles   int
}

// New creates a Session. The configuration is validated up front so no phase
// is ever constructed with a negative duration.
func New(keeper *timekeeper.TimeKeeper, config model.TimerConfig, deps Deps) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("timer config: %w", err)
	}
	if deps.Display == nil {
		return nil, errors.New("session needs a display")
	}
	if deps.Prompter == nil && !config.AutoContinue {
		return nil, errors.New("session needs a prompter unless auto-continue is set")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		keeper:   keeper,
		config:   config,
		display:  deps.Display,
		prompter: deps.Prompter,
		recorder: deps.Recorder,
		logger:   logger,
		newID:    uuid.NewString,
		current:  phase.KindPreWork,
	}, nil
}

// Cycles returns the number of cycles that reached Complete.
func (session *Session) Cycles() int {
	return session.cycles
}

// Run repeats cycles until the user declines another one, the configured
// cycle limit is reached, or an error occurs.
func (session *Session) Run(ctx context.Context) error {
	for {
		if _, err := session.RunCycle(ctx); err != nil {
			return err
		}

		if session.config.MaxCycles > 0 && session.cycles >= session.config.MaxCycles {
			return session.display.Message(fmt.Sprintf("Finished %d cycle(s).", session.cycles))
		}

		again, err := session.confirm(ctx, promptAnother)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

// RunCycle drives one PreWork → Working → PostWork → Break → Complete cycle.
// Declining the break stops it straight away, so every finished cycle ends in Complete.
func (session *Session) RunCycle(ctx context.Context) (phase.Complete, error) {
	cycleID := session.newID()
	logger := session.logger.With("cycle_id", cycleID)

	preWork := phase.New()
	session.current = preWork.Kind()

	if err := session.display.Message("Starting work"); err != nil {
		return phase.Complete{}, err
	}
	working := preWork.StartWorking(session.config.WorkPeriod, session.keeper.Now())
	session.advance(logger, working.Kind())

	postWork, err := runTimed[phase.Working, phase.PostWork](ctx, session, logger, cycleID, working)
	if err != nil {
		if errors.Is(err, ErrInterrupted) {
			session.advance(logger, working.Stop().Kind())
		}
		return phase.Complete{}, err
	}
	session.advance(logger, postWork.Kind())

	takeBreak, err := session.confirm(ctx, promptBreak)
	if err != nil {
		return phase.Complete{}, err
	}

	breakStart := session.keeper.Now()
	brk := postWork.StartBreak(session.config.BreakLength, breakStart)
	session.advance(logger, brk.Kind())

	var complete phase.Complete
	if takeBreak {
		if err := session.display.Message("Starting break"); err != nil {
			return phase.Complete{}, err
		}
		complete, err = runTimed[phase.Break, phase.Complete](ctx, session, logger, cycleID, brk)
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				session.advance(logger, brk.Stop().Kind())
			}
			return phase.Complete{}, err
		}
	} else {
		complete = brk.Stop()
		session.record(ctx, logger, model.PhaseRecord{
			CycleID:   cycleID,
			Kind:      brk.Kind(),
			Outcome:   model.OutcomeSkipped,
			Planned:   brk.PeriodLength(),
			StartedAt: breakStart,
			EndedAt:   breakStart,
		})
	}
	session.advance(logger, complete.Kind())
	session.cycles++
	logger.Info("cycle complete", "cycles", session.cycles)
	return complete, nil
}

// runTimed runs one timed phase on a fresh ticker and journals its outcome.
func runTimed[S timekeeper.Timed[S, N], N timekeeper.Marker](ctx context.Context, session *Session, logger *slog.Logger, cycleID string, initial S) (N, error) {
	ticks := session.keeper.NewTicker()
	defer ticks.Stop()

	report := func(current S, remaining time.Duration) error {
		return session.display.Status(current.Kind(), remaining)
	}

	logger.Debug("phase started", "kind", initial.Kind(), "period", initial.PeriodLength())
	next, err := timekeeper.Run[S, N](ctx, session.keeper, initial, ticks, report)
	ended := session.keeper.Now()

	record := model.PhaseRecord{
		CycleID:   cycleID,
		Kind:      initial.Kind(),
		Outcome:   model.OutcomeCompleted,
		Planned:   initial.PeriodLength(),
		Actual:    ended.Sub(initial.StartTime()),
		StartedAt: initial.StartTime(),
		EndedAt:   ended,
	}

	if err != nil {
		if ctx.Err() != nil {
			record.Outcome = model.OutcomeStopped
			session.record(context.WithoutCancel(ctx), logger, record)
			logger.Info("phase stopped", "kind", initial.Kind(), "elapsed", record.Actual)
			return next, fmt.Errorf("%w: %s stopped after %s", ErrInterrupted, initial.Kind(), record.Actual.Round(time.Second))
		}
		record.Outcome = model.OutcomeFailed
		session.record(ctx, logger, record)
		logger.Error("phase failed", "kind", initial.Kind(), "error", err)
		return next, err
	}

	session.record(ctx, logger, record)
	logger.Debug("phase completed", "kind", initial.Kind(), "next", next.Kind())
	return next, nil
}

func (session *Session) confirm(ctx context.Context, question string) (bool, error) {
	if err := session.display.Message(question); err != nil {
		return false, err
	}
	if session.config.AutoContinue {
		return true, nil
	}
	answer, err := session.prompter.ReadContinue(ctx)
	if err != nil {
		return false, fmt.Errorf("read answer: %w", err)
	}
	return answer, nil
}

// advance tracks the session's current phase kind. The typed phase API makes
// an illegal move impossible; a failure here means the tracking itself is wrong.
func (session *Session) advance(logger *slog.Logger, to phase.Kind) {
	if err := phase.ValidateTransition(session.current, to); err != nil {
		logger.Error("phase tracking out of step", "error", err)
	}
	logger.Debug("phase transition", "from", session.current, "to", to)
	session.current = to
}

// record journals a phase. Journal failures are logged and never end a session.
func (session *Session) record(ctx context.Context, logger *slog.Logger, record model.PhaseRecord) {
	if session.recorder == nil {
		return
	}
	if err := session.recorder.Record(ctx, record); err != nil {
		logger.Warn("record phase", "kind", record.Kind, "error", err)
	}
}
