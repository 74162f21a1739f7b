package timekeeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomo/internal/core/phase"
)

// steppingTicks advances a mock clock by step on every Wait.
type steppingTicks struct {
	clk     *clock.Mock
	step    time.Duration
	waits   int
	stopped bool
}

func (ticks *steppingTicks) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ticks.waits++
	ticks.clk.Add(ticks.step)
	return nil
}

func (ticks *steppingTicks) Stop() { ticks.stopped = true }

type reported struct {
	kind      phase.Kind
	remaining time.Duration
}

func collect(reports *[]reported) ReportFunc[phase.Working] {
	return func(current phase.Working, remaining time.Duration) error {
		*reports = append(*reports, reported{current.Kind(), remaining})
		return nil
	}
}

func TestRunReportsEveryTickUntilComplete(t *testing.T) {
	clk := clock.NewMock()
	keeper := New(Config{Clock: clk})
	ticks := &steppingTicks{clk: clk, step: time.Second}

	working := phase.New().StartWorking(2*time.Second, clk.Now())

	var reports []reported
	next, err := Run[phase.Working, phase.PostWork](context.Background(), keeper, working, ticks, collect(&reports))
	require.NoError(t, err)

	assert.Equal(t, phase.PostWork{}, next)
	assert.Equal(t, []reported{
		{phase.KindWorking, 2 * time.Second},
		{phase.KindWorking, time.Second},
	}, reports)
	assert.Equal(t, 2, ticks.waits)
}

func TestRunBreakCompletes(t *testing.T) {
	clk := clock.NewMock()
	keeper := New(Config{Clock: clk})
	ticks := &steppingTicks{clk: clk, step: time.Second}

	brk := phase.PostWork{}.StartBreak(3*time.Second, clk.Now())

	var remaining []time.Duration
	next, err := Run[phase.Break, phase.Complete](context.Background(), keeper, brk, ticks,
		func(current phase.Break, left time.Duration) error {
			remaining = append(remaining, left)
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, phase.Complete{}, next)
	assert.Equal(t, []time.Duration{3 * time.Second, 2 * time.Second, time.Second}, remaining)
}

func TestRunZeroPeriodNeverReports(t *testing.T) {
	clk := clock.NewMock()
	keeper := New(Config{Clock: clk})
	ticks := &steppingTicks{clk: clk, step: time.Second}

	working := phase.New().StartWorking(0, clk.Now())

	var reports []reported
	next, err := Run[phase.Working, phase.PostWork](context.Background(), keeper, working, ticks, collect(&reports))
	require.NoError(t, err)

	assert.Equal(t, phase.PostWork{}, next)
	assert.Empty(t, reports)
	assert.Zero(t, ticks.waits)
}

func TestRunUsesElapsedSinceStartTime(t *testing.T) {
	clk := clock.NewMock()
	keeper := New(Config{Clock: clk})
	ticks := &steppingTicks{clk: clk, step: time.Second}

	working := phase.New().StartWorking(5*time.Second, clk.Now())
	clk.Add(3 * time.Second)

	var reports []reported
	_, err := Run[phase.Working, phase.PostWork](context.Background(), keeper, working, ticks, collect(&reports))
	require.NoError(t, err)

	assert.Equal(t, []reported{
		{phase.KindWorking, 2 * time.Second},
		{phase.KindWorking, time.Second},
	}, reports)
}

func TestRunReportErrorAborts(t *testing.T) {
	clk := clock.NewMock()
	keeper := New(Config{Clock: clk})
	ticks := &steppingTicks{clk: clk, step: time.Second}
	errBroken := errors.New("broken pipe")

	working := phase.New().StartWorking(10*time.Second, clk.Now())

	calls := 0
	_, err := Run[phase.Working, phase.PostWork](context.Background(), keeper, working, ticks,
		func(phase.Working, time.Duration) error {
			calls++
			return errBroken
		})

	require.ErrorIs(t, err, errBroken)
	assert.Equal(t, 1, calls)
	assert.Zero(t, ticks.waits)
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	clk := clock.NewMock()
	keeper := New(Config{Clock: clk})
	ticker := NewTicker(clk, time.Second)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	working := phase.New().StartWorking(time.Minute, clk.Now())

	_, err := Run[phase.Working, phase.PostWork](ctx, keeper, working, ticker,
		func(phase.Working, time.Duration) error {
			cancel()
			return nil
		})

	require.ErrorIs(t, err, context.Canceled)
}

func TestRunWithClockTicker(t *testing.T) {
	clk := clock.NewMock()
	keeper := New(Config{Clock: clk, TickInterval: time.Second})
	ticker := keeper.NewTicker()
	defer ticker.Stop()

	working := phase.New().StartWorking(3*time.Second, clk.Now())

	reports := make(chan time.Duration, 1)
	type outcome struct {
		next phase.PostWork
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		next, err := Run[phase.Working, phase.PostWork](context.Background(), keeper, working, ticker,
			func(_ phase.Working, remaining time.Duration) error {
				reports <- remaining
				return nil
			})
		done <- outcome{next, err}
	}()

	for _, want := range []time.Duration{3 * time.Second, 2 * time.Second, time.Second} {
		select {
		case got := <-reports:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("no report for %s remaining", want)
		}
		clk.Add(time.Second)
	}

	select {
	case result := <-done:
		require.NoError(t, result.err)
		assert.Equal(t, phase.PostWork{}, result.next)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not finish")
	}
}

func TestRunEmitsEvents(t *testing.T) {
	clk := clock.NewMock()
	keeper := New(Config{Clock: clk})
	events := keeper.Subscribe(16)
	ticks := &steppingTicks{clk: clk, step: time.Second}

	working := phase.New().StartWorking(2*time.Second, clk.Now())
	_, err := Run[phase.Working, phase.PostWork](context.Background(), keeper, working, ticks,
		func(phase.Working, time.Duration) error { return nil })
	require.NoError(t, err)
	keeper.Close()

	var got []Event
	for event := range events {
		got = append(got, event)
	}
	require.Len(t, got, 4)

	assert.Equal(t, EventStateChange, got[0].Type)
	assert.Equal(t, phase.KindWorking, got[0].Kind)
	assert.Equal(t, EventProgress, got[1].Type)
	assert.InDelta(t, 0, got[1].Progress, 1e-9)
	assert.InDelta(t, 0.5, got[2].Progress, 1e-9)
	assert.Equal(t, EventStateChange, got[3].Type)
	assert.Equal(t, phase.KindPostWork, got[3].Kind)
}

func TestRunEmitsAbortedEvent(t *testing.T) {
	clk := clock.NewMock()
	keeper := New(Config{Clock: clk})
	events := keeper.Subscribe(4)
	ticks := &steppingTicks{clk: clk, step: time.Second}

	brk := phase.PostWork{}.StartBreak(time.Minute, clk.Now())
	_, err := Run[phase.Break, phase.Complete](context.Background(), keeper, brk, ticks,
		func(phase.Break, time.Duration) error { return errors.New("terminal gone") })
	require.Error(t, err)
	keeper.Close()

	var last Event
	for event := range events {
		last = event
	}
	assert.Equal(t, EventAborted, last.Type)
	assert.Equal(t, phase.KindBreak, last.Kind)
	assert.Equal(t, "terminal gone", last.Message)
}

func TestNewAppliesDefaults(t *testing.T) {
	keeper := New(Config{})
	assert.Equal(t, time.Second, keeper.TickInterval())
	assert.WithinDuration(t, time.Now(), keeper.Now(), time.Minute)
}

func TestProgressOf(t *testing.T) {
	assert.Equal(t, 1.0, progressOf(0, 0))
	assert.Equal(t, 0.0, progressOf(time.Minute, 2*time.Minute))
	assert.Equal(t, 1.0, progressOf(time.Minute, -time.Second))
	assert.InDelta(t, 0.25, progressOf(4*time.Second, 3*time.Second), 1e-9)
}
