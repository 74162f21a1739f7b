package phase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestStartWorkingCapturesPeriodAndStart(t *testing.T) {
	working := New().StartWorking(25*time.Minute, epoch)

	assert.Equal(t, 25*time.Minute, working.PeriodLength())
	assert.Equal(t, epoch, working.StartTime())
	assert.Equal(t, KindWorking, working.Kind())
}

func TestWorkingTick(t *testing.T) {
	period := 30 * time.Second

	tests := []struct {
		name    string
		elapsed time.Duration
		done    bool
	}{
		{"at start", 0, false},
		{"well before", 5 * time.Second, false},
		{"one nanosecond before", period - time.Nanosecond, false},
		{"exactly at period", period, true},
		{"just after", 30005 * time.Millisecond, true},
		{"long after", time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			working := New().StartWorking(period, epoch)
			result := working.Tick(tt.elapsed)
			require.Equal(t, tt.done, result.Done())

			if tt.done {
				next, ok := result.Complete()
				require.True(t, ok)
				assert.Equal(t, PostWork{}, next)
				_, ok = result.Continue()
				assert.False(t, ok)
				return
			}

			same, ok := result.Continue()
			require.True(t, ok)
			assert.Equal(t, working, same)
			_, ok = result.Complete()
			assert.False(t, ok)
		})
	}
}

func TestBreakTick(t *testing.T) {
	length := 30 * time.Second

	tests := []struct {
		name    string
		elapsed time.Duration
		done    bool
	}{
		{"at start", 0, false},
		{"well before", 5 * time.Second, false},
		{"one nanosecond before", length - time.Nanosecond, false},
		{"exactly at length", length, true},
		{"just after", 30005 * time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brk := PostWork{}.StartBreak(length, epoch)
			result := brk.Tick(tt.elapsed)
			require.Equal(t, tt.done, result.Done())

			if tt.done {
				next, ok := result.Complete()
				require.True(t, ok)
				assert.Equal(t, Complete{}, next)
				return
			}

			same, ok := result.Continue()
			require.True(t, ok)
			assert.Equal(t, brk, same)
		})
	}
}

func TestZeroPeriodCompletesOnFirstTick(t *testing.T) {
	working := New().StartWorking(0, epoch)
	assert.True(t, working.Tick(0).Done())

	brk := PostWork{}.StartBreak(0, epoch)
	assert.True(t, brk.Tick(0).Done())
}

func TestContinueIsIdempotent(t *testing.T) {
	working := New().StartWorking(time.Minute, epoch)

	first, ok := working.Tick(20 * time.Second).Continue()
	require.True(t, ok)
	second, ok := first.Tick(20 * time.Second).Continue()
	require.True(t, ok)

	assert.Equal(t, working, first)
	assert.Equal(t, first, second)
	assert.Equal(t, working.Tick(20*time.Second), second.Tick(20*time.Second))
}

func TestTickLeavesReceiverUnchanged(t *testing.T) {
	brk := PostWork{}.StartBreak(time.Minute, epoch)
	before := brk

	_ = brk.Tick(2 * time.Minute)

	assert.Equal(t, before, brk)
	assert.Equal(t, epoch, brk.StartTime())
	assert.Equal(t, time.Minute, brk.PeriodLength())
}

func TestStopIsUnconditional(t *testing.T) {
	for _, elapsed := range []time.Duration{0, time.Second, time.Minute, time.Hour} {
		working := New().StartWorking(time.Minute, epoch)
		_ = working.Tick(elapsed)
		assert.Equal(t, PreWork{}, working.Stop(), "working stop after %s", elapsed)

		brk := PostWork{}.StartBreak(time.Minute, epoch)
		_ = brk.Tick(elapsed)
		assert.Equal(t, Complete{}, brk.Stop(), "break stop after %s", elapsed)
	}
}

func TestEachPhaseStartsFromItsOwnStartTime(t *testing.T) {
	working := New().StartWorking(time.Minute, epoch)
	postWork, ok := working.Tick(time.Minute).Complete()
	require.True(t, ok)

	breakStart := epoch.Add(10 * time.Minute)
	brk := postWork.StartBreak(2*time.Minute, breakStart)

	assert.Equal(t, breakStart, brk.StartTime())
	assert.False(t, brk.Tick(time.Minute).Done())
}

func TestFullCycle(t *testing.T) {
	preWork := New()
	require.Equal(t, KindPreWork, preWork.Kind())

	working := preWork.StartWorking(2*time.Second, epoch)
	postWork, ok := working.Tick(2 * time.Second).Complete()
	require.True(t, ok)
	require.Equal(t, KindPostWork, postWork.Kind())

	brk := postWork.StartBreak(time.Second, epoch.Add(3*time.Second))
	complete, ok := brk.Tick(time.Second).Complete()
	require.True(t, ok)
	assert.Equal(t, KindComplete, complete.Kind())
}
