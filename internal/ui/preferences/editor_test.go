package preferences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsTimerConfig(t *testing.T) {
	config := DefaultSettings().TimerConfig()

	assert.Equal(t, 25*time.Minute, config.WorkPeriod)
	assert.Equal(t, 5*time.Minute, config.BreakLength)
	assert.Equal(t, time.Second, config.TickInterval)
	assert.False(t, config.AutoContinue)
	require.NoError(t, config.Validate())
}

func TestFieldsListsEveryKeyInOrder(t *testing.T) {
	fields := DefaultSettings().Fields()

	keys := make([]string, 0, len(fields))
	values := map[string]string{}
	for _, field := range fields {
		keys = append(keys, field.Key)
		values[field.Key] = field.Value
		assert.NotEmpty(t, field.Help, field.Key)
	}

	assert.Equal(t, Keys(), keys)
	assert.Equal(t, "25", values["work_minutes"])
	assert.Equal(t, "5", values["break_minutes"])
	assert.Equal(t, "1", values["tick_seconds"])
	assert.Equal(t, "false", values["auto_continue"])
	assert.Equal(t, "true", values["history_enabled"])
	assert.Equal(t, "info", values["log_level"])
}

func TestSet(t *testing.T) {
	base := DefaultSettings()

	updated, err := base.Set("work_minutes", "50")
	require.NoError(t, err)
	assert.Equal(t, 50*time.Minute, updated.WorkDuration)
	assert.Equal(t, 25*time.Minute, base.WorkDuration)

	updated, err = updated.Set(" Break_Minutes ", " 10 ")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, updated.BreakDuration)

	updated, err = updated.Set("auto_continue", "true")
	require.NoError(t, err)
	assert.True(t, updated.AutoContinue)

	updated, err = updated.Set("log_level", "DEBUG")
	require.NoError(t, err)
	assert.Equal(t, "debug", updated.LogLevel)

	updated, err = updated.Set("work_minutes", "0")
	require.NoError(t, err)
	assert.Zero(t, updated.WorkDuration)

	value, ok := updated.Value(" WORK_MINUTES")
	require.True(t, ok)
	assert.Equal(t, "0", value)
	_, ok = updated.Value("colour")
	assert.False(t, ok)

	updated, err = updated.Set("tick_seconds", "2")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, updated.TickInterval)
}

func TestSetRejectsBadInput(t *testing.T) {
	base := DefaultSettings()

	tests := []struct {
		key, value string
		message    string
	}{
		{"work_minutes", "-5", "positive integer"},
		{"tick_seconds", "0", "positive integer"},
		{"break_minutes", "soon", "positive integer"},
		{"history_enabled", "maybe", "true or false"},
		{"log_level", "trace", "debug, info, warn or error"},
		{"colour", "red", "unknown setting"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			updated, err := base.Set(tt.key, tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, base, updated)
		})
	}
}
