package preferences

import (
	"time"

	"pomo/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration
	TickInterval  time.Duration
	AutoContinue  bool

	HistoryEnabled bool
	LogLevel       string
}

// DefaultSettings returns default settings for pomo.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:   25 * time.Minute,
		BreakDuration:  5 * time.Minute,
		TickInterval:   time.Second,
		AutoContinue:   false,
		HistoryEnabled: true,
		LogLevel:       "info",
	}
}

// TimerConfig converts settings to TimerConfig.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		WorkPeriod:   settings.WorkDuration,
		BreakLength:  settings.BreakDuration,
		TickInterval: settings.TickInterval,
		AutoContinue: settings.AutoContinue,
	}
}
