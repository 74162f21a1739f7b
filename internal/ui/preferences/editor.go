package preferences

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Field is one editable setting as shown to the user.
type Field struct {
	Key   string
	Value string
	Help  string
}

type fieldSpec struct {
	help  string
	get   func(Settings) string
	apply func(*Settings, string) error
}

var fieldSpecs = map[string]fieldSpec{
	"work_minutes": {
		help: "length of a work interval",
		get:  func(settings Settings) string { return strconv.Itoa(int(settings.WorkDuration / time.Minute)) },
		apply: func(settings *Settings, value string) error {
			minutes, ok := parseNonNegativeInt(value)
			if !ok {
				return fmt.Errorf("work_minutes must be zero or a positive integer, got %q", value)
			}
			settings.WorkDuration = time.Duration(minutes) * time.Minute
			return nil
		},
	},
	"break_minutes": {
		help: "length of a break",
		get:  func(settings Settings) string { return strconv.Itoa(int(settings.BreakDuration / time.Minute)) },
		apply: func(settings *Settings, value string) error {
			minutes, ok := parseNonNegativeInt(value)
			if !ok {
				return fmt.Errorf("break_minutes must be zero or a positive integer, got %q", value)
			}
			settings.BreakDuration = time.Duration(minutes) * time.Minute
			return nil
		},
	},
	"tick_seconds": {
		help: "countdown refresh interval",
		get:  func(settings Settings) string { return strconv.Itoa(int(settings.TickInterval / time.Second)) },
		apply: func(settings *Settings, value string) error {
			seconds, ok := parsePositiveInt(value)
			if !ok {
				return fmt.Errorf("tick_seconds must be a positive integer, got %q", value)
			}
			settings.TickInterval = time.Duration(seconds) * time.Second
			return nil
		},
	},
	"auto_continue": {
		help: "answer yes to every prompt",
		get:  func(settings Settings) string { return strconv.FormatBool(settings.AutoContinue) },
		apply: func(settings *Settings, value string) error {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("auto_continue must be true or false, got %q", value)
			}
			settings.AutoContinue = parsed
			return nil
		},
	},
	"history_enabled": {
		help: "record finished phases",
		get:  func(settings Settings) string { return strconv.FormatBool(settings.HistoryEnabled) },
		apply: func(settings *Settings, value string) error {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("history_enabled must be true or false, got %q", value)
			}
			settings.HistoryEnabled = parsed
			return nil
		},
	},
	"log_level": {
		help: "debug, info, warn or error",
		get:  func(settings Settings) string { return settings.LogLevel },
		apply: func(settings *Settings, value string) error {
			level := strings.ToLower(strings.TrimSpace(value))
			switch level {
			case "debug", "info", "warn", "error":
				settings.LogLevel = level
				return nil
			default:
				return fmt.Errorf("log_level must be debug, info, warn or error, got %q", value)
			}
		},
	},
}

// Keys returns the editable setting keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fieldSpecs))
	for key := range fieldSpecs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Fields lists every setting with its current value.
func (settings Settings) Fields() []Field {
	keys := Keys()
	fields := make([]Field, 0, len(keys))
	for _, key := range keys {
		spec := fieldSpecs[key]
		fields = append(fields, Field{Key: key, Value: spec.get(settings), Help: spec.help})
	}
	return fields
}

// CanonicalKey returns key in the form used by the settings file.
func CanonicalKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Value returns the current value of key as written in the settings file.
func (settings Settings) Value(key string) (string, bool) {
	spec, ok := fieldSpecs[CanonicalKey(key)]
	if !ok {
		return "", false
	}
	return spec.get(settings), true
}

// Set returns a copy of settings with key changed to value.
func (settings Settings) Set(key, value string) (Settings, error) {
	spec, ok := fieldSpecs[CanonicalKey(key)]
	if !ok {
		return settings, fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	updated := settings
	if err := spec.apply(&updated, strings.TrimSpace(value)); err != nil {
		return settings, err
	}
	return updated, nil
}

func parseNonNegativeInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
