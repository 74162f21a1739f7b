package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pomo/internal/ui/preferences"
	"pomo/resources"
)

const (
	envPrefix        = "POMO"
	settingsTemplate = "settings.yaml"
)

type yamlSettings struct {
	WorkMinutes    int    `yaml:"work_minutes"`
	BreakMinutes   int    `yaml:"break_minutes"`
	TickSeconds    int    `yaml:"tick_seconds"`
	AutoContinue   bool   `yaml:"auto_continue"`
	HistoryEnabled bool   `yaml:"history_enabled"`
	LogLevel       string `yaml:"log_level"`
}

// LoadSettings reads user preferences from the YAML file at path, layered
// with POMO_* environment variables.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (preferences.Settings, error) {
	return loadSettings(path, true)
}

// LoadFileSettings reads the settings file alone, ignoring the environment.
func LoadFileSettings(path string) (preferences.Settings, error) {
	return loadSettings(path, false)
}

func loadSettings(path string, withEnv bool) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	v := viper.New()
	v.SetConfigType("yaml")
	if withEnv {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return settings, fmt.Errorf("parse settings yaml: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	if err := applySettings(&settings, v); err != nil {
		return settings, err
	}
	return settings, nil
}

// SetSetting validates one setting and writes it into the settings file.
// Only that key changes; the rest of the document and its comments are kept.
// A missing file starts from the commented template.
func SetSetting(path, key, value string) (preferences.Settings, error) {
	settings, err := LoadFileSettings(path)
	if err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}
	updated, err := settings.Set(key, value)
	if err != nil {
		return settings, err
	}
	key = preferences.CanonicalKey(key)
	stored, _ := updated.Value(key)

	source, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		source, err = resources.Template(settingsTemplate)
	}
	if err != nil {
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}
	if err := setMappingValue(&doc, key, stored); err != nil {
		return settings, err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return settings, fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return settings, fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return settings, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return settings, fmt.Errorf("write settings file: %w", err)
	}
	return updated, nil
}

func setMappingValue(doc *yaml.Node, key, value string) error {
	if doc.Kind == 0 {
		*doc = yaml.Node{Kind: yaml.DocumentNode}
	}
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			root.Content = append(root.Content, &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"})
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return errors.New("settings file is not a key/value mapping")
	}

	tag := scalarTag(value)
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != key {
			continue
		}
		node := root.Content[i+1]
		node.Kind = yaml.ScalarNode
		node.Tag = tag
		node.Value = value
		node.Style = 0
		node.Content = nil
		return nil
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value},
	)
	return nil
}

func scalarTag(value string) string {
	if _, err := strconv.Atoi(value); err == nil {
		return "!!int"
	}
	if value == "true" || value == "false" {
		return "!!bool"
	}
	return "!!str"
}

// MarshalSettings renders preferences in the settings file format.
func MarshalSettings(settings preferences.Settings) ([]byte, error) {
	fileData := yamlSettings{
		WorkMinutes:    int(settings.WorkDuration / time.Minute),
		BreakMinutes:   int(settings.BreakDuration / time.Minute),
		TickSeconds:    int(settings.TickInterval / time.Second),
		AutoContinue:   settings.AutoContinue,
		HistoryEnabled: settings.HistoryEnabled,
		LogLevel:       settings.LogLevel,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return nil, fmt.Errorf("marshal settings yaml: %w", err)
	}
	return serialized, nil
}

// WriteDefaultSettings writes the commented settings template to path.
// An existing file is only replaced when overwrite is set.
func WriteDefaultSettings(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("settings file %s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	template, err := resources.Template(settingsTemplate)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, template, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func applySettings(settings *preferences.Settings, v *viper.Viper) error {
	if v.IsSet("work_minutes") {
		minutes := v.GetInt("work_minutes")
		if minutes < 0 {
			return fmt.Errorf("work_minutes must not be negative, got %d", minutes)
		}
		settings.WorkDuration = time.Duration(minutes) * time.Minute
	}
	if v.IsSet("break_minutes") {
		minutes := v.GetInt("break_minutes")
		if minutes < 0 {
			return fmt.Errorf("break_minutes must not be negative, got %d", minutes)
		}
		settings.BreakDuration = time.Duration(minutes) * time.Minute
	}
	if v.IsSet("tick_seconds") {
		seconds := v.GetInt("tick_seconds")
		if seconds <= 0 {
			return fmt.Errorf("tick_seconds must be positive, got %d", seconds)
		}
		settings.TickInterval = time.Duration(seconds) * time.Second
	}

	if v.IsSet("auto_continue") {
		settings.AutoContinue = v.GetBool("auto_continue")
	}
	if v.IsSet("history_enabled") {
		settings.HistoryEnabled = v.GetBool("history_enabled")
	}

	if level := strings.ToLower(strings.TrimSpace(v.GetString("log_level"))); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			settings.LogLevel = level
		default:
			return fmt.Errorf("unknown log level %q", level)
		}
	}
	return nil
}
