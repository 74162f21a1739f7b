package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// HomeEnv overrides the directory pomo keeps its files in.
const HomeEnv = "POMO_HOME"

const (
	settingsFileName = "settings.yaml"
	historyFileName  = "history.db"
	logFileName      = "pomo.log"
)

// Paths lists the files pomo reads and writes.
type Paths struct {
	Dir          string
	SettingsFile string
	HistoryFile  string
	LogFile      string
}

// PathsIn returns the pomo file layout rooted at dir.
func PathsIn(dir string) Paths {
	return Paths{
		Dir:          dir,
		SettingsFile: filepath.Join(dir, settingsFileName),
		HistoryFile:  filepath.Join(dir, historyFileName),
		LogFile:      filepath.Join(dir, logFileName),
	}
}

// ResolvePaths returns the file layout for appName under the OS config directory,
// or under $POMO_HOME when it is set.
func ResolvePaths(appName string) (Paths, error) {
	if env := os.Getenv(HomeEnv); env != "" {
		return PathsIn(env), nil
	}
	configDir, err := ConfigDir()
	if err != nil {
		return Paths{}, err
	}
	return PathsIn(filepath.Join(configDir, appName)), nil
}

// EnsureDir creates the pomo directory if it does not exist.
func (paths Paths) EnsureDir() error {
	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		return fmt.Errorf("create pomo directory: %w", err)
	}
	return nil
}

// ConfigDir returns the OS-standard configuration directory.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

func fallbackConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support")
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming")
	default:
		return filepath.Join(homeDir, ".config")
	}
}
