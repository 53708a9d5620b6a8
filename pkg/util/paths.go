package util

import (
	"os"
	"path/filepath"
	"sync"
)

var (
	appNameMu sync.RWMutex
	appName   = "menucore"
)

// SetAppName overrides the application name used for on-disk paths.
// Call it before anything resolves a path.
func SetAppName(name string) {
	if name == "" {
		return
	}
	appNameMu.Lock()
	appName = name
	appNameMu.Unlock()
}

// AppName returns the configured application name.
func AppName() string {
	appNameMu.RLock()
	defer appNameMu.RUnlock()
	return appName
}

// DataDir returns the per-user data directory for this application,
// honoring XDG_DATA_HOME and falling back to ~/.local/share.
func DataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			base = "."
		} else {
			base = filepath.Join(home, ".local", "share")
		}
	}
	return filepath.Join(base, AppName())
}

// LogDir returns the directory for rotating log files.
func LogDir() string {
	return filepath.Join(DataDir(), "logs")
}

// ConfigFilePath returns the JSON settings file location.
func ConfigFilePath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DatabasePath returns the default SQLite database location.
func DatabasePath() string {
	return filepath.Join(DataDir(), "interactions.db")
}
