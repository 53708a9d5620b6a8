package util

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnvWithLocalBinFallback ensures the named environment variable is
// present. It never loads .env from the working directory; instead it
// attempts a single fallback file at $HOME/.local/bin/.env with
// non-overwriting semantics, then re-reads the variable.
//
// Returns the value when found, or a descriptive error when the
// variable is still unset after the fallback attempt.
func LoadEnvWithLocalBinFallback(name string) (string, error) {
	home, homeErr := os.UserHomeDir()
	var envPath string
	if homeErr == nil && home != "" {
		envPath = filepath.Join(home, ".local", "bin", ".env")
		if info, statErr := os.Stat(envPath); statErr == nil && !info.IsDir() {
			// godotenv.Load will not override variables already set.
			_ = godotenv.Load(envPath)
		}
	}

	if v := os.Getenv(name); v != "" {
		return v, nil
	}

	if envPath == "" {
		return "", fmt.Errorf("environment variable %q not set and home directory unresolved", name)
	}
	return "", fmt.Errorf("environment variable %q not set; attempted to load fallback file %s", name, envPath)
}
