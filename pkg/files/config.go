package files

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/small-frappuccino/menucore/pkg/log"
	"github.com/small-frappuccino/menucore/pkg/menu"
	"github.com/small-frappuccino/menucore/pkg/util"
)

// AppConfig holds the application settings.
type AppConfig struct {
	// LogDir overrides the default rotating-log directory.
	LogDir string `json:"log_dir,omitempty"`
	// DatabasePath overrides the default interaction audit db path.
	DatabasePath string `json:"database_path,omitempty"`
	// FormatMode is the default caption markup mode for menus.
	FormatMode string `json:"format_mode,omitempty"`
	// Trigger is the chat command that opens the root menu.
	Trigger string `json:"trigger,omitempty"`
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		LogDir:       util.LogDir(),
		DatabasePath: util.DatabasePath(),
		FormatMode:   menu.FormatMarkdown,
		Trigger:      "!menu",
	}
}

// ConfigManager loads and saves the JSON settings file, creating it
// with defaults when missing.
type ConfigManager struct {
	mu     sync.RWMutex
	path   string
	config *AppConfig
}

// NewConfigManager uses the default per-user config path.
func NewConfigManager() *ConfigManager {
	return NewConfigManagerAt(util.ConfigFilePath())
}

// NewConfigManagerAt uses an explicit config file path.
func NewConfigManagerAt(path string) *ConfigManager {
	return &ConfigManager{path: path, config: defaultConfig()}
}

// Load reads the config file. A missing file is created with defaults.
func (cm *ConfigManager) Load() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	data, err := os.ReadFile(cm.path)
	if os.IsNotExist(err) {
		log.Infof(log.Application, "Config file not found, creating: %s", cm.path)
		cm.config = defaultConfig()
		return cm.saveLocked()
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", cm.path, err)
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config %s: %w", cm.path, err)
	}
	cm.config = cfg
	return nil
}

// Save writes the current config to disk.
func (cm *ConfigManager) Save() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.saveLocked()
}

func (cm *ConfigManager) saveLocked() error {
	if cm.config == nil {
		return fmt.Errorf("cannot save nil config")
	}
	if err := os.MkdirAll(filepath.Dir(cm.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(cm.path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", cm.path, err)
	}
	return nil
}

// Config returns a copy of the current settings.
func (cm *ConfigManager) Config() AppConfig {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return *cm.config
}
