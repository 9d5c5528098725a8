package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"game-sl/constants"
	"game-sl/types"
)

// ErrGameNotFound is returned when an update names a game that is not configured.
var ErrGameNotFound = errors.New("game not found in config")

// ConfigManager handles loading/saving of config.json
type ConfigManager struct {
	Config     *types.AppConfig
	ConfigPath string
	Mu         sync.RWMutex // Thread-safety for UI reads/writes
}

// WorkDir returns the writable working directory. GAMESL_WORKDIR wins, then a game-sl folder
// next to the executable, then ~/.game-sl.
func WorkDir() string {
	if dir := os.Getenv(constants.WorkDirEnv); dir != "" {
		return dir
	}
	if exePath, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exePath), constants.WorkDirName)
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return dir
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", constants.WorkDirName)
	}
	return filepath.Join(home, "."+constants.WorkDirName)
}

// NewConfigManager initializes the manager with the config file inside WorkDir.
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		ConfigPath: filepath.Join(WorkDir(), constants.ConfigFileName),
		Config:     DefaultConfig(),
	}
}

// DefaultConfig is what gets written when no config file exists yet.
func DefaultConfig() *types.AppConfig {
	return &types.AppConfig{
		Settings: map[string]any{
			constants.SettingRestoreExtraBackup: true,
			constants.SettingUseRelativeTime:    true,
		},
		Games:   []types.GameEntry{},
		Version: constants.ConfigVersion,
	}
}

// Load reads the config from disk, creating a default file if none exists.
// Missing settings defaults are filled in and written back.
func (cm *ConfigManager) Load() error {
	cm.Mu.Lock()
	defer cm.Mu.Unlock()
	return cm.load()
}

func (cm *ConfigManager) load() error {
	if _, err := os.Stat(cm.ConfigPath); os.IsNotExist(err) {
		return cm.createDefault()
	}

	data, err := os.ReadFile(cm.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg types.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config json: %w", err)
	}
	if cfg.Games == nil {
		cfg.Games = []types.GameEntry{}
	}
	cm.Config = &cfg

	if ensureSettingsDefaults(cm.Config) {
		return cm.write()
	}
	return nil
}

// ensureSettingsDefaults reports whether anything had to be added.
func ensureSettingsDefaults(cfg *types.AppConfig) bool {
	changed := false
	if cfg.Settings == nil {
		cfg.Settings = map[string]any{}
		changed = true
	}
	for _, key := range []string{constants.SettingRestoreExtraBackup, constants.SettingUseRelativeTime} {
		if _, ok := cfg.Settings[key]; !ok {
			cfg.Settings[key] = true
			changed = true
		}
	}
	return changed
}

// GetConfig returns a copy of the current config (Thread-Safe)
func (cm *ConfigManager) GetConfig() types.AppConfig {
	cm.Mu.RLock()
	defer cm.Mu.RUnlock()
	return cm.Config.Clone()
}

// Save replaces the config and writes it to disk.
func (cm *ConfigManager) Save(newConfig types.AppConfig) error {
	cm.Mu.Lock()
	defer cm.Mu.Unlock()

	cfg := newConfig.Clone()
	cm.Config = &cfg
	return cm.write()
}

// UpdateLastSave sets lastSave for one game and returns the new config.
func (cm *ConfigManager) UpdateLastSave(gameName string, timestamp int64) (types.AppConfig, error) {
	return cm.mutate(func(cfg *types.AppConfig) error {
		for i := range cfg.Games {
			if cfg.Games[i].Name == gameName {
				ts := timestamp
				cfg.Games[i].LastSave = &ts
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameName)
	})
}

// UpdateSetting stores a single settings key and returns the new config.
func (cm *ConfigManager) UpdateSetting(key string, value any) (types.AppConfig, error) {
	if key == "" {
		return types.AppConfig{}, errors.New("setting key must not be empty")
	}
	return cm.mutate(func(cfg *types.AppConfig) error {
		if cfg.Settings == nil {
			cfg.Settings = map[string]any{}
		}
		cfg.Settings[key] = value
		return nil
	})
}

// ReorderGames puts games in the requested name order. Names that are not configured are ignored
// and configured games missing from order keep their relative order at the end, so no entry is lost.
func (cm *ConfigManager) ReorderGames(order []string) (types.AppConfig, error) {
	return cm.mutate(func(cfg *types.AppConfig) error {
		byName := make(map[string]types.GameEntry, len(cfg.Games))
		for _, g := range cfg.Games {
			byName[g.Name] = g
		}

		reordered := make([]types.GameEntry, 0, len(cfg.Games))
		for _, name := range order {
			if g, ok := byName[name]; ok {
				reordered = append(reordered, g)
				delete(byName, name)
			}
		}
		for _, g := range cfg.Games {
			if _, ok := byName[g.Name]; ok {
				reordered = append(reordered, g)
				delete(byName, g.Name)
			}
		}
		cfg.Games = reordered
		return nil
	})
}

// mutate re-reads the file, applies fn and writes the result, so edits made to config.json
// while the app runs are not clobbered.
func (cm *ConfigManager) mutate(fn func(cfg *types.AppConfig) error) (types.AppConfig, error) {
	cm.Mu.Lock()
	defer cm.Mu.Unlock()

	if err := cm.load(); err != nil {
		return types.AppConfig{}, err
	}
	cfg := cm.Config.Clone()
	if err := fn(&cfg); err != nil {
		return types.AppConfig{}, err
	}
	cm.Config = &cfg
	if err := cm.write(); err != nil {
		return types.AppConfig{}, err
	}
	return cfg.Clone(), nil
}

func (cm *ConfigManager) write() error {
	dir := filepath.Dir(cm.ConfigPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cm.Config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(cm.ConfigPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// createDefault generates a default config file if none exists
func (cm *ConfigManager) createDefault() error {
	cm.Config = DefaultConfig()
	fmt.Println("Config file not found. Creating default at:", cm.ConfigPath)
	return cm.write()
}
