// Package settings reads and writes the boolean user preferences.
package settings

import (
	"context"

	"game-sl/constants"
	"game-sl/types"
)

// Backend stores one settings key.
type Backend interface {
	SetSetting(ctx context.Context, key string, value any) (types.AppConfig, error)
}

// ConfigStore holds the configuration the preferences are read from.
type ConfigStore interface {
	Snapshot() (types.AppConfig, bool)
	Replace(cfg types.AppConfig) uint64
}

// UIProvider defines logging.
type UIProvider interface {
	LogErrorf(format string, args ...interface{})
}

// Preferences are the user-facing toggles.
type Preferences struct {
	UseRelativeTime    bool `json:"useRelativeTime"`
	RestoreExtraBackup bool `json:"restoreExtraBackup"`
}

// FromConfig reads the preferences. Missing or non-boolean values default to true.
func FromConfig(cfg types.AppConfig) Preferences {
	return Preferences{
		UseRelativeTime:    boolSetting(cfg, constants.SettingUseRelativeTime),
		RestoreExtraBackup: boolSetting(cfg, constants.SettingRestoreExtraBackup),
	}
}

func boolSetting(cfg types.AppConfig, key string) bool {
	v, ok := cfg.Settings[key].(bool)
	return !ok || v
}

// Synchronizer writes preference changes through the backend.
type Synchronizer struct {
	backend Backend
	store   ConfigStore
	ui      UIProvider
}

// New creates a Synchronizer.
func New(backend Backend, store ConfigStore, ui UIProvider) *Synchronizer {
	return &Synchronizer{backend: backend, store: store, ui: ui}
}

// Current returns the preferences of the stored configuration, or the defaults.
func (s *Synchronizer) Current() Preferences {
	cfg, _ := s.store.Snapshot()
	return FromConfig(cfg)
}

// SetUseRelativeTime stores the relative time preference.
func (s *Synchronizer) SetUseRelativeTime(ctx context.Context, enabled bool) error {
	return s.set(ctx, constants.SettingUseRelativeTime, enabled)
}

// SetRestoreExtraBackup stores the pre-restore backup preference.
func (s *Synchronizer) SetRestoreExtraBackup(ctx context.Context, enabled bool) error {
	return s.set(ctx, constants.SettingRestoreExtraBackup, enabled)
}

func (s *Synchronizer) set(ctx context.Context, key string, value bool) error {
	cfg, err := s.backend.SetSetting(ctx, key, value)
	if err != nil {
		s.ui.LogErrorf("Failed to save setting %s: %v", key, err)
		return err
	}
	s.store.Replace(cfg)
	return nil
}
