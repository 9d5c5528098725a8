// Package session wires the client-side services over one backend.
package session

import (
	"context"
	"fmt"

	"game-sl/appstate"
	"game-sl/backend"
	"game-sl/catalog"
	"game-sl/config"
	"game-sl/iconsrv"
	"game-sl/ordering"
	"game-sl/restore"
	"game-sl/settings"
	"game-sl/types"
)

// UIProvider defines logging and event emission.
type UIProvider interface {
	LogInfof(format string, args ...interface{})
	LogErrorf(format string, args ...interface{})
	EventsEmit(eventName string, args ...interface{})
}

// Session is everything a front-end needs.
type Session struct {
	Backend  *backend.Local
	State    *appstate.State
	Catalog  *catalog.Client
	Restore  *restore.Orchestrator
	Ordering *ordering.Manager
	Settings *settings.Synchronizer
	Icons    *iconsrv.Service
}

// New wires a Session around the config manager, storing data under workDir.
func New(cm *config.ConfigManager, ui UIProvider, workDir string) *Session {
	local := backend.New(cm, ui, workDir)
	state := appstate.New(local, ui)
	return &Session{
		Backend:  local,
		State:    state,
		Catalog:  catalog.New(local, state.Store, state, ui),
		Restore:  restore.NewOrchestrator(local, state.Store, state, state.Env, ui),
		Ordering: ordering.New(local, state.Store, ui),
		Settings: settings.New(local, state.Store, ui),
		Icons:    iconsrv.New(workDir),
	}
}

// Refresh reloads the base info and then the path states.
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.State.RefreshBaseInfo(ctx); err != nil {
		return err
	}
	return s.State.RefreshPathState(ctx)
}

// Game looks up a configured game by name.
func (s *Session) Game(name string) (types.GameEntry, error) {
	cfg, ok := s.State.Store.Snapshot()
	if !ok {
		return types.GameEntry{}, fmt.Errorf("configuration is not loaded")
	}
	g, ok := cfg.FindGame(name)
	if !ok {
		return types.GameEntry{}, fmt.Errorf("%w: %s", config.ErrGameNotFound, name)
	}
	return g, nil
}

// FindBackup returns the listed backup named fileName.
func (s *Session) FindBackup(ctx context.Context, game, fileName string) (types.BackupEntry, error) {
	items, err := s.Catalog.ListBackups(ctx, game)
	if err != nil {
		return types.BackupEntry{}, err
	}
	for _, item := range items {
		if item.FileName == fileName {
			return item, nil
		}
	}
	return types.BackupEntry{}, fmt.Errorf("backup %s not found for %s", fileName, game)
}
