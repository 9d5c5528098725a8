package restore

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"game-sl/constants"
	"game-sl/types"
)

// ErrRestoreInFlight is returned when a restore is requested while another one is open.
var ErrRestoreInFlight = errors.New("a restore is already in progress")

// Backend performs the restore.
type Backend interface {
	RestoreBackup(ctx context.Context, gameName, pathTemplate, backupPath string, steamUID *string) (types.RestoreResponse, error)
}

// ConfigStore receives the configuration returned by a restore.
type ConfigStore interface {
	Replace(cfg types.AppConfig) uint64
}

// PathTracker decides whether a game's save path can be touched and can refresh path states.
type PathTracker interface {
	Usable(game types.GameEntry) error
	RefreshPathState(ctx context.Context) error
}

// AccountSelector returns the selected Steam account.
type AccountSelector interface {
	SelectedSteamUID() *string
}

// UIProvider defines logging and event emission.
type UIProvider interface {
	LogInfof(format string, args ...interface{})
	LogErrorf(format string, args ...interface{})
	EventsEmit(eventName string, args ...interface{})
}

// Orchestrator runs one restore at a time and publishes its State.
type Orchestrator struct {
	backend  Backend
	store    ConfigStore
	paths    PathTracker
	accounts AccountSelector
	ui       UIProvider

	mu    sync.Mutex
	state State
}

// NewOrchestrator creates an Orchestrator in the closed state.
func NewOrchestrator(backend Backend, store ConfigStore, paths PathTracker, accounts AccountSelector, ui UIProvider) *Orchestrator {
	return &Orchestrator{
		backend:  backend,
		store:    store,
		paths:    paths,
		accounts: accounts,
		ui:       ui,
		state:    Initial(),
	}
}

// State returns the current overlay state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// apply runs the reducer and emits the result. Callers hold o.mu.
func (o *Orchestrator) apply(ev Event) {
	o.state = Reduce(o.state, ev)
	o.ui.EventsEmit(constants.EventRestoreState, o.state)
}

// Restore replaces game's saves with backup. It is refused unless the path tracker reports
// the game usable. The backend is called exactly once.
// On success the configuration is replaced and path states are refreshed.
func (o *Orchestrator) Restore(ctx context.Context, game types.GameEntry, backup types.BackupEntry) error {
	o.mu.Lock()
	if o.state.InFlight() {
		o.mu.Unlock()
		return ErrRestoreInFlight
	}
	if err := o.paths.Usable(game); err != nil {
		o.mu.Unlock()
		return err
	}
	attempt := uuid.NewString()
	o.apply(Opened{Game: game.Name, Backup: backup.FileName, AttemptID: attempt})
	o.mu.Unlock()

	o.ui.LogInfof("Restore %s: %s from %s", attempt, game.Name, backup.FileName)
	resp, err := o.backend.RestoreBackup(ctx, game.Name, game.Path, backup.FilePath, o.accounts.SelectedSteamUID())
	if err != nil {
		stage, detail := StageFromError(err)
		o.ui.LogErrorf("Restore %s failed: %v", attempt, err)
		o.mu.Lock()
		o.apply(Failed{Stage: stage, Detail: detail})
		o.mu.Unlock()
		return err
	}

	o.store.Replace(resp.Config)
	o.mu.Lock()
	o.apply(Succeeded{})
	o.mu.Unlock()
	o.ui.LogInfof("Restore %s completed", attempt)

	if err := o.paths.RefreshPathState(ctx); err != nil {
		o.ui.LogErrorf("Restore %s: path refresh skipped: %v", attempt, err)
	}
	return nil
}

// Close dismisses a finished attempt. It reports false while an attempt is running.
func (o *Orchestrator) Close() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Result == nil {
		return false
	}
	o.apply(Closed{})
	return true
}
