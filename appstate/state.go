package appstate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"game-sl/constants"
	"game-sl/paths"
	"game-sl/types"
)

var (
	// ErrCheckInFlight is returned when a path refresh is requested while one is running.
	ErrCheckInFlight = errors.New("path check already in progress")
	// ErrSteamNotDetected is returned for Steam games when no Steam install was found.
	ErrSteamNotDetected = errors.New("steam not detected")
	// ErrPathUnknown is returned when the game's save path was not checked for the current environment.
	ErrPathUnknown = errors.New("save path state is not known yet")
	// ErrSaveMissing is returned when the last check found no save directory.
	ErrSaveMissing = errors.New("save directory not found")
)

// Backend defines the remote calls needed to load the base state.
type Backend interface {
	LoadConfig(ctx context.Context) (types.AppConfig, error)
	GetUserFolder(ctx context.Context) (string, error)
	GetSteamInstallDir(ctx context.Context) (*string, error)
	GetSteamUIDList(ctx context.Context) ([]string, error)
	CheckSavePath(ctx context.Context, template string, steamUID *string) (bool, error)
}

// UIProvider defines logging and event emission.
type UIProvider interface {
	LogInfof(format string, args ...interface{})
	LogErrorf(format string, args ...interface{})
	EventsEmit(eventName string, args ...interface{})
}

// State ties the config store, the environment and the path checks together.
type State struct {
	backend Backend
	ui      UIProvider

	Store *Store
	Env   *Env

	mu        sync.Mutex
	loading   bool
	checking  bool
	pathState map[string]types.PathState
	pathKey   string
}

// New creates an empty State.
func New(backend Backend, ui UIProvider) *State {
	return &State{
		backend:   backend,
		ui:        ui,
		Store:     NewStore(),
		Env:       &Env{},
		pathState: map[string]types.PathState{},
	}
}

// Loading reports whether RefreshBaseInfo is running.
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Checking reports whether RefreshPathState is running.
func (s *State) Checking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checking
}

// RefreshBaseInfo loads the config, user folder, Steam folder and account list concurrently.
// Nothing is applied unless all four succeed. A config written to the store while the load
// was running wins over the loaded one.
func (s *State) RefreshBaseInfo(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	gen := s.Store.Generation()
	var (
		cfg      types.AppConfig
		home     string
		steamDir *string
		uids     []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cfg, err = s.backend.LoadConfig(gctx)
		return err
	})
	g.Go(func() (err error) {
		home, err = s.backend.GetUserFolder(gctx)
		return err
	})
	g.Go(func() (err error) {
		steamDir, err = s.backend.GetSteamInstallDir(gctx)
		return err
	})
	g.Go(func() (err error) {
		uids, err = s.backend.GetSteamUIDList(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.ui.LogErrorf("Failed to load base info: %v", err)
		return fmt.Errorf("failed to load base info: %w", err)
	}

	s.Env.Set(home, steamDir, uids)
	if !s.Store.ReplaceIfNewer(gen, cfg) {
		s.ui.LogInfof("Loaded config is older than the current one, keeping the current one")
		return nil
	}
	s.ui.EventsEmit(constants.EventConfigUpdated, cfg)
	return nil
}

// SelectSteamUID changes the selected account. Path states computed for the previous
// account stop counting as known.
func (s *State) SelectSteamUID(uid *string) {
	s.Env.SelectSteamUID(uid)
}

// RefreshPathState checks every game's save path and replaces the path state map.
// Failed checks count as missing. Without a loaded config this is a no-op.
func (s *State) RefreshPathState(ctx context.Context) error {
	cfg, ok := s.Store.Snapshot()
	if !ok {
		return nil
	}

	s.mu.Lock()
	if s.checking {
		s.mu.Unlock()
		return ErrCheckInFlight
	}
	s.checking = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.checking = false
		s.mu.Unlock()
	}()

	env := s.Env.TemplateEnv()
	results := make([]types.PathState, len(cfg.Games))

	var g errgroup.Group
	for i, game := range cfg.Games {
		i, game := i, game
		g.Go(func() error {
			exists, err := s.backend.CheckSavePath(ctx, game.Path, env.SteamUID)
			if err != nil {
				s.ui.LogErrorf("Path check failed for %s: %v", game.Name, err)
				exists = false
			}
			results[i] = types.PathState{Exists: exists, Resolved: paths.Resolve(game.Path, env)}
			return nil
		})
	}
	_ = g.Wait()

	next := make(map[string]types.PathState, len(cfg.Games))
	for i, game := range cfg.Games {
		next[game.Name] = results[i]
	}

	s.mu.Lock()
	s.pathState = next
	s.pathKey = env.Key()
	s.mu.Unlock()

	s.ui.EventsEmit(constants.EventPathState, next)
	return nil
}

// PathState returns the last computed state for game.
func (s *State) PathState(game string) (types.PathState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.pathState[game]
	return ps, ok
}

// PathStates returns a copy of the whole map.
func (s *State) PathStates() map[string]types.PathState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]types.PathState, len(s.pathState))
	for k, v := range s.pathState {
		out[k] = v
	}
	return out
}

// PathKnown reports whether game has a path state computed for the current environment.
func (s *State) PathKnown(game string) bool {
	key := s.Env.TemplateEnv().Key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pathKey != key {
		return false
	}
	_, ok := s.pathState[game]
	return ok
}

// Usable returns nil when game can be backed up or restored in the current environment,
// otherwise ErrSteamNotDetected, ErrPathUnknown or ErrSaveMissing, in that order.
func (s *State) Usable(game types.GameEntry) error {
	if game.Type == types.GameTypeSteam && !s.Env.HasSteam() {
		return fmt.Errorf("%w: %s", ErrSteamNotDetected, game.Name)
	}
	if !s.PathKnown(game.Name) {
		return fmt.Errorf("%w: %s", ErrPathUnknown, game.Name)
	}
	if ps, _ := s.PathState(game.Name); !ps.Exists {
		return fmt.Errorf("%w: %s", ErrSaveMissing, ps.Resolved)
	}
	return nil
}
