// Package ordering moves games around the list and persists the new order.
package ordering

import (
	"context"
	"slices"

	"game-sl/types"
)

// Backend persists a full game order.
type Backend interface {
	ReorderGames(ctx context.Context, order []string) (types.AppConfig, error)
}

// ConfigStore holds the configuration the order is read from.
type ConfigStore interface {
	Snapshot() (types.AppConfig, bool)
	Replace(cfg types.AppConfig) uint64
}

// UIProvider defines logging.
type UIProvider interface {
	LogErrorf(format string, args ...interface{})
}

// MoveUpOrder swaps name with its predecessor. ok is false when nothing changes.
func MoveUpOrder(names []string, name string) (order []string, ok bool) {
	idx := slices.Index(names, name)
	if idx <= 0 {
		return names, false
	}
	order = slices.Clone(names)
	order[idx-1], order[idx] = order[idx], order[idx-1]
	return order, true
}

// MoveDownOrder swaps name with its successor. ok is false when nothing changes.
func MoveDownOrder(names []string, name string) (order []string, ok bool) {
	idx := slices.Index(names, name)
	if idx < 0 || idx >= len(names)-1 {
		return names, false
	}
	order = slices.Clone(names)
	order[idx], order[idx+1] = order[idx+1], order[idx]
	return order, true
}

// PinToTopOrder moves name to the front keeping the others in order. ok is false when nothing changes.
func PinToTopOrder(names []string, name string) (order []string, ok bool) {
	idx := slices.Index(names, name)
	if idx <= 0 {
		return names, false
	}
	order = make([]string, 0, len(names))
	order = append(order, name)
	order = append(order, names[:idx]...)
	order = append(order, names[idx+1:]...)
	return order, true
}

// Manager applies order changes to the current configuration.
type Manager struct {
	backend Backend
	store   ConfigStore
	ui      UIProvider
}

// New creates a Manager.
func New(backend Backend, store ConfigStore, ui UIProvider) *Manager {
	return &Manager{backend: backend, store: store, ui: ui}
}

// MoveUp moves game one place up.
func (m *Manager) MoveUp(ctx context.Context, game string) error {
	return m.apply(ctx, game, MoveUpOrder)
}

// MoveDown moves game one place down.
func (m *Manager) MoveDown(ctx context.Context, game string) error {
	return m.apply(ctx, game, MoveDownOrder)
}

// PinToTop moves game to the top.
func (m *Manager) PinToTop(ctx context.Context, game string) error {
	return m.apply(ctx, game, PinToTopOrder)
}

// apply sends the permuted order. No-op moves and a missing config make no backend call.
func (m *Manager) apply(ctx context.Context, game string, permute func([]string, string) ([]string, bool)) error {
	cfg, ok := m.store.Snapshot()
	if !ok {
		return nil
	}
	order, changed := permute(cfg.GameNames(), game)
	if !changed {
		return nil
	}
	next, err := m.backend.ReorderGames(ctx, order)
	if err != nil {
		m.ui.LogErrorf("Failed to save game order: %v", err)
		return err
	}
	m.store.Replace(next)
	return nil
}
