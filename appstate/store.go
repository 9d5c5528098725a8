// Package appstate holds the client-side snapshot of the configuration, the template
// environment and the per-game path states.
package appstate

import (
	"sync"

	"game-sl/types"
)

// Store holds the authoritative configuration. Every write bumps the generation.
type Store struct {
	mu     sync.RWMutex
	config *types.AppConfig
	gen    uint64
}

// NewStore returns an empty store. Snapshot reports false until the first Replace.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps the whole configuration and returns the new generation.
func (s *Store) Replace(cfg types.AppConfig) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cfg.Clone()
	s.config = &c
	s.gen++
	return s.gen
}

// ReplaceIfNewer applies cfg only if nothing was written since generation gen was observed.
func (s *Store) ReplaceIfNewer(gen uint64, cfg types.AppConfig) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	c := cfg.Clone()
	s.config = &c
	s.gen++
	return true
}

// Snapshot returns a deep copy of the configuration, and false when none was loaded yet.
func (s *Store) Snapshot() (types.AppConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return types.AppConfig{}, false
	}
	return s.config.Clone(), true
}

// Generation returns the current write counter.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}
