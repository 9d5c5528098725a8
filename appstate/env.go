package appstate

import (
	"sync"

	"game-sl/paths"
	"game-sl/types"
)

// Env tracks what the path templates are resolved against.
type Env struct {
	mu         sync.RWMutex
	userFolder string
	steamDir   *string
	steamUIDs  []string
	selected   *string
}

// Set replaces the detected machine values. The first account is selected when none is.
func (e *Env) Set(userFolder string, steamDir *string, uids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.userFolder = userFolder
	e.steamDir = copyStr(steamDir)
	e.steamUIDs = append([]string{}, uids...)
	if e.selected == nil && len(uids) > 0 {
		e.selected = copyStr(&uids[0])
	}
}

// SelectSteamUID changes the selected account. nil clears the selection.
func (e *Env) SelectSteamUID(uid *string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = copyStr(uid)
}

// SelectedSteamUID returns the selected account, or nil.
func (e *Env) SelectedSteamUID() *string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return copyStr(e.selected)
}

// SteamUIDs returns the detected accounts.
func (e *Env) SteamUIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string{}, e.steamUIDs...)
}

// HasSteam reports whether a Steam install was detected.
func (e *Env) HasSteam() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.steamDir != nil && *e.steamDir != ""
}

// TemplateEnv returns the current resolver input.
func (e *Env) TemplateEnv() types.TemplateEnv {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return types.TemplateEnv{
		UserFolder: e.userFolder,
		SteamDir:   copyStr(e.steamDir),
		SteamUID:   copyStr(e.selected),
	}
}

// Resolve renders template for display.
func (e *Env) Resolve(template string) string {
	return paths.Resolve(template, e.TemplateEnv())
}

func copyStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
