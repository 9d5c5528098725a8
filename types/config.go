package types

// AppConfig is the single persisted configuration object shared with the front-end.
// It is always replaced wholesale from a backend response.
type AppConfig struct {
	Settings map[string]any `json:"settings"` // Open map of user preferences
	Games    []GameEntry    `json:"games"`    // Display order is significant
	Version  int            `json:"version"`  // Passed through, never interpreted by the core
}

// Clone returns a deep copy so callers can never alias another component's view.
func (c AppConfig) Clone() AppConfig {
	out := AppConfig{Version: c.Version}
	if c.Settings != nil {
		out.Settings = make(map[string]any, len(c.Settings))
		for k, v := range c.Settings {
			out.Settings[k] = v
		}
	}
	if c.Games != nil {
		out.Games = make([]GameEntry, len(c.Games))
		for i, g := range c.Games {
			if g.LastSave != nil {
				ts := *g.LastSave
				g.LastSave = &ts
			}
			out.Games[i] = g
		}
	}
	return out
}

// GameNames returns the game names in display order.
func (c AppConfig) GameNames() []string {
	names := make([]string, len(c.Games))
	for i, g := range c.Games {
		names[i] = g.Name
	}
	return names
}

// FindGame looks up a game by name.
func (c AppConfig) FindGame(name string) (GameEntry, bool) {
	for _, g := range c.Games {
		if g.Name == name {
			return g, true
		}
	}
	return GameEntry{}, false
}
