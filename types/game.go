package types

// Game save location kinds
const (
	GameTypeSteam    = "steam"
	GameTypeUserData = "userdata"
)

// GameEntry represents a tracked game and where its saves live
type GameEntry struct {
	Name     string `json:"name"`               // Unique id
	Path     string `json:"path"`               // Path template, e.g. {AppData}\Roaming\Foo
	Icon     string `json:"icon"`               // URL, data URI or bare base64
	LastSave *int64 `json:"lastSave,omitempty"` // Unix millis of the last backup or restore
	Type     string `json:"type,omitempty"`     // "steam" or "userdata"
}

// PathState is the per-game result of a save path check.
type PathState struct {
	Exists   bool   `json:"exists"`
	Resolved string `json:"resolved"`
}

// TemplateEnv holds the inputs used to resolve a path template.
// A nil SteamDir means no Steam install was detected, a nil SteamUID means no account is selected.
type TemplateEnv struct {
	UserFolder string  `json:"userFolder"`
	SteamDir   *string `json:"steamDir"`
	SteamUID   *string `json:"steamUID"`
}

// Key identifies the environment so cached path states can be invalidated when it changes.
func (e TemplateEnv) Key() string {
	return e.UserFolder + "\x00" + deref(e.SteamDir) + "\x00" + deref(e.SteamUID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
