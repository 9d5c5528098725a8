package paths

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"game-sl/types"
)

// ErrSteamNotFound is returned when no Steam installation can be located.
var ErrSteamNotFound = errors.New("steam installation not found")

// UserHome returns the user's home folder, preferring USERPROFILE like Windows does.
func UserHome() (string, error) {
	if p := os.Getenv("USERPROFILE"); p != "" {
		return p, nil
	}
	if p := os.Getenv("HOME"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to determine user folder")
	}
	return home, nil
}

// ListSteamUIDs returns the account directories (all-digit names) under <steamDir>/userdata.
// Any failure yields an empty list.
func ListSteamUIDs(steamDir string) []string {
	uids := []string{}
	if steamDir == "" {
		return uids
	}
	entries, err := os.ReadDir(filepath.Join(Localize(steamDir), "userdata"))
	if err != nil {
		return uids
	}
	for _, e := range entries {
		if e.IsDir() && isDigits(e.Name()) {
			uids = append(uids, e.Name())
		}
	}
	sort.Strings(uids)
	return uids
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0
}

// SystemEnv builds template environments from the running machine. The lookups can be
// replaced in tests.
type SystemEnv struct {
	UserHome        func() (string, error)
	SteamInstallDir func() (string, error)
}

// NewSystemEnv returns a SystemEnv probing the host.
func NewSystemEnv() SystemEnv {
	return SystemEnv{UserHome: UserHome, SteamInstallDir: SteamInstallDir}
}

// TemplateEnv returns the environment for the given selected account. The user folder is
// empty and SteamDir nil when they cannot be determined.
func (e SystemEnv) TemplateEnv(steamUID *string) types.TemplateEnv {
	env := types.TemplateEnv{SteamUID: steamUID}
	if home, err := e.UserHome(); err == nil {
		env.UserFolder = home
	}
	if dir, err := e.SteamInstallDir(); err == nil && dir != "" {
		env.SteamDir = &dir
	}
	return env
}
