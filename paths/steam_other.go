//go:build !windows

package paths

import (
	"os"
	"path/filepath"
)

// SteamInstallDir honours STEAM_DIR, then falls back to the usual per-user install locations.
func SteamInstallDir() (string, error) {
	if p := os.Getenv("STEAM_DIR"); p != "" {
		return p, nil
	}
	home, err := UserHome()
	if err != nil {
		return "", ErrSteamNotFound
	}
	candidates := []string{
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(home, ".local", "share", "Steam"),
		filepath.Join(home, "Library", "Application Support", "Steam"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c, nil
		}
	}
	return "", ErrSteamNotFound
}
