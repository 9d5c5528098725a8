//go:build windows

package paths

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// SteamInstallDir reads HKCU\Software\Valve\Steam\SteamPath.
func SteamInstallDir() (string, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, `Software\Valve\Steam`, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("%w: cannot open registry key: %v", ErrSteamNotFound, err)
	}
	defer k.Close()

	p, _, err := k.GetStringValue("SteamPath")
	if err != nil || p == "" {
		return "", fmt.Errorf("%w: SteamPath not set", ErrSteamNotFound)
	}
	return p, nil
}
