// Package paths turns save path templates into concrete directories.
//
// Resolve is shared by the display side and the backend so both agree on the placeholder
// set and on substitution order.
package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"game-sl/constants"
	"game-sl/types"
)

// ErrUnresolvedPlaceholder is returned when a template still contains a known placeholder
// after substitution.
var ErrUnresolvedPlaceholder = errors.New("unresolved placeholder")

var placeholders = []string{
	constants.PlaceholderAppData,
	constants.PlaceholderUserFolder,
	constants.PlaceholderHome,
	constants.PlaceholderSteam,
	constants.PlaceholderSteamUID,
}

// Resolve substitutes the placeholders of template with values from env.
// Placeholders whose source value is empty are left verbatim.
func Resolve(template string, env types.TemplateEnv) string {
	result := template
	if env.UserFolder != "" {
		result = strings.ReplaceAll(result, constants.PlaceholderAppData, env.UserFolder+`\AppData`)
		result = strings.ReplaceAll(result, constants.PlaceholderUserFolder, env.UserFolder)
		result = strings.ReplaceAll(result, constants.PlaceholderHome, env.UserFolder)
	}
	if env.SteamDir != nil && *env.SteamDir != "" {
		result = strings.ReplaceAll(result, constants.PlaceholderSteam, *env.SteamDir)
	}
	if env.SteamUID != nil && *env.SteamUID != "" {
		result = strings.ReplaceAll(result, constants.PlaceholderSteamUID, *env.SteamUID)
	}
	return result
}

// Unresolved lists the known placeholders still present in s.
func Unresolved(s string) []string {
	var left []string
	for _, p := range placeholders {
		if strings.Contains(s, p) {
			left = append(left, p)
		}
	}
	return left
}

// ResolveStrict resolves template and converts it to a local filesystem path.
// It fails if any placeholder could not be substituted.
func ResolveStrict(template string, env types.TemplateEnv) (string, error) {
	resolved := Resolve(template, env)
	if left := Unresolved(resolved); len(left) > 0 {
		return "", fmt.Errorf("%w: %s in %q", ErrUnresolvedPlaceholder, strings.Join(left, ", "), template)
	}
	return Localize(resolved), nil
}

// Localize converts Windows separators for the running OS and cleans the result.
func Localize(p string) string {
	if runtime.GOOS != constants.OSWindows {
		p = strings.ReplaceAll(p, `\`, "/")
	}
	return filepath.Clean(p)
}
