package utils

import (
	"path/filepath"
	"strings"
)

// SanitizePath ensures a path read from an archive entry is safe to join under a destination.
// It removes any directory traversal segments (..) and ensures the path is relative.
func SanitizePath(path string) string {
	// Archives written on Windows may use backslashes
	p := strings.ReplaceAll(path, "\\", "/")
	p = filepath.Clean(filepath.FromSlash(p))

	if vol := filepath.VolumeName(p); vol != "" {
		p = strings.TrimPrefix(p, vol)
	}

	p = filepath.ToSlash(p)

	// Clean keeps a leading .. for relative paths; strip it so the entry stays inside our root
	for strings.HasPrefix(p, "../") || p == ".." {
		p = strings.TrimPrefix(p, "../")
		if p == ".." {
			p = "."
		}
	}

	p = strings.TrimPrefix(p, "/")

	if p == "" || p == "." {
		return "."
	}

	return filepath.FromSlash(p)
}

var invalidNameChars = []string{"<", ">", ":", "\"", "|", "?", "*", "/", "\\"}

// SanitizeFileName replaces characters that are not allowed in file names on Windows
// and trims surrounding spaces and dots.
func SanitizeFileName(name string) string {
	out := name
	for _, ch := range invalidNameChars {
		out = strings.ReplaceAll(out, ch, "_")
	}
	return strings.Trim(strings.TrimSpace(out), ".")
}
