package fileio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LogFunc matches the signature of logging functions used across the app (like LogErrorf).
type LogFunc func(format string, args ...interface{})

// Close closes the given io.Closer and logs any error that occurs.
// If logFunc is nil, the error is ignored.
func Close(c io.Closer, logFunc LogFunc, msg string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		if logFunc != nil {
			logFunc("%s: %v", msg, err)
		}
	}
}

// Remove is a wrapper for os.Remove that logs any error other than the file already being gone.
func Remove(path string, logFunc LogFunc) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		if logFunc != nil {
			logFunc("Remove failed for %s: %v", path, err)
		}
	}
}

// Exists reports whether path exists. Stat errors other than "not exist" count as existing.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// RemoveContents deletes everything inside dir but keeps dir itself.
func RemoveContents(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}
