package archiver

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"game-sl/utils"
)

// Supported backup archive extensions
const (
	ExtZip      = ".zip"
	ExtSevenZip = ".7z"
	ExtRar      = ".rar"
)

// IsArchive reports whether name has one of the supported archive extensions.
func IsArchive(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtZip, ExtSevenZip, ExtRar:
		return true
	}
	return false
}

// Extract unpacks archive into dest, which is created if needed.
func Extract(archive, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	switch strings.ToLower(filepath.Ext(archive)) {
	case ExtZip:
		return extractZip(archive, dest)
	case ExtSevenZip:
		return extractSevenZip(archive, dest)
	case ExtRar:
		return extractRar(archive, dest)
	default:
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(archive))
	}
}

// UncompressedSize sums the uncompressed size of every entry in archive.
func UncompressedSize(archive string) (uint64, error) {
	switch strings.ToLower(filepath.Ext(archive)) {
	case ExtZip:
		return zipSize(archive)
	case ExtSevenZip:
		return sevenZipSize(archive)
	case ExtRar:
		return rarSize(archive)
	default:
		return 0, fmt.Errorf("unsupported archive format: %s", filepath.Base(archive))
	}
}

// entryPath maps an archive entry name to a path inside dest, refusing anything that escapes it.
func entryPath(dest, name string) (string, error) {
	rel := utils.SanitizePath(name)
	if rel == "." {
		return "", fmt.Errorf("illegal entry name: %q", name)
	}
	p := filepath.Join(dest, rel)
	if !strings.HasPrefix(p, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	return p, nil
}

func mkdirEntry(dest, name string) error {
	if utils.SanitizePath(name) == "." {
		return nil
	}
	p, err := entryPath(dest, name)
	if err != nil {
		return err
	}
	return os.MkdirAll(p, 0o755)
}

func writeEntry(dest, name string, mode fs.FileMode, r io.Reader) error {
	p, err := entryPath(dest, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", p, err)
	}
	_, err = io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	return nil
}
