// Package trash moves deleted backups into a recoverable trash folder instead of removing them.
package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Item is one batch of files moved to the trash together.
type Item struct {
	Name      string    // Folder name inside the trash, e.g. 20240101-120000.000
	Path      string    // Absolute folder path
	DeletedAt time.Time
	Files     []string
}

// Move relocates every existing path into a fresh timestamped folder under trashDir.
// Missing paths are skipped. It returns the folder the files were moved to.
func Move(trashDir string, paths ...string) (string, error) {
	now := time.Now()
	dest := filepath.Join(trashDir, now.Format("20060102-150405.000"))
	for i := 1; ; i++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(trashDir, fmt.Sprintf("%s-%d", now.Format("20060102-150405.000"), i))
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("failed to create trash folder: %w", err)
	}

	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		target := filepath.Join(dest, filepath.Base(p))
		if err := moveFile(p, target); err != nil {
			return "", fmt.Errorf("failed to move %s to trash: %w", filepath.Base(p), err)
		}
	}
	return dest, nil
}

// moveFile renames src to dst and falls back to copy + remove across volumes.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Remove(src)
}

// List returns trash batches, newest first. A missing trash folder yields nil.
func List(trashDir string) ([]Item, error) {
	entries, err := os.ReadDir(trashDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var items []Item
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(trashDir, e.Name())
		info, err := e.Info()
		if err != nil {
			continue
		}
		files, _ := os.ReadDir(dir)
		item := Item{Name: e.Name(), Path: dir, DeletedAt: info.ModTime()}
		for _, f := range files {
			item.Files = append(item.Files, f.Name())
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Name > items[j].Name
	})
	return items, nil
}

// Restore moves the files of item back into destDir. Existing files are not overwritten.
func Restore(item Item, destDir string) error {
	for _, name := range item.Files {
		target := filepath.Join(destDir, name)
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%s already exists in %s", name, destDir)
		}
	}
	for _, name := range item.Files {
		if err := moveFile(filepath.Join(item.Path, name), filepath.Join(destDir, name)); err != nil {
			return fmt.Errorf("failed to restore %s: %w", name, err)
		}
	}
	return os.Remove(item.Path)
}
