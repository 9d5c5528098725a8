package archiver

import (
	"fmt"

	"github.com/bodgit/sevenzip"
)

func extractSevenZip(src, dest string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			if err := mkdirEntry(dest, f.Name); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		err = writeEntry(dest, f.Name, f.Mode(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func sevenZipSize(src string) (uint64, error) {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()

	var total uint64
	for _, f := range r.File {
		total += f.UncompressedSize
	}
	return total, nil
}
