package archiver

import (
	"errors"
	"fmt"
	"io"

	"github.com/nwaples/rardecode/v2"
)

func extractRar(src, dest string) error {
	r, err := rardecode.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	for {
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read rar entry: %w", err)
		}
		if hdr.IsDir {
			if err := mkdirEntry(dest, hdr.Name); err != nil {
				return err
			}
			continue
		}
		if err := writeEntry(dest, hdr.Name, hdr.Mode(), r); err != nil {
			return err
		}
	}
}

func rarSize(src string) (uint64, error) {
	r, err := rardecode.OpenReader(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	var total uint64
	for {
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read rar entry: %w", err)
		}
		if !hdr.IsDir && hdr.UnPackedSize > 0 {
			total += uint64(hdr.UnPackedSize)
		}
	}
}
