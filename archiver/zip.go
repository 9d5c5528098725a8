// Package archiver writes save directories into archives and extracts them back.
package archiver

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"game-sl/utils/fileio"
)

// ZipDirectory compresses the contents of srcDir into a new zip file at dest.
// Entry names are relative to srcDir and use forward slashes. A failed archive is removed;
// cleanup errors go to logf.
func ZipDirectory(srcDir, dest string, progress ProgressFunc, logf fileio.LogFunc) (err error) {
	total, err := dirSize(srcDir)
	if err != nil {
		return fmt.Errorf("failed to scan save directory: %w", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close backup file: %w", cerr)
		}
		if err != nil {
			fileio.Remove(dest, logf)
		}
	}()

	zw := zip.NewWriter(out)
	pw := &ProgressWriter{Total: total, OnProgress: progress}

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			_, err := zw.Create(name + "/")
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = name
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer fileio.Close(f, logf, "close source file")

		_, err = io.Copy(io.MultiWriter(w, pw), f)
		return err
	})
	if walkErr != nil {
		return fmt.Errorf("failed to write backup archive: %w", walkErr)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish backup archive: %w", err)
	}
	return nil
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// openZip tolerates non-local entry names; entryPath keeps them inside the destination.
func openZip(src string) (*zip.ReadCloser, error) {
	r, err := zip.OpenReader(src)
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && r != nil) {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	return r, nil
}

func extractZip(src, dest string) error {
	r, err := openZip(src)
	if err != nil {
		return err
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

func zipSize(src string) (uint64, error) {
	r, err := openZip(src)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	var total uint64
	for _, f := range r.File {
		total += f.UncompressedSize64
	}
	return total, nil
}
