package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/lpedit"
)

// Ensure DirReader implements lpedit.ArchiveReader at compile time.
var _ lpedit.ArchiveReader = (*DirReader)(nil)

// DirReader reads an unpacked bundle from a directory tree.
type DirReader struct{}

// NewDirReader creates a new DirReader.
func NewDirReader() *DirReader {
	return &DirReader{}
}

// ReadArchive returns every regular file below root, with slash-separated
// paths relative to root. Returns ENOTFOUND if root does not exist and
// EINVALID if it is not a directory.
func (r *DirReader) ReadArchive(ctx context.Context, root string) ([]lpedit.ArchiveEntry, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, lpedit.Errorf(lpedit.ENOTFOUND, "bundle directory %q not found", root)
	} else if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, lpedit.Errorf(lpedit.EINVALID, "%q is not a directory", root)
	}

	var entries []lpedit.ArchiveEntry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, lpedit.ArchiveEntry{Path: filepath.ToSlash(rel), Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadAssets reads the local files named by an edit set's asset maps,
// keyed by bundle path. Returns ENOTFOUND if any file does not exist.
func LoadAssets(files map[string]string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(files))
	for bundlePath, localPath := range files {
		data, err := os.ReadFile(localPath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, lpedit.Errorf(lpedit.ENOTFOUND, "asset file %q not found", localPath)
		} else if err != nil {
			return nil, err
		}
		out[bundlePath] = data
	}
	return out, nil
}
