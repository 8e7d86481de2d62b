// Package zip reads uploaded bundles from zip archives and writes exported
// bundles back as zip archives.
package zip

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fwojciec/lpedit"
)

// Ensure Reader implements lpedit.ArchiveReader at compile time.
var _ lpedit.ArchiveReader = (*Reader)(nil)

// Reader reads bundle archives from the local filesystem.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadArchive returns every non-directory entry of the zip at path.
// Returns ENOTFOUND if the file does not exist and EINVALID if it is not a
// readable zip archive. No entries are returned on failure.
func (r *Reader) ReadArchive(ctx context.Context, path string) ([]lpedit.ArchiveEntry, error) {
	zr, err := zip.OpenReader(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, lpedit.Errorf(lpedit.ENOTFOUND, "archive %q not found", path)
	} else if err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		return nil, lpedit.Errorf(lpedit.EINVALID, "archive %q is not a valid zip file: %v", path, err)
	}
	defer zr.Close()

	var entries []lpedit.ArchiveEntry
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}

		data, err := readFile(f)
		if err != nil {
			return nil, lpedit.Errorf(lpedit.EINVALID, "archive %q: cannot read %s: %v", path, f.Name, err)
		}
		entries = append(entries, lpedit.ArchiveEntry{Path: f.Name, Data: data})
	}
	return entries, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
