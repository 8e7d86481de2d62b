package zip

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/lpedit"
)

// Ensure Store implements lpedit.BundleStore at compile time.
var _ lpedit.BundleStore = (*Store)(nil)

// Store writes an exported bundle as a zip archive with atomic semantics.
// Entries are written to path.tmp, which is renamed to path on Commit.
type Store struct {
	path string

	mu   sync.Mutex
	file *os.File
	w    *zip.Writer
}

// NewStore creates a Store that will produce the archive at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) tempPath() string {
	return s.path + ".tmp"
}

// Save adds one file to the pending archive. Files are deflated.
func (s *Store) Save(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return err
		}
		f, err := os.Create(s.tempPath())
		if err != nil {
			return fmt.Errorf("create archive: %w", err)
		}
		s.file = f
		s.w = zip.NewWriter(f)
	}

	w, err := s.w.CreateHeader(&zip.FileHeader{Name: path, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Commit finalizes the archive and moves it into place. Committing without
// any saved file produces an empty archive.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		f, err := os.Create(s.tempPath())
		if err != nil {
			return fmt.Errorf("create archive: %w", err)
		}
		s.file = f
		s.w = zip.NewWriter(f)
	}

	if err := s.w.Close(); err != nil {
		return err
	}
	if err := s.file.Close(); err != nil {
		return err
	}
	s.w, s.file = nil, nil

	return os.Rename(s.tempPath(), s.path)
}

// Abort discards the pending archive.
func (s *Store) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		_ = s.file.Close()
		s.w, s.file = nil, nil
	}
	if err := os.Remove(s.tempPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
