// Package fs provides file-based storage for landing-page bundles.
package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/lpedit"
)

// Ensure DirStore implements lpedit.BundleStore at compile time.
var _ lpedit.BundleStore = (*DirStore)(nil)

// DirStore implements lpedit.BundleStore with atomic update semantics.
// Files are saved to a temporary directory, then moved atomically on Commit.
type DirStore struct {
	baseDir string
	name    string
}

// NewDirStore creates a new DirStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewDirStore(baseDir, name string) *DirStore {
	return &DirStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *DirStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *DirStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes one bundle file below the temporary directory.
// Returns EINVALID if path would escape the bundle.
func (s *DirStore) Save(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(rel) {
		return lpedit.Errorf(lpedit.EINVALID, "bundle path %q escapes the bundle", path)
	}

	fullPath := filepath.Join(s.tempDir(), rel)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

func (s *DirStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	return os.Rename(s.tempDir(), s.finalDir())
}

func (s *DirStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
