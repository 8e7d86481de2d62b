package mock

import (
	"context"

	"github.com/fwojciec/lpedit"
)

var _ lpedit.ArchiveReader = (*ArchiveReader)(nil)

// ArchiveReader is a mock implementation of lpedit.ArchiveReader.
type ArchiveReader struct {
	ReadArchiveFn func(ctx context.Context, path string) ([]lpedit.ArchiveEntry, error)
}

func (r *ArchiveReader) ReadArchive(ctx context.Context, path string) ([]lpedit.ArchiveEntry, error) {
	return r.ReadArchiveFn(ctx, path)
}
