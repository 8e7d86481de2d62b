package mock

import (
	"context"

	"github.com/fwojciec/lpedit"
)

var _ lpedit.BundleStore = (*BundleStore)(nil)

// BundleStore is a mock implementation of lpedit.BundleStore.
type BundleStore struct {
	SaveFn   func(ctx context.Context, path string, data []byte) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *BundleStore) Save(ctx context.Context, path string, data []byte) error {
	return s.SaveFn(ctx, path, data)
}

func (s *BundleStore) Commit() error {
	return s.CommitFn()
}

func (s *BundleStore) Abort() error {
	return s.AbortFn()
}
