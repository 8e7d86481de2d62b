package zip_test

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/lpedit"
	lpzip "github.com/fwojciec/lpedit/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZip creates an archive with the given entries. Names ending in "/"
// become directory entries.
func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, body := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func readZip(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	out := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(data)
	}
	return out
}

func TestReader_ReadArchive(t *testing.T) {
	t.Parallel()

	t.Run("returns file entries and skips directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "lp.zip")
		writeZip(t, path, map[string]string{
			"lp/":           "",
			"lp/index.html": "<p>x</p>",
			"lp/img/a.png":  "PNG",
		})

		entries, err := lpzip.NewReader().ReadArchive(context.Background(), path)

		require.NoError(t, err)
		got := make(map[string]string)
		for _, e := range entries {
			got[e.Path] = string(e.Data)
		}
		assert.Equal(t, map[string]string{"lp/index.html": "<p>x</p>", "lp/img/a.png": "PNG"}, got)
	})

	t.Run("returns not found for a missing archive", func(t *testing.T) {
		t.Parallel()

		entries, err := lpzip.NewReader().ReadArchive(context.Background(), filepath.Join(t.TempDir(), "nope.zip"))

		assert.Nil(t, entries)
		assert.Equal(t, lpedit.ENOTFOUND, lpedit.ErrorCode(err))
	})

	t.Run("returns invalid for a corrupt archive", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.zip")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

		entries, err := lpzip.NewReader().ReadArchive(context.Background(), path)

		assert.Nil(t, entries)
		assert.Equal(t, lpedit.EINVALID, lpedit.ErrorCode(err))
	})
}

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("commit writes the archive atomically", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "bundle.zip")
		store := lpzip.NewStore(path)
		require.NoError(t, store.Save(context.Background(), "index.html", []byte("<p>x</p>")))
		require.NoError(t, store.Save(context.Background(), "img/a.png", []byte("PNG")))

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "archive should not exist until commit")

		require.NoError(t, store.Commit())

		assert.Equal(t, map[string]string{"index.html": "<p>x</p>", "img/a.png": "PNG"}, readZip(t, path))
		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("round-trips through the reader", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bundle.zip")
		store := lpzip.NewStore(path)
		require.NoError(t, store.Save(context.Background(), "index.html", []byte("<p>x</p>")))
		require.NoError(t, store.Commit())

		entries, err := lpzip.NewReader().ReadArchive(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, []lpedit.ArchiveEntry{{Path: "index.html", Data: []byte("<p>x</p>")}}, entries)
	})

	t.Run("abort removes the pending archive", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bundle.zip")
		store := lpzip.NewStore(path)
		require.NoError(t, store.Save(context.Background(), "index.html", []byte("x")))

		require.NoError(t, store.Abort())

		_, err := os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("abort without saves is a no-op", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, lpzip.NewStore(filepath.Join(t.TempDir(), "b.zip")).Abort())
	})
}
