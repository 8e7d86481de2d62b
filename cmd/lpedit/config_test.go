package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/lpedit"
	main "github.com/fwojciec/lpedit/cmd/lpedit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("reads every key", func(t *testing.T) {
		t.Parallel()

		path := write(t, `
db_path = "/var/lib/lpedit.db"
min_text_length = 10
concurrency = 2
verbose = true
`)

		cfg, err := main.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, main.Config{
			DBPath:        "/var/lib/lpedit.db",
			MinTextLength: 10,
			Concurrency:   2,
			Verbose:       true,
		}, cfg)
	})

	t.Run("returns zero config for a missing file", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig(filepath.Join(t.TempDir(), "none.toml"))

		require.NoError(t, err)
		assert.Equal(t, main.Config{}, cfg)
	})

	t.Run("rejects malformed TOML", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig(write(t, "concurrency = ["))

		require.Error(t, err)
		assert.Equal(t, lpedit.EINVALID, lpedit.ErrorCode(err))
		assert.Equal(t, main.Config{}, cfg)
	})

	t.Run("rejects negative values", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(write(t, "min_text_length = -1"))
		require.Error(t, err)
		assert.Equal(t, lpedit.EINVALID, lpedit.ErrorCode(err))

		_, err = main.LoadConfig(write(t, "concurrency = -3"))
		require.Error(t, err)
		assert.Equal(t, lpedit.EINVALID, lpedit.ErrorCode(err))
	})
}
