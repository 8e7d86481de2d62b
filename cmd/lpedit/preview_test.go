package main_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/lpedit"
	main "github.com/fwojciec/lpedit/cmd/lpedit"
	"github.com/fwojciec/lpedit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewCmd_Run(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*lpedit.ImportProject, *mock.ProjectService) {
		t.Helper()

		project := analyzed(t)
		text := firstBlock(t, project, lpedit.BlockText)
		summer := "Summer sale"
		require.NoError(t, project.ApplyEdits([]lpedit.Edit{{BlockID: text.ID, Text: &summer}}))

		projects := &mock.ProjectService{
			FindProjectByIDFn: func(_ context.Context, _ string) (*lpedit.ImportProject, error) {
				return project, nil
			},
			UpdateProjectFn: func(_ context.Context, _ *lpedit.ImportProject) error {
				t.Fatal("UpdateProject should not be called")
				return nil
			},
		}
		return project, projects
	}

	t.Run("writes the patched and inlined page to stdout", func(t *testing.T) {
		t.Parallel()

		_, projects := setup(t)
		deps, stdout, _ := newDeps(projects, newEditor(bundle()))

		err := (&main.PreviewCmd{ID: "proj-1"}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "Summer sale")
		assert.Contains(t, out, lpedit.BlockMarkerAttr)
		assert.Contains(t, out, "data:image/png;base64,UE5H")
		assert.Contains(t, out, "body{}")
		assert.NotContains(t, out, "lpedit preview of")
	})

	t.Run("appends a timestamp comment with --debug", func(t *testing.T) {
		t.Parallel()

		_, projects := setup(t)
		deps, stdout, _ := newDeps(projects, newEditor(bundle()))

		err := (&main.PreviewCmd{ID: "proj-1", Debug: true}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "<!-- lpedit preview of proj-1 generated ")
	})

	t.Run("writes to a file with -o", func(t *testing.T) {
		t.Parallel()

		_, projects := setup(t)
		deps, stdout, _ := newDeps(projects, newEditor(bundle()))
		out := filepath.Join(t.TempDir(), "preview.html")

		err := (&main.PreviewCmd{ID: "proj-1", Output: out}).Run(deps)

		require.NoError(t, err)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Summer sale")
		assert.Contains(t, stdout.String(), "Wrote preview to "+out)
	})
}
