package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/lpedit"
	"github.com/fwojciec/lpedit/fs"
	"github.com/fwojciec/lpedit/zip"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	project, err := deps.Projects.FindProjectByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	result, err := deps.Editor.Export(project)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Output), 0755); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}
	if err := deps.Editor.WriteBundle(deps.Ctx, project, result.HTML, bundleStore(c.Output)); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	if err := deps.Projects.UpdateProject(deps.Ctx, project); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %s to %s (%d changed, %d unchanged blocks)\n",
		project.ID, c.Output, result.Applied, result.Unchanged)
	for _, d := range project.ReplaceFailures {
		colorWarning.Fprintf(deps.Stderr, "warning: %s\n", d.Message)
	}
	for _, d := range project.MissingAssets {
		colorWarning.Fprintf(deps.Stderr, "warning: missing asset %s\n", d.Detail)
	}
	return nil
}

// bundleStore writes zip archives for .zip outputs and directories otherwise.
func bundleStore(out string) lpedit.BundleStore {
	if strings.EqualFold(filepath.Ext(out), ".zip") {
		return zip.NewStore(out)
	}
	return fs.NewDirStore(filepath.Dir(out), filepath.Base(out))
}
