package main

import (
	"fmt"

	"github.com/fwojciec/lpedit"
	"github.com/fwojciec/lpedit/fs"
	lpyaml "github.com/fwojciec/lpedit/yaml"
)

// Run executes the edit command.
func (c *EditCmd) Run(deps *Dependencies) error {
	set, err := lpyaml.ParseEditSetFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	overrides, err := fs.LoadAssets(set.AssetOverrides)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}
	newAssets, err := fs.LoadAssets(set.NewAssets)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	project, err := deps.Projects.FindProjectByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	if err := deps.Editor.Edit(project, set.Edits, overrides, newAssets); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	if err := deps.Projects.UpdateProject(deps.Ctx, project); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Applied %d edits, %d asset overrides and %d new assets to %s\n",
		len(set.Edits), len(overrides), len(newAssets), project.ID)
	return nil
}
