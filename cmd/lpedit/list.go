package main

import (
	"fmt"

	"github.com/fwojciec/lpedit"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	projects, err := deps.Projects.FindProjects(deps.Ctx, lpedit.ProjectFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(deps.Stdout, "No projects found. Use 'lpedit import' to create one.")
		return nil
	}

	for _, p := range projects {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", p.ID, p.EntryHTMLPath, p.SourceArchivePath)
	}

	return nil
}
