package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/lpedit"
)

// Run executes the preview command.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	project, err := deps.Projects.FindProjectByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	html, err := deps.Editor.Preview(project)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}
	if c.Debug {
		html += fmt.Sprintf("\n<!-- lpedit preview of %s generated %s -->\n", project.ID, time.Now().UTC().Format(time.RFC3339))
	}

	if c.Output == "" {
		fmt.Fprint(deps.Stdout, html)
		return nil
	}

	if err := os.WriteFile(c.Output, []byte(html), 0644); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote preview to %s\n", c.Output)
	return nil
}
