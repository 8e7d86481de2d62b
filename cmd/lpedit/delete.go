package main

import (
	"fmt"

	"github.com/fwojciec/lpedit"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return lpedit.Errorf(lpedit.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Projects.DeleteProject(deps.Ctx, c.ID); err != nil {
		if lpedit.ErrorCode(err) == lpedit.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: project %q not found. Use 'lpedit list' to see available projects.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted project %s\n", c.ID)
	return nil
}
