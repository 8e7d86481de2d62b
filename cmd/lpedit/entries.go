package main

import (
	"fmt"

	"github.com/fwojciec/lpedit"
	"github.com/fwojciec/lpedit/editor"
)

// Run executes the entries command.
func (c *EntriesCmd) Run(deps *Dependencies) error {
	session, err := deps.Editor.Open(deps.Ctx, c.Archive)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	def := editor.DefaultEntry(session)
	for _, entry := range session.HTMLEntries {
		marker := " "
		if entry == def {
			marker = "*"
		}
		fmt.Fprintf(deps.Stdout, "%s %s\n", marker, entry)
	}
	return nil
}
