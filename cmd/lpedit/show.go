package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/lpedit"
)

// maxSummaryLength caps block values printed by show.
const maxSummaryLength = 50

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	project, err := deps.Projects.FindProjectByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(project); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
			return err
		}
		return nil
	}

	colorHeader.Fprintf(deps.Stdout, "%s (%s)\n", project.Name, project.ID)
	fmt.Fprintf(deps.Stdout, "  archive: %s\n", project.SourceArchivePath)
	fmt.Fprintf(deps.Stdout, "  entry:   %s\n", project.EntryHTMLPath)
	if project.SourceCharset != "" {
		fmt.Fprintf(deps.Stdout, "  charset: %s\n", project.SourceCharset)
	}
	printStats(deps.Stdout, project)

	for _, s := range project.Sections {
		fmt.Fprintln(deps.Stdout)
		colorHeader.Fprintf(deps.Stdout, "%s  %s", s.ID, s.Title)
		if s.Frozen() {
			colorFrozen.Fprintf(deps.Stdout, "  [frozen: %s]", strings.Join(s.FrozenReasons, ", "))
		}
		fmt.Fprintln(deps.Stdout)
		for _, b := range s.Blocks {
			printBlock(deps.Stdout, b)
		}
	}

	fmt.Fprintln(deps.Stdout)
	printDiagnostics(deps.Stdout, project)
	return nil
}

func printBlock(w io.Writer, b *lpedit.Block) {
	switch c := b.Content.(type) {
	case lpedit.TextContent:
		fmt.Fprintf(w, "  %-24s text    %q\n", b.ID, summarize(c.Text))
	case lpedit.LinkContent:
		fmt.Fprintf(w, "  %-24s link    %q -> %s\n", b.ID, summarize(c.Text), c.Href)
	case lpedit.ImageContent:
		fmt.Fprintf(w, "  %-24s image   %s %q\n", b.ID, c.Src, summarize(c.Alt))
	case lpedit.FrozenContent:
		colorFrozen.Fprintf(w, "  %-24s frozen  (%s)\n", b.ID, c.Reason)
	}
}

func summarize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxSummaryLength {
		return s
	}
	return string(r[:maxSummaryLength-3]) + "..."
}
