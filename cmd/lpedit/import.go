package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fwojciec/lpedit"
	"github.com/fwojciec/lpedit/editor"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	if c.All && c.Entry != "" {
		fmt.Fprintf(deps.Stderr, "error: --entry and --all cannot be combined\n")
		return lpedit.Errorf(lpedit.EINVALID, "--entry and --all cannot be combined")
	}

	archive, err := filepath.Abs(c.Archive)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	session, err := deps.Editor.Open(deps.Ctx, archive)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	var projects []*lpedit.ImportProject
	if c.All {
		projects, err = deps.Editor.AnalyzeAll(deps.Ctx, session, func(ev editor.ProgressEvent) {
			if ev.Type == editor.ProgressCompleted {
				fmt.Fprintf(deps.Stderr, "[%d/%d] analyzed %s\n", ev.Completed, ev.Total, ev.Entry)
			}
		})
	} else {
		var project *lpedit.ImportProject
		project, err = deps.Editor.Analyze(session, c.Entry)
		projects = []*lpedit.ImportProject{project}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
		return err
	}

	for _, project := range projects {
		if err := c.save(deps, project); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", lpedit.ErrorMessage(err))
			return err
		}
	}
	return nil
}

// save stores project unless an import with the same archive, entry and
// content hash exists. With --force the existing imports are replaced.
func (c *ImportCmd) save(deps *Dependencies, project *lpedit.ImportProject) error {
	existing, err := deps.Projects.FindProjects(deps.Ctx, lpedit.ProjectFilter{
		SourceArchivePath: &project.SourceArchivePath,
		EntryHTMLPath:     &project.EntryHTMLPath,
		ContentHash:       &project.ContentHash,
	})
	if err != nil {
		return err
	}

	if len(existing) > 0 && !c.Force {
		fmt.Fprintf(deps.Stdout, "%s already imported as %s (use --force to re-import)\n", project.EntryHTMLPath, existing[0].ID)
		return nil
	}
	for _, p := range existing {
		if err := deps.Projects.DeleteProject(deps.Ctx, p.ID); err != nil {
			return err
		}
	}

	if err := deps.Projects.CreateProject(deps.Ctx, project); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %s as %s\n", project.EntryHTMLPath, project.ID)
	printStats(deps.Stdout, project)
	printDiagnostics(deps.Stdout, project)
	return nil
}

func printStats(w io.Writer, p *lpedit.ImportProject) {
	st := p.Stats
	fmt.Fprintf(w, "  %d sections, %d text, %d links, %d images, %d frozen blocks\n",
		len(p.Sections), st.EditableText, st.EditableLinks, st.EditableImages, st.FrozenBlocks)
}

func printDiagnostics(w io.Writer, p *lpedit.ImportProject) {
	for _, d := range p.Warnings {
		if d.Code == lpedit.CodeAssetOK {
			continue
		}
		colorWarning.Fprintf(w, "  warning: %s\n", d.Message)
	}
	for _, d := range p.MissingAssets {
		colorWarning.Fprintf(w, "  warning: missing asset %s\n", d.Detail)
	}
	for _, d := range p.ReplaceFailures {
		colorWarning.Fprintf(w, "  warning: %s (%s)\n", d.Message, d.Detail)
	}
}
