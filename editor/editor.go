// Package editor provides landing-page editing orchestration.
// It coordinates archive reading, analysis, patching, preview inlining
// and bundle export for import projects.
package editor

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/fwojciec/lpedit"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of entries AnalyzeAll analyzes at once.
const DefaultConcurrency = 4

// Editor orchestrates the editing workflow for landing-page bundles.
type Editor struct {
	Archives    lpedit.ArchiveReader
	Analyzer    lpedit.Analyzer
	Scanner     lpedit.AssetScanner
	Patcher     lpedit.Patcher
	Inliner     lpedit.Inliner
	Concurrency int
}

// ProgressEvent reports progress during AnalyzeAll.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Entry     string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting analysis progress.
type ProgressFunc func(event ProgressEvent)

// Open reads the archive at path and normalizes it into a session.
// Returns EINVALID if the bundle contains no HTML file.
func (e *Editor) Open(ctx context.Context, archivePath string) (*lpedit.ImportSession, error) {
	entries, err := e.Archives.ReadArchive(ctx, archivePath)
	if err != nil {
		return nil, err
	}

	session := lpedit.NewImportSession(archivePath, entries)
	if len(session.HTMLEntries) == 0 {
		return nil, lpedit.Errorf(lpedit.EINVALID, "bundle %q contains no HTML files", archivePath)
	}
	return session, nil
}

// Analyze builds the project for one entry. An empty entryPath selects
// the session's default entry.
func (e *Editor) Analyze(session *lpedit.ImportSession, entryPath string) (*lpedit.ImportProject, error) {
	if entryPath == "" {
		entryPath = DefaultEntry(session)
	}
	return e.Analyzer.Analyze(session, entryPath)
}

// AnalyzeAll analyzes every HTML entry of the session concurrently.
// Projects are returned in HTMLEntries order. The first failure cancels
// the remaining work and is returned.
func (e *Editor) AnalyzeAll(ctx context.Context, session *lpedit.ImportSession, progress ProgressFunc) ([]*lpedit.ImportProject, error) {
	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	entries := session.HTMLEntries
	total := len(entries)
	projects := make([]*lpedit.ImportProject, total)
	var completed atomic.Int64

	notify := func(ev ProgressEvent) {
		if progress != nil {
			progress(ev)
		}
	}
	notify(ProgressEvent{Type: ProgressStarted, Total: total})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			project, err := e.Analyzer.Analyze(session, entry)
			done := int(completed.Add(1))
			if err != nil {
				notify(ProgressEvent{Type: ProgressFailed, Completed: done, Total: total, Entry: entry, Error: err})
				return fmt.Errorf("analyze %s: %w", entry, err)
			}

			projects[i] = project
			notify(ProgressEvent{Type: ProgressCompleted, Completed: done, Total: total, Entry: entry})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	notify(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return projects, nil
}

// Edit applies block edits and asset replacements to a project under its
// pass lock. Everything is validated before the project changes: unknown
// blocks and override paths yield ENOTFOUND, invalid edits and new asset
// paths that AddAsset would reject yield EINVALID.
func (e *Editor) Edit(project *lpedit.ImportProject, edits []lpedit.Edit, overrides, newAssets map[string][]byte) error {
	project.Lock()
	defer project.Unlock()

	for p := range overrides {
		if _, ok := project.LookupFile(p); !ok {
			return lpedit.Errorf(lpedit.ENOTFOUND, "asset %q not found in bundle", p)
		}
	}
	for p := range newAssets {
		if err := project.ValidateNewAsset(p); err != nil {
			return err
		}
	}

	if err := project.ApplyEdits(edits); err != nil {
		return err
	}
	for _, p := range sortedKeys(overrides) {
		if err := project.SetAssetOverride(p, overrides[p]); err != nil {
			return err
		}
	}
	for _, p := range sortedKeys(newAssets) {
		if err := project.AddAsset(p, newAssets[p]); err != nil {
			return err
		}
	}
	return nil
}

// Preview renders the project with edits applied and local assets inlined.
// Block-level and asset-level problems never fail a preview.
func (e *Editor) Preview(project *lpedit.ImportProject) (string, error) {
	project.Lock()
	defer project.Unlock()

	result, err := e.Patcher.Apply(project, lpedit.PatchOptions{Mode: lpedit.ModePreview})
	if err != nil {
		return "", fmt.Errorf("patch: %w", err)
	}

	html, err := e.Inliner.Inline(project, result.HTML)
	if err != nil {
		return "", fmt.Errorf("inline: %w", err)
	}
	return html, nil
}

// Export renders the final entry HTML. Replace failures are recorded on the
// project and asset diagnostics are refreshed against the exported HTML.
func (e *Editor) Export(project *lpedit.ImportProject) (*lpedit.PatchResult, error) {
	project.Lock()
	defer project.Unlock()

	result, err := e.Patcher.Apply(project, lpedit.PatchOptions{Mode: lpedit.ModeExport})
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}

	if e.Scanner != nil {
		scan, err := e.Scanner.ScanAssets(project, result.HTML)
		if err != nil {
			return nil, fmt.Errorf("scan assets: %w", err)
		}
		project.ApplyAssetScan(scan)
	}
	return result, nil
}

// WriteBundle saves every file of the exported bundle to store and commits
// it. The store is aborted if any save fails.
func (e *Editor) WriteBundle(ctx context.Context, project *lpedit.ImportProject, html string, store lpedit.BundleStore) error {
	files := project.ExportFiles(html)

	for _, p := range sortedKeys(files) {
		if err := store.Save(ctx, p, files[p]); err != nil {
			_ = store.Abort()
			return fmt.Errorf("save %s: %w", p, err)
		}
	}

	if err := store.Commit(); err != nil {
		_ = store.Abort()
		return fmt.Errorf("commit bundle: %w", err)
	}
	return nil
}

// DefaultEntry picks the entry to analyze when the caller names none: the
// shallowest index.html or index.htm, else the first HTML entry.
func DefaultEntry(session *lpedit.ImportSession) string {
	best := ""
	for _, p := range session.HTMLEntries {
		name := strings.ToLower(path.Base(p))
		if name != "index.html" && name != "index.htm" {
			continue
		}
		if best == "" || strings.Count(p, "/") < strings.Count(best, "/") {
			best = p
		}
	}
	if best != "" {
		return best
	}
	if len(session.HTMLEntries) > 0 {
		return session.HTMLEntries[0]
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
