package mock

import (
	"github.com/fwojciec/lpedit"
)

var (
	_ lpedit.Analyzer     = (*Analyzer)(nil)
	_ lpedit.AssetScanner = (*AssetScanner)(nil)
	_ lpedit.Patcher      = (*Patcher)(nil)
	_ lpedit.Inliner      = (*Inliner)(nil)
)

// Analyzer is a mock implementation of lpedit.Analyzer.
type Analyzer struct {
	AnalyzeFn func(session *lpedit.ImportSession, entryPath string) (*lpedit.ImportProject, error)
}

func (a *Analyzer) Analyze(session *lpedit.ImportSession, entryPath string) (*lpedit.ImportProject, error) {
	return a.AnalyzeFn(session, entryPath)
}

// AssetScanner is a mock implementation of lpedit.AssetScanner.
type AssetScanner struct {
	ScanAssetsFn func(project *lpedit.ImportProject, html string) (*lpedit.AssetScan, error)
}

func (s *AssetScanner) ScanAssets(project *lpedit.ImportProject, html string) (*lpedit.AssetScan, error) {
	return s.ScanAssetsFn(project, html)
}

// Patcher is a mock implementation of lpedit.Patcher.
type Patcher struct {
	ApplyFn func(project *lpedit.ImportProject, opts lpedit.PatchOptions) (*lpedit.PatchResult, error)
}

func (p *Patcher) Apply(project *lpedit.ImportProject, opts lpedit.PatchOptions) (*lpedit.PatchResult, error) {
	return p.ApplyFn(project, opts)
}

// Inliner is a mock implementation of lpedit.Inliner.
type Inliner struct {
	InlineFn func(project *lpedit.ImportProject, html string) (string, error)
}

func (i *Inliner) Inline(project *lpedit.ImportProject, html string) (string, error) {
	return i.InlineFn(project, html)
}
