package lpedit

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Diagnostic codes.
const (
	CodeMissingAsset     = "missing-asset"
	CodeAssetOK          = "asset-ok"
	CodeReplaceFailed    = "replace-failed"
	CodeCharsetConverted = "charset-converted"
)

// Diagnostic is a non-fatal finding surfaced to the caller.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// ImportProject is the working unit for one entry HTML file of a bundle.
//
// EntryHTMLOriginal is the single source of truth every pass re-parses from;
// it is never edited in place. Sections and Stats are derived from it.
// AssetOverrides and NewAssets are mutated by the editing caller between
// analysis and export and must go through SetAssetOverride and AddAsset.
type ImportProject struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	SourceArchivePath string                   `json:"sourceArchivePath"`
	EntryHTMLPath     string                   `json:"entryHtmlPath"`
	EntryHTMLOriginal string                   `json:"-"`
	ContentHash       string                   `json:"contentHash"`
	SourceCharset     string                   `json:"sourceCharset"`
	Files             map[string]*ImportedFile `json:"-"`
	Sections          []*Section               `json:"sections"`
	MissingAssets     []Diagnostic             `json:"missingAssets"`
	Warnings          []Diagnostic             `json:"warnings"`
	ReplaceFailures   []Diagnostic             `json:"replaceFailures"`
	AssetOverrides    map[string][]byte        `json:"-"`
	NewAssets         map[string][]byte        `json:"-"`
	Stats             Stats                    `json:"stats"`
	CreatedAt         time.Time                `json:"createdAt"`
	UpdatedAt         time.Time                `json:"updatedAt"`

	passMu   sync.Mutex
	assetMu  sync.RWMutex
	foldOnce sync.Once
	folded   map[string]string
}

// NewImportProject creates a project for entryPath from a session.
// html is the decoded entry document. The session's file map is copied so the
// project never shares mutable state with other projects.
// Returns ENOTFOUND if the entry is not part of the session.
func NewImportProject(session *ImportSession, entryPath, html string) (*ImportProject, error) {
	entry, ok := session.Lookup(entryPath)
	if !ok {
		return nil, Errorf(ENOTFOUND, "entry HTML %q not found in bundle", entryPath)
	}

	files := make(map[string]*ImportedFile, len(session.Files))
	for k, f := range session.Files {
		files[k] = f
	}

	return &ImportProject{
		Name:              entry.Path,
		SourceArchivePath: session.SourceArchivePath,
		EntryHTMLPath:     entry.Path,
		EntryHTMLOriginal: html,
		Files:             files,
		AssetOverrides:    make(map[string][]byte),
		NewAssets:         make(map[string][]byte),
	}, nil
}

// Validate returns an error if the project contains invalid fields.
func (p *ImportProject) Validate() error {
	if p.EntryHTMLPath == "" {
		return Errorf(EINVALID, "project entry HTML path required")
	}
	return nil
}

// BaseDir returns the directory of the entry HTML inside the bundle.
func (p *ImportProject) BaseDir() string {
	return BaseDir(p.EntryHTMLPath)
}

// Lock acquires the project's pass lock. Analysis and patch passes, and
// caller edits to the block list, must not overlap on one project.
func (p *ImportProject) Lock() { p.passMu.Lock() }

// Unlock releases the pass lock.
func (p *ImportProject) Unlock() { p.passMu.Unlock() }

// LookupFile returns an original archive file, matching case-insensitively
// when there is no exact match.
func (p *ImportProject) LookupFile(path string) (*ImportedFile, bool) {
	p.foldOnce.Do(func() { p.folded = foldIndex(p.Files) })
	return lookupFile(p.Files, p.folded, NormalizePath(path))
}

// SetAssetOverride replaces the bytes of an existing archive asset.
// Returns ENOTFOUND if path does not name an original file.
func (p *ImportProject) SetAssetOverride(path string, data []byte) error {
	f, ok := p.LookupFile(path)
	if !ok {
		return Errorf(ENOTFOUND, "asset %q not found in bundle", path)
	}

	p.assetMu.Lock()
	defer p.assetMu.Unlock()
	if p.AssetOverrides == nil {
		p.AssetOverrides = make(map[string][]byte)
	}
	p.AssetOverrides[f.Path] = data
	return nil
}

// AddAsset adds a caller-supplied asset that has no original counterpart.
// Returns EINVALID if path is empty or already names an original file.
func (p *ImportProject) AddAsset(path string, data []byte) error {
	if err := p.ValidateNewAsset(path); err != nil {
		return err
	}
	path = NormalizePath(path)

	p.assetMu.Lock()
	defer p.assetMu.Unlock()
	if p.NewAssets == nil {
		p.NewAssets = make(map[string][]byte)
	}
	p.NewAssets[path] = data
	return nil
}

// ValidateNewAsset reports whether AddAsset would accept path.
// Returns EINVALID if path is empty, names a directory, or already names an
// original file.
func (p *ImportProject) ValidateNewAsset(path string) error {
	path = NormalizePath(path)
	if path == "" || strings.HasSuffix(path, "/") {
		return Errorf(EINVALID, "asset path required")
	}
	if _, ok := p.LookupFile(path); ok {
		return Errorf(EINVALID, "asset %q already exists in bundle; override it instead", path)
	}
	return nil
}

// ResolveAsset returns the bytes for an archive path, preferring caller
// overrides, then caller-added assets, then the original archive.
func (p *ImportProject) ResolveAsset(path string) ([]byte, bool) {
	path = NormalizePath(path)

	p.assetMu.RLock()
	if data, ok := lookupBytes(p.AssetOverrides, path); ok {
		p.assetMu.RUnlock()
		return data, true
	}
	if data, ok := lookupBytes(p.NewAssets, path); ok {
		p.assetMu.RUnlock()
		return data, true
	}
	p.assetMu.RUnlock()

	if f, ok := p.LookupFile(path); ok {
		return f.Data, true
	}
	return nil, false
}

// ExportFiles assembles the output bundle: original files with overrides
// applied, caller-added assets, and the entry HTML replaced by html.
func (p *ImportProject) ExportFiles(html string) map[string][]byte {
	out := make(map[string][]byte, len(p.Files)+len(p.NewAssets))
	for k, f := range p.Files {
		out[k] = f.Data
	}

	p.assetMu.RLock()
	for k, data := range p.AssetOverrides {
		if f, ok := p.LookupFile(k); ok {
			out[f.Path] = data
		}
	}
	for k, data := range p.NewAssets {
		out[k] = data
	}
	p.assetMu.RUnlock()

	out[p.EntryHTMLPath] = []byte(html)
	return out
}

// ApplyAssetScan replaces the asset diagnostics with the result of a scan.
// Warnings that do not come from asset scanning are kept.
func (p *ImportProject) ApplyAssetScan(scan *AssetScan) {
	var warnings []Diagnostic
	for _, w := range p.Warnings {
		if w.Code != CodeAssetOK {
			warnings = append(warnings, w)
		}
	}
	p.Warnings = append(warnings, scan.Present...)
	p.MissingAssets = append([]Diagnostic(nil), scan.Missing...)
}

// FindBlock returns the block with the given ID and the section holding it.
func (p *ImportProject) FindBlock(id string) (*Block, *Section) {
	for _, s := range p.Sections {
		for _, b := range s.Blocks {
			if b.ID == id {
				return b, s
			}
		}
	}
	return nil, nil
}

func lookupBytes(m map[string][]byte, p string) ([]byte, bool) {
	if data, ok := m[p]; ok {
		return data, true
	}
	// Deterministic case-insensitive fallback.
	keys := make([]string, 0, len(m))
	for k := range m {
		if strings.EqualFold(k, p) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, false
	}
	sort.Strings(keys)
	return m[keys[0]], true
}

// ProjectService represents a service for persisting projects.
type ProjectService interface {
	// CreateProject stores a new project, assigning its ID and timestamps.
	CreateProject(ctx context.Context, project *ImportProject) error

	// FindProjectByID retrieves a project with its files and assets.
	// Returns ENOTFOUND if project does not exist.
	FindProjectByID(ctx context.Context, id string) (*ImportProject, error)

	// FindProjects retrieves project summaries matching the filter.
	// Files and assets are not loaded.
	FindProjects(ctx context.Context, filter ProjectFilter) ([]*ImportProject, error)

	// UpdateProject persists the derived model, diagnostics and caller assets.
	// Returns ENOTFOUND if project does not exist.
	UpdateProject(ctx context.Context, project *ImportProject) error

	// DeleteProject permanently removes a project and its files.
	// Returns ENOTFOUND if project does not exist.
	DeleteProject(ctx context.Context, id string) error
}

// ProjectFilter represents a filter for FindProjects.
type ProjectFilter struct {
	ID                *string `json:"id"`
	SourceArchivePath *string `json:"sourceArchivePath"`
	EntryHTMLPath     *string `json:"entryHtmlPath"`
	ContentHash       *string `json:"contentHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
