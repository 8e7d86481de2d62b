package lpedit

import "context"

// DefaultMinTextLength is the minimum trimmed length, in characters, for an
// element to become a text block.
const DefaultMinTextLength = 4

// Editor-only attributes. They are written to preview output so the editing
// surface can map elements back to blocks, and stripped from exports.
const (
	EditorAttrPrefix = "data-lpedit-"
	BlockMarkerAttr  = EditorAttrPrefix + "block"
)

// Analyzer builds the editable model for one entry of a bundle.
type Analyzer interface {
	// Analyze decodes and parses the entry HTML, scans its asset references
	// and extracts sections and blocks.
	// Returns ENOTFOUND if entryPath is not part of the session.
	Analyze(session *ImportSession, entryPath string) (*ImportProject, error)
}

// PatchMode selects how a patch pass treats failures and editor attributes.
type PatchMode int

// Patch modes.
const (
	// ModePreview tolerates failures silently and marks patched elements
	// with BlockMarkerAttr.
	ModePreview PatchMode = iota
	// ModeExport records failures in ReplaceFailures and strips every
	// editor-only attribute from the output.
	ModeExport
)

// String returns the mode name.
func (m PatchMode) String() string {
	if m == ModeExport {
		return "export"
	}
	return "preview"
}

// PatchOptions configures a patch pass.
type PatchOptions struct {
	Mode PatchMode
}

// PatchResult is the outcome of one patch pass.
type PatchResult struct {
	HTML      string
	Applied   int
	Unchanged int
	// Failed lists blocks that could not be located in this pass.
	Failed []string
}

// Patcher regenerates HTML from the pristine original with block edits applied.
type Patcher interface {
	// Apply re-parses EntryHTMLOriginal, relocates every editable block by
	// its node path and writes changed values. Blocks that cannot be
	// relocated are skipped for the rest of the pass and listed in Failed; this
	// never fails the pass and never changes the blocks.
	Apply(project *ImportProject, opts PatchOptions) (*PatchResult, error)
}

// Inliner embeds local assets into HTML for fetch-free previews.
type Inliner interface {
	// Inline replaces local image, stylesheet and script references with
	// embedded content resolved through the project. Unresolvable references
	// are left untouched.
	Inline(project *ImportProject, html string) (string, error)
}

// BundleStore persists an exported bundle with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type BundleStore interface {
	Save(ctx context.Context, path string, data []byte) error
	Commit() error
	Abort() error
}
