package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lpedit"
	"golang.org/x/net/html"
)

// Ensure Patcher implements lpedit.Patcher.
var _ lpedit.Patcher = (*Patcher)(nil)

// Patcher regenerates entry HTML with block edits applied.
type Patcher struct{}

// NewPatcher creates a new Patcher.
func NewPatcher() *Patcher {
	return &Patcher{}
}

// Apply parses a fresh tree from the project's original HTML and writes every
// editable block into it. Only fields that differ from the values captured at
// extraction are written, so a project with no edits renders as the parser's
// serialization of the original.
//
// A block whose path no longer resolves to an element with the recorded tag
// is skipped for the rest of the pass and listed in the result's Failed. The
// block itself keeps its content, so a later pass retries it. In export mode
// each such block is reported once in ReplaceFailures.
func (p *Patcher) Apply(project *lpedit.ImportProject, opts lpedit.PatchOptions) (*lpedit.PatchResult, error) {
	doc, err := ParseDocument(project.EntryHTMLOriginal)
	if err != nil {
		return nil, err
	}
	body := bodyNode(doc)

	result := &lpedit.PatchResult{}
	project.ReplaceFailures = nil
	reported := make(map[string]struct{})
	report := func(b *lpedit.Block) {
		if opts.Mode != lpedit.ModeExport {
			return
		}
		if _, ok := reported[b.ID]; ok {
			return
		}
		reported[b.ID] = struct{}{}
		project.ReplaceFailures = append(project.ReplaceFailures, lpedit.Diagnostic{
			Code:    lpedit.CodeReplaceFailed,
			Message: fmt.Sprintf("block %s could not be located; its edit was not applied", b.ID),
			Detail:  b.SelectorHint,
		})
	}

	for _, section := range project.Sections {
		for _, b := range section.Blocks {
			if b.Frozen() {
				continue
			}

			node, ok := ResolvePath(body, b.NodePath)
			if !ok || node.Type != html.ElementNode || node.Data != b.TagName {
				result.Failed = append(result.Failed, b.ID)
				report(b)
				continue
			}

			sel := doc.FindNodes(node)
			if applyBlock(sel, b) {
				result.Applied++
			} else {
				result.Unchanged++
			}
			if opts.Mode == lpedit.ModePreview {
				sel.SetAttr(lpedit.BlockMarkerAttr, b.ID)
			}
		}
	}

	if opts.Mode == lpedit.ModeExport {
		stripEditorAttrs(doc)
	}
	normalizeCharsetMeta(doc)

	out, err := Render(doc)
	if err != nil {
		return nil, lpedit.Errorf(lpedit.EINTERNAL, "failed to render HTML: %v", err)
	}
	result.HTML = out

	project.RecomputeStats()
	return result, nil
}

// applyBlock writes the changed fields of b into sel and reports whether
// anything was written. Blank link text and blank alt keep the original.
func applyBlock(sel *goquery.Selection, b *lpedit.Block) bool {
	changed := false

	switch c := b.Content.(type) {
	case lpedit.TextContent:
		orig, ok := b.Original.(lpedit.TextContent)
		if !ok || c.Text != orig.Text {
			sel.SetText(c.Text)
			changed = true
		}
	case lpedit.LinkContent:
		orig, ok := b.Original.(lpedit.LinkContent)
		if !ok || c.Href != orig.Href {
			sel.SetAttr("href", c.Href)
			changed = true
		}
		if strings.TrimSpace(c.Text) != "" && (!ok || c.Text != orig.Text) {
			sel.SetText(c.Text)
			changed = true
		}
	case lpedit.ImageContent:
		orig, ok := b.Original.(lpedit.ImageContent)
		if !ok || c.Src != orig.Src {
			sel.SetAttr("src", c.Src)
			changed = true
		}
		if strings.TrimSpace(c.Alt) != "" && (!ok || c.Alt != orig.Alt) {
			sel.SetAttr("alt", c.Alt)
			changed = true
		}
	}

	return changed
}

// stripEditorAttrs removes every editor-only attribute from the document.
func stripEditorAttrs(doc *goquery.Document) {
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			if !strings.HasPrefix(a.Key, lpedit.EditorAttrPrefix) {
				attrs = append(attrs, a)
			}
		}
		n.Attr = attrs
	})
}
