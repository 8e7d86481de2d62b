package goquery

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lpedit"
	"golang.org/x/net/html"
)

// DefaultTextTags lists the elements that may become text blocks.
var DefaultTextTags = []string{"h1", "h2", "h3", "p", "li", "span"}

// maxTitleLength caps section titles, in characters.
const maxTitleLength = 60

// frozenSelector matches content that cannot be represented as text, link
// or image blocks.
const frozenSelector = "iframe, canvas, video, script"

// ExtractorConfig configures an Extractor. Zero values select defaults.
type ExtractorConfig struct {
	// MinTextLength is the minimum trimmed length, in characters, of a text
	// block. Defaults to lpedit.DefaultMinTextLength.
	MinTextLength int
	// TextTags overrides DefaultTextTags.
	TextTags []string
}

// Extractor builds sections and blocks from a parsed document.
type Extractor struct {
	minTextLength int
	textSelector  string
}

// NewExtractor creates an Extractor.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = lpedit.DefaultMinTextLength
	}
	if len(cfg.TextTags) == 0 {
		cfg.TextTags = DefaultTextTags
	}
	return &Extractor{
		minTextLength: cfg.MinTextLength,
		textSelector:  strings.Join(cfg.TextTags, ", "),
	}
}

// Extract returns the sections of doc. The result is never empty and every
// section carries at least one block. baseDir is the entry's directory inside
// the bundle, used to resolve image references.
func (e *Extractor) Extract(doc *goquery.Document, baseDir string) []*lpedit.Section {
	body := bodyNode(doc)
	if body == nil {
		return []*lpedit.Section{notFoundSection()}
	}

	var sections []*lpedit.Section
	for _, sel := range sectionRoots(doc, body) {
		path, ok := BuildPath(sel.Get(0), body)
		if !ok {
			continue
		}
		sections = append(sections, e.extractSection(sel, body, path, len(sections)+1, baseDir))
	}

	if len(sections) == 0 {
		return []*lpedit.Section{notFoundSection()}
	}
	return sections
}

// sectionRoots returns every <section> element in document order, or the
// element children of body when there are none.
func sectionRoots(doc *goquery.Document, body *html.Node) []*goquery.Selection {
	var roots []*goquery.Selection
	doc.Find("section").Each(func(_ int, s *goquery.Selection) {
		roots = append(roots, s)
	})
	if len(roots) > 0 {
		return roots
	}

	doc.FindNodes(body).Children().Each(func(_ int, s *goquery.Selection) {
		roots = append(roots, s)
	})
	return roots
}

func (e *Extractor) extractSection(sel *goquery.Selection, body *html.Node, path lpedit.NodePath, n int, baseDir string) *lpedit.Section {
	node := sel.Get(0)
	section := &lpedit.Section{
		ID:           fmt.Sprintf("sec-%d", n),
		Title:        sectionTitle(sel, n),
		NodePath:     path,
		SelectorHint: SelectorHint(node),
	}

	if findWithSelf(sel, frozenSelector).Length() > 0 {
		section.AddFrozenReason(lpedit.ReasonEmbeddedContent)
	}

	section.Blocks = append(section.Blocks, e.textBlocks(sel, section.ID, body)...)
	section.Blocks = append(section.Blocks, linkBlocks(sel, section.ID, body)...)
	section.Blocks = append(section.Blocks, imageBlocks(sel, section.ID, body, baseDir)...)

	if len(section.Blocks) == 0 {
		reason := lpedit.ReasonNoEditableBlocks
		if section.Frozen() {
			reason = strings.Join(section.FrozenReasons, ",")
		}
		content := lpedit.FrozenContent{Reason: reason}
		section.Blocks = []*lpedit.Block{{
			ID:           section.ID + "-frozen-1",
			TagName:      node.Data,
			NodePath:     path,
			SelectorHint: section.SelectorHint,
			Content:      content,
			Original:     content,
		}}
	}

	return section
}

func (e *Extractor) textBlocks(sel *goquery.Selection, sectionID string, body *html.Node) []*lpedit.Block {
	var blocks []*lpedit.Block
	findWithSelf(sel, e.textSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Closest("a").Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(text) < e.minTextLength {
			return
		}
		content := lpedit.TextContent{Text: text}
		if b := newBlock(s.Get(0), body, fmt.Sprintf("%s-text-%d", sectionID, len(blocks)+1), content); b != nil {
			blocks = append(blocks, b)
		}
	})
	return blocks
}

func linkBlocks(sel *goquery.Selection, sectionID string, body *html.Node) []*lpedit.Block {
	var blocks []*lpedit.Block
	findWithSelf(sel, "a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if strings.TrimSpace(href) == "" {
			return
		}
		content := lpedit.LinkContent{Text: strings.TrimSpace(s.Text()), Href: href}
		if b := newBlock(s.Get(0), body, fmt.Sprintf("%s-link-%d", sectionID, len(blocks)+1), content); b != nil {
			blocks = append(blocks, b)
		}
	})
	return blocks
}

func imageBlocks(sel *goquery.Selection, sectionID string, body *html.Node, baseDir string) []*lpedit.Block {
	var blocks []*lpedit.Block
	findWithSelf(sel, "img[src]").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		if strings.TrimSpace(src) == "" {
			return
		}
		content := lpedit.ImageContent{
			Src:   src,
			Alt:   s.AttrOr("alt", ""),
			Asset: lpedit.NewAssetRef(baseDir, src),
		}
		if b := newBlock(s.Get(0), body, fmt.Sprintf("%s-image-%d", sectionID, len(blocks)+1), content); b != nil {
			blocks = append(blocks, b)
		}
	})
	return blocks
}

// newBlock addresses node relative to body. It returns nil for elements
// outside the body, which cannot be relocated on a later pass.
func newBlock(node, body *html.Node, id string, content lpedit.BlockContent) *lpedit.Block {
	path, ok := BuildPath(node, body)
	if !ok {
		return nil
	}
	return &lpedit.Block{
		ID:           id,
		TagName:      node.Data,
		NodePath:     path,
		SelectorHint: SelectorHint(node),
		Content:      content,
		Original:     content,
	}
}

// sectionTitle returns the first heading text of the section, or a numbered
// fallback.
func sectionTitle(sel *goquery.Selection, n int) string {
	title := strings.Join(strings.Fields(findWithSelf(sel, "h1, h2, h3, h4, h5, h6").First().Text()), " ")
	if title == "" {
		return fmt.Sprintf("Section %d", n)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		title = string([]rune(title)[:maxTitleLength])
	}
	return title
}

// notFoundSection is the placeholder for documents with no usable structure.
func notFoundSection() *lpedit.Section {
	content := lpedit.FrozenContent{Reason: lpedit.ReasonSectionNotFound}
	return &lpedit.Section{
		ID:            "sec-1",
		Title:         "Section 1",
		NodePath:      lpedit.NodePath{},
		SelectorHint:  "body",
		FrozenReasons: []string{lpedit.ReasonSectionNotFound},
		Blocks: []*lpedit.Block{{
			ID:           "sec-1-frozen-1",
			TagName:      "body",
			NodePath:     lpedit.NodePath{},
			SelectorHint: "body",
			Content:      content,
			Original:     content,
		}},
	}
}
