package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lpedit"
)

// Ensure Scanner implements lpedit.AssetScanner.
var _ lpedit.AssetScanner = (*Scanner)(nil)

var (
	cssURLPattern    = regexp.MustCompile(`url\(\s*['"]?([^'"\)]+?)['"]?\s*\)`)
	cssImportPattern = regexp.MustCompile(`@import\s+['"]([^'"]+)['"]`)
)

// Scanner finds the asset references of an entry document.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanAssets parses html and checks its references against the project.
func (s *Scanner) ScanAssets(project *lpedit.ImportProject, html string) (*lpedit.AssetScan, error) {
	doc, err := ParseDocument(html)
	if err != nil {
		return nil, err
	}
	return scanDocument(doc, project), nil
}

// scanDocument classifies every reference found in doc. Local references are
// resolved against the entry's directory and checked through
// ImportProject.ResolveAsset, so caller-supplied assets count as present.
func scanDocument(doc *goquery.Document, project *lpedit.ImportProject) *lpedit.AssetScan {
	scan := &lpedit.AssetScan{}
	seen := make(map[string]struct{})
	baseDir := project.BaseDir()

	for _, ref := range collectRefs(doc) {
		switch lpedit.ClassifyRef(ref) {
		case lpedit.RefExternal:
			scan.External++
			continue
		case lpedit.RefIgnored:
			continue
		}

		p, ok := lpedit.ResolveAssetPath(baseDir, ref)
		if !ok {
			continue
		}
		key := strings.ToLower(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, ok := project.ResolveAsset(p); ok {
			scan.Present = append(scan.Present, lpedit.Diagnostic{
				Code:    lpedit.CodeAssetOK,
				Message: "asset found",
				Detail:  p,
			})
			continue
		}
		scan.Missing = append(scan.Missing, lpedit.Diagnostic{
			Code:    lpedit.CodeMissingAsset,
			Message: "referenced asset is missing from the bundle",
			Detail:  p,
		})
	}
	return scan
}

// collectRefs returns raw reference values in a fixed source order:
// link hrefs, script srcs, img srcs, style attributes, then style blocks.
func collectRefs(doc *goquery.Document) []string {
	var refs []string

	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		refs = append(refs, s.AttrOr("href", ""))
	})
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		refs = append(refs, s.AttrOr("src", ""))
	})
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		refs = append(refs, s.AttrOr("src", ""))
	})
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		refs = append(refs, cssRefs(s.AttrOr("style", ""), false)...)
	})
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		refs = append(refs, cssRefs(s.Text(), true)...)
	})

	return refs
}

// cssRefs extracts url(...) values from CSS, and @import targets when
// imports is set.
func cssRefs(css string, imports bool) []string {
	var refs []string
	for _, m := range cssURLPattern.FindAllStringSubmatch(css, -1) {
		refs = append(refs, strings.TrimSpace(m[1]))
	}
	if imports {
		for _, m := range cssImportPattern.FindAllStringSubmatch(css, -1) {
			refs = append(refs, strings.TrimSpace(m[1]))
		}
	}
	return refs
}
