package goquery

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/lpedit"
)

// Ensure Analyzer implements lpedit.Analyzer.
var _ lpedit.Analyzer = (*Analyzer)(nil)

// Analyzer decodes, parses, scans and extracts one entry of a bundle.
type Analyzer struct {
	extractor *Extractor
}

// NewAnalyzer creates an Analyzer with the given extraction settings.
func NewAnalyzer(cfg ExtractorConfig) *Analyzer {
	return &Analyzer{extractor: NewExtractor(cfg)}
}

// Analyze builds the editable model for entryPath.
// Returns ENOTFOUND if the entry is not part of the session.
func (a *Analyzer) Analyze(session *lpedit.ImportSession, entryPath string) (*lpedit.ImportProject, error) {
	entry, ok := session.Lookup(entryPath)
	if !ok {
		return nil, lpedit.Errorf(lpedit.ENOTFOUND, "entry HTML %q not found in bundle", entryPath)
	}

	text, encoding := DecodeHTML(entry.Data)
	project, err := lpedit.NewImportProject(session, entry.Path, text)
	if err != nil {
		return nil, err
	}
	project.SourceCharset = encoding
	project.ContentHash = ContentHash(text)
	if encoding != "utf-8" {
		project.Warnings = append(project.Warnings, lpedit.Diagnostic{
			Code:    lpedit.CodeCharsetConverted,
			Message: fmt.Sprintf("entry HTML converted from %s to utf-8", encoding),
			Detail:  entry.Path,
		})
	}

	doc, err := ParseDocument(text)
	if err != nil {
		return nil, err
	}

	project.ApplyAssetScan(scanDocument(doc, project))
	project.Sections = a.extractor.Extract(doc, project.BaseDir())
	project.RecomputeStats()

	return project, nil
}

// ContentHash returns the hex xxhash64 of a decoded entry document.
func ContentHash(html string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(html))
}
