package goquery_test

import (
	"testing"

	"github.com/fwojciec/lpedit"
	"github.com/fwojciec/lpedit/goquery"
	"github.com/stretchr/testify/require"
)

// analyze builds a project for index.html from an in-memory bundle.
func analyze(t *testing.T, page string, assets map[string]string) *lpedit.ImportProject {
	t.Helper()

	entries := []lpedit.ArchiveEntry{{Path: "index.html", Data: []byte(page)}}
	for p, data := range assets {
		entries = append(entries, lpedit.ArchiveEntry{Path: p, Data: []byte(data)})
	}
	session := lpedit.NewImportSession("bundle.zip", entries)

	project, err := goquery.NewAnalyzer(goquery.ExtractorConfig{}).Analyze(session, "index.html")
	require.NoError(t, err)
	return project
}

// page wraps body markup in a minimal document.
func page(body string) string {
	return "<!DOCTYPE html><html><head><title>LP</title></head><body>" + body + "</body></html>"
}

// blocksOf returns every block of the project in order.
func blocksOf(project *lpedit.ImportProject) []*lpedit.Block {
	var blocks []*lpedit.Block
	for _, s := range project.Sections {
		blocks = append(blocks, s.Blocks...)
	}
	return blocks
}
