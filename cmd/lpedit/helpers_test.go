package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/lpedit"
	main "github.com/fwojciec/lpedit/cmd/lpedit"
	"github.com/fwojciec/lpedit/editor"
	"github.com/fwojciec/lpedit/goquery"
	"github.com/fwojciec/lpedit/mock"
	"github.com/stretchr/testify/require"
)

const landing = `<!DOCTYPE html>
<html>
<head><title>Offer</title><link rel="stylesheet" href="css/site.css"></head>
<body>
<section id="hero">
  <h1>Spring sale</h1>
  <a class="cta" href="/buy">Buy now</a>
  <img src="img/hero.png" alt="Hero shot">
</section>
<section id="video">
  <iframe src="https://video.example.com/embed/1"></iframe>
</section>
</body>
</html>`

// bundle returns the archive entries of a small landing page.
func bundle() []lpedit.ArchiveEntry {
	return []lpedit.ArchiveEntry{
		{Path: "site/index.html", Data: []byte(landing)},
		{Path: "site/about.html", Data: []byte("<html><body><p>About us page</p></body></html>")},
		{Path: "site/css/site.css", Data: []byte("body{}")},
		{Path: "site/img/hero.png", Data: []byte("PNG")},
	}
}

// newEditor wires the real analysis pipeline behind a mock archive reader.
func newEditor(entries []lpedit.ArchiveEntry) *editor.Editor {
	return &editor.Editor{
		Archives: &mock.ArchiveReader{
			ReadArchiveFn: func(_ context.Context, _ string) ([]lpedit.ArchiveEntry, error) {
				return entries, nil
			},
		},
		Analyzer: goquery.NewAnalyzer(goquery.ExtractorConfig{}),
		Scanner:  goquery.NewScanner(),
		Patcher:  goquery.NewPatcher(),
		Inliner:  goquery.NewInliner(),
	}
}

// analyzed returns the project for index.html of bundle() with an ID set.
func analyzed(t *testing.T) *lpedit.ImportProject {
	t.Helper()

	session := lpedit.NewImportSession("bundle.zip", bundle())
	project, err := goquery.NewAnalyzer(goquery.ExtractorConfig{}).Analyze(session, "index.html")
	require.NoError(t, err)
	project.ID = "proj-1"
	return project
}

// firstBlock returns the first block of the given type.
func firstBlock(t *testing.T, project *lpedit.ImportProject, typ lpedit.BlockType) *lpedit.Block {
	t.Helper()

	for _, s := range project.Sections {
		for _, b := range s.Blocks {
			if b.Type() == typ {
				return b
			}
		}
	}
	t.Fatalf("no %s block", typ)
	return nil
}

// newDeps returns dependencies writing to fresh buffers.
func newDeps(projects lpedit.ProjectService, ed *editor.Editor) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   stdout,
		Stderr:   stderr,
		Projects: projects,
		Editor:   ed,
	}, stdout, stderr
}
