package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/lpedit"
	"github.com/fwojciec/lpedit/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestProject(t *testing.T) *lpedit.ImportProject {
	t.Helper()

	html := "<section><h1>Hello world</h1><img src=\"hero.png\"></section>"
	session := lpedit.NewImportSession("lp.zip", []lpedit.ArchiveEntry{
		{Path: "index.html", Data: []byte(html)},
		{Path: "hero.png", Data: []byte("PNG")},
	})
	project, err := lpedit.NewImportProject(session, "index.html", html)
	require.NoError(t, err)

	text := lpedit.TextContent{Text: "Hello world"}
	img := lpedit.ImageContent{Src: "hero.png", Asset: lpedit.AssetRef{Path: "hero.png", MIMEType: "image/png"}}
	project.ContentHash = "abc123"
	project.SourceCharset = "utf-8"
	project.Sections = []*lpedit.Section{{
		ID:           "sec-1",
		Title:        "Hello world",
		NodePath:     lpedit.NodePath{0},
		SelectorHint: "section",
		Blocks: []*lpedit.Block{
			{ID: "sec-1-text-1", TagName: "h1", NodePath: lpedit.NodePath{0, 0}, SelectorHint: "h1", Content: text, Original: text},
			{ID: "sec-1-image-1", TagName: "img", NodePath: lpedit.NodePath{0, 1}, SelectorHint: "img", Content: img, Original: img},
		},
	}}
	project.Warnings = []lpedit.Diagnostic{{Code: lpedit.CodeAssetOK, Message: "asset found", Detail: "hero.png"}}
	project.RecomputeStats()
	return project
}

func TestProjectService_CreateProject(t *testing.T) {
	t.Parallel()

	t.Run("creates project with generated ID and timestamps", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		project := newTestProject(t)

		err := svc.CreateProject(context.Background(), project)
		require.NoError(t, err)

		assert.NotEmpty(t, project.ID, "ID should be generated")
		assert.False(t, project.CreatedAt.IsZero(), "CreatedAt should be set")
		assert.False(t, project.UpdatedAt.IsZero(), "UpdatedAt should be set")
	})

	t.Run("returns error for invalid project", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))

		err := svc.CreateProject(context.Background(), &lpedit.ImportProject{})
		require.Error(t, err)
		assert.Equal(t, lpedit.EINVALID, lpedit.ErrorCode(err))
	})
}

func TestProjectService_FindProjectByID(t *testing.T) {
	t.Parallel()

	t.Run("restores the full project", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		ctx := context.Background()
		project := newTestProject(t)
		require.NoError(t, svc.CreateProject(ctx, project))

		found, err := svc.FindProjectByID(ctx, project.ID)
		require.NoError(t, err)

		assert.Equal(t, project.ID, found.ID)
		assert.Equal(t, "index.html", found.EntryHTMLPath)
		assert.Equal(t, "lp.zip", found.SourceArchivePath)
		assert.Equal(t, project.EntryHTMLOriginal, found.EntryHTMLOriginal)
		assert.Equal(t, "abc123", found.ContentHash)
		assert.Equal(t, "utf-8", found.SourceCharset)
		assert.Equal(t, project.Sections, found.Sections)
		assert.Equal(t, project.Warnings, found.Warnings)
		assert.Equal(t, project.Stats, found.Stats)
		require.Len(t, found.Files, 2)
		assert.Equal(t, []byte("PNG"), found.Files["hero.png"].Data)
	})

	t.Run("returns ENOTFOUND for non-existent project", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))

		_, err := svc.FindProjectByID(context.Background(), "non-existent-id")
		require.Error(t, err)
		assert.Equal(t, lpedit.ENOTFOUND, lpedit.ErrorCode(err))
	})
}

func TestProjectService_FindProjects(t *testing.T) {
	t.Parallel()

	t.Run("filters by import key", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		ctx := context.Background()

		first := newTestProject(t)
		require.NoError(t, svc.CreateProject(ctx, first))
		second := newTestProject(t)
		second.ContentHash = "def456"
		require.NoError(t, svc.CreateProject(ctx, second))

		archive, entry, hash := "lp.zip", "index.html", "def456"
		projects, err := svc.FindProjects(ctx, lpedit.ProjectFilter{
			SourceArchivePath: &archive,
			EntryHTMLPath:     &entry,
			ContentHash:       &hash,
		})

		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, second.ID, projects[0].ID)
		assert.Empty(t, projects[0].Files, "summaries carry no files")
		assert.Empty(t, projects[0].Sections, "summaries carry no sections")
		assert.Equal(t, second.Stats, projects[0].Stats)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			require.NoError(t, svc.CreateProject(ctx, newTestProject(t)))
		}

		page, err := svc.FindProjects(ctx, lpedit.ProjectFilter{Limit: 2, Offset: 2})

		require.NoError(t, err)
		assert.Len(t, page, 1)
	})
}

func TestProjectService_UpdateProject(t *testing.T) {
	t.Parallel()

	t.Run("persists edits, diagnostics and caller assets", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		ctx := context.Background()
		project := newTestProject(t)
		require.NoError(t, svc.CreateProject(ctx, project))

		hello := "Hello again"
		require.NoError(t, project.ApplyEdits([]lpedit.Edit{{BlockID: "sec-1-text-1", Text: &hello}}))
		require.NoError(t, project.SetAssetOverride("hero.png", []byte("NEW")))
		require.NoError(t, project.AddAsset("img/extra.png", []byte("EXTRA")))
		project.ReplaceFailures = []lpedit.Diagnostic{{Code: lpedit.CodeReplaceFailed, Detail: "p"}}

		require.NoError(t, svc.UpdateProject(ctx, project))

		found, err := svc.FindProjectByID(ctx, project.ID)
		require.NoError(t, err)
		b, _ := found.FindBlock("sec-1-text-1")
		require.NotNil(t, b)
		assert.Equal(t, lpedit.TextContent{Text: "Hello again"}, b.Content)
		assert.Equal(t, lpedit.TextContent{Text: "Hello world"}, b.Original)
		assert.Equal(t, project.ReplaceFailures, found.ReplaceFailures)
		data, ok := found.ResolveAsset("hero.png")
		require.True(t, ok)
		assert.Equal(t, []byte("NEW"), data)
		assert.Equal(t, []byte("PNG"), found.Files["hero.png"].Data)
		assert.Equal(t, map[string][]byte{"img/extra.png": []byte("EXTRA")}, found.NewAssets)
	})

	t.Run("replaces previously stored assets", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		ctx := context.Background()
		project := newTestProject(t)
		require.NoError(t, project.AddAsset("a.png", []byte("A")))
		require.NoError(t, svc.CreateProject(ctx, project))

		project.NewAssets = map[string][]byte{"b.png": []byte("B")}
		require.NoError(t, svc.UpdateProject(ctx, project))

		found, err := svc.FindProjectByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"b.png": []byte("B")}, found.NewAssets)
	})

	t.Run("returns ENOTFOUND for non-existent project", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		project := newTestProject(t)
		project.ID = "non-existent-id"

		err := svc.UpdateProject(context.Background(), project)
		assert.Equal(t, lpedit.ENOTFOUND, lpedit.ErrorCode(err))
	})
}

func TestProjectService_DeleteProject(t *testing.T) {
	t.Parallel()

	t.Run("removes project and its files", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProjectService(db)
		ctx := context.Background()
		project := newTestProject(t)
		require.NoError(t, svc.CreateProject(ctx, project))

		require.NoError(t, svc.DeleteProject(ctx, project.ID))

		_, err := svc.FindProjectByID(ctx, project.ID)
		assert.Equal(t, lpedit.ENOTFOUND, lpedit.ErrorCode(err))
		var files int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM project_files").Scan(&files))
		assert.Zero(t, files)
	})

	t.Run("returns ENOTFOUND for non-existent project", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))

		err := svc.DeleteProject(context.Background(), "non-existent-id")
		assert.Equal(t, lpedit.ENOTFOUND, lpedit.ErrorCode(err))
	})
}
