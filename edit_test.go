package lpedit_test

import (
	"testing"

	"github.com/fwojciec/lpedit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newEditableProject() *lpedit.ImportProject {
	return &lpedit.ImportProject{
		EntryHTMLPath: "lp/index.html",
		Sections: []*lpedit.Section{{
			ID: "sec-1",
			Blocks: []*lpedit.Block{
				{ID: "sec-1-text-1", Content: lpedit.TextContent{Text: "Hello"}},
				{ID: "sec-1-link-1", Content: lpedit.LinkContent{Text: "Buy", Href: "/buy"}},
				{ID: "sec-1-image-1", Content: lpedit.ImageContent{Src: "img/a.png", Alt: "A"}},
				{ID: "sec-1-frozen-1", Content: lpedit.FrozenContent{Reason: lpedit.ReasonNoEditableBlocks}},
			},
		}},
	}
}

func TestImportProject_ApplyEdits(t *testing.T) {
	t.Parallel()

	t.Run("updates payloads by block type", func(t *testing.T) {
		t.Parallel()

		project := newEditableProject()

		err := project.ApplyEdits([]lpedit.Edit{
			{BlockID: "sec-1-text-1", Text: strPtr("Bonjour")},
			{BlockID: "sec-1-link-1", Href: strPtr("https://example.com/x")},
			{BlockID: "sec-1-image-1", Src: strPtr("img/b.jpg")},
		})
		require.NoError(t, err)

		text, _ := project.FindBlock("sec-1-text-1")
		assert.Equal(t, lpedit.TextContent{Text: "Bonjour"}, text.Content)

		link, _ := project.FindBlock("sec-1-link-1")
		assert.Equal(t, lpedit.LinkContent{Text: "Buy", Href: "https://example.com/x"}, link.Content)

		image, _ := project.FindBlock("sec-1-image-1")
		assert.Equal(t, lpedit.ImageContent{
			Src:   "img/b.jpg",
			Alt:   "A",
			Asset: lpedit.AssetRef{Path: "lp/img/b.jpg", MIMEType: "image/jpeg"},
		}, image.Content)
	})

	t.Run("returns ENOTFOUND for unknown blocks", func(t *testing.T) {
		t.Parallel()

		project := newEditableProject()

		err := project.ApplyEdits([]lpedit.Edit{{BlockID: "sec-9-text-1", Text: strPtr("x")}})

		assert.Equal(t, lpedit.ENOTFOUND, lpedit.ErrorCode(err))
	})

	t.Run("rejects edits to frozen blocks", func(t *testing.T) {
		t.Parallel()

		project := newEditableProject()

		err := project.ApplyEdits([]lpedit.Edit{{BlockID: "sec-1-frozen-1", Text: strPtr("x")}})

		assert.Equal(t, lpedit.EINVALID, lpedit.ErrorCode(err))
	})

	t.Run("rejects fields the block type does not carry", func(t *testing.T) {
		t.Parallel()

		project := newEditableProject()

		err := project.ApplyEdits([]lpedit.Edit{{BlockID: "sec-1-text-1", Href: strPtr("/x")}})

		assert.Equal(t, lpedit.EINVALID, lpedit.ErrorCode(err))
	})

	t.Run("leaves every block untouched when one edit is invalid", func(t *testing.T) {
		t.Parallel()

		project := newEditableProject()

		err := project.ApplyEdits([]lpedit.Edit{
			{BlockID: "sec-1-text-1", Text: strPtr("Changed")},
			{BlockID: "sec-1-image-1", Text: strPtr("nope")},
		})
		require.Error(t, err)

		text, _ := project.FindBlock("sec-1-text-1")
		assert.Equal(t, lpedit.TextContent{Text: "Hello"}, text.Content)
	})
}
