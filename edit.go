package lpedit

// Edit is a caller change to one block. Nil fields are left unchanged.
type Edit struct {
	BlockID string  `json:"blockId"`
	Text    *string `json:"text,omitempty"`
	Href    *string `json:"href,omitempty"`
	Src     *string `json:"src,omitempty"`
	Alt     *string `json:"alt,omitempty"`
}

// EditSet is a batch of block edits plus asset replacements. Asset maps go
// from an archive path to a local file holding the replacement bytes.
type EditSet struct {
	Edits          []Edit            `json:"edits"`
	AssetOverrides map[string]string `json:"assetOverrides"`
	NewAssets      map[string]string `json:"newAssets"`
}

// ApplyEdits updates block payloads in place. The whole batch is validated
// before any block changes: an unknown block ID yields ENOTFOUND, and an edit
// targeting a frozen block or a field the block type does not carry yields
// EINVALID.
func (p *ImportProject) ApplyEdits(edits []Edit) error {
	blocks := make([]*Block, len(edits))
	for i, e := range edits {
		b, _ := p.FindBlock(e.BlockID)
		if b == nil {
			return Errorf(ENOTFOUND, "block %q not found", e.BlockID)
		}
		if err := validateEdit(b, e); err != nil {
			return err
		}
		blocks[i] = b
	}

	for i, e := range edits {
		applyEdit(blocks[i], e, p.BaseDir())
	}
	return nil
}

func validateEdit(b *Block, e Edit) error {
	if e.Text == nil && e.Href == nil && e.Src == nil && e.Alt == nil {
		return Errorf(EINVALID, "edit for block %q changes nothing", b.ID)
	}

	switch b.Type() {
	case BlockFrozen:
		return Errorf(EINVALID, "block %q is frozen (%s)", b.ID, b.FrozenReason())
	case BlockText:
		if e.Href != nil || e.Src != nil || e.Alt != nil {
			return Errorf(EINVALID, "text block %q accepts only text", b.ID)
		}
	case BlockLink:
		if e.Src != nil || e.Alt != nil {
			return Errorf(EINVALID, "link block %q accepts only text and href", b.ID)
		}
	case BlockImage:
		if e.Text != nil || e.Href != nil {
			return Errorf(EINVALID, "image block %q accepts only src and alt", b.ID)
		}
	}
	return nil
}

func applyEdit(b *Block, e Edit, baseDir string) {
	switch c := b.Content.(type) {
	case TextContent:
		c.Text = *e.Text
		b.Content = c
	case LinkContent:
		if e.Text != nil {
			c.Text = *e.Text
		}
		if e.Href != nil {
			c.Href = *e.Href
		}
		b.Content = c
	case ImageContent:
		if e.Src != nil {
			c.Src = *e.Src
			c.Asset = NewAssetRef(baseDir, c.Src)
		}
		if e.Alt != nil {
			c.Alt = *e.Alt
		}
		b.Content = c
	}
}
