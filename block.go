package lpedit

import (
	"encoding/json"
	"fmt"
)

// BlockType identifies the kind of editable unit a block represents.
type BlockType string

// Block types.
const (
	BlockText   BlockType = "text"
	BlockLink   BlockType = "link"
	BlockImage  BlockType = "image"
	BlockFrozen BlockType = "frozen"
)

// Frozen reasons.
const (
	ReasonEmbeddedContent  = "iframe/canvas/video/script"
	ReasonSectionNotFound  = "section-not-found"
	ReasonNoEditableBlocks = "no-editable-content"
	ReasonReplaceFailed    = "replace-failed"
)

// BlockContent is the type-specific payload of a block. The set of
// implementations is closed: TextContent, LinkContent, ImageContent and
// FrozenContent.
type BlockContent interface {
	BlockType() BlockType
	isBlockContent()
}

// TextContent is the payload of a text block.
type TextContent struct {
	Text string `json:"text"`
}

// LinkContent is the payload of a link block.
type LinkContent struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// ImageContent is the payload of an image block.
type ImageContent struct {
	Src   string   `json:"src"`
	Alt   string   `json:"alt"`
	Asset AssetRef `json:"asset"`
}

// FrozenContent marks a block that cannot be edited.
type FrozenContent struct {
	Reason string `json:"reason"`
}

func (TextContent) BlockType() BlockType   { return BlockText }
func (LinkContent) BlockType() BlockType   { return BlockLink }
func (ImageContent) BlockType() BlockType  { return BlockImage }
func (FrozenContent) BlockType() BlockType { return BlockFrozen }

func (TextContent) isBlockContent()   {}
func (LinkContent) isBlockContent()   {}
func (ImageContent) isBlockContent()  {}
func (FrozenContent) isBlockContent() {}

// Block is an atomic editable unit inside a section.
//
// NodePath is the only mechanism used to relocate the element on a later
// pass; SelectorHint is for humans. Original holds the payload captured at
// extraction time so unchanged fields can be left alone when patching.
type Block struct {
	ID           string
	TagName      string
	NodePath     NodePath
	SelectorHint string
	Content      BlockContent
	Original     BlockContent
}

// Type returns the block type derived from its content.
func (b *Block) Type() BlockType {
	if b.Content == nil {
		return BlockFrozen
	}
	return b.Content.BlockType()
}

// Frozen reports whether the block is excluded from editing.
func (b *Block) Frozen() bool {
	return b.Type() == BlockFrozen
}

// Freeze demotes the block to Frozen. There is no way back.
func (b *Block) Freeze(reason string) {
	b.Content = FrozenContent{Reason: reason}
}

// FrozenReason returns the reason a frozen block was frozen, or "".
func (b *Block) FrozenReason() string {
	if c, ok := b.Content.(FrozenContent); ok {
		return c.Reason
	}
	return ""
}

type blockJSON struct {
	ID           string          `json:"id"`
	Type         BlockType       `json:"type"`
	TagName      string          `json:"tagName"`
	NodePath     NodePath        `json:"nodePath"`
	SelectorHint string          `json:"selectorHint"`
	Content      json.RawMessage `json:"content"`
	OriginalType BlockType       `json:"originalType,omitempty"`
	Original     json.RawMessage `json:"original,omitempty"`
}

// MarshalJSON encodes the block with a "type" discriminator for its content.
func (b *Block) MarshalJSON() ([]byte, error) {
	out := blockJSON{
		ID:           b.ID,
		Type:         b.Type(),
		TagName:      b.TagName,
		NodePath:     b.NodePath,
		SelectorHint: b.SelectorHint,
	}
	if out.NodePath == nil {
		out.NodePath = NodePath{}
	}

	content := b.Content
	if content == nil {
		content = FrozenContent{}
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	out.Content = raw

	if b.Original != nil {
		raw, err := json.Marshal(b.Original)
		if err != nil {
			return nil, err
		}
		out.OriginalType = b.Original.BlockType()
		out.Original = raw
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a block written by MarshalJSON.
func (b *Block) UnmarshalJSON(data []byte) error {
	var in blockJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	content, err := decodeContent(in.Type, in.Content)
	if err != nil {
		return err
	}

	var original BlockContent
	if in.OriginalType != "" {
		if original, err = decodeContent(in.OriginalType, in.Original); err != nil {
			return err
		}
	}

	*b = Block{
		ID:           in.ID,
		TagName:      in.TagName,
		NodePath:     in.NodePath,
		SelectorHint: in.SelectorHint,
		Content:      content,
		Original:     original,
	}
	return nil
}

func decodeContent(t BlockType, raw json.RawMessage) (BlockContent, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	switch t {
	case BlockText:
		var c TextContent
		err := json.Unmarshal(raw, &c)
		return c, err
	case BlockLink:
		var c LinkContent
		err := json.Unmarshal(raw, &c)
		return c, err
	case BlockImage:
		var c ImageContent
		err := json.Unmarshal(raw, &c)
		return c, err
	case BlockFrozen:
		var c FrozenContent
		err := json.Unmarshal(raw, &c)
		return c, err
	default:
		return nil, fmt.Errorf("unknown block type %q", t)
	}
}
