package model

// BlockType tags a content-builder fragment.
type BlockType string

const (
	BlockHeadingMajor BlockType = "heading-major"
	BlockHeadingMinor BlockType = "heading-minor"
	BlockParagraph    BlockType = "paragraph"
	BlockQuote        BlockType = "quote"
	BlockDivider      BlockType = "divider"
	BlockImage        BlockType = "image"
	BlockList         BlockType = "list"
)

// Block is one ordered fragment of a blog document. Only the payload fields
// relevant to its Type are set.
type Block struct {
	Type    BlockType `json:"type"`
	Text    string    `json:"text,omitempty"`
	URL     string    `json:"url,omitempty"`
	Caption string    `json:"caption,omitempty"`
	Items   []string  `json:"items,omitempty"`
}

// WantsText reports whether adding a block of this type needs a text payload
// from the user before it can be appended.
func (t BlockType) WantsText() bool {
	switch t {
	case BlockHeadingMajor, BlockHeadingMinor, BlockParagraph, BlockQuote, BlockList:
		return true
	}
	return false
}

// Known reports whether t is one of the supported block types.
func (t BlockType) Known() bool {
	switch t {
	case BlockHeadingMajor, BlockHeadingMinor, BlockParagraph, BlockQuote, BlockDivider, BlockImage, BlockList:
		return true
	}
	return false
}
