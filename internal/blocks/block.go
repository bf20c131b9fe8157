// Package blocks models Notion content blocks and decides when a freshly
// rendered block and a block fetched from the API carry the same content.
package blocks

import (
	"encoding/json"
	"fmt"
)

// BlockType is the discriminator of a block. The content payload of a
// block is serialized under a key with the same name.
type BlockType string

const (
	TypeParagraph        BlockType = "paragraph"
	TypeHeading1         BlockType = "heading_1"
	TypeHeading2         BlockType = "heading_2"
	TypeHeading3         BlockType = "heading_3"
	TypeBulletedListItem BlockType = "bulleted_list_item"
	TypeNumberedListItem BlockType = "numbered_list_item"
	TypeToDo             BlockType = "to_do"
	TypeToggle           BlockType = "toggle"
	TypeQuote            BlockType = "quote"
	TypeCallout          BlockType = "callout"
	TypeCode             BlockType = "code"
	TypeDivider          BlockType = "divider"
	TypeTable            BlockType = "table"
	TypeTableRow         BlockType = "table_row"
	TypeImage            BlockType = "image"
	TypeBookmark         BlockType = "bookmark"
	TypeEmbed            BlockType = "embed"
	TypeEquation         BlockType = "equation"

	// Child pages and databases appear in a page's block list but are
	// separate documents, not content.
	TypeChildPage     BlockType = "child_page"
	TypeChildDatabase BlockType = "child_database"
)

// metadataFields are the keys the API adds to a persisted block. They
// never describe content.
var metadataFields = []string{
	"id",
	"created_time",
	"created_by",
	"last_edited_time",
	"last_edited_by",
	"parent",
	"archived",
	"object",
}

// UserRef identifies the user that created or edited a block.
type UserRef struct {
	Object string `json:"object,omitempty"`
	ID     string `json:"id"`
}

// Parent points at the page or block that owns a block.
type Parent struct {
	Type    string `json:"type"`
	PageID  string `json:"page_id,omitempty"`
	BlockID string `json:"block_id,omitempty"`
}

// Block is a single content block. Request-shape blocks (rendered from
// markdown) leave the metadata fields empty; response-shape blocks (read
// from the API) have them set.
type Block struct {
	Object         string
	ID             string
	Parent         *Parent
	CreatedTime    string
	CreatedBy      *UserRef
	LastEditedTime string
	LastEditedBy   *UserRef
	Archived       bool
	HasChildren    bool

	Type    BlockType
	Content Content
}

// blockHeader holds the fixed top-level keys of a block.
type blockHeader struct {
	Object         string    `json:"object,omitempty"`
	ID             string    `json:"id,omitempty"`
	Parent         *Parent   `json:"parent,omitempty"`
	CreatedTime    string    `json:"created_time,omitempty"`
	CreatedBy      *UserRef  `json:"created_by,omitempty"`
	LastEditedTime string    `json:"last_edited_time,omitempty"`
	LastEditedBy   *UserRef  `json:"last_edited_by,omitempty"`
	Archived       bool      `json:"archived,omitempty"`
	HasChildren    bool      `json:"has_children,omitempty"`
	Type           BlockType `json:"type"`
}

// MarshalJSON writes the block in the API shape: the header keys plus
// the content object under the key named by the block type.
func (b Block) MarshalJSON() ([]byte, error) {
	if b.Type == "" {
		return nil, fmt.Errorf("block has no type")
	}

	header, err := json.Marshal(blockHeader{
		Object:         b.Object,
		ID:             b.ID,
		Parent:         b.Parent,
		CreatedTime:    b.CreatedTime,
		CreatedBy:      b.CreatedBy,
		LastEditedTime: b.LastEditedTime,
		LastEditedBy:   b.LastEditedBy,
		Archived:       b.Archived,
		HasChildren:    b.HasChildren,
		Type:           b.Type,
	})
	if err != nil {
		return nil, err
	}

	content, err := json.Marshal(b.Content)
	if err != nil {
		return nil, fmt.Errorf("encoding %s content: %w", b.Type, err)
	}

	key, err := json.Marshal(string(b.Type))
	if err != nil {
		return nil, err
	}

	// Splice the content in as the last key of the header object.
	out := make([]byte, 0, len(header)+len(key)+len(content)+2)
	out = append(out, header[:len(header)-1]...)
	out = append(out, ',')
	out = append(out, key...)
	out = append(out, ':')
	out = append(out, content...)
	out = append(out, '}')

	return out, nil
}

// UnmarshalJSON reads a block in the API shape. Unknown top-level keys
// are dropped; unknown content keys are kept in Content.Extra.
func (b *Block) UnmarshalJSON(data []byte) error {
	var header blockHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = Block{
		Object:         header.Object,
		ID:             header.ID,
		Parent:         header.Parent,
		CreatedTime:    header.CreatedTime,
		CreatedBy:      header.CreatedBy,
		LastEditedTime: header.LastEditedTime,
		LastEditedBy:   header.LastEditedBy,
		Archived:       header.Archived,
		HasChildren:    header.HasChildren,
		Type:           header.Type,
	}

	if header.Type == "" {
		return nil
	}

	if content, ok := raw[string(header.Type)]; ok && string(content) != "null" {
		if err := json.Unmarshal(content, &b.Content); err != nil {
			return fmt.Errorf("decoding %s content: %w", header.Type, err)
		}
	}

	return nil
}

// New returns a request-shape block of the given type.
func New(typ BlockType, content Content) Block {
	return Block{Type: typ, Content: content}
}

// Paragraph returns a paragraph block holding the given rich text.
func Paragraph(text ...RichText) Block {
	return New(TypeParagraph, Content{RichText: nonNil(text)})
}

// Heading returns a heading block. Levels outside 1-3 are clamped.
func Heading(level int, text ...RichText) Block {
	typ := TypeHeading1

	switch {
	case level == 2:
		typ = TypeHeading2
	case level >= 3:
		typ = TypeHeading3
	}

	return New(typ, Content{RichText: nonNil(text)})
}

// Divider returns a divider block.
func Divider() Block {
	return New(TypeDivider, Content{})
}

func nonNil(text []RichText) []RichText {
	if text == nil {
		return []RichText{}
	}

	return text
}
