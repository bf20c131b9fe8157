package blocks

import (
	"encoding/json"
	"fmt"
)

// Icon is the emoji or file shown next to a callout.
type Icon struct {
	Type     string        `json:"type"`
	Emoji    string        `json:"emoji,omitempty"`
	External *ExternalFile `json:"external,omitempty"`
}

// ExternalFile references a file hosted outside Notion.
type ExternalFile struct {
	URL string `json:"url"`
}

// Content is the type-specific payload of a block. Only the fields the
// block type uses are set. Keys this package does not model are kept
// verbatim in Extra so decoding and re-encoding a block loses nothing.
type Content struct {
	RichText        []RichText
	Color           string
	Icon            *Icon
	Children        []Block
	TableWidth      *int
	HasColumnHeader *bool
	HasRowHeader    *bool
	Cells           [][]RichText
	Language        string
	Caption         []RichText
	Checked         *bool
	Expression      string
	URL             string
	External        *ExternalFile

	Extra map[string]json.RawMessage
}

// content keys modelled by Content.
const (
	keyRichText        = "rich_text"
	keyColor           = "color"
	keyIcon            = "icon"
	keyChildren        = "children"
	keyTableWidth      = "table_width"
	keyHasColumnHeader = "has_column_header"
	keyHasRowHeader    = "has_row_header"
	keyCells           = "cells"
	keyLanguage        = "language"
	keyCaption         = "caption"
	keyChecked         = "checked"
	keyExpression      = "expression"
	keyURL             = "url"
	keyExternal        = "external"
)

// MarshalJSON encodes the set fields plus any extra keys. Slices are
// written when non-nil, so an empty rich_text is sent as [] rather than
// omitted.
func (c Content) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+4)
	for k, v := range c.Extra {
		out[k] = v
	}

	if c.RichText != nil {
		out[keyRichText] = c.RichText
	}

	if c.Color != "" {
		out[keyColor] = c.Color
	}

	if c.Icon != nil {
		out[keyIcon] = c.Icon
	}

	if c.Children != nil {
		out[keyChildren] = c.Children
	}

	if c.TableWidth != nil {
		out[keyTableWidth] = *c.TableWidth
	}

	if c.HasColumnHeader != nil {
		out[keyHasColumnHeader] = *c.HasColumnHeader
	}

	if c.HasRowHeader != nil {
		out[keyHasRowHeader] = *c.HasRowHeader
	}

	if c.Cells != nil {
		out[keyCells] = c.Cells
	}

	if c.Language != "" {
		out[keyLanguage] = c.Language
	}

	if c.Caption != nil {
		out[keyCaption] = c.Caption
	}

	if c.Checked != nil {
		out[keyChecked] = *c.Checked
	}

	if c.Expression != "" {
		out[keyExpression] = c.Expression
	}

	if c.URL != "" {
		out[keyURL] = c.URL
	}

	if c.External != nil {
		out[keyExternal] = c.External
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes the modelled keys and stores the rest in Extra.
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Content{}

	fields := []struct {
		key string
		dst any
	}{
		{keyRichText, &c.RichText},
		{keyColor, &c.Color},
		{keyIcon, &c.Icon},
		{keyChildren, &c.Children},
		{keyTableWidth, &c.TableWidth},
		{keyHasColumnHeader, &c.HasColumnHeader},
		{keyHasRowHeader, &c.HasRowHeader},
		{keyCells, &c.Cells},
		{keyLanguage, &c.Language},
		{keyCaption, &c.Caption},
		{keyChecked, &c.Checked},
		{keyExpression, &c.Expression},
		{keyURL, &c.URL},
		{keyExternal, &c.External},
	}

	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}

		delete(raw, f.key)

		if string(v) == "null" {
			continue
		}

		if err := json.Unmarshal(v, f.dst); err != nil {
			return fmt.Errorf("decoding %s: %w", f.key, err)
		}
	}

	if len(raw) > 0 {
		c.Extra = raw
	}

	return nil
}

// clone returns a deep copy of the content.
func (c Content) clone() Content {
	out := c

	out.RichText = cloneRichText(c.RichText)
	out.Caption = cloneRichText(c.Caption)

	if c.Icon != nil {
		icon := *c.Icon
		if c.Icon.External != nil {
			ext := *c.Icon.External
			icon.External = &ext
		}

		out.Icon = &icon
	}

	if c.Children != nil {
		out.Children = make([]Block, len(c.Children))
		for i, child := range c.Children {
			out.Children[i] = child.Clone()
		}
	}

	out.TableWidth = clonePtr(c.TableWidth)
	out.HasColumnHeader = clonePtr(c.HasColumnHeader)
	out.HasRowHeader = clonePtr(c.HasRowHeader)
	out.Checked = clonePtr(c.Checked)
	out.External = clonePtr(c.External)

	if c.Cells != nil {
		out.Cells = make([][]RichText, len(c.Cells))
		for i, cell := range c.Cells {
			out.Cells[i] = cloneRichText(cell)
		}
	}

	if c.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}

	return out
}

// Clone returns a deep copy of the block, children included.
func (b Block) Clone() Block {
	out := b
	out.Parent = clonePtr(b.Parent)
	out.CreatedBy = clonePtr(b.CreatedBy)
	out.LastEditedBy = clonePtr(b.LastEditedBy)
	out.Content = b.Content.clone()

	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
