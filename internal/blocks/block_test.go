package blocks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestMarshal_RequestShape(t *testing.T) {
	data, err := json.Marshal(Paragraph(Span("Hi")))
	require.NoError(t, err)

	assert.Equal(t, "paragraph", gjson.GetBytes(data, "type").Str)
	assert.Equal(t, "Hi", gjson.GetBytes(data, "paragraph.rich_text.0.text.content").Str)
	assert.Equal(t, "default", gjson.GetBytes(data, "paragraph.rich_text.0.annotations.color").Str)
	assert.False(t, gjson.GetBytes(data, "id").Exists())
	assert.False(t, gjson.GetBytes(data, "object").Exists())
	assert.False(t, gjson.GetBytes(data, "paragraph.rich_text.0.plain_text").Exists())
}

func TestMarshal_EmptyContentObject(t *testing.T) {
	data, err := json.Marshal(Divider())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"divider","divider":{}}`, string(data))
}

func TestMarshal_EmptyRichTextIsArray(t *testing.T) {
	data, err := json.Marshal(Paragraph())
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(data, "paragraph.rich_text").IsArray())
}

func TestMarshal_NoType(t *testing.T) {
	_, err := json.Marshal(Block{})
	assert.Error(t, err)
}

func TestUnmarshal_ResponseShape(t *testing.T) {
	b := decodeBlock(t, responseParagraph)

	assert.Equal(t, "block", b.Object)
	assert.Equal(t, "c02fc1d3-db8b-45c5-a222-27595b15aea7", b.ID)
	require.NotNil(t, b.Parent)
	assert.Equal(t, "59833787-2cf9-4fdf-8782-e53db20768a5", b.Parent.PageID)
	assert.Equal(t, TypeParagraph, b.Type)
	require.Len(t, b.Content.RichText, 1)
	assert.Equal(t, "Hello", b.Content.RichText[0].PlainText)
	assert.Nil(t, b.Content.RichText[0].Href)
	assert.Equal(t, DefaultColor, b.Content.Color)
}

func TestUnmarshal_PreservesUnknownContentKeys(t *testing.T) {
	raw := `{"type":"heading_1","heading_1":{"rich_text":[],"is_toggleable":false,"color":"default"}}`
	b := decodeBlock(t, raw)
	require.Contains(t, b.Content.Extra, "is_toggleable")

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(data))
}

func TestUnmarshal_Table(t *testing.T) {
	raw := `{"type":"table","table":{"table_width":2,"has_column_header":true,"has_row_header":false}}`
	b := decodeBlock(t, raw)

	require.NotNil(t, b.Content.TableWidth)
	assert.Equal(t, 2, *b.Content.TableWidth)
	require.NotNil(t, b.Content.HasColumnHeader)
	assert.True(t, *b.Content.HasColumnHeader)
}

func TestUnmarshal_TableRowCells(t *testing.T) {
	b := decodeBlock(t, `{"type":"table_row","table_row":{"cells":[[{"type":"text","text":{"content":"a"},"plain_text":"a"}],[]]}}`)

	require.Len(t, b.Content.Cells, 2)
	assert.Equal(t, "a", Concat(b.Content.Cells[0]))
	assert.Empty(t, b.Content.Cells[1])
}

func TestUnmarshal_MissingContent(t *testing.T) {
	b := decodeBlock(t, `{"object":"block","id":"x","type":"unsupported"}`)
	assert.Equal(t, BlockType("unsupported"), b.Type)
	assert.Nil(t, b.Content.RichText)
}

func TestUnmarshal_MentionKeptRaw(t *testing.T) {
	b := decodeBlock(t, `{"type":"paragraph","paragraph":{"rich_text":[{"type":"mention","mention":{"type":"user","user":{"id":"u"}},"plain_text":"@Ann"}]}}`)

	rt := b.Content.RichText[0]
	assert.Equal(t, RichTextMention, rt.Type)
	assert.Equal(t, "user", gjson.GetBytes(rt.Mention, "type").Str)
	assert.Equal(t, "@Ann", rt.Plain())
}

func TestHeading_ClampsLevel(t *testing.T) {
	assert.Equal(t, TypeHeading1, Heading(0).Type)
	assert.Equal(t, TypeHeading1, Heading(1).Type)
	assert.Equal(t, TypeHeading2, Heading(2).Type)
	assert.Equal(t, TypeHeading3, Heading(3).Type)
	assert.Equal(t, TypeHeading3, Heading(6).Type)
}

func TestClone_Deep(t *testing.T) {
	b := New(TypeTable, Content{
		TableWidth: intPtr(2),
		Children:   []Block{row("a", "b")},
	})

	c := b.Clone()
	*c.Content.TableWidth = 5
	c.Content.Children[0].Content.Cells[0][0].Text.Content = "z"

	assert.Equal(t, 2, *b.Content.TableWidth)
	assert.Equal(t, "a", b.Content.Children[0].Content.Cells[0][0].Text.Content)
}

func TestConcat(t *testing.T) {
	assert.Equal(t, "ab", Concat([]RichText{Span("a"), Span("b")}))
	assert.Empty(t, Concat(nil))
}
