package blocks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const responseParagraph = `{
	"object": "block",
	"id": "c02fc1d3-db8b-45c5-a222-27595b15aea7",
	"parent": {"type": "page_id", "page_id": "59833787-2cf9-4fdf-8782-e53db20768a5"},
	"created_time": "2024-03-01T12:00:00.000Z",
	"created_by": {"object": "user", "id": "ee5f0f84-409a-440f-983a-a5315961c6e4"},
	"last_edited_time": "2024-03-01T12:05:00.000Z",
	"last_edited_by": {"object": "user", "id": "ee5f0f84-409a-440f-983a-a5315961c6e4"},
	"has_children": false,
	"archived": false,
	"type": "paragraph",
	"paragraph": {
		"rich_text": [{
			"type": "text",
			"text": {"content": "Hello", "link": null},
			"annotations": {"bold": false, "italic": false, "strikethrough": false, "underline": false, "code": false, "color": "default"},
			"plain_text": "Hello",
			"href": null
		}],
		"color": "default"
	}
}`

func decodeBlock(t *testing.T, raw string) Block {
	t.Helper()

	var b Block
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	return b
}

func TestNormalize_StripsTopLevelMetadata(t *testing.T) {
	b := decodeBlock(t, responseParagraph)
	require.NotEmpty(t, b.ID)

	n := Normalize(b)
	assert.Empty(t, n.Object)
	assert.Empty(t, n.ID)
	assert.Nil(t, n.Parent)
	assert.Empty(t, n.CreatedTime)
	assert.Nil(t, n.CreatedBy)
	assert.Empty(t, n.LastEditedTime)
	assert.Nil(t, n.LastEditedBy)
	assert.Equal(t, TypeParagraph, n.Type)
	assert.Equal(t, "Hello", n.Content.RichText[0].Plain())
}

func TestNormalize_StripsContentMetadata(t *testing.T) {
	b := decodeBlock(t, `{"type":"paragraph","paragraph":{"rich_text":[],"id":"x","created_time":"t","is_custom":true}}`)
	require.Contains(t, b.Content.Extra, "id")

	n := Normalize(b)
	assert.NotContains(t, n.Content.Extra, "id")
	assert.NotContains(t, n.Content.Extra, "created_time")
	assert.Contains(t, n.Content.Extra, "is_custom")
}

func TestNormalize_EmptyExtraBecomesNil(t *testing.T) {
	b := decodeBlock(t, `{"type":"divider","divider":{"object":"block"}}`)

	n := Normalize(b)
	assert.Nil(t, n.Content.Extra)
}

func TestNormalize_Recursive(t *testing.T) {
	child := decodeBlock(t, responseParagraph)
	parent := New(TypeToggle, Content{
		RichText: []RichText{Span("Details")},
		Children: []Block{child},
	})
	parent.ID = "parent-id"

	n := Normalize(parent)
	require.Len(t, n.Content.Children, 1)
	assert.Empty(t, n.ID)
	assert.Empty(t, n.Content.Children[0].ID)
	assert.Nil(t, n.Content.Children[0].Parent)
}

func TestNormalize_Idempotent(t *testing.T) {
	b := decodeBlock(t, responseParagraph)
	b.Content.Children = []Block{decodeBlock(t, responseParagraph)}

	once := Normalize(b)
	twice := Normalize(once)
	assert.Equal(t, once, twice)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	b := decodeBlock(t, `{"id":"abc","type":"paragraph","paragraph":{"rich_text":[],"id":"inner"}}`)
	b.Content.Children = []Block{{ID: "child", Type: TypeParagraph}}

	_ = Normalize(b)

	assert.Equal(t, "abc", b.ID)
	assert.Contains(t, b.Content.Extra, "id")
	assert.Equal(t, "child", b.Content.Children[0].ID)
}

func TestNormalize_RequestShapeIsPlainCopy(t *testing.T) {
	b := Paragraph(Span("Hello"))

	n := Normalize(b)
	assert.Equal(t, b, n)

	n.Content.RichText[0].Text.Content = "changed"
	assert.Equal(t, "Hello", b.Content.RichText[0].Text.Content)
}
