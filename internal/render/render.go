// Package render converts markdown documents into Notion blocks.
package render

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alexjbarnes/notion-docs-sync/internal/blocks"
	syncerrors "github.com/alexjbarnes/notion-docs-sync/internal/errors"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders a markdown document (GitHub flavored) into request-shape
// blocks, in document order. HTML blocks are dropped.
func Markdown(source []byte) ([]blocks.Block, error) {
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", syncerrors.ErrRender)
	}

	doc := md.Parser().Parse(text.NewReader(source))
	r := &renderer{source: source}

	return r.children(doc), nil
}

type renderer struct {
	source []byte
}

func (r *renderer) children(parent ast.Node) []blocks.Block {
	var out []blocks.Block

	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, r.block(n)...)
	}

	return out
}

func (r *renderer) block(n ast.Node) []blocks.Block {
	switch n := n.(type) {
	case *ast.Heading:
		return []blocks.Block{blocks.Heading(n.Level, r.richText(n)...)}
	case *ast.Paragraph:
		return r.paragraph(n)
	case *ast.TextBlock:
		return r.paragraph(n)
	case *ast.List:
		var items []blocks.Block
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			if li, ok := item.(*ast.ListItem); ok {
				items = append(items, r.listItem(li, n.IsOrdered()))
			}
		}

		return items
	case *ast.Blockquote:
		return []blocks.Block{r.quote(n)}
	case *ast.FencedCodeBlock:
		return []blocks.Block{r.code(n, string(n.Language(r.source)))}
	case *ast.CodeBlock:
		return []blocks.Block{r.code(n, "")}
	case *ast.ThematicBreak:
		return []blocks.Block{blocks.Divider()}
	case *east.Table:
		return []blocks.Block{r.table(n)}
	case *ast.HTMLBlock:
		return nil
	default:
		return r.children(n)
	}
}

func (r *renderer) paragraph(n ast.Node) []blocks.Block {
	if img := standaloneImage(n); img != nil {
		return []blocks.Block{r.image(img)}
	}

	rt := r.richText(n)
	if len(rt) == 0 {
		return nil
	}

	return []blocks.Block{blocks.Paragraph(rt...)}
}

// isTextual reports whether n holds inline content that becomes the rich
// text of its container.
func isTextual(n ast.Node) bool {
	switch n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return true
	}

	return false
}

func (r *renderer) listItem(item *ast.ListItem, ordered bool) blocks.Block {
	typ := blocks.TypeBulletedListItem
	if ordered {
		typ = blocks.TypeNumberedListItem
	}

	content := blocks.Content{RichText: []blocks.RichText{}}

	rest := item.FirstChild()
	if first := item.FirstChild(); first != nil && isTextual(first) {
		if cb, ok := first.FirstChild().(*east.TaskCheckBox); ok {
			typ = blocks.TypeToDo
			checked := cb.IsChecked
			content.Checked = &checked
		}

		content.RichText = r.richText(first)
		rest = first.NextSibling()
	}

	for c := rest; c != nil; c = c.NextSibling() {
		content.Children = append(content.Children, r.block(c)...)
	}

	return blocks.New(typ, content)
}

func (r *renderer) quote(n *ast.Blockquote) blocks.Block {
	content := blocks.Content{RichText: []blocks.RichText{}}

	rest := n.FirstChild()
	if first := n.FirstChild(); first != nil && isTextual(first) {
		content.RichText = r.richText(first)
		rest = first.NextSibling()
	}

	for c := rest; c != nil; c = c.NextSibling() {
		content.Children = append(content.Children, r.block(c)...)
	}

	return blocks.New(blocks.TypeQuote, content)
}

func (r *renderer) code(n ast.Node, info string) blocks.Block {
	var sb strings.Builder

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(r.source))
	}

	body := strings.TrimRight(sb.String(), "\n")

	return blocks.New(blocks.TypeCode, blocks.Content{
		RichText: toRichText([]segment{{text: body}}),
		Language: Language(info),
	})
}

func (r *renderer) table(t *east.Table) blocks.Block {
	width := len(t.Alignments)

	var rows []blocks.Block

	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		cells := make([][]blocks.RichText, width)

		i := 0
		for cell := row.FirstChild(); cell != nil && i < width; cell = cell.NextSibling() {
			cells[i] = r.richText(cell)
			i++
		}

		for ; i < width; i++ {
			cells[i] = []blocks.RichText{}
		}

		rows = append(rows, blocks.New(blocks.TypeTableRow, blocks.Content{Cells: cells}))
	}

	hasColumnHeader, hasRowHeader := true, false

	return blocks.New(blocks.TypeTable, blocks.Content{
		TableWidth:      &width,
		HasColumnHeader: &hasColumnHeader,
		HasRowHeader:    &hasRowHeader,
		Children:        rows,
	})
}

// standaloneImage returns the image when it is the only content of a
// paragraph and points at a web URL.
func standaloneImage(n ast.Node) *ast.Image {
	if n.ChildCount() != 1 {
		return nil
	}

	img, ok := n.FirstChild().(*ast.Image)
	if !ok || !isWebURL(string(img.Destination), false) {
		return nil
	}

	return img
}

func (r *renderer) image(img *ast.Image) blocks.Block {
	content := blocks.Content{
		External: &blocks.ExternalFile{URL: string(img.Destination)},
		Extra:    map[string]json.RawMessage{"type": json.RawMessage(`"external"`)},
	}

	if alt := r.richText(img); len(alt) > 0 {
		for i := range alt {
			alt[i].Text.Link = nil
		}

		content.Caption = alt
	}

	return blocks.New(blocks.TypeImage, content)
}

// isWebURL reports whether s is an absolute http(s) URL, or a mailto URL
// when allowMail is set. The API rejects any other link target.
func isWebURL(s string, allowMail bool) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "mailto":
		return allowMail && u.Opaque != ""
	}

	return false
}
