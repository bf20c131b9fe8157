package render

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/alexjbarnes/notion-docs-sync/internal/blocks"
)

// MaxRichTextLength is the longest content the API accepts in a single
// rich text element.
const MaxRichTextLength = 2000

type inlineStyle struct {
	bold   bool
	italic bool
	strike bool
	code   bool
	link   string
}

type segment struct {
	text  string
	style inlineStyle
}

func (r *renderer) richText(n ast.Node) []blocks.RichText {
	var segs []segment

	r.collectInline(n, inlineStyle{}, &segs)

	return toRichText(segs)
}

func (r *renderer) collectInline(parent ast.Node, st inlineStyle, segs *[]segment) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			s := string(c.Segment.Value(r.source))

			switch {
			case c.HardLineBreak():
				s = strings.TrimRight(s, " \t") + "\n"
			case c.SoftLineBreak():
				s = strings.TrimRight(s, " \t") + " "
			}

			appendSegment(segs, s, st)
		case *ast.String:
			appendSegment(segs, string(c.Value), st)
		case *ast.CodeSpan:
			inner := st
			inner.code = true
			appendSegment(segs, r.literal(c), inner)
		case *ast.Emphasis:
			inner := st
			if c.Level >= 2 {
				inner.bold = true
			} else {
				inner.italic = true
			}

			r.collectInline(c, inner, segs)
		case *east.Strikethrough:
			inner := st
			inner.strike = true
			r.collectInline(c, inner, segs)
		case *ast.Link:
			inner := st
			if dest := string(c.Destination); isWebURL(dest, true) {
				inner.link = dest
			}

			r.collectInline(c, inner, segs)
		case *ast.AutoLink:
			inner := st
			if dest := string(c.URL(r.source)); isWebURL(dest, true) {
				inner.link = dest
			}

			appendSegment(segs, string(c.Label(r.source)), inner)
		case *ast.Image:
			inner := st
			if dest := string(c.Destination); isWebURL(dest, false) {
				inner.link = dest
			}

			r.collectInline(c, inner, segs)
		case *ast.RawHTML:
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				appendSegment(segs, string(seg.Value(r.source)), st)
			}
		case *east.TaskCheckBox:
		default:
			r.collectInline(c, st, segs)
		}
	}
}

// literal returns the raw text of a code span.
func (r *renderer) literal(n ast.Node) string {
	var out []byte

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			out = append(out, c.Segment.Value(r.source)...)
		case *ast.String:
			out = append(out, c.Value...)
		}
	}

	return string(out)
}

// appendSegment adds s, merging it into the previous segment when both
// share a style so adjacent text nodes become one span.
func appendSegment(segs *[]segment, s string, st inlineStyle) {
	if s == "" {
		return
	}

	if n := len(*segs); n > 0 && (*segs)[n-1].style == st {
		(*segs)[n-1].text += s
		return
	}

	*segs = append(*segs, segment{text: s, style: st})
}

// toRichText converts segments to spans, splitting any segment longer
// than MaxRichTextLength characters. The result is never nil.
func toRichText(segs []segment) []blocks.RichText {
	out := []blocks.RichText{}

	for _, seg := range segs {
		if seg.text == "" {
			continue
		}

		ann := blocks.DefaultAnnotations()
		ann.Bold = seg.style.bold
		ann.Italic = seg.style.italic
		ann.Strikethrough = seg.style.strike
		ann.Code = seg.style.code

		for _, chunk := range splitText(seg.text, MaxRichTextLength) {
			rt := blocks.NewText(chunk, ann)
			if seg.style.link != "" {
				rt.Text.Link = &blocks.Link{URL: seg.style.link}
			}

			out = append(out, rt)
		}
	}

	return out
}

// splitText cuts s into pieces of at most limit runes.
func splitText(s string, limit int) []string {
	runes := []rune(s)
	if len(runes) <= limit {
		return []string{s}
	}

	var out []string
	for len(runes) > limit {
		out = append(out, string(runes[:limit]))
		runes = runes[limit:]
	}

	if len(runes) > 0 {
		out = append(out, string(runes))
	}

	return out
}
