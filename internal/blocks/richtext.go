package blocks

import (
	"encoding/json"
)

// RichTextType is the discriminator of a rich text span.
type RichTextType string

const (
	RichTextText     RichTextType = "text"
	RichTextEquation RichTextType = "equation"
	RichTextMention  RichTextType = "mention"
)

// DefaultColor is the color the API reports when none was chosen.
const DefaultColor = "default"

// Annotations are the inline styles of a rich text span.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// DefaultAnnotations returns unstyled annotations, matching what the API
// reports for plain text.
func DefaultAnnotations() Annotations {
	return Annotations{Color: DefaultColor}
}

// Link is the target of a hyperlinked text span.
type Link struct {
	URL string `json:"url"`
}

// Text is the payload of a text span.
type Text struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Equation is the payload of an inline equation span.
type Equation struct {
	Expression string `json:"expression"`
}

// RichText is one inline span. Exactly one of Text, Equation or Mention
// is set, according to Type. PlainText and Href are filled in by the API
// and are usually empty on rendered spans.
type RichText struct {
	Type        RichTextType    `json:"type"`
	PlainText   string          `json:"plain_text,omitempty"`
	Href        *string         `json:"href,omitempty"`
	Annotations *Annotations    `json:"annotations,omitempty"`
	Text        *Text           `json:"text,omitempty"`
	Equation    *Equation       `json:"equation,omitempty"`
	Mention     json.RawMessage `json:"mention,omitempty"`
}

// NewText returns a text span with the given annotations.
func NewText(content string, annotations Annotations) RichText {
	return RichText{
		Type:        RichTextText,
		Annotations: &annotations,
		Text:        &Text{Content: content},
	}
}

// Span returns a text span with default annotations.
func Span(content string) RichText {
	return NewText(content, DefaultAnnotations())
}

// Plain returns the span's plain text. When the API has not filled in
// plain_text (rendered spans), it is derived from the payload.
func (rt RichText) Plain() string {
	if rt.PlainText != "" {
		return rt.PlainText
	}

	switch rt.Type {
	case RichTextText:
		if rt.Text != nil {
			return rt.Text.Content
		}
	case RichTextEquation:
		if rt.Equation != nil {
			return rt.Equation.Expression
		}
	}

	return ""
}

// effectiveAnnotations returns the span's annotations with an absent
// record or color read as the API default.
func (rt RichText) effectiveAnnotations() Annotations {
	if rt.Annotations == nil {
		return DefaultAnnotations()
	}

	a := *rt.Annotations
	if a.Color == "" {
		a.Color = DefaultColor
	}

	return a
}

func (rt RichText) clone() RichText {
	out := rt
	out.Href = clonePtr(rt.Href)
	out.Annotations = clonePtr(rt.Annotations)
	out.Equation = clonePtr(rt.Equation)

	if rt.Text != nil {
		text := *rt.Text
		text.Link = clonePtr(rt.Text.Link)
		out.Text = &text
	}

	if rt.Mention != nil {
		out.Mention = append(json.RawMessage(nil), rt.Mention...)
	}

	return out
}

func cloneRichText(in []RichText) []RichText {
	if in == nil {
		return nil
	}

	out := make([]RichText, len(in))
	for i, rt := range in {
		out[i] = rt.clone()
	}

	return out
}

// Concat joins the plain text of a sequence of spans.
func Concat(text []RichText) string {
	var n int
	for _, rt := range text {
		n += len(rt.Plain())
	}

	buf := make([]byte, 0, n)
	for _, rt := range text {
		buf = append(buf, rt.Plain()...)
	}

	return string(buf)
}
