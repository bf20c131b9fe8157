package blocks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Difference is one mismatch found between two blocks. Path is dotted,
// rooted at the block type, e.g. "paragraph.rich_text[0].text.content".
// Left and Right hold both sides of string mismatches.
type Difference struct {
	Path    string
	Message string
	Left    string
	Right   string
}

func (d Difference) String() string {
	return d.Path + ": " + d.Message
}

// TextDiff renders a character-level diff between Left and Right, with
// deletions as [-x-] and insertions as {+x+}. Empty when both are equal.
func (d Difference) TextDiff() string {
	if d.Left == d.Right {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(d.Left, d.Right, false))

	var sb strings.Builder

	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + diff.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + diff.Text + "+}")
		case diffmatchpatch.DiffEqual:
			sb.WriteString(diff.Text)
		}
	}

	return sb.String()
}

// Compare reports whether a freshly rendered block matches a block read
// from the API. Both must declare the same non-empty type; the remote
// block is normalized before the content comparison.
func Compare(rendered, remote Block) bool {
	if rendered.Type == "" || remote.Type == "" || rendered.Type != remote.Type {
		return false
	}

	return AreIdentical(rendered, Normalize(remote))
}

// AreIdentical reports whether two blocks of any shape have the same
// content. Metadata never affects the outcome.
func AreIdentical(a, b Block) bool {
	return len(Diff(a, b)) == 0
}

// Diff normalizes both blocks and returns every content difference, in
// comparison order.
func Diff(a, b Block) []Difference {
	return findDifferences(Normalize(a), Normalize(b), "")
}

func findDifferences(a, b Block, path string) []Difference {
	if a.Type != b.Type {
		return []Difference{stringDiff(path+"type", string(a.Type), string(b.Type))}
	}

	prefix := path + string(a.Type) + "."
	ca, cb := a.Content, b.Content

	// Table width decides structural compatibility before any cell
	// content is looked at.
	if a.Type == TypeTable && ca.TableWidth != nil && cb.TableWidth != nil && *ca.TableWidth != *cb.TableWidth {
		return []Difference{{
			Path:    prefix + keyTableWidth,
			Message: fmt.Sprintf("%d != %d", *ca.TableWidth, *cb.TableWidth),
		}}
	}

	var diffs []Difference

	if ca.RichText != nil && cb.RichText != nil {
		diffs = append(diffs, richTextDifferences(prefix+keyRichText, ca.RichText, cb.RichText)...)
	}

	if colorOrDefault(ca.Color) != colorOrDefault(cb.Color) {
		diffs = append(diffs, stringDiff(prefix+keyColor, colorOrDefault(ca.Color), colorOrDefault(cb.Color)))
	}

	if (ca.Icon != nil || cb.Icon != nil) && !cmp.Equal(ca.Icon, cb.Icon) {
		diffs = append(diffs, Difference{
			Path:    prefix + keyIcon,
			Message: fmt.Sprintf("%s != %s", jsonString(ca.Icon), jsonString(cb.Icon)),
		})
	}

	diffs = append(diffs, contentDifferences(prefix, ca, cb)...)

	if ca.Children != nil || cb.Children != nil {
		if len(ca.Children) != len(cb.Children) {
			diffs = append(diffs, Difference{
				Path:    prefix + keyChildren,
				Message: fmt.Sprintf("length mismatch (%d != %d)", len(ca.Children), len(cb.Children)),
			})
		} else {
			for i := range ca.Children {
				childPath := fmt.Sprintf("%s%s[%d].", prefix, keyChildren, i)
				diffs = append(diffs, findDifferences(ca.Children[i], cb.Children[i], childPath)...)
			}
		}
	}

	return diffs
}

// contentDifferences compares the type-specific scalar fields: table row
// cells, code language, to-do state, block equations and URLs.
func contentDifferences(prefix string, ca, cb Content) []Difference {
	var diffs []Difference

	if ca.Cells != nil || cb.Cells != nil {
		if len(ca.Cells) != len(cb.Cells) {
			diffs = append(diffs, Difference{
				Path:    prefix + keyCells,
				Message: fmt.Sprintf("length mismatch (%d != %d)", len(ca.Cells), len(cb.Cells)),
			})
		} else {
			for i := range ca.Cells {
				cellPath := fmt.Sprintf("%s%s[%d]", prefix, keyCells, i)
				diffs = append(diffs, richTextDifferences(cellPath, ca.Cells[i], cb.Cells[i])...)
			}
		}
	}

	if ca.Language != cb.Language {
		diffs = append(diffs, stringDiff(prefix+keyLanguage, ca.Language, cb.Language))
	}

	if (ca.Checked != nil || cb.Checked != nil) && boolValue(ca.Checked) != boolValue(cb.Checked) {
		diffs = append(diffs, Difference{
			Path:    prefix + keyChecked,
			Message: fmt.Sprintf("%t != %t", boolValue(ca.Checked), boolValue(cb.Checked)),
		})
	}

	if ca.Expression != cb.Expression {
		diffs = append(diffs, stringDiff(prefix+keyExpression, ca.Expression, cb.Expression))
	}

	if ca.URL != cb.URL {
		diffs = append(diffs, stringDiff(prefix+keyURL, ca.URL, cb.URL))
	}

	if externalURL(ca.External) != externalURL(cb.External) {
		diffs = append(diffs, stringDiff(prefix+keyExternal+".url", externalURL(ca.External), externalURL(cb.External)))
	}

	return diffs
}

func richTextDifferences(path string, a, b []RichText) []Difference {
	if len(a) != len(b) {
		return []Difference{{
			Path:    path,
			Message: fmt.Sprintf("length mismatch (%d != %d)", len(a), len(b)),
		}}
	}

	var diffs []Difference

	for i := range a {
		x, y := a[i], b[i]
		p := fmt.Sprintf("%s[%d]", path, i)

		if x.Type != y.Type {
			diffs = append(diffs, stringDiff(p+".type", string(x.Type), string(y.Type)))
			continue
		}

		if x.Plain() != y.Plain() {
			diffs = append(diffs, stringDiff(p+".plain_text", x.Plain(), y.Plain()))
		}

		diffs = append(diffs, annotationDifferences(p+".annotations", x.effectiveAnnotations(), y.effectiveAnnotations())...)

		// Mention payloads vary by mention subtype; plain_text already
		// covers what is displayed.
		switch x.Type {
		case RichTextText:
			if textContent(x) != textContent(y) {
				diffs = append(diffs, stringDiff(p+".text.content", textContent(x), textContent(y)))
			}
		case RichTextEquation:
			if equationExpression(x) != equationExpression(y) {
				diffs = append(diffs, stringDiff(p+".equation.expression", equationExpression(x), equationExpression(y)))
			}
		case RichTextMention:
		}
	}

	return diffs
}

func annotationDifferences(path string, a, b Annotations) []Difference {
	flags := []struct {
		key  string
		x, y bool
	}{
		{"bold", a.Bold, b.Bold},
		{"italic", a.Italic, b.Italic},
		{"strikethrough", a.Strikethrough, b.Strikethrough},
		{"underline", a.Underline, b.Underline},
		{"code", a.Code, b.Code},
	}

	var diffs []Difference

	for _, f := range flags {
		if f.x != f.y {
			diffs = append(diffs, Difference{
				Path:    path + "." + f.key,
				Message: fmt.Sprintf("%t != %t", f.x, f.y),
			})
		}
	}

	if a.Color != b.Color {
		diffs = append(diffs, stringDiff(path+".color", a.Color, b.Color))
	}

	return diffs
}

func stringDiff(path, left, right string) Difference {
	return Difference{
		Path:    path,
		Message: fmt.Sprintf("%q != %q", left, right),
		Left:    left,
		Right:   right,
	}
}

func colorOrDefault(color string) string {
	if color == "" {
		return DefaultColor
	}

	return color
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func externalURL(f *ExternalFile) string {
	if f == nil {
		return ""
	}

	return f.URL
}

func textContent(rt RichText) string {
	if rt.Text == nil {
		return ""
	}

	return rt.Text.Content
}

func equationExpression(rt RichText) string {
	if rt.Equation == nil {
		return ""
	}

	return rt.Equation.Expression
}

func jsonString(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}

	return string(data)
}
