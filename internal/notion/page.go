package notion

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Page is the subset of a page object the sync needs.
type Page struct {
	ID             string
	URL            string
	Title          string
	Archived       bool
	InTrash        bool
	LastEditedTime string
}

// Gone reports whether the page has been archived or moved to the trash.
func (p *Page) Gone() bool {
	return p.Archived || p.InTrash
}

// parsePage reads a page object. The title lives in whichever property
// has type "title"; its name varies between databases and plain pages.
func parsePage(data []byte) *Page {
	res := gjson.ParseBytes(data)

	p := &Page{
		ID:             res.Get("id").Str,
		URL:            res.Get("url").Str,
		Archived:       res.Get("archived").Bool(),
		InTrash:        res.Get("in_trash").Bool(),
		LastEditedTime: res.Get("last_edited_time").Str,
	}

	res.Get("properties").ForEach(func(_, prop gjson.Result) bool {
		if prop.Get("type").Str != "title" {
			return true
		}

		var sb strings.Builder
		for _, part := range prop.Get("title.#.plain_text").Array() {
			sb.WriteString(part.Str)
		}

		p.Title = sb.String()

		return false
	})

	return p
}
