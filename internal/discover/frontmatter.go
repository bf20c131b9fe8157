package discover

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the YAML frontmatter fields the sync understands.
type Frontmatter struct {
	Title string `yaml:"title"`
}

// splitFrontmatter separates YAML frontmatter from markdown content and
// returns the parsed fields and the remaining body. Content without a
// well-formed frontmatter block is returned unchanged with nil fields.
func splitFrontmatter(content []byte) (*Frontmatter, []byte) {
	if !bytes.HasPrefix(content, []byte("---")) {
		return nil, content
	}

	// Skip the rest of the opening line (could be "---\n" or "---\r\n").
	rest := content[3:]

	idx := bytes.IndexByte(rest, '\n')
	if idx < 0 || len(bytes.TrimSpace(rest[:idx])) > 0 {
		return nil, content
	}

	rest = rest[idx+1:]

	// The closing delimiter must be on its own line.
	var block, body []byte

	if bytes.HasPrefix(rest, []byte("---")) {
		block, body = nil, rest[3:]
	} else {
		end := bytes.Index(rest, []byte("\n---"))
		if end < 0 {
			return nil, content
		}

		block, body = rest[:end], rest[end+4:]
	}

	if nl := bytes.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = nil
	}

	var fm Frontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return nil, content
	}

	return &fm, body
}
