// Package discover finds the markdown documents under a source directory
// and derives their titles.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	syncerrors "github.com/alexjbarnes/notion-docs-sync/internal/errors"
)

// Document is one markdown file ready to render.
type Document struct {
	// Title is the page title: the frontmatter title if set, otherwise
	// the file name without extension, or the directory name for a
	// README. NFC normalized.
	Title string
	// Path is the absolute file path.
	Path string
	// RelativePath is relative to the source root, with forward slashes.
	RelativePath string
	// Markdown is the file content with any frontmatter removed.
	Markdown []byte
}

// Tree is the result of a walk. Readme is the root README, which syncs to
// the destination page itself; Files sync to child pages.
type Tree struct {
	Files  []Document
	Readme *Document
}

// Walk collects every .md file under root. Entries are visited in name
// order. A subdirectory's files are listed at the subdirectory's
// position, followed by the subdirectory's README. Hidden entries are
// skipped.
func Walk(root string) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", syncerrors.ErrSourceNotFound, root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", syncerrors.ErrSourceNotFound, root)
	}

	w := &walker{root: abs}

	files, readme, err := w.dir(abs)
	if err != nil {
		return nil, err
	}

	return &Tree{Files: files, Readme: readme}, nil
}

type walker struct {
	root string
}

func (w *walker) dir(dir string) ([]Document, *Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var (
		files  []Document
		readme *Document
	)

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		full := filepath.Join(dir, name)

		if entry.IsDir() {
			sub, subReadme, err := w.dir(full)
			if err != nil {
				return nil, nil, err
			}

			files = append(files, sub...)
			if subReadme != nil {
				files = append(files, *subReadme)
			}

			continue
		}

		if !entry.Type().IsRegular() || !isMarkdown(name) {
			continue
		}

		doc, err := w.document(full)
		if err != nil {
			return nil, nil, err
		}

		if isReadme(name) {
			readme = &doc
		} else {
			files = append(files, doc)
		}
	}

	return files, readme, nil
}

func (w *walker) document(path string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return Document{}, fmt.Errorf("resolving %s: %w", path, err)
	}

	fm, body := splitFrontmatter(content)

	title := Title(path)
	if fm != nil && strings.TrimSpace(fm.Title) != "" {
		title = norm.NFC.String(strings.TrimSpace(fm.Title))
	}

	return Document{
		Title:        title,
		Path:         path,
		RelativePath: filepath.ToSlash(rel),
		Markdown:     body,
	}, nil
}

// Title derives a page title from a file path: the base name without its
// .md extension, or the parent directory's name for a README.
func Title(path string) string {
	base := filepath.Base(path)
	if isReadme(base) {
		return norm.NFC.String(filepath.Base(filepath.Dir(path)))
	}

	return norm.NFC.String(base[:len(base)-len(filepath.Ext(base))])
}

func isMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}

func isReadme(name string) bool {
	return strings.EqualFold(name, "readme.md")
}
