package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexjbarnes/notion-docs-sync/internal/syncer"
)

// writeResult prints the result as one line of JSON.
func writeResult(w io.Writer, res syncer.Result) error {
	return json.NewEncoder(w).Encode(res)
}

// writeGitHubOutput appends the result to a GitHub Actions output file.
// Arrays are JSON encoded, which keeps every value on a single line.
func writeGitHubOutput(path string, res syncer.Result) error {
	pages, err := json.Marshal(res.UpdatedPages)
	if err != nil {
		return fmt.Errorf("encoding updated pages: %w", err)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "status=%s\n", res.Status)
	fmt.Fprintf(&b, "updated_pages=%s\n", pages)

	if len(res.Errors) > 0 {
		errs, err := json.Marshal(res.Errors)
		if err != nil {
			return fmt.Errorf("encoding errors: %w", err)
		}

		fmt.Fprintf(&b, "errors=%s\n", errs)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return f.Close()
}
