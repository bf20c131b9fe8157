package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexjbarnes/notion-docs-sync/internal/discover"
	"github.com/alexjbarnes/notion-docs-sync/internal/state"
)

// DryRunPrefix marks placeholder page ids handed out in dry-run mode.
const DryRunPrefix = "dry-run:"

// DestinationStore persists title to page id mappings across runs.
// *state.State satisfies it.
type DestinationStore interface {
	AllDestinations(rootID string) (map[string]state.Destination, error)
	SetDestination(rootID string, d state.Destination) error
	DeleteDestination(rootID, title string) error
}

// destinationCache resolves document titles to child pages of one root
// page for the duration of a run. The first document with a given title
// creates the page; later ones reuse it.
type destinationCache struct {
	rootID string
	remote Remote
	store  DestinationStore
	dryRun bool
	logger *slog.Logger

	ids map[string]string
	// verified holds titles whose page is known to exist in this run.
	// Entries seeded from the store are checked once before reuse.
	verified map[string]bool
}

func newDestinationCache(rootID string, remote Remote, store DestinationStore, dryRun bool, logger *slog.Logger) *destinationCache {
	c := &destinationCache{
		rootID:   rootID,
		remote:   remote,
		store:    store,
		dryRun:   dryRun,
		logger:   logger,
		ids:      make(map[string]string),
		verified: make(map[string]bool),
	}

	if store == nil {
		return c
	}

	seeded, err := store.AllDestinations(rootID)
	if err != nil {
		logger.Warn("loading saved destinations", slog.String("error", err.Error()))
		return c
	}

	for title, d := range seeded {
		c.ids[title] = d.PageID
	}

	if len(seeded) > 0 {
		logger.Debug("seeded destinations", slog.Int("count", len(seeded)))
	}

	return c
}

// resolve returns the page id for a document, creating the page under the
// root when no usable one is known.
func (c *destinationCache) resolve(ctx context.Context, doc discover.Document) (string, error) {
	title := doc.Title

	if id, ok := c.ids[title]; ok {
		if c.verified[title] {
			return id, nil
		}

		page, err := c.remote.FetchDocument(ctx, id)
		if err != nil {
			return "", fmt.Errorf("verifying page %s: %w", id, err)
		}

		if page != nil && !page.Gone() {
			c.verified[title] = true
			return id, nil
		}

		c.logger.Info("saved page is gone, recreating",
			slog.String("title", title),
			slog.String("page_id", id),
		)

		delete(c.ids, title)
		c.forget(title)
	}

	if c.dryRun {
		id := DryRunPrefix + title
		c.ids[title] = id
		c.verified[title] = true

		c.logger.Info("would create page", slog.String("title", title))

		return id, nil
	}

	id, err := c.remote.CreateDocument(ctx, c.rootID, title, nil)
	if err != nil {
		return "", fmt.Errorf("creating page %q: %w", title, err)
	}

	c.logger.Info("created page", slog.String("title", title), slog.String("page_id", id))

	c.ids[title] = id
	c.verified[title] = true
	c.remember(title, id, doc.RelativePath)

	return id, nil
}

func (c *destinationCache) remember(title, id, path string) {
	if c.store == nil {
		return
	}

	err := c.store.SetDestination(c.rootID, state.Destination{
		Title:     title,
		PageID:    id,
		Path:      path,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		c.logger.Warn("saving destination", slog.String("title", title), slog.String("error", err.Error()))
	}
}

func (c *destinationCache) forget(title string) {
	if c.store == nil || c.dryRun {
		return
	}

	if err := c.store.DeleteDestination(c.rootID, title); err != nil {
		c.logger.Warn("removing destination", slog.String("title", title), slog.String("error", err.Error()))
	}
}

func isPlaceholder(id string) bool {
	return strings.HasPrefix(id, DryRunPrefix)
}
