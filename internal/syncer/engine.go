// Package syncer reconciles rendered markdown documents against the block
// lists of Notion pages.
package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexjbarnes/notion-docs-sync/internal/blocks"
	"github.com/alexjbarnes/notion-docs-sync/internal/discover"
	"github.com/alexjbarnes/notion-docs-sync/internal/notion"
	"github.com/alexjbarnes/notion-docs-sync/internal/render"
)

// maxAppendChunk is the most blocks sent in one append call.
const maxAppendChunk = notion.MaxChildren

//go:generate mockgen -source=engine.go -destination=mock_remote_test.go -package=syncer

// Remote is the subset of the Notion client the engine needs.
// *notion.Client satisfies it.
type Remote interface {
	FetchChildren(ctx context.Context, blockID string) ([]blocks.Block, error)
	AppendChildren(ctx context.Context, parentID, afterID string, children []blocks.Block) ([]blocks.Block, error)
	UpdateBlock(ctx context.Context, blockID string, block blocks.Block) error
	DeleteBlock(ctx context.Context, blockID string) error
	CreateDocument(ctx context.Context, parentID, title string, children []blocks.Block) (string, error)
	UpdateDocumentTitle(ctx context.Context, documentID, title string) error
	FetchDocument(ctx context.Context, documentID string) (*notion.Page, error)
}

// RenderFunc turns markdown into request-shape blocks.
type RenderFunc func(markdown []byte) ([]blocks.Block, error)

// DiscoverFunc lists the documents under a source directory.
type DiscoverFunc func(root string) (*discover.Tree, error)

// Config wires an Engine. Remote is required; the rest default to the
// markdown renderer, the directory walker and the structural comparator.
type Config struct {
	Remote   Remote
	Render   RenderFunc
	Discover DiscoverFunc
	Equal    EqualFunc

	// Store, when set, persists created pages across runs.
	Store DestinationStore

	// DryRun plans every document without issuing mutations.
	DryRun bool

	// HydrateChildren fetches nested children of existing blocks so
	// nested lists and tables can match.
	HydrateChildren bool
}

// Engine runs sync passes. Calls are issued strictly in sequence.
type Engine struct {
	remote   Remote
	render   RenderFunc
	discover DiscoverFunc
	equal    EqualFunc
	store    DestinationStore
	dryRun   bool
	hydrate  bool
	logger   *slog.Logger
}

// New creates an Engine.
func New(cfg Config, logger *slog.Logger) *Engine {
	e := &Engine{
		remote:   cfg.Remote,
		render:   cfg.Render,
		discover: cfg.Discover,
		equal:    cfg.Equal,
		store:    cfg.Store,
		dryRun:   cfg.DryRun,
		hydrate:  cfg.HydrateChildren,
		logger:   logger,
	}

	if e.render == nil {
		e.render = render.Markdown
	}

	if e.discover == nil {
		e.discover = discover.Walk
	}

	if e.equal == nil {
		e.equal = blocks.Compare
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	e.logger = e.logger.With(slog.String("component", "syncer"))

	return e
}

// Run syncs every document under source into destinationID. The root
// README, if any, becomes the content of destinationID itself; every other
// document goes to a child page titled after it.
//
// Discovery or root README failures fail the whole run. Failures of
// individual documents are recorded and the run continues.
func (e *Engine) Run(ctx context.Context, destinationID, source string) Result {
	res := newResult()

	tree, err := e.discover(source)
	if err != nil {
		return e.failed(res, err)
	}

	e.logger.Info("discovered documents",
		slog.String("source", source),
		slog.Int("files", len(tree.Files)),
		slog.Bool("readme", tree.Readme != nil),
	)

	if tree.Readme != nil {
		if err := e.syncFile(ctx, destinationID, *tree.Readme); err != nil {
			return e.failed(res, err)
		}

		res.UpdatedPages = append(res.UpdatedPages, destinationID)
	}

	cache := newDestinationCache(destinationID, e.remote, e.store, e.dryRun, e.logger)

	for _, doc := range tree.Files {
		if err := ctx.Err(); err != nil {
			res.fail(fmt.Sprintf("sync interrupted: %v", err))
			break
		}

		e.logger.Info("processing document", slog.String("path", doc.RelativePath))

		id, err := e.syncChild(ctx, cache, doc)
		if err != nil {
			msg := fmt.Sprintf("failed to process %s: %v", doc.Path, err)
			e.logger.Error("document failed",
				slog.String("path", doc.RelativePath),
				slog.String("error", err.Error()),
				slog.Bool("transient", notion.IsTransient(err)),
			)
			res.fail(msg)

			continue
		}

		res.UpdatedPages = append(res.UpdatedPages, id)
	}

	e.logger.Info("sync finished",
		slog.String("status", string(res.Status)),
		slog.Int("updated", len(res.UpdatedPages)),
		slog.Int("errors", len(res.Errors)),
	)

	return res
}

func (e *Engine) failed(res Result, err error) Result {
	e.logger.Error("sync failed", slog.String("error", err.Error()))

	return Result{
		Status:       StatusFailed,
		UpdatedPages: res.UpdatedPages,
		Errors:       []string{fmt.Sprintf("sync failed: %v", err)},
	}
}

// syncChild renders a document, resolves its page and syncs it. The page
// is only created once the document has rendered.
func (e *Engine) syncChild(ctx context.Context, cache *destinationCache, doc discover.Document) (string, error) {
	rendered, err := e.render(doc.Markdown)
	if err != nil {
		return "", fmt.Errorf("rendering: %w", err)
	}

	id, err := cache.resolve(ctx, doc)
	if err != nil {
		return "", err
	}

	if err := e.SyncDocument(ctx, id, doc.Title, rendered); err != nil {
		return "", err
	}

	return id, nil
}

func (e *Engine) syncFile(ctx context.Context, documentID string, doc discover.Document) error {
	rendered, err := e.render(doc.Markdown)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", doc.Path, err)
	}

	return e.SyncDocument(ctx, documentID, doc.Title, rendered)
}

// SyncDocument reconciles one page against its rendered blocks: it fetches
// the existing blocks, plans, applies the plan and finally sets the page
// title.
func (e *Engine) SyncDocument(ctx context.Context, documentID, title string, rendered []blocks.Block) error {
	logger := e.logger.With(slog.String("page_id", documentID), slog.String("title", title))

	existing, err := e.fetchExisting(ctx, documentID)
	if err != nil {
		return err
	}

	ops := Plan(documentID, existing, rendered, e.equal)
	counts := CountOps(ops)

	logger.Info("planned",
		slog.Int("existing", len(existing)),
		slog.Int("rendered", len(rendered)),
		slog.Int("kept", counts.Kept),
		slog.Int("deleted", counts.Deleted),
		slog.Int("appended", counts.Appended),
	)

	if logger.Enabled(ctx, slog.LevelDebug) {
		logMismatches(ctx, logger, existing, rendered, ops)
	}

	if e.dryRun {
		for _, op := range ops {
			logOp(logger, "would", op, existing)
		}

		return nil
	}

	if err := e.apply(ctx, logger, documentID, existing, rendered, ops); err != nil {
		return err
	}

	if err := e.remote.UpdateDocumentTitle(ctx, documentID, title); err != nil {
		return err
	}

	return nil
}

// fetchExisting returns the content blocks of a page. Child pages and
// databases are separate documents and never take part in planning.
func (e *Engine) fetchExisting(ctx context.Context, documentID string) ([]blocks.Block, error) {
	if isPlaceholder(documentID) {
		return nil, nil
	}

	children, err := e.remote.FetchChildren(ctx, documentID)
	if err != nil {
		return nil, err
	}

	existing := children[:0:0]

	for _, b := range children {
		if b.Type == blocks.TypeChildPage || b.Type == blocks.TypeChildDatabase {
			continue
		}

		existing = append(existing, b)
	}

	if e.hydrate {
		if err := e.hydrateChildren(ctx, existing); err != nil {
			return nil, err
		}
	}

	return existing, nil
}

// hydrateChildren fills in the children of blocks that report having
// them, recursively.
func (e *Engine) hydrateChildren(ctx context.Context, bs []blocks.Block) error {
	for i := range bs {
		b := &bs[i]
		if !b.HasChildren || b.Type == blocks.TypeChildPage || b.Type == blocks.TypeChildDatabase {
			continue
		}

		children, err := e.remote.FetchChildren(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("hydrating %s %s: %w", b.Type, b.ID, err)
		}

		if err := e.hydrateChildren(ctx, children); err != nil {
			return err
		}

		b.Content.Children = children
	}

	return nil
}

// apply issues the remote calls for a plan, in order.
func (e *Engine) apply(ctx context.Context, logger *slog.Logger, documentID string, existing, rendered []blocks.Block, ops []Op) error {
	for _, op := range ops {
		logOp(logger, "", op, existing)

		switch op.Kind {
		case OpKeep:
		case OpDelete:
			if err := e.remote.DeleteBlock(ctx, existing[op.Existing].ID); err != nil {
				return err
			}
		case OpAppend:
			if err := e.appendBlocks(ctx, documentID, op.After, pick(rendered, op.Rendered)); err != nil {
				return err
			}
		}
	}

	return nil
}

// appendBlocks appends children in chunks. An anchor equal to the document
// id appends at the end of the page; any other anchor inserts after that
// block, and each following chunk goes after the last block created by
// the previous one.
func (e *Engine) appendBlocks(ctx context.Context, documentID, anchor string, children []blocks.Block) error {
	after := anchor
	if notion.SameID(after, documentID) {
		after = ""
	}

	for _, chunk := range chunkBlocks(children, maxAppendChunk) {
		created, err := e.remote.AppendChildren(ctx, documentID, after, chunk)
		if err != nil {
			return err
		}

		if after != "" && len(created) > 0 {
			after = created[len(created)-1].ID
		}
	}

	return nil
}

func pick(bs []blocks.Block, idx []int) []blocks.Block {
	out := make([]blocks.Block, len(idx))
	for i, j := range idx {
		out[i] = bs[j]
	}

	return out
}

func chunkBlocks(bs []blocks.Block, size int) [][]blocks.Block {
	var chunks [][]blocks.Block

	for len(bs) > 0 {
		n := min(len(bs), size)
		chunks = append(chunks, bs[:n])
		bs = bs[n:]
	}

	return chunks
}

func logOp(logger *slog.Logger, prefix string, op Op, existing []blocks.Block) {
	action := op.Kind.String()
	if prefix != "" {
		action = prefix + " " + action
	}

	switch op.Kind {
	case OpKeep, OpDelete:
		b := existing[op.Existing]
		logger.Debug(action, slog.String("block_id", b.ID), slog.String("type", string(b.Type)))
	case OpAppend:
		logger.Debug(action, slog.Int("blocks", len(op.Rendered)), slog.String("after", op.After))
	}
}

// logMismatches logs a text diff for each deleted block that has a
// rendered block of the same type at the same position, which is the
// usual shape of an edited paragraph.
func logMismatches(ctx context.Context, logger *slog.Logger, existing, rendered []blocks.Block, ops []Op) {
	for _, op := range ops {
		if op.Kind != OpDelete || op.Existing >= len(rendered) {
			continue
		}

		old, cur := existing[op.Existing], rendered[op.Existing]
		if old.Type != cur.Type {
			continue
		}

		for _, d := range blocks.Diff(cur, old) {
			attrs := []slog.Attr{
				slog.String("block_id", old.ID),
				slog.String("path", d.Path),
				slog.String("message", d.Message),
			}

			if text := d.TextDiff(); text != "" {
				attrs = append(attrs, slog.String("diff", text))
			}

			logger.LogAttrs(ctx, slog.LevelDebug, "block changed", attrs...)
		}
	}
}
