package syncer

import (
	"github.com/alexjbarnes/notion-docs-sync/internal/blocks"
)

// OpKind is one reconciliation step.
type OpKind int

const (
	// OpKeep leaves an existing block in place because it matches the
	// rendered block at the current position.
	OpKeep OpKind = iota

	// OpDelete removes an existing block that matches nothing at or after
	// the current rendered position.
	OpDelete

	// OpAppend inserts rendered blocks after an anchor.
	OpAppend
)

func (k OpKind) String() string {
	switch k {
	case OpKeep:
		return "keep"
	case OpDelete:
		return "delete"
	case OpAppend:
		return "append"
	}

	return "unknown"
}

// Op is a single planned step. Ops are listed in the order the remote
// calls must be issued.
type Op struct {
	Kind OpKind

	// Existing is the index into the existing blocks for OpKeep and
	// OpDelete.
	Existing int

	// Rendered holds indexes into the rendered blocks: the matched block
	// for OpKeep, the blocks to insert for OpAppend.
	Rendered []int

	// After is the anchor of an OpAppend: the id of the kept block the
	// new blocks follow, or the document id when nothing has been kept
	// yet.
	After string
}

// EqualFunc reports whether a rendered block matches an existing one.
type EqualFunc func(rendered, existing blocks.Block) bool

// Plan aligns the rendered block sequence against the existing one with a
// greedy forward scan and returns the steps that turn existing into
// rendered. It is a pure decision function: the caller performs the I/O.
//
// For each rendered block the scan looks at the existing block under the
// cursor. A match is kept and any blocks pending append are flushed ahead
// of it. A mismatch whose existing block matches a later rendered block
// defers the rendered block to the pending list. Any other existing block
// is obsolete and deleted, and the scan retries the same rendered block
// against the next existing one. Whatever remains pending is appended at
// the end and unvisited existing blocks are deleted.
//
// This is not a minimum edit script. A reorder costs a delete and an
// append rather than a move.
func Plan(parentID string, existing, rendered []blocks.Block, equal EqualFunc) []Op {
	var (
		ops      []Op
		pending  []int
		cursor   int
		previous = parentID
	)

	flush := func() {
		if len(pending) == 0 {
			return
		}

		ops = append(ops, Op{Kind: OpAppend, Rendered: pending, After: previous})
		pending = nil
	}

	for m := range rendered {
		if cursor >= len(existing) {
			pending = append(pending, m)
			continue
		}

		matched := false

		for cursor < len(existing) {
			e := existing[cursor]

			if equal(rendered[m], e) {
				flush()

				ops = append(ops, Op{Kind: OpKeep, Existing: cursor, Rendered: []int{m}})
				previous = e.ID
				cursor++
				matched = true

				break
			}

			if matchesLater(rendered[m+1:], e, equal) {
				pending = append(pending, m)
				break
			}

			ops = append(ops, Op{Kind: OpDelete, Existing: cursor})
			cursor++
		}

		// Every remaining existing block was obsolete; nothing is left to
		// match against, so the block joins the tail.
		if !matched && cursor >= len(existing) {
			pending = append(pending, m)
		}
	}

	flush()

	for ; cursor < len(existing); cursor++ {
		ops = append(ops, Op{Kind: OpDelete, Existing: cursor})
	}

	return ops
}

func matchesLater(later []blocks.Block, e blocks.Block, equal EqualFunc) bool {
	for _, r := range later {
		if equal(r, e) {
			return true
		}
	}

	return false
}

// Counts tallies a plan by kind.
type Counts struct {
	Kept     int
	Deleted  int
	Appended int
}

// CountOps summarizes a plan.
func CountOps(ops []Op) Counts {
	var c Counts

	for _, op := range ops {
		switch op.Kind {
		case OpKeep:
			c.Kept++
		case OpDelete:
			c.Deleted++
		case OpAppend:
			c.Appended += len(op.Rendered)
		}
	}

	return c
}
