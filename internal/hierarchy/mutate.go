package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/faustbrian/lineage/internal/closure"
	"github.com/faustbrian/lineage/internal/notify"
	"github.com/faustbrian/lineage/internal/ref"
)

// Add inserts node into the hierarchy. The self-row insert is idempotent:
// adding an existing node is a no-op for that step. If parent is non-nil
// the node is attached under it within the same transaction, and a
// NodeAttached event is emitted; a bare add emits nothing.
func (e *Engine) Add(ctx context.Context, node ref.NodeRef, hierarchyType string, parent *ref.NodeRef) error {
	var pending []notify.Event

	err := e.store.WithTx(ctx, func(tx *closure.Tx) error {
		if _, err := tx.InsertSelfRow(ctx, node, hierarchyType); err != nil {
			return err
		}

		if parent != nil {
			ev, err := e.attachInTx(ctx, tx, node, *parent, hierarchyType)
			if err != nil {
				return err
			}
			pending = append(pending, ev)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("node added",
		"node", node.String(),
		"hierarchy_type", hierarchyType,
		"has_parent", parent != nil,
	)
	e.publish(ctx, pending...)
	return nil
}

// Attach places node directly under parent, extending the transitive
// closure with one row per generation above parent. Any subtree the node
// already carries comes along: its descendants gain the same new ancestor
// links at their offset depths. The node must currently be a root (or
// absent); re-parenting an attached node is Move's job. Emits NodeAttached.
func (e *Engine) Attach(ctx context.Context, node, parent ref.NodeRef, hierarchyType string) error {
	var pending notify.Event

	err := e.store.WithTx(ctx, func(tx *closure.Tx) error {
		ev, err := e.attachInTx(ctx, tx, node, parent, hierarchyType)
		if err != nil {
			return err
		}
		pending = ev
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("node attached",
		"node", node.String(),
		"parent", parent.String(),
		"hierarchy_type", hierarchyType,
	)
	e.publish(ctx, pending)
	return nil
}

// attachInTx runs the attach algorithm inside an open transaction.
//
// Validation order matters: the cycle check and depth check run before any
// write, so a rejection leaves the row set untouched even mid-transaction.
func (e *Engine) attachInTx(ctx context.Context, tx *closure.Tx, node, parent ref.NodeRef, hierarchyType string) (notify.Event, error) {
	// Cycle check: node must not already be a strict ancestor of parent.
	// Checked via an existence query on the closure rows, never by
	// walking pointers. Self-attach is the degenerate cycle.
	if node.Equal(parent) {
		return notify.Event{}, newCircularReferenceError(node, parent, hierarchyType)
	}
	wouldCycle, err := tx.Exists(ctx, node, parent, hierarchyType)
	if err != nil {
		return notify.Event{}, err
	}
	if wouldCycle {
		return notify.Event{}, newCircularReferenceError(node, parent, hierarchyType)
	}

	// The node may already carry a subtree (bottom-up construction). Its
	// descendants need the same new ancestor links the node gets, and the
	// depth check must cover the deepest of them, not just the node.
	subtree, err := tx.Descendants(ctx, node, hierarchyType, closure.ExcludeSelf)
	if err != nil {
		return notify.Event{}, err
	}
	height := 0
	for _, row := range subtree {
		if row.Depth > height {
			height = row.Depth
		}
	}

	// Depth check against the configured ceiling.
	if e.maxDepth > 0 {
		parentDepth, present, err := tx.MaxDepth(ctx, parent, hierarchyType)
		if err != nil {
			return notify.Event{}, err
		}
		if present && parentDepth+1+height > e.maxDepth {
			return notify.Event{}, newDepthExceededError(node, parent, hierarchyType, e.maxDepth, parentDepth)
		}
	}

	// Single-parent guard: an attach target must be a root. A node with
	// any strict ancestor already has a parent somewhere above it.
	nodeDepth, present, err := tx.MaxDepth(ctx, node, hierarchyType)
	if err != nil {
		return notify.Event{}, err
	}
	if present && nodeDepth > 0 {
		return notify.Event{}, newConstraintViolationError(node, hierarchyType,
			"node already has a parent; use move to re-parent", nil)
	}

	// Ensure self-rows on both endpoints. Attaching nodes never
	// explicitly added is supported, and a parent without a self-row
	// would otherwise contribute no ancestor links at all.
	if _, err := tx.InsertSelfRow(ctx, node, hierarchyType); err != nil {
		return notify.Event{}, err
	}
	if _, err := tx.InsertSelfRow(ctx, parent, hierarchyType); err != nil {
		return notify.Event{}, err
	}

	// One new row per generation above parent, parent itself included at
	// depth 0: (ancestor, node, d+1) correctly extends the closure.
	ancestors, err := tx.Ancestors(ctx, parent, hierarchyType, closure.All)
	if err != nil {
		return notify.Event{}, err
	}
	for _, row := range ancestors {
		err := tx.Insert(ctx, closure.Row{
			Ancestor:      row.Ancestor,
			Descendant:    node,
			Depth:         row.Depth + 1,
			HierarchyType: hierarchyType,
		})
		if err != nil {
			if errors.Is(err, closure.ErrDuplicateRow) {
				return notify.Event{}, newConstraintViolationError(node, hierarchyType,
					"duplicate closure row during attach", err)
			}
			return notify.Event{}, err
		}

		// A descendant k levels below the node sits d+1+k below this
		// ancestor. Without these rows a subtree-bearing attach would
		// leave the closure incomplete.
		for _, sub := range subtree {
			err := tx.Insert(ctx, closure.Row{
				Ancestor:      row.Ancestor,
				Descendant:    sub.Descendant,
				Depth:         row.Depth + 1 + sub.Depth,
				HierarchyType: hierarchyType,
			})
			if err != nil {
				if errors.Is(err, closure.ErrDuplicateRow) {
					return notify.Event{}, newConstraintViolationError(sub.Descendant, hierarchyType,
						"duplicate closure row during attach", err)
				}
				return notify.Event{}, err
			}
		}
	}

	ev := notify.NewEvent(notify.NodeAttached, hierarchyType, node)
	ev.Parent = &parent
	return ev, nil
}

// Detach severs node from all of its ancestors, turning it into a root.
// The node's own subtree is unaffected: only rows reaching above the node
// are deleted. Emits NodeDetached only if a parent existed.
func (e *Engine) Detach(ctx context.Context, node ref.NodeRef, hierarchyType string) error {
	var (
		prevParent ref.NodeRef
		hadParent  bool
	)

	err := e.store.WithTx(ctx, func(tx *closure.Tx) error {
		var err error
		// Resolve the former parent before deletion destroys the row.
		prevParent, hadParent, err = tx.DirectParent(ctx, node, hierarchyType)
		if err != nil {
			return err
		}

		_, err = tx.DeleteWhere(ctx, closure.Filter{
			HierarchyType: hierarchyType,
			Descendant:    &node,
			Depth:         closure.ExcludeSelf,
		})
		return err
	})
	if err != nil {
		return err
	}

	if !hadParent {
		return nil
	}

	slog.Info("node detached",
		"node", node.String(),
		"previous_parent", prevParent.String(),
		"hierarchy_type", hierarchyType,
	)
	ev := notify.NewEvent(notify.NodeDetached, hierarchyType, node)
	ev.PreviousParent = &prevParent
	e.publish(ctx, ev)
	return nil
}

// Remove excises node from the hierarchy entirely. Cross-links that used
// to route through the node are severed: its former descendants keep their
// internal relationships but lose every path above the point where the
// node sat. They do not re-parent to the node's former parent. Emits
// NodeRemoved when the node was present.
func (e *Engine) Remove(ctx context.Context, node ref.NodeRef, hierarchyType string) error {
	var removed int64

	err := e.store.WithTx(ctx, func(tx *closure.Tx) error {
		descendants, err := tx.Descendants(ctx, node, hierarchyType, closure.ExcludeSelf)
		if err != nil {
			return err
		}
		ancestors, err := tx.Ancestors(ctx, node, hierarchyType, closure.ExcludeSelf)
		if err != nil {
			return err
		}

		// Sever every (ancestor, descendant) cross-link routed through
		// the node.
		for _, anc := range ancestors {
			for _, desc := range descendants {
				ancestor := anc.Ancestor
				descendant := desc.Descendant
				n, err := tx.DeleteWhere(ctx, closure.Filter{
					HierarchyType: hierarchyType,
					Ancestor:      &ancestor,
					Descendant:    &descendant,
				})
				if err != nil {
					return err
				}
				removed += n
			}
		}

		// Every row where the node appears, self-row included.
		n, err := tx.DeleteWhere(ctx, closure.Filter{
			HierarchyType: hierarchyType,
			Descendant:    &node,
		})
		if err != nil {
			return err
		}
		removed += n

		n, err = tx.DeleteWhere(ctx, closure.Filter{
			HierarchyType: hierarchyType,
			Ancestor:      &node,
		})
		if err != nil {
			return err
		}
		removed += n
		return nil
	})
	if err != nil {
		return err
	}

	if removed == 0 {
		return nil
	}

	slog.Info("node removed",
		"node", node.String(),
		"hierarchy_type", hierarchyType,
		"rows_removed", removed,
	)
	e.publish(ctx, notify.NewEvent(notify.NodeRemoved, hierarchyType, node))
	return nil
}

// Move relocates node (and its entire subtree) under newParent, or to root
// when newParent is nil. The subtree's internal shape is reproduced exactly
// under the new position.
//
// The direct parent of every descendant is captured before any deletion:
// the act of detaching destroys the very links being queried, so the
// snapshot must come first. Descendants are then re-attached in depth
// order, which guarantees each one's own parent is already in place.
// Emits NodeMoved; moving an absent node to root changes nothing and emits
// nothing.
func (e *Engine) Move(ctx context.Context, node ref.NodeRef, newParent *ref.NodeRef, hierarchyType string) error {
	var (
		prevParent ref.NodeRef
		hadParent  bool
		moved      bool
	)

	err := e.store.WithTx(ctx, func(tx *closure.Tx) error {
		// An absent node moved to root is a no-op; only a destination
		// parent makes the move a real mutation in that case.
		inHierarchy, err := tx.HasSelfRow(ctx, node, hierarchyType)
		if err != nil {
			return err
		}
		moved = inHierarchy || newParent != nil
		if !moved {
			return nil
		}

		// Cycle guard: the destination must not sit inside the subtree
		// being moved.
		if newParent != nil {
			if node.Equal(*newParent) {
				return newCircularReferenceError(node, *newParent, hierarchyType)
			}
			inSubtree, err := tx.Exists(ctx, node, *newParent, hierarchyType)
			if err != nil {
				return err
			}
			if inSubtree {
				return newCircularReferenceError(node, *newParent, hierarchyType)
			}
		}

		// Snapshot the subtree's parentage, level order from the node
		// down. Rows arrive depth ascending, so iteration order doubles
		// as the re-attachment order.
		subtree, err := tx.Descendants(ctx, node, hierarchyType, closure.ExcludeSelf)
		if err != nil {
			return err
		}
		type link struct {
			child  ref.NodeRef
			parent ref.NodeRef
		}
		links := make([]link, 0, len(subtree))
		for _, row := range subtree {
			parent, ok, err := tx.DirectParent(ctx, row.Descendant, hierarchyType)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("move %s: descendant %s has no direct parent", node, row.Descendant)
			}
			links = append(links, link{child: row.Descendant, parent: parent})
		}

		prevParent, hadParent, err = tx.DirectParent(ctx, node, hierarchyType)
		if err != nil {
			return err
		}

		// Sever the node and every descendant from everything above
		// them. Detaching the node alone would leave stale rows from
		// its former ancestors down to the subtree.
		if _, err := tx.DeleteWhere(ctx, closure.Filter{
			HierarchyType: hierarchyType,
			Descendant:    &node,
			Depth:         closure.ExcludeSelf,
		}); err != nil {
			return err
		}
		for _, l := range links {
			child := l.child
			if _, err := tx.DeleteWhere(ctx, closure.Filter{
				HierarchyType: hierarchyType,
				Descendant:    &child,
				Depth:         closure.ExcludeSelf,
			}); err != nil {
				return err
			}
		}

		// Rebuild: node first, then each descendant under its captured
		// parent. attachInTx re-runs cycle and depth validation, so a
		// move that would overflow the ceiling rolls back here.
		if newParent != nil {
			if _, err := e.attachInTx(ctx, tx, node, *newParent, hierarchyType); err != nil {
				return err
			}
		}
		for _, l := range links {
			if _, err := e.attachInTx(ctx, tx, l.child, l.parent, hierarchyType); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}

	slog.Info("node moved",
		"node", node.String(),
		"hierarchy_type", hierarchyType,
		"had_parent", hadParent,
		"to_root", newParent == nil,
	)
	ev := notify.NewEvent(notify.NodeMoved, hierarchyType, node)
	if hadParent {
		ev.PreviousParent = &prevParent
	}
	ev.NewParent = newParent
	e.publish(ctx, ev)
	return nil
}
