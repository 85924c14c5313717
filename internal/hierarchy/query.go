package hierarchy

import (
	"context"

	"github.com/faustbrian/lineage/internal/closure"
	"github.com/faustbrian/lineage/internal/ref"
)

// Ancestors returns the node's ancestors ordered nearest first, optionally
// including the node itself (at position 0). maxDepth > 0 caps the
// traversal; 0 means unbounded.
func (e *Engine) Ancestors(ctx context.Context, node ref.NodeRef, hierarchyType string, includeSelf bool, maxDepth int) ([]ref.NodeRef, error) {
	f := closure.DepthFilter{Max: maxDepth}
	if !includeSelf {
		f.Min = 1
	}
	rows, err := e.store.Ancestors(ctx, node, hierarchyType, f)
	if err != nil {
		return nil, err
	}

	out := make([]ref.NodeRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Ancestor)
	}
	return out, nil
}

// Descendants returns the node's descendants ordered by depth ascending,
// optionally including the node itself.
func (e *Engine) Descendants(ctx context.Context, node ref.NodeRef, hierarchyType string, includeSelf bool, maxDepth int) ([]ref.NodeRef, error) {
	f := closure.DepthFilter{Max: maxDepth}
	if !includeSelf {
		f.Min = 1
	}
	rows, err := e.store.Descendants(ctx, node, hierarchyType, f)
	if err != nil {
		return nil, err
	}

	out := make([]ref.NodeRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Descendant)
	}
	return out, nil
}

// DirectParent returns the node's single depth-1 ancestor. The boolean is
// false for roots and absent nodes; that is not an error.
func (e *Engine) DirectParent(ctx context.Context, node ref.NodeRef, hierarchyType string) (ref.NodeRef, bool, error) {
	return e.store.DirectParent(ctx, node, hierarchyType)
}

// DirectChildren returns the nodes exactly one generation below node.
func (e *Engine) DirectChildren(ctx context.Context, node ref.NodeRef, hierarchyType string) ([]ref.NodeRef, error) {
	rows, err := e.store.Descendants(ctx, node, hierarchyType, closure.DepthFilter{Min: 1, Max: 1})
	if err != nil {
		return nil, err
	}

	out := make([]ref.NodeRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Descendant)
	}
	return out, nil
}

// IsAncestorOf reports whether a is a strict ancestor of b.
func (e *Engine) IsAncestorOf(ctx context.Context, a, b ref.NodeRef, hierarchyType string) (bool, error) {
	return e.store.Exists(ctx, a, b, hierarchyType)
}

// IsDescendantOf reports whether b is a strict descendant of a.
// The same existence check as IsAncestorOf with arguments swapped.
func (e *Engine) IsDescendantOf(ctx context.Context, b, a ref.NodeRef, hierarchyType string) (bool, error) {
	return e.store.Exists(ctx, a, b, hierarchyType)
}

// Depth returns the node's distance from its root: the maximum depth
// across its ancestor rows. Both roots and absent nodes report 0; callers
// needing the distinction combine this with InHierarchy.
func (e *Engine) Depth(ctx context.Context, node ref.NodeRef, hierarchyType string) (int, error) {
	depth, _, err := e.store.MaxDepth(ctx, node, hierarchyType)
	if err != nil {
		return 0, err
	}
	return depth, nil
}

// InHierarchy reports whether the node participates in the hierarchy type
// (has its self-row).
func (e *Engine) InHierarchy(ctx context.Context, node ref.NodeRef, hierarchyType string) (bool, error) {
	return e.store.HasSelfRow(ctx, node, hierarchyType)
}

// IsRoot reports whether node participates in the hierarchy and has no
// ancestors.
func (e *Engine) IsRoot(ctx context.Context, node ref.NodeRef, hierarchyType string) (bool, error) {
	has, err := e.store.HasSelfRow(ctx, node, hierarchyType)
	if err != nil || !has {
		return false, err
	}
	depth, _, err := e.store.MaxDepth(ctx, node, hierarchyType)
	if err != nil {
		return false, err
	}
	return depth == 0, nil
}

// IsLeaf reports whether node has no direct children.
func (e *Engine) IsLeaf(ctx context.Context, node ref.NodeRef, hierarchyType string) (bool, error) {
	rows, err := e.store.Descendants(ctx, node, hierarchyType, closure.DepthFilter{Min: 1, Max: 1})
	if err != nil {
		return false, err
	}
	return len(rows) == 0, nil
}

// Roots returns the root(s) of the node's ancestor chain: the ancestor
// rows at exactly the node's maximum depth. A node at depth 0 is its own
// root. Well-formed data yields exactly one entry; multiple entries are
// tolerated, not advertised.
func (e *Engine) Roots(ctx context.Context, node ref.NodeRef, hierarchyType string) ([]ref.NodeRef, error) {
	depth, _, err := e.store.MaxDepth(ctx, node, hierarchyType)
	if err != nil {
		return nil, err
	}
	if depth == 0 {
		return []ref.NodeRef{node}, nil
	}

	rows, err := e.store.Ancestors(ctx, node, hierarchyType, closure.DepthFilter{Min: depth, Max: depth})
	if err != nil {
		return nil, err
	}
	out := make([]ref.NodeRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Ancestor)
	}
	return out, nil
}

// RootNodes returns every root in the hierarchy type: nodes with a
// self-row and no strict ancestors.
func (e *Engine) RootNodes(ctx context.Context, hierarchyType string) ([]ref.NodeRef, error) {
	return e.store.RootNodes(ctx, hierarchyType)
}

// Siblings returns the other children of the node's direct parent, or the
// other roots when the node is itself a root. includeSelf keeps the node
// in the result.
func (e *Engine) Siblings(ctx context.Context, node ref.NodeRef, hierarchyType string, includeSelf bool) ([]ref.NodeRef, error) {
	parent, hasParent, err := e.store.DirectParent(ctx, node, hierarchyType)
	if err != nil {
		return nil, err
	}

	var pool []ref.NodeRef
	if hasParent {
		pool, err = e.DirectChildren(ctx, parent, hierarchyType)
	} else {
		pool, err = e.store.RootNodes(ctx, hierarchyType)
	}
	if err != nil {
		return nil, err
	}

	out := make([]ref.NodeRef, 0, len(pool))
	for _, sibling := range pool {
		if !includeSelf && sibling.Equal(node) {
			continue
		}
		out = append(out, sibling)
	}
	return out, nil
}

// Path returns the chain from the node's root down to the node itself.
func (e *Engine) Path(ctx context.Context, node ref.NodeRef, hierarchyType string) ([]ref.NodeRef, error) {
	chain, err := e.Ancestors(ctx, node, hierarchyType, true, 0)
	if err != nil {
		return nil, err
	}

	// Ancestors are nearest-first; the path reads root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
