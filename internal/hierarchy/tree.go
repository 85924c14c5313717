package hierarchy

import (
	"context"

	"github.com/faustbrian/lineage/internal/ref"
)

// Tree is a materialized subtree assembled from repeated direct-children
// queries. Sibling order follows the store's deterministic ordering.
type Tree struct {
	Node     ref.NodeRef `json:"node"`
	Children []*Tree     `json:"children,omitempty"`
}

// Walk visits the tree depth-first, parents before children.
func (t *Tree) Walk(fn func(node ref.NodeRef, depth int)) {
	t.walk(fn, 0)
}

func (t *Tree) walk(fn func(ref.NodeRef, int), depth int) {
	fn(t.Node, depth)
	for _, child := range t.Children {
		child.walk(fn, depth+1)
	}
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	n := 1
	for _, child := range t.Children {
		n += child.Size()
	}
	return n
}

// BuildTree assembles the subtree rooted at node.
func (e *Engine) BuildTree(ctx context.Context, node ref.NodeRef, hierarchyType string) (*Tree, error) {
	tree := &Tree{Node: node}

	children, err := e.DirectChildren(ctx, node, hierarchyType)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		sub, err := e.BuildTree(ctx, child, hierarchyType)
		if err != nil {
			return nil, err
		}
		tree.Children = append(tree.Children, sub)
	}

	return tree, nil
}

// BuildForest assembles one tree per root in the hierarchy type.
func (e *Engine) BuildForest(ctx context.Context, hierarchyType string) ([]*Tree, error) {
	roots, err := e.RootNodes(ctx, hierarchyType)
	if err != nil {
		return nil, err
	}

	forest := make([]*Tree, 0, len(roots))
	for _, root := range roots {
		tree, err := e.BuildTree(ctx, root, hierarchyType)
		if err != nil {
			return nil, err
		}
		forest = append(forest, tree)
	}
	return forest, nil
}
