package hierarchy

import (
	"context"

	"github.com/faustbrian/lineage/internal/ref"
)

// Member binds one node in one hierarchy type to the engine and delegates
// the full operation set. Domain code holds a Member instead of threading
// (node, hierarchyType) through every call.
type Member struct {
	engine        *Engine
	node          ref.NodeRef
	hierarchyType string
}

// MemberOf builds the adapter for a node.
func (e *Engine) MemberOf(node ref.NodeRef, hierarchyType string) *Member {
	return &Member{engine: e, node: node, hierarchyType: hierarchyType}
}

// Ref returns the wrapped node reference.
func (m *Member) Ref() ref.NodeRef { return m.node }

// HierarchyType returns the partition the member operates in.
func (m *Member) HierarchyType() string { return m.hierarchyType }

func (m *Member) Add(ctx context.Context, parent *ref.NodeRef) error {
	return m.engine.Add(ctx, m.node, m.hierarchyType, parent)
}

func (m *Member) AttachTo(ctx context.Context, parent ref.NodeRef) error {
	return m.engine.Attach(ctx, m.node, parent, m.hierarchyType)
}

func (m *Member) Detach(ctx context.Context) error {
	return m.engine.Detach(ctx, m.node, m.hierarchyType)
}

func (m *Member) MoveTo(ctx context.Context, newParent *ref.NodeRef) error {
	return m.engine.Move(ctx, m.node, newParent, m.hierarchyType)
}

func (m *Member) Remove(ctx context.Context) error {
	return m.engine.Remove(ctx, m.node, m.hierarchyType)
}

func (m *Member) Ancestors(ctx context.Context, includeSelf bool) ([]ref.NodeRef, error) {
	return m.engine.Ancestors(ctx, m.node, m.hierarchyType, includeSelf, 0)
}

func (m *Member) Descendants(ctx context.Context, includeSelf bool) ([]ref.NodeRef, error) {
	return m.engine.Descendants(ctx, m.node, m.hierarchyType, includeSelf, 0)
}

func (m *Member) Parent(ctx context.Context) (ref.NodeRef, bool, error) {
	return m.engine.DirectParent(ctx, m.node, m.hierarchyType)
}

func (m *Member) Children(ctx context.Context) ([]ref.NodeRef, error) {
	return m.engine.DirectChildren(ctx, m.node, m.hierarchyType)
}

func (m *Member) Siblings(ctx context.Context, includeSelf bool) ([]ref.NodeRef, error) {
	return m.engine.Siblings(ctx, m.node, m.hierarchyType, includeSelf)
}

func (m *Member) Path(ctx context.Context) ([]ref.NodeRef, error) {
	return m.engine.Path(ctx, m.node, m.hierarchyType)
}

func (m *Member) Tree(ctx context.Context) (*Tree, error) {
	return m.engine.BuildTree(ctx, m.node, m.hierarchyType)
}

func (m *Member) Depth(ctx context.Context) (int, error) {
	return m.engine.Depth(ctx, m.node, m.hierarchyType)
}

func (m *Member) IsRoot(ctx context.Context) (bool, error) {
	return m.engine.IsRoot(ctx, m.node, m.hierarchyType)
}

func (m *Member) IsLeaf(ctx context.Context) (bool, error) {
	return m.engine.IsLeaf(ctx, m.node, m.hierarchyType)
}

func (m *Member) InHierarchy(ctx context.Context) (bool, error) {
	return m.engine.InHierarchy(ctx, m.node, m.hierarchyType)
}

func (m *Member) IsAncestorOf(ctx context.Context, other ref.NodeRef) (bool, error) {
	return m.engine.IsAncestorOf(ctx, m.node, other, m.hierarchyType)
}

func (m *Member) IsDescendantOf(ctx context.Context, other ref.NodeRef) (bool, error) {
	return m.engine.IsDescendantOf(ctx, m.node, other, m.hierarchyType)
}

// Record materializes the external record behind the member's ref.
func (m *Member) Record(ctx context.Context) (any, error) {
	return m.engine.Resolve(ctx, m.node)
}
