package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faustbrian/lineage/internal/ref"
)

func TestMember_Lifecycle(t *testing.T) {
	e, _, _ := setupEngine(t)
	ctx := context.Background()

	root := n(1)
	require.NoError(t, e.Add(ctx, root, testType, nil))

	m := e.MemberOf(n(2), testType)
	assert.True(t, m.Ref().Equal(n(2)))
	assert.Equal(t, testType, m.HierarchyType())

	require.NoError(t, m.AttachTo(ctx, root))

	parent, ok, err := m.Parent(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, parent.Equal(root))

	depth, err := m.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, depth)

	isLeaf, err := m.IsLeaf(ctx)
	require.NoError(t, err)
	assert.True(t, isLeaf)

	under, err := m.IsDescendantOf(ctx, root)
	require.NoError(t, err)
	assert.True(t, under)

	require.NoError(t, m.Detach(ctx))
	isRoot, err := m.IsRoot(ctx)
	require.NoError(t, err)
	assert.True(t, isRoot)

	require.NoError(t, m.Remove(ctx))
	in, err := m.InHierarchy(ctx)
	require.NoError(t, err)
	assert.False(t, in)
}

func TestMember_MoveAndTree(t *testing.T) {
	e, _, _ := setupEngine(t)
	ctx := context.Background()

	a, b, c := n(1), n(2), n(3)
	buildChain(t, e, a, b, c)

	dest := n(10)
	require.NoError(t, e.Add(ctx, dest, testType, nil))

	m := e.MemberOf(b, testType)
	require.NoError(t, m.MoveTo(ctx, &dest))

	path, err := m.Path(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ref.NodeRef{dest, b}, path)

	tree, err := m.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Size())
	require.Len(t, tree.Children, 1)
	assert.True(t, tree.Children[0].Node.Equal(c))
}

func TestMember_Record(t *testing.T) {
	e, _, _ := setupEngine(t, WithResolver(&mapResolver{records: map[string]any{
		"user/7": "alice",
	}}))
	ctx := context.Background()

	rec, err := e.MemberOf(ref.Int("user", 7), testType).Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", rec)
}
