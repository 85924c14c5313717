package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/faustbrian/lineage/internal/hierarchy"
	"github.com/faustbrian/lineage/internal/ref"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRenderTree(t *testing.T) {
	tree := &hierarchy.Tree{
		Node: ref.Str("org", "acme"),
		Children: []*hierarchy.Tree{
			{
				Node: ref.Str("team", "platform"),
				Children: []*hierarchy.Tree{
					{Node: ref.Int("user", 42)},
					{Node: ref.Int("user", 43)},
				},
			},
			{Node: ref.Str("team", "sales")},
		},
	}

	newGoldie(t).Assert(t, "tree_basic", []byte(renderTree(tree)))
}

func TestRenderTree_DeepNesting(t *testing.T) {
	tree := &hierarchy.Tree{
		Node: ref.Int("node", 1),
		Children: []*hierarchy.Tree{
			{
				Node: ref.Int("node", 2),
				Children: []*hierarchy.Tree{
					{Node: ref.Int("node", 4)},
				},
			},
			{
				Node: ref.Int("node", 3),
				Children: []*hierarchy.Tree{
					{Node: ref.Int("node", 5)},
				},
			},
		},
	}

	newGoldie(t).Assert(t, "tree_nested", []byte(renderTree(tree)))
}

func TestRenderForest(t *testing.T) {
	forest := []*hierarchy.Tree{
		{
			Node:     ref.Int("node", 1),
			Children: []*hierarchy.Tree{{Node: ref.Int("node", 2)}},
		},
		{Node: ref.Int("node", 3)},
	}

	newGoldie(t).Assert(t, "forest", []byte(renderForest(forest)))
}

func TestRenderPath(t *testing.T) {
	got := renderPath([]ref.NodeRef{
		ref.Str("org", "acme"),
		ref.Str("team", "platform"),
		ref.Int("user", 42),
	})
	if got != "org:acme -> team:platform -> user:42" {
		t.Errorf("renderPath = %q", got)
	}
}

func TestRenderList(t *testing.T) {
	got := renderList([]ref.NodeRef{ref.Int("node", 1), ref.Int("node", 2)})
	if got != "node:1\nnode:2\n" {
		t.Errorf("renderList = %q", got)
	}
}
