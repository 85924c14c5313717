package harness

import (
	"path/filepath"
	"testing"

	"github.com/faustbrian/lineage/internal/hierarchy"
	"github.com/faustbrian/lineage/internal/ref"
)

func TestScenarioGoldens(t *testing.T) {
	scenarios := []string{
		"org_reparent",
		"depth_ceiling",
		"cycle_guard",
		"remove_sever",
		"move_to_root",
	}

	for _, name := range scenarios {
		t.Run(name, func(t *testing.T) {
			RunWithGolden(t, filepath.Join("testdata", name+".yaml"))
		})
	}
}

func TestRenderForest(t *testing.T) {
	forest := []*hierarchy.Tree{
		{
			Node: ref.Int("node", 1),
			Children: []*hierarchy.Tree{
				{
					Node:     ref.Int("node", 2),
					Children: []*hierarchy.Tree{{Node: ref.Int("node", 3)}},
				},
			},
		},
		{Node: ref.Int("node", 4)},
	}

	want := "node:1\n  node:2\n    node:3\nnode:4\n"
	if got := RenderForest(forest); got != want {
		t.Errorf("RenderForest = %q, want %q", got, want)
	}
}

func TestRenderForest_Empty(t *testing.T) {
	if got := RenderForest(nil); got != "" {
		t.Errorf("RenderForest(nil) = %q", got)
	}
}
