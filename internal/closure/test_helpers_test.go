package closure

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/faustbrian/lineage/internal/ref"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustInsert inserts a row and fails the test on error.
func mustInsert(t *testing.T, s *Store, ancestor, descendant ref.NodeRef, depth int, hierarchyType string) {
	t.Helper()
	err := s.Insert(context.Background(), Row{
		Ancestor:      ancestor,
		Descendant:    descendant,
		Depth:         depth,
		HierarchyType: hierarchyType,
	})
	if err != nil {
		t.Fatalf("Insert(%s -> %s depth=%d): %v", ancestor, descendant, depth, err)
	}
}

// seedChain inserts the full closure of the chain nodes[0] -> nodes[1] -> ...
// (each node a direct child of the previous), including self-rows.
func seedChain(t *testing.T, s *Store, hierarchyType string, nodes ...ref.NodeRef) {
	t.Helper()
	for i, node := range nodes {
		mustInsert(t, s, node, node, 0, hierarchyType)
		for j := 0; j < i; j++ {
			mustInsert(t, s, nodes[j], node, i-j, hierarchyType)
		}
	}
}
