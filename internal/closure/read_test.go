package closure

import (
	"context"
	"testing"

	"github.com/faustbrian/lineage/internal/ref"
)

func TestAncestors_OrderedByDepth(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, b, c, d := ref.Int("g", 1), ref.Int("g", 2), ref.Int("g", 3), ref.Int("g", 4)
	seedChain(t, s, "default", a, b, c, d)

	rows, err := s.Ancestors(ctx, d, "default", All)
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}

	wantDepths := []int{0, 1, 2, 3}
	if len(rows) != len(wantDepths) {
		t.Fatalf("got %d rows, want %d", len(rows), len(wantDepths))
	}
	for i, row := range rows {
		if row.Depth != wantDepths[i] {
			t.Errorf("row %d depth = %d, want %d", i, row.Depth, wantDepths[i])
		}
	}

	// Nearest ancestor first.
	if !rows[1].Ancestor.Equal(c) {
		t.Errorf("depth-1 ancestor = %v, want %v", rows[1].Ancestor, c)
	}
	if !rows[3].Ancestor.Equal(a) {
		t.Errorf("depth-3 ancestor = %v, want %v", rows[3].Ancestor, a)
	}
}

func TestAncestors_DepthFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, b, c, d := ref.Int("g", 1), ref.Int("g", 2), ref.Int("g", 3), ref.Int("g", 4)
	seedChain(t, s, "default", a, b, c, d)

	rows, err := s.Ancestors(ctx, d, "default", ExcludeSelf)
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("ExcludeSelf: got %d rows, want 3", len(rows))
	}

	rows, err = s.Ancestors(ctx, d, "default", DepthFilter{Min: 1, Max: 2})
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Min=1 Max=2: got %d rows, want 2", len(rows))
	}
}

func TestDescendants(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, b, c := ref.Int("g", 1), ref.Int("g", 2), ref.Int("g", 3)
	seedChain(t, s, "default", a, b, c)

	rows, err := s.Descendants(ctx, a, "default", ExcludeSelf)
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !rows[0].Descendant.Equal(b) || rows[0].Depth != 1 {
		t.Errorf("first row = %v, want %s at depth 1", rows[0], b)
	}
	if !rows[1].Descendant.Equal(c) || rows[1].Depth != 2 {
		t.Errorf("second row = %v, want %s at depth 2", rows[1], c)
	}
}

func TestDescendants_EmptyIsNotNil(t *testing.T) {
	s := openTestStore(t)

	rows, err := s.Descendants(context.Background(), ref.Int("g", 99), "default", All)
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}
	if rows == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestMaxDepth(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, b, c := ref.Int("g", 1), ref.Int("g", 2), ref.Int("g", 3)
	seedChain(t, s, "default", a, b, c)

	depth, ok, err := s.MaxDepth(ctx, c, "default")
	if err != nil {
		t.Fatalf("MaxDepth: %v", err)
	}
	if !ok || depth != 2 {
		t.Errorf("MaxDepth(c) = (%d, %v), want (2, true)", depth, ok)
	}

	depth, ok, err = s.MaxDepth(ctx, a, "default")
	if err != nil {
		t.Fatalf("MaxDepth: %v", err)
	}
	if !ok || depth != 0 {
		t.Errorf("MaxDepth(root) = (%d, %v), want (0, true)", depth, ok)
	}

	// Absent node: present=false, not an error.
	_, ok, err = s.MaxDepth(ctx, ref.Int("g", 99), "default")
	if err != nil {
		t.Fatalf("MaxDepth: %v", err)
	}
	if ok {
		t.Error("MaxDepth(absent) reported present")
	}
}

func TestDirectParent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, b, c := ref.Int("g", 1), ref.Int("g", 2), ref.Int("g", 3)
	seedChain(t, s, "default", a, b, c)

	parent, ok, err := s.DirectParent(ctx, c, "default")
	if err != nil {
		t.Fatalf("DirectParent: %v", err)
	}
	if !ok || !parent.Equal(b) {
		t.Errorf("DirectParent(c) = (%v, %v), want (%v, true)", parent, ok, b)
	}

	_, ok, err = s.DirectParent(ctx, a, "default")
	if err != nil {
		t.Fatalf("DirectParent: %v", err)
	}
	if ok {
		t.Error("DirectParent(root) reported a parent")
	}
}

func TestRootNodes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, b := ref.Int("g", 1), ref.Int("g", 2)
	seedChain(t, s, "default", a, b)

	lone := ref.Int("g", 10)
	if _, err := s.InsertSelfRow(ctx, lone, "default"); err != nil {
		t.Fatalf("InsertSelfRow: %v", err)
	}

	roots, err := s.RootNodes(ctx, "default")
	if err != nil {
		t.Fatalf("RootNodes: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2: %v", len(roots), roots)
	}
	if !roots[0].Equal(a) || !roots[1].Equal(lone) {
		t.Errorf("roots = %v, want [%v %v]", roots, a, lone)
	}
}

func TestExists(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, b, c := ref.Int("g", 1), ref.Int("g", 2), ref.Int("g", 3)
	seedChain(t, s, "default", a, b, c)

	tests := []struct {
		ancestor, descendant ref.NodeRef
		want                 bool
	}{
		{a, c, true},
		{a, b, true},
		{c, a, false},
		{a, a, false}, // self-row is depth 0, not a strict link
	}
	for _, tt := range tests {
		got, err := s.Exists(ctx, tt.ancestor, tt.descendant, "default")
		if err != nil {
			t.Fatalf("Exists(%s, %s): %v", tt.ancestor, tt.descendant, err)
		}
		if got != tt.want {
			t.Errorf("Exists(%s, %s) = %v, want %v", tt.ancestor, tt.descendant, got, tt.want)
		}
	}
}

func TestScalarKeys_SurviveRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Mixed scalar types: int id and string id that spells the same digits.
	intNode := ref.Int("user", 42)
	strNode := ref.Str("user", "42")
	mustInsert(t, s, intNode, intNode, 0, "default")
	mustInsert(t, s, strNode, strNode, 0, "default")
	mustInsert(t, s, intNode, strNode, 1, "default")

	rows, err := s.Ancestors(ctx, strNode, "default", ExcludeSelf)
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if !rows[0].Ancestor.Equal(intNode) {
		t.Errorf("ancestor = %v, want %v", rows[0].Ancestor, intNode)
	}
	if _, isInt := rows[0].Ancestor.ID.(ref.IntID); !isInt {
		t.Errorf("ancestor id decoded as %T, want ref.IntID", rows[0].Ancestor.ID)
	}
	if _, isStr := rows[0].Descendant.ID.(ref.StringID); !isStr {
		t.Errorf("descendant id decoded as %T, want ref.StringID", rows[0].Descendant.ID)
	}
}
