package closure

import (
	"context"
	"errors"
	"testing"

	"github.com/faustbrian/lineage/internal/ref"
)

func TestInsert_DuplicateRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	row := Row{
		Ancestor:      ref.Int("group", 1),
		Descendant:    ref.Int("group", 2),
		Depth:         1,
		HierarchyType: "default",
	}

	if err := s.Insert(ctx, row); err != nil {
		t.Fatalf("first Insert: %v", err)
	}

	err := s.Insert(ctx, row)
	if !errors.Is(err, ErrDuplicateRow) {
		t.Fatalf("second Insert error = %v, want ErrDuplicateRow", err)
	}
}

func TestInsert_SameEndpointsDifferentType(t *testing.T) {
	s := openTestStore(t)

	a, b := ref.Int("group", 1), ref.Int("group", 2)
	mustInsert(t, s, a, b, 1, "org")
	// Same pair in a different hierarchy type is a distinct row.
	mustInsert(t, s, a, b, 1, "billing")
}

func TestInsert_NegativeDepth(t *testing.T) {
	s := openTestStore(t)

	err := s.Insert(context.Background(), Row{
		Ancestor:      ref.Int("group", 1),
		Descendant:    ref.Int("group", 2),
		Depth:         -1,
		HierarchyType: "default",
	})
	if err == nil {
		t.Fatal("expected error for negative depth")
	}
}

func TestInsertSelfRow_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	node := ref.Str("tag", "go")

	inserted, err := s.InsertSelfRow(ctx, node, "default")
	if err != nil {
		t.Fatalf("first InsertSelfRow: %v", err)
	}
	if !inserted {
		t.Error("first InsertSelfRow reported no insert")
	}

	inserted, err = s.InsertSelfRow(ctx, node, "default")
	if err != nil {
		t.Fatalf("second InsertSelfRow: %v", err)
	}
	if inserted {
		t.Error("second InsertSelfRow reported an insert, want no-op")
	}

	rows, err := s.Ancestors(ctx, node, "default", All)
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want exactly one self row", len(rows))
	}
}

func TestDeleteWhere_ByDescendant(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, b, c := ref.Int("g", 1), ref.Int("g", 2), ref.Int("g", 3)
	seedChain(t, s, "default", a, b, c)

	// Sever c from everything above it.
	node := c
	removed, err := s.DeleteWhere(ctx, Filter{
		HierarchyType: "default",
		Descendant:    &node,
		Depth:         ExcludeSelf,
	})
	if err != nil {
		t.Fatalf("DeleteWhere: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	rows, err := s.Ancestors(ctx, c, "default", All)
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	if len(rows) != 1 || !rows[0].IsSelf() {
		t.Errorf("expected only the self row to remain, got %v", rows)
	}
}

func TestDeleteWhere_RequiresHierarchyType(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.DeleteWhere(context.Background(), Filter{}); err == nil {
		t.Fatal("expected error for filter without hierarchy type")
	}
}

func TestDeleteWhere_TypeIsolation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, b := ref.Int("g", 1), ref.Int("g", 2)
	seedChain(t, s, "org", a, b)
	seedChain(t, s, "billing", a, b)

	removed, err := s.DeleteWhere(ctx, Filter{HierarchyType: "org"})
	if err != nil {
		t.Fatalf("DeleteWhere: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	rows, err := s.Ancestors(ctx, b, "billing", All)
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("billing rows affected by org delete: got %d rows, want 2", len(rows))
	}
}
