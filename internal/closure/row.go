package closure

import (
	"fmt"

	"github.com/faustbrian/lineage/internal/ref"
)

// Row is one persisted ancestor/descendant pair.
type Row struct {
	Ancestor      ref.NodeRef
	Descendant    ref.NodeRef
	Depth         int
	HierarchyType string
}

// IsSelf reports whether the row is a node's depth-0 self-row.
func (r Row) IsSelf() bool {
	return r.Depth == 0 && r.Ancestor.Equal(r.Descendant)
}

func (r Row) String() string {
	return fmt.Sprintf("%s -> %s depth=%d type=%s", r.Ancestor, r.Descendant, r.Depth, r.HierarchyType)
}

// DepthFilter bounds a traversal query.
//
// Min > 0 excludes rows below that depth; Min = 1 excludes the self-row.
// Max > 0 caps the traversal; Max = 0 means unbounded.
type DepthFilter struct {
	Min int
	Max int
}

// ExcludeSelf is the filter for strict-ancestor/descendant queries.
var ExcludeSelf = DepthFilter{Min: 1}

// All matches every depth including the self-row.
var All = DepthFilter{}

// Filter selects rows for bulk deletion. HierarchyType is required;
// Ancestor, Descendant, and Depth narrow the selection when set.
type Filter struct {
	HierarchyType string
	Ancestor      *ref.NodeRef
	Descendant    *ref.NodeRef
	Depth         DepthFilter
}

// clauses renders the filter as SQL predicates and bind args.
func (f Filter) clauses() (string, []any, error) {
	if f.HierarchyType == "" {
		return "", nil, fmt.Errorf("filter: hierarchy type is required")
	}

	where := "hierarchy_type = ?"
	args := []any{f.HierarchyType}

	if f.Ancestor != nil {
		where += " AND ancestor_kind = ? AND ancestor_id = ?"
		args = append(args, f.Ancestor.Kind, f.Ancestor.ID.Key())
	}
	if f.Descendant != nil {
		where += " AND descendant_kind = ? AND descendant_id = ?"
		args = append(args, f.Descendant.Kind, f.Descendant.ID.Key())
	}
	if f.Depth.Min > 0 {
		where += " AND depth >= ?"
		args = append(args, f.Depth.Min)
	}
	if f.Depth.Max > 0 {
		where += " AND depth <= ?"
		args = append(args, f.Depth.Max)
	}

	return where, args, nil
}
