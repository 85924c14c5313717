package closure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/faustbrian/lineage/internal/ref"
)

const rowColumns = `hierarchy_type, ancestor_kind, ancestor_id, descendant_kind, descendant_id, depth`

// Descendants returns every row where node is the ancestor, bounded by the
// depth filter, ordered by depth ascending then by the descendant identity
// columns for determinism.
func (c conn) Descendants(ctx context.Context, node ref.NodeRef, hierarchyType string, f DepthFilter) ([]Row, error) {
	query := `
		SELECT ` + rowColumns + `
		FROM closure
		WHERE ancestor_kind = ? AND ancestor_id = ? AND hierarchy_type = ?`
	args := []any{node.Kind, node.ID.Key(), hierarchyType}
	query, args = applyDepthFilter(query, args, f)
	query += `
		ORDER BY depth ASC, descendant_kind ASC, descendant_id ASC`

	return c.queryRows(ctx, query, args...)
}

// Ancestors returns every row where node is the descendant, bounded by the
// depth filter, ordered by depth ascending (nearest ancestor first).
func (c conn) Ancestors(ctx context.Context, node ref.NodeRef, hierarchyType string, f DepthFilter) ([]Row, error) {
	query := `
		SELECT ` + rowColumns + `
		FROM closure
		WHERE descendant_kind = ? AND descendant_id = ? AND hierarchy_type = ?`
	args := []any{node.Kind, node.ID.Key(), hierarchyType}
	query, args = applyDepthFilter(query, args, f)
	query += `
		ORDER BY depth ASC, ancestor_kind ASC, ancestor_id ASC`

	return c.queryRows(ctx, query, args...)
}

// MaxDepth returns the greatest depth at which node appears as descendant.
// The second return is false when the node has no rows at all (absent from
// the hierarchy); a node with only its self-row reports (0, true).
func (c conn) MaxDepth(ctx context.Context, node ref.NodeRef, hierarchyType string) (int, bool, error) {
	var depth sql.NullInt64
	err := c.q.QueryRowContext(ctx, `
		SELECT MAX(depth)
		FROM closure
		WHERE descendant_kind = ? AND descendant_id = ? AND hierarchy_type = ?
	`, node.Kind, node.ID.Key(), hierarchyType).Scan(&depth)
	if err != nil {
		return 0, false, fmt.Errorf("max depth for %s: %w", node, err)
	}
	if !depth.Valid {
		return 0, false, nil
	}
	return int(depth.Int64), true, nil
}

// HasSelfRow reports whether node has its depth-0 self-row.
func (c conn) HasSelfRow(ctx context.Context, node ref.NodeRef, hierarchyType string) (bool, error) {
	var count int
	err := c.q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM closure
		WHERE hierarchy_type = ?
		  AND ancestor_kind = ? AND ancestor_id = ?
		  AND descendant_kind = ? AND descendant_id = ?
		  AND depth = 0
	`, hierarchyType, node.Kind, node.ID.Key(), node.Kind, node.ID.Key()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check self row for %s: %w", node, err)
	}
	return count > 0, nil
}

// DirectParent returns the node's single depth-1 ancestor row, if any.
func (c conn) DirectParent(ctx context.Context, node ref.NodeRef, hierarchyType string) (ref.NodeRef, bool, error) {
	var kind, idKey string
	err := c.q.QueryRowContext(ctx, `
		SELECT ancestor_kind, ancestor_id
		FROM closure
		WHERE descendant_kind = ? AND descendant_id = ? AND hierarchy_type = ? AND depth = 1
		ORDER BY ancestor_kind ASC, ancestor_id ASC
		LIMIT 1
	`, node.Kind, node.ID.Key(), hierarchyType).Scan(&kind, &idKey)
	if err == sql.ErrNoRows {
		return ref.NodeRef{}, false, nil
	}
	if err != nil {
		return ref.NodeRef{}, false, fmt.Errorf("direct parent of %s: %w", node, err)
	}

	parent, err := decodeRef(kind, idKey)
	if err != nil {
		return ref.NodeRef{}, false, fmt.Errorf("direct parent of %s: %w", node, err)
	}
	return parent, true, nil
}

// RootNodes returns every node whose only row as descendant is its
// self-row, ordered by the identity columns.
func (c conn) RootNodes(ctx context.Context, hierarchyType string) ([]ref.NodeRef, error) {
	rows, err := c.q.QueryContext(ctx, `
		SELECT c.descendant_kind, c.descendant_id
		FROM closure c
		WHERE c.hierarchy_type = ?
		  AND c.depth = 0
		  AND c.ancestor_kind = c.descendant_kind
		  AND c.ancestor_id = c.descendant_id
		  AND NOT EXISTS (
			SELECT 1 FROM closure up
			WHERE up.hierarchy_type = c.hierarchy_type
			  AND up.descendant_kind = c.descendant_kind
			  AND up.descendant_id = c.descendant_id
			  AND up.depth > 0
		  )
		ORDER BY c.descendant_kind ASC, c.descendant_id ASC
	`, hierarchyType)
	if err != nil {
		return nil, fmt.Errorf("query root nodes: %w", err)
	}
	defer rows.Close()

	var roots []ref.NodeRef
	for rows.Next() {
		var kind, idKey string
		if err := rows.Scan(&kind, &idKey); err != nil {
			return nil, fmt.Errorf("scan root node: %w", err)
		}
		node, err := decodeRef(kind, idKey)
		if err != nil {
			return nil, fmt.Errorf("scan root node: %w", err)
		}
		roots = append(roots, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate root nodes: %w", err)
	}

	if roots == nil {
		roots = []ref.NodeRef{}
	}
	return roots, nil
}

// Rows returns every row of one hierarchy type in deterministic order.
// Intended for diagnostics and row-set comparison in tests.
func (c conn) Rows(ctx context.Context, hierarchyType string) ([]Row, error) {
	return c.queryRows(ctx, `
		SELECT `+rowColumns+`
		FROM closure
		WHERE hierarchy_type = ?
		ORDER BY depth ASC, ancestor_kind ASC, ancestor_id ASC, descendant_kind ASC, descendant_id ASC
	`, hierarchyType)
}

// Exists reports whether a row linking ancestor to descendant at depth > 0
// is present. This is the cycle-check primitive: no pointer walking.
func (c conn) Exists(ctx context.Context, ancestor, descendant ref.NodeRef, hierarchyType string) (bool, error) {
	var count int
	err := c.q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM closure
		WHERE hierarchy_type = ?
		  AND ancestor_kind = ? AND ancestor_id = ?
		  AND descendant_kind = ? AND descendant_id = ?
		  AND depth > 0
	`, hierarchyType,
		ancestor.Kind, ancestor.ID.Key(),
		descendant.Kind, descendant.ID.Key(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check link %s -> %s: %w", ancestor, descendant, err)
	}
	return count > 0, nil
}

// applyDepthFilter appends depth predicates to a query under construction.
func applyDepthFilter(query string, args []any, f DepthFilter) (string, []any) {
	if f.Min > 0 {
		query += " AND depth >= ?"
		args = append(args, f.Min)
	}
	if f.Max > 0 {
		query += " AND depth <= ?"
		args = append(args, f.Max)
	}
	return query, args
}

// queryRows runs a row-shaped query and scans the results.
func (c conn) queryRows(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query closure rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate closure rows: %w", err)
	}

	// Return empty slice instead of nil
	if out == nil {
		out = []Row{}
	}
	return out, nil
}

func scanRow(rows *sql.Rows) (Row, error) {
	var (
		hierarchyType  string
		ancestorKind   string
		ancestorID     string
		descendantKind string
		descendantID   string
		depth          int
	)
	if err := rows.Scan(&hierarchyType, &ancestorKind, &ancestorID, &descendantKind, &descendantID, &depth); err != nil {
		return Row{}, fmt.Errorf("scan closure row: %w", err)
	}

	ancestor, err := decodeRef(ancestorKind, ancestorID)
	if err != nil {
		return Row{}, fmt.Errorf("scan closure row: %w", err)
	}
	descendant, err := decodeRef(descendantKind, descendantID)
	if err != nil {
		return Row{}, fmt.Errorf("scan closure row: %w", err)
	}

	return Row{
		Ancestor:      ancestor,
		Descendant:    descendant,
		Depth:         depth,
		HierarchyType: hierarchyType,
	}, nil
}

func decodeRef(kind, idKey string) (ref.NodeRef, error) {
	id, err := ref.DecodeScalar(idKey)
	if err != nil {
		return ref.NodeRef{}, err
	}
	return ref.NodeRef{Kind: kind, ID: id}, nil
}
