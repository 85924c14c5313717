package closure

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/faustbrian/lineage/internal/ref"
)

// ErrDuplicateRow is returned by Insert when a row with the same
// (ancestor, descendant, hierarchy type) triple already exists.
//
// The engine never produces duplicates when its logic is correct; a
// duplicate insert signals a bug or a race that the transaction layer
// failed to serialize.
var ErrDuplicateRow = errors.New("closure: duplicate row")

// Insert writes one closure row. Fails with ErrDuplicateRow if the
// (ancestor, descendant, hierarchy type) triple is already present.
func (c conn) Insert(ctx context.Context, row Row) error {
	if row.Depth < 0 {
		return fmt.Errorf("insert closure row: negative depth %d", row.Depth)
	}

	_, err := c.q.ExecContext(ctx, `
		INSERT INTO closure
		(hierarchy_type, ancestor_kind, ancestor_id, descendant_kind, descendant_id, depth)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		row.HierarchyType,
		row.Ancestor.Kind,
		row.Ancestor.ID.Key(),
		row.Descendant.Kind,
		row.Descendant.ID.Key(),
		row.Depth,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert %s: %w", row, ErrDuplicateRow)
		}
		return fmt.Errorf("insert closure row: %w", err)
	}

	return nil
}

// InsertSelfRow writes the depth-0 self-row for a node if absent.
// Idempotent via ON CONFLICT DO NOTHING; returns whether a row was written.
func (c conn) InsertSelfRow(ctx context.Context, node ref.NodeRef, hierarchyType string) (bool, error) {
	result, err := c.q.ExecContext(ctx, `
		INSERT INTO closure
		(hierarchy_type, ancestor_kind, ancestor_id, descendant_kind, descendant_id, depth)
		VALUES (?, ?, ?, ?, ?, 0)
		ON CONFLICT DO NOTHING
	`,
		hierarchyType,
		node.Kind, node.ID.Key(),
		node.Kind, node.ID.Key(),
	)
	if err != nil {
		return false, fmt.Errorf("insert self row for %s: %w", node, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert self row for %s: rows affected: %w", node, err)
	}
	return affected > 0, nil
}

// DeleteWhere removes every row matching the filter and returns the count.
func (c conn) DeleteWhere(ctx context.Context, f Filter) (int64, error) {
	where, args, err := f.clauses()
	if err != nil {
		return 0, err
	}

	result, err := c.q.ExecContext(ctx, "DELETE FROM closure WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete closure rows: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete closure rows: rows affected: %w", err)
	}
	return removed, nil
}

// isUniqueViolation detects a UNIQUE constraint failure from go-sqlite3.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
