// Package snapshot persists frozen ancestor chains. A snapshot attaches the
// chain of some node, as it stood at capture time, to an unrelated context
// record. Later moves in the live hierarchy do not disturb captured chains.
//
// The projector is a pure consumer of the hierarchy engine's query API: it
// reads ancestor chains and writes its own table, never closure rows.
package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/faustbrian/lineage/internal/closure"
	"github.com/faustbrian/lineage/internal/hierarchy"
	"github.com/faustbrian/lineage/internal/ref"
)

//go:embed schema.sql
var schemaSQL string

// Projector captures and serves ancestor snapshots. It shares the closure
// store's database handle but owns its own table.
type Projector struct {
	db     *sql.DB
	engine *hierarchy.Engine
}

// New builds a projector on the store's database, creating the snapshot
// table if needed.
func New(ctx context.Context, store *closure.Store, engine *hierarchy.Engine) (*Projector, error) {
	db := store.DB()
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("apply snapshot schema: %w", err)
	}
	return &Projector{db: db, engine: engine}, nil
}

// Snapshot is one captured chain for a (context, hierarchy type) pair.
type Snapshot struct {
	CaptureID     string
	Context       ref.NodeRef
	HierarchyType string
	CapturedAt    time.Time

	// Chain is root-first and ends at the captured node itself.
	Chain []ref.NodeRef
}

// Capture freezes node's current ancestor chain (node included) under the
// context record, replacing any prior snapshot for the same context and
// hierarchy type. The replacement is atomic: readers see the old chain or
// the new one, never a mix.
func (p *Projector) Capture(ctx context.Context, contextRef, node ref.NodeRef, hierarchyType string) (Snapshot, error) {
	ancestors, err := p.engine.Ancestors(ctx, node, hierarchyType, true, 0)
	if err != nil {
		return Snapshot{}, fmt.Errorf("capture snapshot: %w", err)
	}

	snap := Snapshot{
		CaptureID:     uuid.NewString(),
		Context:       contextRef,
		HierarchyType: hierarchyType,
		CapturedAt:    time.Now().UTC(),
		Chain:         make([]ref.NodeRef, len(ancestors)),
	}
	// Ancestors come nearest-first; the stored and served order is
	// root-first.
	for i, a := range ancestors {
		snap.Chain[len(ancestors)-1-i] = a
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("capture snapshot: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM ancestor_snapshots
		  WHERE context_kind = ? AND context_id = ? AND hierarchy_type = ?`,
		contextRef.Kind, contextRef.ID.Key(), hierarchyType,
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("capture snapshot: clear prior set: %w", err)
	}

	capturedAt := snap.CapturedAt.Format(time.RFC3339Nano)
	for depth, ancestor := range snap.Chain {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO ancestor_snapshots
			    (capture_id, context_kind, context_id, hierarchy_type, depth, ancestor_kind, ancestor_id, captured_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			snap.CaptureID, contextRef.Kind, contextRef.ID.Key(), hierarchyType,
			depth, ancestor.Kind, ancestor.ID.Key(), capturedAt,
		)
		if err != nil {
			return Snapshot{}, fmt.Errorf("capture snapshot: insert depth %d: %w", depth, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("capture snapshot: %w", err)
	}

	slog.Info("ancestor chain captured",
		"capture_id", snap.CaptureID,
		"context", contextRef.String(),
		"node", node.String(),
		"hierarchy_type", hierarchyType,
		"chain_length", len(snap.Chain),
	)
	return snap, nil
}

// Chain returns the frozen chain for the context, root-first. The boolean
// is false when no snapshot exists.
func (p *Projector) Chain(ctx context.Context, contextRef ref.NodeRef, hierarchyType string) ([]ref.NodeRef, bool, error) {
	snap, ok, err := p.Load(ctx, contextRef, hierarchyType)
	if err != nil || !ok {
		return nil, ok, err
	}
	return snap.Chain, true, nil
}

// Load returns the full snapshot record for the context.
func (p *Projector) Load(ctx context.Context, contextRef ref.NodeRef, hierarchyType string) (Snapshot, bool, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT capture_id, ancestor_kind, ancestor_id, captured_at
		   FROM ancestor_snapshots
		  WHERE context_kind = ? AND context_id = ? AND hierarchy_type = ?
		  ORDER BY depth ASC`,
		contextRef.Kind, contextRef.ID.Key(), hierarchyType,
	)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	snap := Snapshot{Context: contextRef, HierarchyType: hierarchyType, Chain: []ref.NodeRef{}}
	for rows.Next() {
		var (
			kind, idKey, capturedAt string
		)
		if err := rows.Scan(&snap.CaptureID, &kind, &idKey, &capturedAt); err != nil {
			return Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
		}
		id, err := ref.DecodeScalar(idKey)
		if err != nil {
			return Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, capturedAt)
		if err != nil {
			return Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
		}
		snap.CapturedAt = ts
		snap.Chain = append(snap.Chain, ref.New(kind, id))
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	if len(snap.Chain) == 0 {
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Drop deletes the snapshot for the context, reporting whether one existed.
func (p *Projector) Drop(ctx context.Context, contextRef ref.NodeRef, hierarchyType string) (bool, error) {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM ancestor_snapshots
		  WHERE context_kind = ? AND context_id = ? AND hierarchy_type = ?`,
		contextRef.Kind, contextRef.ID.Key(), hierarchyType,
	)
	if err != nil {
		return false, fmt.Errorf("drop snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("drop snapshot: %w", err)
	}
	return n > 0, nil
}
