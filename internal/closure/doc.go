// Package closure provides SQLite-backed durable storage for closure rows.
//
// A closure row records one ancestor/descendant pair with the number of
// generations between the two endpoints; depth 0 marks a node's self-row.
// The hierarchy engine is the only writer. Rows of different hierarchy
// types never interact.
//
// # Storage invariants
//
//   - At most one row per (ancestor, descendant, hierarchy type) triple,
//     enforced by a UNIQUE constraint. Duplicate inserts surface as
//     ErrDuplicateRow.
//   - Rows are never updated in place. Mutation is delete + reinsert.
//   - Every multi-row query orders by depth ascending, then by the identity
//     columns, so results are deterministic across runs.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - single connection: cycle-check-then-insert sequences inside one
//     transaction are serialized against other writers
package closure
