// Package hierarchy implements the closure-table hierarchy engine.
//
// The engine maintains strict tree/forest shapes over arbitrary
// (kind, id)-addressed nodes, partitioned by hierarchy type. All state
// lives in the closure store; the engine itself holds no mutable state
// and is safe for concurrent use.
//
// # Invariants
//
// After every successful mutation, per hierarchy type:
//
//   - Self-row existence: every participating node has exactly one
//     depth-0 row with ancestor == descendant.
//   - Uniqueness: at most one row per (ancestor, descendant) pair.
//   - Transitive closure completeness: for rows (X,Y,d1) and (Y,Z,d2)
//     with d1,d2 > 0, the row (X,Z,d1+d2) exists.
//   - Acyclicity: no node is its own strict ancestor.
//   - Single parent: at most one depth-1 row points at any descendant.
//   - Depth bound: no ancestor chain exceeds the configured ceiling.
//
// # Atomicity
//
// Every mutating operation executes inside one store transaction. A
// validation failure at any step rolls back all prior writes for that
// call: callers must treat a returned error as "no state change
// occurred". Change notifications are buffered during the transaction
// and published only after commit.
package hierarchy
