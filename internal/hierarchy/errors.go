package hierarchy

import (
	"errors"
	"fmt"

	"github.com/faustbrian/lineage/internal/ref"
)

// Error represents a validation failure detected by the engine.
//
// Engine errors include:
//   - Circular reference: attach/move would make a node its own ancestor
//   - Depth exceeded: attach would violate the configured depth ceiling
//   - Constraint violation: a duplicate closure row or a second parent
//   - Key mapping violation: an unmapped node kind under strict key mode
//
// Error includes structured fields for diagnostics and recovery.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// HierarchyType identifies the affected hierarchy partition.
	HierarchyType string

	// Node identifies the node the operation targeted.
	Node ref.NodeRef

	// Related identifies the other endpoint involved, when one exists
	// (the requested parent for cycle/depth errors).
	Related ref.NodeRef

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// CodeCircularReference indicates an attach/move that would create a cycle.
	CodeCircularReference ErrorCode = "CIRCULAR_REFERENCE"

	// CodeDepthExceeded indicates the configured depth ceiling would be violated.
	CodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"

	// CodeConstraintViolation indicates a duplicate closure row or an attach
	// onto a node that already has a parent.
	CodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"

	// CodeKeyMappingViolation indicates an unmapped node kind under strict mode.
	CodeKeyMappingViolation ErrorCode = "KEY_MAPPING_VIOLATION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if !e.Node.IsZero() && !e.Related.IsZero() {
		return fmt.Sprintf("%s: %s (node=%s, related=%s, type=%s)", e.Code, e.Message, e.Node, e.Related, e.HierarchyType)
	}
	if !e.Node.IsZero() {
		return fmt.Sprintf("%s: %s (node=%s, type=%s)", e.Code, e.Message, e.Node, e.HierarchyType)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNotFound is the sentinel returned by resolvers when a node's external
// record does not exist. Absent-value query results are not errors; this
// sentinel only concerns record materialization.
var ErrNotFound = errors.New("hierarchy: record not found")

// IsCircularReference reports whether err is a cycle rejection.
// Uses errors.As to handle wrapped errors.
func IsCircularReference(err error) bool {
	return hasCode(err, CodeCircularReference)
}

// IsDepthExceeded reports whether err is a depth ceiling rejection.
func IsDepthExceeded(err error) bool {
	return hasCode(err, CodeDepthExceeded)
}

// IsConstraintViolation reports whether err is a closure-row constraint failure.
func IsConstraintViolation(err error) bool {
	return hasCode(err, CodeConstraintViolation)
}

// IsKeyMappingViolation reports whether err is a strict-mode key mapping failure.
func IsKeyMappingViolation(err error) bool {
	return hasCode(err, CodeKeyMappingViolation)
}

func hasCode(err error, code ErrorCode) bool {
	var he *Error
	if errors.As(err, &he) {
		return he.Code == code
	}
	return false
}

// newCircularReferenceError creates an Error for a rejected cycle.
func newCircularReferenceError(node, parent ref.NodeRef, hierarchyType string) *Error {
	return &Error{
		Code:          CodeCircularReference,
		Message:       "attaching node under its own descendant would create a cycle",
		HierarchyType: hierarchyType,
		Node:          node,
		Related:       parent,
	}
}

// newDepthExceededError creates an Error for a rejected depth violation.
func newDepthExceededError(node, parent ref.NodeRef, hierarchyType string, max, current int) *Error {
	return &Error{
		Code:          CodeDepthExceeded,
		Message:       fmt.Sprintf("parent is at depth %d, attach would exceed max depth %d", current, max),
		HierarchyType: hierarchyType,
		Node:          node,
		Related:       parent,
	}
}

// newConstraintViolationError wraps a store-level duplicate or an attach
// onto an already-parented node.
func newConstraintViolationError(node ref.NodeRef, hierarchyType, message string, err error) *Error {
	return &Error{
		Code:          CodeConstraintViolation,
		Message:       message,
		HierarchyType: hierarchyType,
		Node:          node,
		Err:           err,
	}
}

// newKeyMappingViolationError wraps a strict-mode key extractor rejection.
func newKeyMappingViolationError(node ref.NodeRef, err error) *Error {
	return &Error{
		Code:    CodeKeyMappingViolation,
		Message: fmt.Sprintf("no key mapping for kind %q", node.Kind),
		Node:    node,
		Err:     err,
	}
}
