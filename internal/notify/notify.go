// Package notify carries structured change notifications out of the
// hierarchy engine.
//
// The engine emits one event per successful mutation, strictly after the
// transaction commits. Emission is a pure side-channel: a failing notifier
// never rolls back or retries the mutation that triggered it.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/faustbrian/lineage/internal/ref"
)

// Kind identifies the mutation an event describes.
type Kind string

const (
	// NodeAttached fires when a node gains a direct parent.
	NodeAttached Kind = "node.attached"

	// NodeDetached fires when a node is severed from its ancestors and
	// becomes a root. Only emitted if the node actually had a parent.
	NodeDetached Kind = "node.detached"

	// NodeMoved fires when a node (and its subtree) is relocated.
	NodeMoved Kind = "node.moved"

	// NodeRemoved fires when a node is excised from a hierarchy entirely.
	NodeRemoved Kind = "node.removed"
)

// Event is one change notification. Parent fields are nil when the mutation
// had no corresponding endpoint (e.g. moving a node to root leaves NewParent
// unset).
type Event struct {
	ID            string
	Kind          Kind
	HierarchyType string
	Node          ref.NodeRef

	Parent         *ref.NodeRef // NodeAttached
	PreviousParent *ref.NodeRef // NodeDetached, NodeMoved
	NewParent      *ref.NodeRef // NodeMoved

	OccurredAt time.Time
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(kind Kind, hierarchyType string, node ref.NodeRef) Event {
	return Event{
		ID:            uuid.NewString(),
		Kind:          kind,
		HierarchyType: hierarchyType,
		Node:          node,
		OccurredAt:    time.Now().UTC(),
	}
}

// Notifier delivers events. Implementations must tolerate concurrent calls.
type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// LogNotifier writes events to slog. The default notifier.
type LogNotifier struct {
	Logger *slog.Logger // nil = slog.Default()
}

// Publish logs the event at Info level.
func (n *LogNotifier) Publish(_ context.Context, ev Event) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{
		"event_id", ev.ID,
		"kind", string(ev.Kind),
		"hierarchy_type", ev.HierarchyType,
		"node", ev.Node.String(),
	}
	if ev.Parent != nil {
		attrs = append(attrs, "parent", ev.Parent.String())
	}
	if ev.PreviousParent != nil {
		attrs = append(attrs, "previous_parent", ev.PreviousParent.String())
	}
	if ev.NewParent != nil {
		attrs = append(attrs, "new_parent", ev.NewParent.String())
	}

	logger.Info("hierarchy changed", attrs...)
	return nil
}

// Buffer collects events in memory. Used by tests and the scenario harness.
type Buffer struct {
	mu     sync.Mutex
	events []Event
}

// Publish appends the event to the buffer.
func (b *Buffer) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
	return nil
}

// Events returns a copy of everything published so far.
func (b *Buffer) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Reset discards all buffered events.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

// Multi fans out to several notifiers in order. The first error is
// returned after every notifier has been attempted.
type Multi []Notifier

// Publish delivers the event to each notifier.
func (m Multi) Publish(ctx context.Context, ev Event) error {
	var firstErr error
	for _, n := range m {
		if err := n.Publish(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
