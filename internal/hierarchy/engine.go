package hierarchy

import (
	"context"
	"log/slog"

	"github.com/faustbrian/lineage/internal/closure"
	"github.com/faustbrian/lineage/internal/keymap"
	"github.com/faustbrian/lineage/internal/notify"
	"github.com/faustbrian/lineage/internal/ref"
)

// Resolver materializes the external record behind a node ref. The keyField
// argument names the record field carrying the id value, as decided by the
// key map. Implementations return ErrNotFound when no record exists.
type Resolver interface {
	Resolve(ctx context.Context, kind, keyField string, id ref.Scalar) (any, error)
}

// Engine implements structural mutations and derived queries over the
// closure store.
//
// The engine holds no in-process mutable state; all state lives in the
// store. Safe for concurrent use. Every mutating operation runs in one
// store transaction, and concurrent mutations are serialized by the
// store's single-writer connection.
type Engine struct {
	store    *closure.Store
	notifier notify.Notifier
	resolver Resolver
	keys     *keymap.KeyMap

	maxDepth             int // 0 = unbounded
	notificationsEnabled bool
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithMaxDepth sets the ancestor-chain depth ceiling.
//
// With a ceiling of n, a chain may span depths 0..n; an attach whose parent
// already sits at depth n is rejected with DEPTH_EXCEEDED. Zero disables
// the check.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		e.maxDepth = n
	}
}

// WithNotifier sets the notifier change events are published to.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithNotificationsDisabled turns event emission into a process-wide no-op.
func WithNotificationsDisabled() Option {
	return func(e *Engine) {
		e.notificationsEnabled = false
	}
}

// WithResolver sets the collaborator that materializes external records.
func WithResolver(r Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithKeyMap sets the kind → key-field mapping used during resolution.
func WithKeyMap(km *keymap.KeyMap) Option {
	return func(e *Engine) {
		e.keys = km
	}
}

// New creates an Engine over the given closure store.
//
// Defaults: unbounded depth, notifications enabled via a slog-backed
// notifier, lax key mapping, no resolver.
func New(store *closure.Store, opts ...Option) *Engine {
	e := &Engine{
		store:                store,
		notifier:             &notify.LogNotifier{},
		keys:                 keymap.Lax(),
		notificationsEnabled: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// MaxDepth returns the configured depth ceiling (0 = unbounded).
// Used for diagnostics and testing.
func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

// Resolve materializes the external record behind a node ref via the
// configured resolver and key map. Returns ErrNotFound when the record
// does not exist, and a KEY_MAPPING_VIOLATION error for unmapped kinds
// under strict key mode.
func (e *Engine) Resolve(ctx context.Context, node ref.NodeRef) (any, error) {
	keyField, err := e.keys.KeyFor(node.Kind)
	if err != nil {
		return nil, newKeyMappingViolationError(node, err)
	}
	if e.resolver == nil {
		return nil, ErrNotFound
	}
	return e.resolver.Resolve(ctx, node.Kind, keyField, node.ID)
}

// publish delivers pending events after a committed mutation. Delivery
// failures are logged and swallowed: they must not affect the mutation.
func (e *Engine) publish(ctx context.Context, events ...notify.Event) {
	if !e.notificationsEnabled || e.notifier == nil {
		return
	}
	for _, ev := range events {
		if err := e.notifier.Publish(ctx, ev); err != nil {
			slog.Warn("notification delivery failed",
				"event_id", ev.ID,
				"kind", string(ev.Kind),
				"node", ev.Node.String(),
				"error", err,
			)
		}
	}
}
