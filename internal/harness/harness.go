package harness

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/faustbrian/lineage/internal/closure"
	"github.com/faustbrian/lineage/internal/hierarchy"
	"github.com/faustbrian/lineage/internal/ref"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Forest is the rendered final forest, used for golden comparison.
	Forest string `json:"forest"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run executes a scenario against a fresh engine on the given database
// path. Step failures and assertion mismatches are collected in the result;
// the returned error covers infrastructure problems only.
func Run(ctx context.Context, sc *Scenario, dbPath string) (*Result, error) {
	store, err := closure.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open scenario database: %w", err)
	}
	defer store.Close()

	opts := []hierarchy.Option{hierarchy.WithNotificationsDisabled()}
	if sc.MaxDepth > 0 {
		opts = append(opts, hierarchy.WithMaxDepth(sc.MaxDepth))
	}
	engine := hierarchy.New(store, opts...)

	result := NewResult()
	for i, step := range sc.Steps {
		if err := runStep(ctx, engine, sc, i, step, result); err != nil {
			return nil, err
		}
	}

	for i, a := range sc.Assertions {
		if err := checkAssertion(ctx, engine, sc, i, a, result); err != nil {
			return nil, err
		}
	}

	forest, err := engine.BuildForest(ctx, sc.HierarchyType)
	if err != nil {
		return nil, fmt.Errorf("render final forest: %w", err)
	}
	result.Forest = RenderForest(forest)
	return result, nil
}

func runStep(ctx context.Context, engine *hierarchy.Engine, sc *Scenario, i int, step Step, result *Result) error {
	node, err := ref.Parse(step.Node)
	if err != nil {
		return fmt.Errorf("step %d: %w", i, err)
	}

	var parent *ref.NodeRef
	if step.Parent != "" {
		p, err := ref.Parse(step.Parent)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		parent = &p
	}

	var opErr error
	switch step.Op {
	case OpAdd:
		opErr = engine.Add(ctx, node, sc.HierarchyType, parent)
	case OpMove:
		opErr = engine.Move(ctx, node, parent, sc.HierarchyType)
	case OpDetach:
		opErr = engine.Detach(ctx, node, sc.HierarchyType)
	case OpRemove:
		opErr = engine.Remove(ctx, node, sc.HierarchyType)
	}

	if step.ExpectError == "" {
		if opErr != nil {
			result.AddError("step %d (%s %s): unexpected error: %v", i, step.Op, step.Node, opErr)
		}
		return nil
	}

	var engineErr *hierarchy.Error
	switch {
	case opErr == nil:
		result.AddError("step %d (%s %s): expected %s, got success", i, step.Op, step.Node, step.ExpectError)
	case !errors.As(opErr, &engineErr):
		result.AddError("step %d (%s %s): expected %s, got: %v", i, step.Op, step.Node, step.ExpectError, opErr)
	case string(engineErr.Code) != step.ExpectError:
		result.AddError("step %d (%s %s): expected %s, got %s", i, step.Op, step.Node, step.ExpectError, engineErr.Code)
	}
	return nil
}

func checkAssertion(ctx context.Context, engine *hierarchy.Engine, sc *Scenario, i int, a Assertion, result *Result) error {
	var node ref.NodeRef
	if a.Node != "" {
		var err error
		node, err = ref.Parse(a.Node)
		if err != nil {
			return fmt.Errorf("assertion %d: %w", i, err)
		}
	}

	switch a.Type {
	case AssertParent:
		parent, ok, err := engine.DirectParent(ctx, node, sc.HierarchyType)
		if err != nil {
			return err
		}
		switch {
		case a.Parent == "" && ok:
			result.AddError("assertion %d: %s should be a root, has parent %s", i, a.Node, parent)
		case a.Parent != "" && !ok:
			result.AddError("assertion %d: %s should have parent %s, has none", i, a.Node, a.Parent)
		case a.Parent != "" && parent.String() != a.Parent:
			result.AddError("assertion %d: %s has parent %s, want %s", i, a.Node, parent, a.Parent)
		}

	case AssertDepth:
		depth, err := engine.Depth(ctx, node, sc.HierarchyType)
		if err != nil {
			return err
		}
		if depth != a.Depth {
			result.AddError("assertion %d: %s at depth %d, want %d", i, a.Node, depth, a.Depth)
		}

	case AssertPath:
		path, err := engine.Path(ctx, node, sc.HierarchyType)
		if err != nil {
			return err
		}
		got := renderRefs(path)
		want := strings.Join(a.Path, " ")
		if got != want {
			result.AddError("assertion %d: %s has path [%s], want [%s]", i, a.Node, got, want)
		}

	case AssertRoots:
		roots, err := engine.RootNodes(ctx, sc.HierarchyType)
		if err != nil {
			return err
		}
		got := renderRefs(roots)
		want := strings.Join(a.Roots, " ")
		if got != want {
			result.AddError("assertion %d: roots are [%s], want [%s]", i, got, want)
		}

	case AssertAbsent:
		in, err := engine.InHierarchy(ctx, node, sc.HierarchyType)
		if err != nil {
			return err
		}
		if in {
			result.AddError("assertion %d: %s should be absent from the hierarchy", i, a.Node)
		}
	}
	return nil
}

func renderRefs(nodes []ref.NodeRef) string {
	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		parts = append(parts, node.String())
	}
	return strings.Join(parts, " ")
}
