package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a sequence of hierarchy
// mutations followed by assertions over the final state.
type Scenario struct {
	// Name uniquely identifies this scenario. Doubles as the golden file
	// name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// HierarchyType is the partition all steps operate in. Defaults to
	// "default".
	HierarchyType string `yaml:"hierarchy_type,omitempty"`

	// MaxDepth configures the engine's depth ceiling. 0 means unbounded.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Steps is the mutation sequence.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final hierarchy.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one mutation. Node and Parent use the "kind:id" form.
type Step struct {
	// Op is one of add, move, detach, remove.
	Op string `yaml:"op"`

	// Node the operation targets.
	Node string `yaml:"node"`

	// Parent for add and move. Empty means root.
	Parent string `yaml:"parent,omitempty"`

	// ExpectError names the error code this step must fail with
	// (CIRCULAR_REFERENCE, DEPTH_EXCEEDED, CONSTRAINT_VIOLATION). Empty
	// means the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Operation constants for Step.Op.
const (
	OpAdd    = "add"
	OpMove   = "move"
	OpDetach = "detach"
	OpRemove = "remove"
)

// Assertion validates one fact about the final hierarchy.
type Assertion struct {
	// Type specifies the assertion type:
	//   - "parent": Node's direct parent is Parent ("" asserts root)
	//   - "depth":  Node's depth is Depth
	//   - "path":   Node's root-first path is exactly Path
	//   - "roots":  the hierarchy's roots are exactly Roots
	//   - "absent": Node has no self-row
	Type string `yaml:"type"`

	// Node the assertion inspects (all types except roots).
	Node string `yaml:"node,omitempty"`

	// Parent is the expected direct parent (parent type).
	Parent string `yaml:"parent,omitempty"`

	// Depth is the expected depth (depth type).
	Depth int `yaml:"depth,omitempty"`

	// Path is the expected root-first chain (path type).
	Path []string `yaml:"path,omitempty"`

	// Roots is the expected root set in store order (roots type).
	Roots []string `yaml:"roots,omitempty"`
}

// Assertion type constants.
const (
	AssertParent = "parent"
	AssertDepth  = "depth"
	AssertPath   = "path"
	AssertRoots  = "roots"
	AssertAbsent = "absent"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if err := scenario.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &scenario, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("no steps")
	}
	if s.HierarchyType == "" {
		s.HierarchyType = "default"
	}

	for i, step := range s.Steps {
		switch step.Op {
		case OpAdd, OpMove, OpDetach, OpRemove:
		default:
			return fmt.Errorf("step %d: unknown op %q", i, step.Op)
		}
		if step.Node == "" {
			return fmt.Errorf("step %d: missing node", i)
		}
		if step.Parent != "" && (step.Op == OpDetach || step.Op == OpRemove) {
			return fmt.Errorf("step %d: op %s takes no parent", i, step.Op)
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertParent, AssertDepth, AssertPath, AssertAbsent:
			if a.Node == "" {
				return fmt.Errorf("assertion %d: missing node", i)
			}
		case AssertRoots:
			if len(a.Roots) == 0 {
				return fmt.Errorf("assertion %d: missing roots", i)
			}
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i, a.Type)
		}
	}
	return nil
}
