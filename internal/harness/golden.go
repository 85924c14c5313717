package harness

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/faustbrian/lineage/internal/hierarchy"
	"github.com/faustbrian/lineage/internal/ref"
)

// RenderForest renders a forest to the stable text form used for golden
// comparison: every node on its own line, indented two spaces per level.
// Sibling order follows the store's deterministic ordering, so repeated
// runs of the same scenario produce identical output.
func RenderForest(forest []*hierarchy.Tree) string {
	var b strings.Builder
	for _, tree := range forest {
		tree.Walk(func(node ref.NodeRef, depth int) {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(node.String())
			b.WriteByte('\n')
		})
	}
	return b.String()
}

// RunWithGolden executes a scenario file and compares the rendered final
// forest against testdata/golden/{scenario.Name}.golden. Assertion failures
// inside the scenario fail the test before the golden comparison.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenarioPath string) {
	t.Helper()

	scenario, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	dbPath := filepath.Join(t.TempDir(), "scenario.db")
	result, err := Run(context.Background(), scenario, dbPath)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}

	if !result.Pass {
		for _, msg := range result.Errors {
			t.Error(msg)
		}
		t.Fatalf("scenario %s failed", scenario.Name)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(result.Forest))
}
