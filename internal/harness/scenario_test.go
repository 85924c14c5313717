package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
name: basic
description: smoke
steps:
  - op: add
    node: node:1
  - op: add
    node: node:2
    parent: node:1
assertions:
  - type: parent
    node: node:2
    parent: node:1
`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "basic", sc.Name)
	assert.Equal(t, "default", sc.HierarchyType, "hierarchy type defaults")
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, OpAdd, sc.Steps[0].Op)
	require.Len(t, sc.Assertions, 1)
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	path := writeScenario(t, `
name: typo
steps:
  - op: add
    node: node:1
assertion:
  - type: parent
    node: node:1
`)

	_, err := LoadScenario(path)
	require.Error(t, err, "unknown top-level field must be rejected")
}

func TestLoadScenario_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing name", "steps:\n  - op: add\n    node: node:1\n"},
		{"no steps", "name: empty\n"},
		{"bad op", "name: x\nsteps:\n  - op: explode\n    node: node:1\n"},
		{"missing node", "name: x\nsteps:\n  - op: add\n"},
		{"parent on remove", "name: x\nsteps:\n  - op: remove\n    node: node:1\n    parent: node:2\n"},
		{"bad assertion type", "name: x\nsteps:\n  - op: add\n    node: node:1\nassertions:\n  - type: vibe\n    node: node:1\n"},
		{"assertion missing node", "name: x\nsteps:\n  - op: add\n    node: node:1\nassertions:\n  - type: depth\n    depth: 1\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
