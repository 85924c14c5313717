package cli

import (
	"strings"

	"github.com/faustbrian/lineage/internal/hierarchy"
	"github.com/faustbrian/lineage/internal/ref"
)

// renderTree renders a subtree with box-drawing connectors:
//
//	org:acme
//	├── team:platform
//	│   └── user:42
//	└── team:sales
func renderTree(t *hierarchy.Tree) string {
	var b strings.Builder
	b.WriteString(t.Node.String())
	b.WriteByte('\n')
	renderChildren(&b, t.Children, "")
	return b.String()
}

func renderChildren(b *strings.Builder, children []*hierarchy.Tree, prefix string) {
	for i, child := range children {
		last := i == len(children)-1

		b.WriteString(prefix)
		if last {
			b.WriteString("└── ")
		} else {
			b.WriteString("├── ")
		}
		b.WriteString(child.Node.String())
		b.WriteByte('\n')

		childPrefix := prefix + "│   "
		if last {
			childPrefix = prefix + "    "
		}
		renderChildren(b, child.Children, childPrefix)
	}
}

// renderForest renders each tree in order, separated by a blank line.
func renderForest(forest []*hierarchy.Tree) string {
	parts := make([]string, 0, len(forest))
	for _, t := range forest {
		parts = append(parts, renderTree(t))
	}
	return strings.Join(parts, "\n")
}

// renderList renders refs one per line.
func renderList(nodes []ref.NodeRef) string {
	var b strings.Builder
	for _, node := range nodes {
		b.WriteString(node.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// renderPath renders a root-first chain as a single arrow-joined line.
func renderPath(nodes []ref.NodeRef) string {
	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		parts = append(parts, node.String())
	}
	return strings.Join(parts, " -> ")
}
