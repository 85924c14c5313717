package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/faustbrian/lineage/internal/ref"
)

// NewTreeCommand creates the tree command.
func NewTreeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [kind:id]",
		Short: "Render the subtree below a node, or the whole forest",
		Long: `Render the subtree rooted at the given node. Without an argument
every root in the hierarchy type is rendered.

Example:
  lineage tree org:acme --db lineage.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cleanup, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			f := newFormatter(opts, cmd)

			if len(args) == 1 {
				node, err := parseRef(args[0])
				if err != nil {
					return err
				}
				tree, err := engine.BuildTree(cmd.Context(), node, opts.Type)
				if err != nil {
					f.Failure(err)
					return err
				}
				if f.Format == "json" {
					return f.Success(tree)
				}
				return f.Success(strings.TrimRight(renderTree(tree), "\n"))
			}

			forest, err := engine.BuildForest(cmd.Context(), opts.Type)
			if err != nil {
				f.Failure(err)
				return err
			}
			if f.Format == "json" {
				return f.Success(forest)
			}
			return f.Success(strings.TrimRight(renderForest(forest), "\n"))
		},
	}
}

// NewPathCommand creates the path command.
func NewPathCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "path <kind:id>",
		Short:         "Print the chain from a node's root down to the node",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := parseRef(args[0])
			if err != nil {
				return err
			}

			engine, cleanup, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			f := newFormatter(opts, cmd)
			path, err := engine.Path(cmd.Context(), node, opts.Type)
			if err != nil {
				f.Failure(err)
				return err
			}
			if f.Format == "json" {
				return f.Success(path)
			}
			return f.Success(renderPath(path))
		},
	}
}

// AncestryOptions holds flags shared by the ancestors and descendants
// commands.
type AncestryOptions struct {
	*RootOptions
	IncludeSelf bool
	MaxDepth    int
}

// NewAncestorsCommand creates the ancestors command.
func NewAncestorsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AncestryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "ancestors <kind:id>",
		Short:         "List a node's ancestors, nearest first",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAncestry(opts, args[0], cmd, true)
		},
	}

	cmd.Flags().BoolVar(&opts.IncludeSelf, "self", false, "include the node itself")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "limit generations (0 = unbounded)")

	return cmd
}

// NewDescendantsCommand creates the descendants command.
func NewDescendantsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AncestryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "descendants <kind:id>",
		Short:         "List a node's descendants, nearest first",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAncestry(opts, args[0], cmd, false)
		},
	}

	cmd.Flags().BoolVar(&opts.IncludeSelf, "self", false, "include the node itself")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "limit generations (0 = unbounded)")

	return cmd
}

func runAncestry(opts *AncestryOptions, arg string, cmd *cobra.Command, up bool) error {
	node, err := parseRef(arg)
	if err != nil {
		return err
	}

	engine, cleanup, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	f := newFormatter(opts.RootOptions, cmd)

	var nodes []ref.NodeRef
	if up {
		nodes, err = engine.Ancestors(cmd.Context(), node, opts.Type, opts.IncludeSelf, opts.MaxDepth)
	} else {
		nodes, err = engine.Descendants(cmd.Context(), node, opts.Type, opts.IncludeSelf, opts.MaxDepth)
	}
	if err != nil {
		f.Failure(err)
		return err
	}

	if f.Format == "json" {
		return f.Success(nodes)
	}
	return f.Success(strings.TrimRight(renderList(nodes), "\n"))
}

// NewRootsCommand creates the roots command.
func NewRootsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "roots",
		Short:         "List every root node in the hierarchy type",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cleanup, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			f := newFormatter(opts, cmd)
			roots, err := engine.RootNodes(cmd.Context(), opts.Type)
			if err != nil {
				f.Failure(err)
				return err
			}
			if f.Format == "json" {
				return f.Success(roots)
			}
			return f.Success(strings.TrimRight(renderList(roots), "\n"))
		},
	}
}
