package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faustbrian/lineage/internal/ref"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Parent string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <kind:id>",
		Short: "Add a node to the hierarchy, optionally under a parent",
		Long: `Add a node to the hierarchy. Without --parent the node becomes a root.

Example:
  lineage add user:42 --parent team:platform --db lineage.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Parent, "parent", "p", "", "parent node as kind:id")

	return cmd
}

func runAdd(opts *AddOptions, arg string, cmd *cobra.Command) error {
	node, err := parseRef(arg)
	if err != nil {
		return err
	}

	var parent *ref.NodeRef
	if opts.Parent != "" {
		p, err := parseRef(opts.Parent)
		if err != nil {
			return err
		}
		parent = &p
	}

	engine, cleanup, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	f := newFormatter(opts.RootOptions, cmd)
	if err := engine.Add(cmd.Context(), node, opts.Type, parent); err != nil {
		f.Failure(err)
		return err
	}

	if parent != nil {
		return f.Success(fmt.Sprintf("added %s under %s", node, *parent))
	}
	return f.Success(fmt.Sprintf("added %s as root", node))
}

// MoveOptions holds flags for the move command.
type MoveOptions struct {
	*RootOptions
	Parent string
}

// NewMoveCommand creates the move command.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "move <kind:id>",
		Short: "Move a node and its subtree under a new parent",
		Long: `Move a node, subtree included, under a new parent. Without
--parent the node becomes a root.

Example:
  lineage move team:platform --parent org:acme`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Parent, "parent", "p", "", "new parent as kind:id (omit to move to root)")

	return cmd
}

func runMove(opts *MoveOptions, arg string, cmd *cobra.Command) error {
	node, err := parseRef(arg)
	if err != nil {
		return err
	}

	var parent *ref.NodeRef
	if opts.Parent != "" {
		p, err := parseRef(opts.Parent)
		if err != nil {
			return err
		}
		parent = &p
	}

	engine, cleanup, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	f := newFormatter(opts.RootOptions, cmd)
	if err := engine.Move(cmd.Context(), node, parent, opts.Type); err != nil {
		f.Failure(err)
		return err
	}

	if parent != nil {
		return f.Success(fmt.Sprintf("moved %s under %s", node, *parent))
	}
	return f.Success(fmt.Sprintf("moved %s to root", node))
}

// NewDetachCommand creates the detach command.
func NewDetachCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "detach <kind:id>",
		Short:         "Detach a node from its parent, making it a root",
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
			if err := engine.Detach(cmd.Context(), node, opts.Type); err != nil {
				f.Failure(err)
				return err
			}
			return f.Success(fmt.Sprintf("detached %s", node))
		},
	}
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <kind:id>",
		Short:         "Remove a node from the hierarchy entirely",
		Long:          "Remove a node. Its former descendants keep their internal links but are not re-parented.",
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
			if err := engine.Remove(cmd.Context(), node, opts.Type); err != nil {
				f.Failure(err)
				return err
			}
			return f.Success(fmt.Sprintf("removed %s", node))
		},
	}
}
