package cli

import (
	"github.com/spf13/cobra"

	"github.com/faustbrian/lineage/internal/closure"
	"github.com/faustbrian/lineage/internal/config"
	"github.com/faustbrian/lineage/internal/hierarchy"
	"github.com/faustbrian/lineage/internal/keymap"
	"github.com/faustbrian/lineage/internal/ref"
)

// resolveConfig merges the config file (if given) with flag overrides.
func resolveConfig(opts *RootOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return config.Config{}, &ExitError{Code: ExitCommandError, Message: "load config", Err: err}
		}
		cfg = loaded
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	return cfg, nil
}

// openEngine builds the store and engine per the resolved configuration.
// The returned cleanup closes the store.
func openEngine(opts *RootOptions) (*hierarchy.Engine, func() error, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	store, err := closure.Open(cfg.Database)
	if err != nil {
		return nil, nil, &ExitError{Code: ExitCommandError, Message: "open database", Err: err}
	}

	engineOpts := []hierarchy.Option{}
	if cfg.MaxDepth > 0 {
		engineOpts = append(engineOpts, hierarchy.WithMaxDepth(cfg.MaxDepth))
	}
	if !cfg.Notifications {
		engineOpts = append(engineOpts, hierarchy.WithNotificationsDisabled())
	}
	if len(cfg.Keys) > 0 || cfg.StrictKeys {
		engineOpts = append(engineOpts, hierarchy.WithKeyMap(keymap.New(cfg.Keys, cfg.StrictKeys)))
	}

	return hierarchy.New(store, engineOpts...), store.Close, nil
}

// parseRef parses a positional "kind:id" argument into a command error on
// failure.
func parseRef(arg string) (ref.NodeRef, error) {
	r, err := ref.Parse(arg)
	if err != nil {
		return ref.NodeRef{}, &ExitError{Code: ExitCommandError, Message: "invalid node reference", Err: err}
	}
	return r, nil
}

// newFormatter builds the output formatter wired to the command's streams.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
