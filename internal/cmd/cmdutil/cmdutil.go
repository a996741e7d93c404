// Package cmdutil holds helpers shared by wikimacro subcommands.
package cmdutil

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikimacro/internal/backend"
	"github.com/open-cli-collective/wikimacro/internal/config"
	"github.com/open-cli-collective/wikimacro/internal/view"
	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

// GlobalOptions are the persistent flags defined on the root command.
type GlobalOptions struct {
	ConfigPath string
	Output     string
	NoColor    bool
}

// Globals reads the persistent flags visible to cmd.
func Globals(cmd *cobra.Command) GlobalOptions {
	var g GlobalOptions
	g.ConfigPath, _ = cmd.Flags().GetString("config")
	g.Output, _ = cmd.Flags().GetString("output")
	g.NoColor, _ = cmd.Flags().GetBool("no-color")
	return g
}

// Renderer returns a renderer for the global output flags, rejecting unknown formats.
func (g GlobalOptions) Renderer() (*view.Renderer, error) {
	if err := view.ValidateFormat(g.Output); err != nil {
		return nil, err
	}
	return view.NewRenderer(view.Format(g.Output), g.NoColor), nil
}

// Path returns the config file to read, defaulting to the XDG location.
func (g GlobalOptions) Path() string {
	if g.ConfigPath != "" {
		return g.ConfigPath
	}
	return config.DefaultConfigPath()
}

// LoadConfig loads and validates the configuration at path.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'wikimacro init' to configure)", err)
	}
	cfg.NormalizeURL()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'wikimacro init' to configure)", err)
	}
	return cfg, nil
}

// Connect builds the configured backend and the macro environment on top of
// it. The caller must Close the backend.
func Connect(ctx context.Context, cfg *config.Config) (*macro.Env, backend.Backend, error) {
	store, err := backend.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return backend.NewEnv(cfg, store), store, nil
}
