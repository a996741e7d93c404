package configcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikimacro/api"
	"github.com/open-cli-collective/wikimacro/internal/backend"
	"github.com/open-cli-collective/wikimacro/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wikimacro/internal/config"
)

const testTimeout = 10 * time.Second

// connection is the part of a backend the test command exercises.
type connection interface {
	Ping(ctx context.Context) error
	Close()
}

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test connectivity with the configured backend",
		Long:  `Test that wikimacro can reach the configured API or database and that attachment storage exists.`,
		Example: `  # Test connection
  wikimacro config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := cmdutil.Globals(cmd)
			cfg, err := cmdutil.LoadConfig(g.Path())
			if err != nil {
				return err
			}
			return runTest(cmd.Context(), g.NoColor, cfg, nil, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runTest(ctx context.Context, noColor bool, cfg *config.Config, b connection, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if w == nil {
		w = os.Stdout
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	target := cfg.URL
	if cfg.BackendName() == config.BackendPostgres {
		target = "the database"
	}
	fmt.Fprintf(w, "Testing connection to %s...\n", target)

	ctx, cancel := context.WithTimeout(ctx, testTimeout)
	defer cancel()

	if b == nil {
		store, err := backend.New(ctx, cfg)
		if err != nil {
			_, _ = red.Fprintln(w, "✗ Connection failed:", err)
			return fmt.Errorf("connection failed: %w", err)
		}
		defer store.Close()
		b = store
	}

	if err := b.Ping(ctx); err != nil {
		var errResp *api.ErrorResponse
		if !errors.As(err, &errResp) {
			_, _ = red.Fprintln(w, "✗ Connection failed:", err)
			fmt.Fprintln(w, "\nCheck your settings with: wikimacro config show")
			fmt.Fprintln(w, "Reconfigure with: wikimacro init")
			return fmt.Errorf("connection failed: %w", err)
		}

		switch errResp.StatusCode {
		case http.StatusUnauthorized:
			_, _ = red.Fprintln(w, "✗ Authentication failed: 401 Unauthorized")
			fmt.Fprintln(w, "\nCheck your credentials with: wikimacro config show")
			fmt.Fprintln(w, "Reconfigure with: wikimacro init")
			return fmt.Errorf("authentication failed")
		case http.StatusForbidden:
			_, _ = red.Fprintln(w, "✗ Access denied: 403 Forbidden")
			fmt.Fprintln(w, "\nCheck your permissions.")
			return fmt.Errorf("access denied")
		default:
			_, _ = red.Fprintf(w, "✗ Unexpected response: %d\n", errResp.StatusCode)
			return fmt.Errorf("unexpected status code: %d", errResp.StatusCode)
		}
	}

	_, _ = green.Fprintln(w, "✓ Backend reachable")

	if info, err := os.Stat(cfg.Storage.AppPath); err != nil || !info.IsDir() {
		_, _ = yellow.Fprintf(w, "! Attachment storage %s is not a directory\n", cfg.Storage.AppPath)
	} else {
		_, _ = green.Fprintln(w, "✓ Attachment storage found")
	}

	if cfg.BackendName() == config.BackendAPI {
		fmt.Fprintf(w, "\nAuthenticated as: %s\n", cfg.Email)
	}

	return nil
}
