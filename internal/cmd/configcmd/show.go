package configcmd

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikimacro/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wikimacro/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current wikimacro configuration with source indicators.`,
		Example: `  # Show current config
  wikimacro config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := cmdutil.Globals(cmd)
			return runShow(g.NoColor, g.Path(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(noColor bool, configPath string, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}
	if w == nil {
		w = os.Stdout
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, envVars ...string) {
		_, _ = bold.Fprintf(w, "%-14s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(w, "-")
			return
		}

		fmt.Fprint(w, mask(label, value))

		// Determine source
		source := "config"
		if fileErr != nil {
			source = "-"
		}
		for _, envVar := range envVars {
			if v := os.Getenv(envVar); v != "" && v == value {
				source = envVar
				break
			}
		}
		if fileValue != value && source == "config" {
			source = "-"
		}

		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	printField("Backend", cfg.BackendName(), fileCfg.BackendName(), "WIKIMACRO_BACKEND")
	printField("URL", cfg.URL, fileCfg.URL, "WIKIMACRO_URL")
	printField("Email", cfg.Email, fileCfg.Email, "WIKIMACRO_EMAIL")
	printField("API Token", cfg.APIToken, fileCfg.APIToken, "WIKIMACRO_API_TOKEN")
	printField("Database URL", cfg.DatabaseURL, fileCfg.DatabaseURL, "WIKIMACRO_DATABASE_URL", "DATABASE_URL")
	printField("Site URL", cfg.SiteURL, fileCfg.SiteURL, "WIKIMACRO_SITE_URL")
	printField("Listen Addr", cfg.ListenAddr, fileCfg.ListenAddr, "WIKIMACRO_LISTEN_ADDR")
	printField("Root Path", cfg.Storage.RootPath, fileCfg.Storage.RootPath, "WIKIMACRO_ROOT_PATH")
	printField("App Path", cfg.Storage.AppPath, fileCfg.Storage.AppPath, "WIKIMACRO_APP_PATH")
	printField("File Path", cfg.Storage.FilePath, fileCfg.Storage.FilePath, "WIKIMACRO_FILE_PATH")

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}

// mask hides tokens and database passwords.
func mask(label, value string) string {
	lower := strings.ToLower(label)
	if strings.Contains(lower, "token") && len(value) > 8 {
		return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
	}
	if strings.Contains(lower, "database") {
		if u, err := url.Parse(value); err == nil {
			return u.Redacted()
		}
	}
	return value
}
