// Package root provides the root command for the wikimacro CLI.
package root

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikimacro/internal/cmd/attachment"
	"github.com/open-cli-collective/wikimacro/internal/cmd/completion"
	"github.com/open-cli-collective/wikimacro/internal/cmd/configcmd"
	"github.com/open-cli-collective/wikimacro/internal/cmd/image"
	initcmd "github.com/open-cli-collective/wikimacro/internal/cmd/init"
	"github.com/open-cli-collective/wikimacro/internal/cmd/macrocmd"
	"github.com/open-cli-collective/wikimacro/internal/cmd/render"
	"github.com/open-cli-collective/wikimacro/internal/cmd/serve"
	"github.com/open-cli-collective/wikimacro/internal/version"
)

// NewCmdRoot creates the root command for wikimacro.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikimacro",
		Short: "Expand wiki macros to HTML",
		Long: `wikimacro expands [[Macro(args)]] calls in wiki text to HTML.

It ships the Image, Footnote, FileIndex and Twitter macros, resolves pages
and attachments through the wiki REST API or the site database, and can
serve expansion over HTTP.

Get started by running: wikimacro init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(verbose)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/wikimacro/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	// Set version template
	cmd.SetVersionTemplate(version.Get().String() + "\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(render.NewCmdRender())
	cmd.AddCommand(image.NewCmdImage())
	cmd.AddCommand(macrocmd.NewCmdMacro())
	cmd.AddCommand(attachment.NewCmdAttachment())
	cmd.AddCommand(serve.NewCmdServe())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	completion.RegisterFlagCompletions(cmd)

	return cmd
}

// setupLogging sends human readable logs to stderr. Warnings and above are
// shown unless verbose is set.
func setupLogging(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
