// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage wikimacro configuration",
		Long:  `Commands for viewing, testing, and clearing wikimacro configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

// envVars lists every environment variable that overrides the config file.
var envVars = []string{
	"WIKIMACRO_BACKEND", "WIKIMACRO_URL", "WIKIMACRO_EMAIL", "WIKIMACRO_API_TOKEN",
	"WIKIMACRO_DATABASE_URL", "DATABASE_URL", "WIKIMACRO_SITE_URL", "WIKIMACRO_LISTEN_ADDR",
	"WIKIMACRO_ROOT_PATH", "WIKIMACRO_APP_PATH", "WIKIMACRO_FILE_PATH",
}
