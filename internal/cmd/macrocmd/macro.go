// Package macrocmd provides commands describing the registered macros.
package macrocmd

import (
	"github.com/spf13/cobra"
)

// NewCmdMacro creates the macro command.
func NewCmdMacro() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "macro",
		Aliases: []string{"macros"},
		Short:   "Inspect available macros",
		Long:    `Commands for inspecting the macros wikimacro can expand.`,
	}

	cmd.AddCommand(NewCmdList())

	return cmd
}
