// Package attachment provides attachment-related commands.
package attachment

import (
	"github.com/spf13/cobra"
)

// NewCmdAttachment creates the attachment command.
func NewCmdAttachment() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attachment",
		Aliases: []string{"attachments", "att"},
		Short:   "Inspect page attachments",
		Long:    `Commands for listing the files attached to wiki pages, as macros see them.`,
	}

	cmd.AddCommand(NewCmdList())

	return cmd
}
