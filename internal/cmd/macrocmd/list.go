package macrocmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikimacro/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wikimacro/internal/view"
	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

type listOptions struct {
	global cmdutil.GlobalOptions
	stdout io.Writer
}

// NewCmdList creates the macro list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered macros",
		Example: `  # List macros
  wikimacro macro list

  # As JSON
  wikimacro macro list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.global = cmdutil.Globals(cmd)
			opts.stdout = cmd.OutOrStdout()
			return runList(opts)
		},
	}

	return cmd
}

func runList(opts *listOptions) error {
	renderer, err := opts.global.Renderer()
	if err != nil {
		return err
	}
	if opts.stdout == nil {
		opts.stdout = os.Stdout
	}
	renderer.SetWriter(opts.stdout)

	headers := []string{"Name", "Title", "Description"}
	var rows [][]string
	for _, mt := range macro.RegisteredMacros() {
		description := mt.Description
		if renderer.Format() == view.FormatTable {
			description = view.Truncate(description, 72)
		}
		rows = append(rows, []string{mt.Name, mt.Title, description})
	}

	renderer.RenderTable(headers, rows)
	return nil
}
