// Package completion provides shell completion generation commands.
package completion

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikimacro/internal/view"
)

type shell struct {
	name    string
	install string
	gen     func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name: "bash",
		install: `  # Load in current session
  source <(wikimacro completion bash)

  # Install permanently (Linux)
  wikimacro completion bash | sudo tee /etc/bash_completion.d/wikimacro > /dev/null`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletion(w) },
	},
	{
		name: "zsh",
		install: `  # Load in current session
  source <(wikimacro completion zsh)

  # Install permanently (requires "autoload -Uz compinit && compinit" in ~/.zshrc)
  wikimacro completion zsh > "${fpath[1]}/_wikimacro"`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		name: "fish",
		install: `  # Load in current session
  wikimacro completion fish | source

  # Install permanently
  wikimacro completion fish > ~/.config/fish/completions/wikimacro.fish`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		name: "powershell",
		install: `  # Load in current session
  wikimacro completion powershell | Out-String | Invoke-Expression

  # Install permanently: add the line above to your $PROFILE`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for wikimacro.

These scripts enable tab-completion for commands, flags, and arguments.
See each sub-command's help for installation instructions.`,
	}

	for _, sh := range shells {
		cmd.AddCommand(newShellCmd(sh))
	}

	return cmd
}

func newShellCmd(sh shell) *cobra.Command {
	return &cobra.Command{
		Use:                   sh.name,
		Short:                 "Generate " + sh.name + " completion script",
		Long:                  "Generate " + sh.name + " completion script for wikimacro.",
		Example:               sh.install,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sh.gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// RegisterFlagCompletions completes the values of the global --output flag
// and of every --option flag below root.
func RegisterFlagCompletions(root *cobra.Command) {
	_ = root.RegisterFlagCompletionFunc("output", fixed(view.ValidFormats()...))

	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		if cmd.Flags().Lookup("option") != nil {
			_ = cmd.RegisterFlagCompletionFunc("option", fixed("com_wiki", "com_groups", "com_projects"))
		}
		if cmd.Flags().Lookup("backend") != nil {
			_ = cmd.RegisterFlagCompletionFunc("backend", fixed("api", "postgres"))
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}

func fixed(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
