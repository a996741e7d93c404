// Package render provides the render command, which expands the macros in a
// piece of wiki text.
package render

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikimacro/internal/backend"
	"github.com/open-cli-collective/wikimacro/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wikimacro/internal/view"
	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

type renderOptions struct {
	file      string
	pageID    int64
	pageName  string
	scope     string
	option    string
	filePath  string
	printable bool
	markdown  bool

	global cmdutil.GlobalOptions
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// renderOutput is the JSON form of a render.
type renderOutput struct {
	HTML     string   `json:"html"`
	Markdown string   `json:"markdown,omitempty"`
	Warnings []string `json:"warnings"`
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Expand macros in wiki text",
		Long: `Expand the [[Macro(args)]] calls in wiki text to HTML.

The text is read from the given file, or from stdin when the file is "-" or
omitted. Page, attachment and member lookups go through the configured backend.`,
		Example: `  # Render a page body
  wikimacro render page.txt --page-id 42 --page-name Photos

  # Render from stdin and preview as markdown
  echo '[[Image(logo.png, 120px, right)]]' | wikimacro render --page-id 42 --markdown

  # Render with printable links
  wikimacro render page.txt --page-id 42 --printable`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.file = args[0]
			}
			opts.global = cmdutil.Globals(cmd)
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			return runRender(cmd.Context(), opts, nil)
		},
	}

	cmd.Flags().Int64Var(&opts.pageID, "page-id", 0, "ID of the page being rendered (negative for unsaved pages)")
	cmd.Flags().StringVar(&opts.pageName, "page-name", "", "Name of the page being rendered")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "Scope of the page, e.g. groups/team")
	cmd.Flags().StringVar(&opts.option, "option", "com_wiki", "Component that owns the page")
	cmd.Flags().StringVar(&opts.filePath, "file-path", "", "Override the configured upload directory")
	cmd.Flags().BoolVar(&opts.printable, "printable", false, "Link raw file paths instead of routes")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Print the result as markdown")

	return cmd
}

func (o *renderOptions) page() macro.PageContext {
	return macro.PageContext{
		Option:    o.option,
		Scope:     o.scope,
		PageName:  o.pageName,
		PageID:    o.pageID,
		FilePath:  o.filePath,
		Printable: o.printable,
	}
}

func runRender(ctx context.Context, opts *renderOptions, env *macro.Env) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.stdout == nil {
		opts.stdout = os.Stdout
	}
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}

	renderer, err := opts.global.Renderer()
	if err != nil {
		return err
	}
	renderer.SetWriter(opts.stdout)

	input, err := readInput(opts.file, opts.stdin)
	if err != nil {
		return err
	}

	// Create the environment if not provided (allows injection for testing)
	if env == nil {
		cfg, err := cmdutil.LoadConfig(opts.global.Path())
		if err != nil {
			return err
		}
		var store backend.Backend
		env, store, err = cmdutil.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	result, err := macro.NewExpander(env).Expand(ctx, input, opts.page())
	if err != nil {
		return fmt.Errorf("failed to expand macros: %w", err)
	}

	out := renderOutput{HTML: result.HTML(), Warnings: result.Warnings}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	if opts.markdown {
		out.Markdown, err = macro.ToMarkdown(out.HTML)
		if err != nil {
			return fmt.Errorf("failed to convert to markdown: %w", err)
		}
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(out)
	}

	if opts.markdown {
		renderer.RenderText(out.Markdown)
	} else {
		renderer.RenderText(out.HTML)
	}

	if len(out.Warnings) > 0 {
		warn := view.NewRenderer(renderer.Format(), opts.global.NoColor)
		warn.SetWriter(opts.stderr)
		for _, w := range out.Warnings {
			warn.Warning(w)
		}
	}
	return nil
}

func readInput(file string, stdin io.Reader) (string, error) {
	if file == "" || file == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), nil
}
