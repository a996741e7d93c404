// Package image provides the image command, which renders a single Image
// macro or explains how its arguments parse.
package image

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikimacro/internal/backend"
	"github.com/open-cli-collective/wikimacro/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wikimacro/internal/view"
	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

type imageOptions struct {
	args      string
	pageID    int64
	pageName  string
	scope     string
	option    string
	printable bool
	explain   bool

	global cmdutil.GlobalOptions
	stdout io.Writer
}

// NewCmdImage creates the image command.
func NewCmdImage() *cobra.Command {
	opts := &imageOptions{}

	cmd := &cobra.Command{
		Use:   "image <args>",
		Short: "Render one Image macro",
		Long: `Render the arguments of an [[Image(...)]] call to HTML.

With --explain the arguments are only parsed: the scanned tokens and the
resolved attribute model are printed and no file lookup is made.`,
		Example: `  # Render an attachment of page 42
  wikimacro image 'photo.jpg, 120px, right' --page-id 42 --page-name Photos

  # Show how arguments are understood
  wikimacro image 'photo.jpg, width=50%, link=Help:Images, desc="Hi"' --explain

  # Explain as JSON
  wikimacro image 'logo.png, nofigure' --explain -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.args = args[0]
			opts.global = cmdutil.Globals(cmd)
			opts.stdout = cmd.OutOrStdout()
			return runImage(cmd.Context(), opts, nil)
		},
	}

	cmd.Flags().Int64Var(&opts.pageID, "page-id", 0, "ID of the page the image is on")
	cmd.Flags().StringVar(&opts.pageName, "page-name", "", "Name of the page the image is on")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "Scope of the page")
	cmd.Flags().StringVar(&opts.option, "option", "com_wiki", "Component that owns the page")
	cmd.Flags().BoolVar(&opts.printable, "printable", false, "Link raw file paths instead of routes")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Print tokens and attributes instead of HTML")

	return cmd
}

func runImage(ctx context.Context, opts *imageOptions, env *macro.Env) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.stdout == nil {
		opts.stdout = os.Stdout
	}

	renderer, err := opts.global.Renderer()
	if err != nil {
		return err
	}
	renderer.SetWriter(opts.stdout)

	if opts.explain {
		return renderExplanation(renderer, macro.ExplainImage(opts.args))
	}

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

	page := macro.PageContext{
		Option:    opts.option,
		Scope:     opts.scope,
		PageName:  opts.pageName,
		PageID:    opts.pageID,
		Printable: opts.printable,
	}
	out, err := macro.NewExpander(env).RenderMacro(ctx, "image", opts.args, page)
	if err != nil {
		return fmt.Errorf("failed to render image: %w", err)
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(map[string]string{"html": out})
	}
	renderer.RenderText(out)
	return nil
}

func renderExplanation(r *view.Renderer, ex *macro.ImageExplanation) error {
	if r.Format() == view.FormatJSON {
		return r.RenderJSON(ex)
	}

	r.RenderKeyValue("File", ex.File)

	if len(ex.Tokens) > 0 {
		if r.Format() == view.FormatTable {
			r.RenderText("")
		}
		headers := []string{"PASS", "KIND", "KEY", "VALUE", "OFFSET"}
		rows := make([][]string, 0, len(ex.Tokens))
		for _, t := range ex.Tokens {
			value := t.Value
			if t.Quoted {
				value = strconv.Quote(value)
			}
			rows = append(rows, []string{strconv.Itoa(t.Pass), t.Kind, t.Key, value, strconv.Itoa(t.Offset)})
		}
		r.RenderTable(headers, rows)
	}

	if r.Format() == view.FormatTable {
		r.RenderText("")
	}
	m := ex.Model
	kv := [][2]string{
		{"Size", m.Size},
		{"Alignment", m.Alignment},
		{"Style", m.Style},
		{"Link", m.Link},
		{"Link Target", m.LinkTarget},
	}
	if m.Caption != nil {
		kv = append(kv, [2]string{"Caption", *m.Caption})
	}
	if m.NoFigure {
		kv = append(kv, [2]string{"No Figure", "true"})
	}
	if len(m.Attributes) > 0 {
		kv = append(kv, [2]string{"Attributes", joinAttributes(m.Attributes)})
	}
	for _, pair := range kv {
		if pair[1] == "" {
			continue
		}
		r.RenderKeyValue(pair[0], pair[1])
	}
	return nil
}

func joinAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strconv.Quote(attrs[k]))
	}
	return strings.Join(parts, " ")
}
