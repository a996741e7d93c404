package attachment

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikimacro/internal/backend"
	"github.com/open-cli-collective/wikimacro/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wikimacro/internal/view"
	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

type listOptions struct {
	pageID   int64
	prefix   string
	filePath string
	limit    int
	unusedIn string

	global cmdutil.GlobalOptions
	stdout io.Writer
	stderr io.Writer
}

// NewCmdList creates the attachment list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List attachments on a page",
		Long: `List the files attached to a page, oldest first, with their size on disk.

This is the listing the FileIndex macro renders.`,
		Example: `  # List attachments on a page
  wikimacro attachment list --page 42

  # Only files starting with "report"
  wikimacro attachment list --page 42 --prefix report

  # List attachments not referenced by the given wiki text
  wikimacro attachment list --page 42 --unused-in page.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.global = cmdutil.Globals(cmd)
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			return runList(cmd.Context(), opts, nil)
		},
	}

	cmd.Flags().Int64VarP(&opts.pageID, "page", "p", 0, "Page ID (required)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "Only list files whose name starts with this prefix")
	cmd.Flags().StringVar(&opts.filePath, "file-path", "", "Override the configured upload directory")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 0, "Maximum number of attachments to show (0 for all)")
	cmd.Flags().StringVar(&opts.unusedIn, "unused-in", "", "Show only attachments not referenced by the wiki text in this file")

	_ = cmd.MarkFlagRequired("page")

	return cmd
}

func runList(ctx context.Context, opts *listOptions, env *macro.Env) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.stdout == nil {
		opts.stdout = os.Stdout
	}
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}

	// Validate output format
	renderer, err := opts.global.Renderer()
	if err != nil {
		return err
	}
	renderer.SetWriter(opts.stdout)

	var content string
	if opts.unusedIn != "" {
		data, err := os.ReadFile(opts.unusedIn)
		if err != nil {
			return fmt.Errorf("failed to read page content: %w", err)
		}
		content = string(data)
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

	attachments, err := env.Lister.ListAttachments(ctx, opts.pageID, opts.prefix)
	if err != nil {
		return fmt.Errorf("failed to list attachments: %w", err)
	}

	// Filter to unused attachments if requested
	if opts.unusedIn != "" {
		attachments = filterUnusedAttachments(attachments, content)
	}

	truncated := false
	if opts.limit > 0 && len(attachments) > opts.limit {
		attachments = attachments[:opts.limit]
		truncated = true
	}

	// Handle empty result for non-JSON output
	if len(attachments) == 0 && renderer.Format() != view.FormatJSON {
		if opts.unusedIn != "" {
			renderer.RenderText("No unused attachments found.")
		} else {
			renderer.RenderText("No attachments found.")
		}
		return nil
	}

	files := env.Files
	if files == nil {
		files = macro.OSFileSystem{}
	}
	now := time.Now()
	if env.Now != nil {
		now = env.Now()
	}

	headers := []string{"ID", "Filename", "Size", "Created", "Description"}
	rows := make([][]string, 0, len(attachments))
	for _, att := range attachments {
		size := "-"
		if info, err := files.Stat(env.Storage.AttachmentPath(opts.filePath, opts.pageID, att.Filename)); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		created := "-"
		if !att.Created.IsZero() {
			created = humanize.RelTime(att.Created, now, "ago", "from now")
		}
		rows = append(rows, []string{strconv.FormatInt(att.ID, 10), att.Filename, size, created, att.Description})
	}

	renderer.RenderTable(headers, rows)

	if truncated && renderer.Format() != view.FormatJSON {
		fmt.Fprintf(opts.stderr, "\n(showing first %d results, use --limit to see more)\n", len(attachments))
	}

	return nil
}

// filterUnusedAttachments returns attachments that are not referenced in the wiki text.
func filterUnusedAttachments(attachments []macro.Attachment, content string) []macro.Attachment {
	refs := imageReferences(content)

	var unused []macro.Attachment
	for _, att := range attachments {
		if !isAttachmentReferenced(att, refs, content) {
			unused = append(unused, att)
		}
	}
	return unused
}

// imageReferences collects the file specifications of every Image call:
// attachment ids as written and file names without their page prefix.
func imageReferences(content string) map[string]bool {
	refs := map[string]bool{}
	tokens, err := macro.TokenizeWiki(content)
	if err != nil {
		return refs
	}
	for _, tok := range tokens {
		if tok.Type != macro.WikiTokenCall || tok.MacroName != "image" {
			continue
		}
		spec, _ := macro.SplitFileSpec(tok.Args)
		if macro.IsExternalURL(spec) {
			continue
		}
		if i := strings.LastIndex(spec, ":"); i >= 0 {
			spec = spec[i+1:]
		}
		refs[spec] = true
	}
	return refs
}

// isAttachmentReferenced checks whether an attachment is used by an Image
// call or mentioned by name, e.g. in a link.
func isAttachmentReferenced(att macro.Attachment, refs map[string]bool, content string) bool {
	if refs[att.Filename] || refs[strconv.FormatInt(att.ID, 10)] {
		return true
	}

	// Check for URL-encoded filename in href (e.g., spaces become %20)
	if strings.Contains(content, url.PathEscape(att.Filename)) {
		return true
	}

	// Check for plain filename reference (fallback)
	return strings.Contains(content, att.Filename)
}
