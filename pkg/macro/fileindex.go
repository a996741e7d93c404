package macro

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// FileIndexMacro lists the files attached to the current page:
//
//	[[FileIndex]]
//	[[FileIndex(report)]]   # only files starting with "report"
type FileIndexMacro struct {
	env *Env
}

// NewFileIndexMacro returns a FileIndexMacro listing through env.
func NewFileIndexMacro(env *Env) *FileIndexMacro {
	return &FileIndexMacro{env: env}
}

// Render implements Macro. Lookup failures are returned as errors; an empty
// listing renders "(No <prefix> files to display)".
func (m *FileIndexMacro) Render(ctx context.Context, call *Call) (string, error) {
	prefix := strings.TrimSpace(tagPattern.ReplaceAllString(call.Args, ""))

	var rows []Attachment
	if m.env.Lister != nil {
		var err error
		rows, err = m.env.Lister.ListAttachments(ctx, call.Page.PageID, prefix)
		if err != nil {
			return "", fmt.Errorf("failed to list attachments: %w", err)
		}
	}

	if len(rows) == 0 {
		if prefix == "" {
			return "(No files to display)", nil
		}
		return "(No " + html.EscapeString(prefix) + " files to display)", nil
	}

	dir := m.env.Storage.UploadDir(call.Page.FilePath, call.Page.PageID)

	router := m.env.router()
	now := m.env.now()

	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, row := range rows {
		link := strings.TrimRight(m.env.SiteURL, "/") + "/" + dir + "/" + row.Filename
		fpath := m.env.Storage.AttachmentPath(call.Page.FilePath, call.Page.PageID, row.Filename)

		size := "-- file not found --"
		if info, err := m.env.files().Stat(fpath); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}

		sb.WriteString(`<li><a href="`)
		sb.WriteString(html.EscapeString(router.URL(link)))
		sb.WriteString(`">`)
		sb.WriteString(html.EscapeString(row.Filename))
		sb.WriteString(`</a> (`)
		sb.WriteString(size)
		sb.WriteString(`) `)

		if user := m.uploader(ctx, row.CreatedBy); user != nil {
			sb.WriteString(`- added by <a href="`)
			sb.WriteString(html.EscapeString(router.URL("/members/" + strconv.FormatInt(user.ID, 10))))
			sb.WriteString(`">`)
			sb.WriteString(html.EscapeString(user.Name))
			sb.WriteString(`</a> `)
		}
		if !row.Created.IsZero() {
			sb.WriteString(humanize.RelTime(row.Created, now, "ago", "from now"))
			sb.WriteString(`. `)
		}
		if row.Description != "" {
			sb.WriteString(`<span>"`)
			sb.WriteString(html.EscapeString(row.Description))
			sb.WriteString(`"</span>`)
		}
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</ul>")

	return sb.String(), nil
}

func (m *FileIndexMacro) uploader(ctx context.Context, id int64) *User {
	if id == 0 || m.env.Users == nil {
		return nil
	}
	user, err := m.env.Users.UserByID(ctx, id)
	if err != nil || user.ID == 0 {
		return nil
	}
	return user
}
