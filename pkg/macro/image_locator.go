// image_locator.go resolves Image macro file specifications to storage paths and links.
package macro

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// imageExtensions are the file extensions the Image macro will embed.
var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "jpe": true, "bmp": true, "tif": true, "tiff": true,
	"png": true, "gif": true, "jpeg2": true, "jpe2": true, "jp2": true, "jpg2": true,
	"svg": true,
}

var (
	attachmentIDPattern = regexp.MustCompile(`^[0-9]+$`)
	// A URL preceded by any character other than =, " or '
	linkURLPattern = regexp.MustCompile(`[^="'](https?:|mailto:|ftp:|gopher:|feed:|news:|file:)([^ |/"']*/)*([^ |\t\n/"']*[A-Za-z0-9/?=&~_])`)
)

// ResolvedResource is the outcome of locating a file specification.
type ResolvedResource struct {
	File        string // filename to embed; the attachment filename for numeric ids
	Path        string // primary storage path
	AltPath     string // storage path with the numeric directory normalized
	DisplayLink string // URL placed in src and the default href
	Exists      bool
	External    bool   // absolute URL, not checked on disk
	Description string // attachment description, if any
	PageID      int64  // page the file belongs to
}

// Locator resolves Image file specifications against an Env.
type Locator struct {
	env *Env
}

// NewLocator returns a Locator using env's collaborators.
func NewLocator(env *Env) *Locator {
	return &Locator{env: env}
}

// Locate resolves spec for the page described by pc.
//
// Numeric specifiers are attachment ids, absolute URLs are accepted as
// is, and "Page:file" resolves the file on another page. A file exists when
// either its primary or its alternate storage path exists.
func (l *Locator) Locate(ctx context.Context, spec string, pc PageContext) (*ResolvedResource, error) {
	spec = strings.TrimSpace(spec)
	res := &ResolvedResource{File: spec, PageID: pc.PageID}
	var page *Page

	switch {
	case attachmentIDPattern.MatchString(spec):
		att, err := l.attachment(ctx, spec)
		if err != nil {
			return nil, err
		}
		res.File = att.Filename
		res.Description = att.Description
		if att.PageID != 0 {
			res.PageID = att.PageID
		}
		if err := l.checkExists(res, pc); err != nil {
			return nil, err
		}

	case absoluteURLPattern.MatchString(spec):
		res.External = true
		res.Exists = true

	default:
		if i := strings.LastIndex(spec, ":"); i >= 0 {
			title, file := spec[:i], spec[i+1:]
			if title != "" {
				p, err := l.pageByTitle(ctx, title)
				if err != nil {
					return nil, err
				}
				page = p
				res.PageID = p.ID
			}
			res.File = file
		}
		if err := l.checkExists(res, pc); err != nil {
			return nil, err
		}
	}

	if !AllowedImage(res.File) {
		return nil, fmt.Errorf("%s: %w", res.File, ErrUnsupportedType)
	}

	res.DisplayLink = l.link(ctx, res.File, res.PageID, page, pc)
	return res, nil
}

// AllowedImage reports whether name has an embeddable image extension.
// For URLs only the path component is considered.
func AllowedImage(name string) bool {
	p := name
	if absoluteURLPattern.MatchString(name) {
		if u, err := url.Parse(name); err == nil {
			p = u.Path
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	return imageExtensions[ext]
}

func (l *Locator) attachment(ctx context.Context, spec string) (*Attachment, error) {
	id, err := strconv.ParseInt(spec, 10, 64)
	if err != nil || l.env.Attachments == nil {
		return nil, fmt.Errorf("attachment %s: %w", spec, ErrResourceNotFound)
	}
	att, err := l.env.Attachments.AttachmentByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Int64("attachment", id).Msg("attachment lookup failed")
		}
		return nil, fmt.Errorf("attachment %d: %w", id, ErrResourceNotFound)
	}
	if att.Filename == "" {
		return nil, fmt.Errorf("attachment %d has no file: %w", id, ErrResourceNotFound)
	}
	return att, nil
}

func (l *Locator) pageByTitle(ctx context.Context, title string) (*Page, error) {
	if l.env.Pages == nil {
		return nil, fmt.Errorf("page %q: %w", title, ErrPageNotFound)
	}
	p, err := l.env.Pages.PageByTitle(ctx, title)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("title", title).Msg("page lookup failed")
		}
		return nil, fmt.Errorf("page %q: %w", title, ErrPageNotFound)
	}
	return p, nil
}

// checkExists stats the primary then the alternate path. Neither is retried.
func (l *Locator) checkExists(res *ResolvedResource, pc PageContext) error {
	res.Path = l.path(res.File, res.PageID, pc, false)
	res.AltPath = l.path(res.File, res.PageID, pc, true)

	files := l.env.files()
	if _, err := files.Stat(res.Path); err == nil {
		res.Exists = true
		return nil
	}
	if res.AltPath != res.Path {
		if _, err := files.Stat(res.AltPath); err == nil {
			res.Exists = true
			return nil
		}
	}
	return fmt.Errorf("%s: %w", res.File, ErrResourceNotFound)
}

// path builds the storage path of file. Rooted files live under RootPath;
// everything else under AppPath/<file path>/<page id>/. With alt set, the
// first numeric directory of the file path is normalized.
func (l *Locator) path(file string, pageID int64, pc PageContext, alt bool) string {
	if strings.HasPrefix(file, "/") {
		return filepath.Join(l.env.Storage.RootPath, filepath.FromSlash(file))
	}

	fp := pc.FilePath
	if fp == "" {
		fp = l.env.Storage.FilePath
	}
	if fp == "" {
		fp = DefaultFilePath
	}
	if alt {
		fp = NormalizeNumericSegment(fp)
	}

	parts := []string{l.env.Storage.AppPath, strings.Trim(fp, "/")}
	if pageID != 0 {
		parts = append(parts, strconv.FormatInt(pageID, 10))
	}
	parts = append(parts, file)
	return filepath.Join(parts...)
}

// NormalizeNumericSegment strips leading zeros from the first all-digit
// segment of a slash separated path: "/site/wiki/0042" -> "/site/wiki/42".
func NormalizeNumericSegment(p string) string {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		if seg == "" || !attachmentIDPattern.MatchString(seg) {
			continue
		}
		trimmed := strings.TrimLeft(seg, "0")
		if trimmed == "" {
			trimmed = "0"
		}
		segs[i] = trimmed
		break
	}
	return strings.Join(segs, "/")
}

// link builds the URL for file. It does not depend on existence.
func (l *Locator) link(ctx context.Context, file string, pageID int64, page *Page, pc PageContext) string {
	if absoluteURLPattern.MatchString(file) || linkURLPattern.MatchString(file) || strings.HasPrefix(file, "/") {
		return file
	}

	file = strings.Trim(file, "/")

	if pc.Printable {
		return l.path(file, pageID, pc, false)
	}

	router := l.env.router()
	if pageID < 0 {
		// Unsaved page: no canonical route exists yet.
		return router.URL("/app/site/wiki/" + strconv.FormatInt(pageID, 10) + "/" + file)
	}

	var link string
	if pageID > 0 {
		if page == nil && l.env.Pages != nil {
			p, err := l.env.Pages.PageByID(ctx, pageID)
			if err != nil {
				log.Warn().Err(err).Int64("page", pageID).Msg("page lookup failed, linking by scope")
			} else {
				page = p
			}
		}
		if page != nil {
			link = page.Link
		}
	}
	if link == "" {
		link = scopeLink(pc)
	}

	link = strings.TrimRight(link, "/") + "/Image:" + file
	return router.URL(link)
}

// scopeLink builds /<component>/<scope>/<page name> for pages without an id.
func scopeLink(pc PageContext) string {
	link := "/" + strings.TrimPrefix(pc.Option, "com_") + "/"
	if scope := strings.Trim(pc.Scope, "/"); scope != "" {
		link += scope + "/"
	}
	return link + pc.PageName
}
