// macro.go defines the macro registry and the collaborators macros render against.
package macro

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned by collaborators when a page, attachment or user does not exist.
var ErrNotFound = errors.New("not found")

// Page is a wiki page as seen by macros.
type Page struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"` // canonical route, e.g. /wiki/Main/Photos
}

// Attachment is a file attached to a wiki page.
type Attachment struct {
	ID          int64     `json:"id"`
	PageID      int64     `json:"pageId"`
	Filename    string    `json:"filename"`
	Description string    `json:"description,omitempty"`
	CreatedBy   int64     `json:"createdBy,omitempty"`
	Created     time.Time `json:"created,omitempty"`
}

// User is a site member.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PageResolver looks up wiki pages.
type PageResolver interface {
	PageByTitle(ctx context.Context, title string) (*Page, error)
	PageByID(ctx context.Context, id int64) (*Page, error)
}

// AttachmentResolver looks up a single attachment.
type AttachmentResolver interface {
	AttachmentByID(ctx context.Context, id int64) (*Attachment, error)
}

// AttachmentLister lists the attachments of a page whose filename starts
// with prefix (case-insensitive), oldest first.
type AttachmentLister interface {
	ListAttachments(ctx context.Context, pageID int64, prefix string) ([]Attachment, error)
}

// UserResolver looks up site members.
type UserResolver interface {
	UserByID(ctx context.Context, id int64) (*User, error)
}

// Store bundles every lookup a backend provides.
type Store interface {
	PageResolver
	AttachmentResolver
	AttachmentLister
	UserResolver
}

// FileSystem answers stat calls against attachment storage.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
}

// OSFileSystem is a FileSystem backed by the local disk.
type OSFileSystem struct{}

// Stat implements FileSystem.
func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Router turns a site path into a URL.
type Router interface {
	URL(path string) string
}

// RouterFunc adapts a function to Router.
type RouterFunc func(path string) string

// URL implements Router.
func (f RouterFunc) URL(path string) string { return f(path) }

// BaseRouter prefixes site paths with a base URL. Absolute URLs pass through.
type BaseRouter struct {
	Base string
}

// URL implements Router.
func (r BaseRouter) URL(path string) string {
	if absoluteURLPattern.MatchString(path) {
		return path
	}
	base := strings.TrimSuffix(r.Base, "/")
	if base == "" {
		return path
	}
	return base + "/" + strings.TrimPrefix(path, "/")
}

// StorageConfig locates attachment files on disk.
type StorageConfig struct {
	RootPath string // root for file specifiers starting with "/"
	AppPath  string // root for page attachment directories
	FilePath string // attachment directory below AppPath, e.g. /site/wiki
}

// DefaultFilePath is used when no attachment directory is configured.
const DefaultFilePath = "/site/wiki"

// UploadDir returns the attachment directory of a page relative to the site
// root, e.g. "site/wiki/7". filePath overrides the configured directory.
func (s StorageConfig) UploadDir(filePath string, pageID int64) string {
	if filePath == "" {
		filePath = s.FilePath
	}
	if filePath == "" {
		filePath = DefaultFilePath
	}
	return strings.Trim(filePath, "/") + "/" + strconv.FormatInt(pageID, 10)
}

// AttachmentPath returns where an attachment of pageID is stored on disk.
func (s StorageConfig) AttachmentPath(filePath string, pageID int64, filename string) string {
	return filepath.Join(s.AppPath, filepath.FromSlash(s.UploadDir(filePath, pageID)), filename)
}

// PageContext identifies the page a macro is being rendered on.
type PageContext struct {
	Option    string `json:"option,omitempty"` // component, e.g. com_wiki
	Scope     string `json:"scope,omitempty"`
	PageName  string `json:"pageName,omitempty"`
	PageID    int64  `json:"pageId,omitempty"` // negative for unsaved pages
	FilePath  string `json:"filePath,omitempty"`
	Printable bool   `json:"printable,omitempty"` // link raw paths instead of routes
}

// Env carries the collaborators macros render against.
type Env struct {
	Pages       PageResolver
	Attachments AttachmentResolver
	Lister      AttachmentLister
	Users       UserResolver
	Files       FileSystem
	Router      Router
	Storage     StorageConfig
	SiteURL     string
	Now         func() time.Time
}

// NewEnv builds an Env whose lookups are all served by store.
func NewEnv(store Store, storage StorageConfig, router Router) *Env {
	return &Env{
		Pages:       store,
		Attachments: store,
		Lister:      store,
		Users:       store,
		Files:       OSFileSystem{},
		Router:      router,
		Storage:     storage,
	}
}

func (e *Env) router() Router {
	if e.Router == nil {
		return BaseRouter{}
	}
	return e.Router
}

func (e *Env) files() FileSystem {
	if e.Files == nil {
		return OSFileSystem{}
	}
	return e.Files
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Call is a single macro invocation.
type Call struct {
	Name    string
	Args    string
	HasArgs bool
	Page    PageContext
}

// Macro renders one invocation to HTML. Failures that belong on the page are
// returned as diagnostic text, not errors.
type Macro interface {
	Render(ctx context.Context, call *Call) (string, error)
}

// MacroType describes a registered macro.
type MacroType struct {
	Name        string // canonical lowercase name
	Title       string // name as written in wiki text
	Description string
	New         func(env *Env, session *Session) Macro
}

// MacroRegistry maps macro names to their type definitions.
// Adding a new macro = adding one entry here.
var MacroRegistry = map[string]MacroType{
	"image": {
		Name:        "image",
		Title:       "Image",
		Description: "Embed an image. The first argument is the file specification (file, Page:file, attachment id or URL); the rest set size, alignment, link, caption and HTML attributes.",
		New:         func(env *Env, _ *Session) Macro { return NewImageMacro(env) },
	},
	"footnote": {
		Name:        "footnote",
		Title:       "Footnote",
		Description: "Add a footnote reference, or list collected footnotes when no arguments are given.",
		New:         func(_ *Env, s *Session) Macro { return NewFootnoteMacro(s.Footnotes) },
	},
	"fileindex": {
		Name:        "fileindex",
		Title:       "FileIndex",
		Description: "List the files attached to this page, optionally only those starting with a prefix.",
		New:         func(env *Env, _ *Session) Macro { return NewFileIndexMacro(env) },
	},
	"twitter": {
		Name:        "twitter",
		Title:       "Twitter",
		Description: "Embed a Twitter timeline for a screen name or widget id, optionally limited to N tweets.",
		New:         func(_ *Env, _ *Session) Macro { return NewTwitterMacro() },
	},
}

// LookupMacro returns the MacroType for a given name, normalizing to lowercase.
// Returns ok=false if macro is not registered.
func LookupMacro(name string) (MacroType, bool) {
	mt, ok := MacroRegistry[strings.ToLower(name)]
	return mt, ok
}

// RegisteredMacros returns the registered macro types sorted by name.
func RegisteredMacros() []MacroType {
	out := make([]MacroType, 0, len(MacroRegistry))
	for _, mt := range MacroRegistry {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Session holds state shared by the macros of one page render.
type Session struct {
	Footnotes *FootnoteSession
}

// NewSession returns an empty Session.
func NewSession() *Session {
	return &Session{Footnotes: NewFootnoteSession()}
}

// Reset discards all accumulated state.
func (s *Session) Reset() {
	s.Footnotes.Reset()
}
