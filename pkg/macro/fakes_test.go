package macro

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSite = "https://hub.example.org"

// fakeStore is an in-memory Store.
type fakeStore struct {
	pages       map[int64]*Page
	attachments map[int64]*Attachment
	users       map[int64]*User
	listErr     error
	lastPrefix  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pages:       map[int64]*Page{},
		attachments: map[int64]*Attachment{},
		users:       map[int64]*User{},
	}
}

func (f *fakeStore) PageByTitle(_ context.Context, title string) (*Page, error) {
	for _, p := range f.pages {
		if p.Title == title {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) PageByID(_ context.Context, id int64) (*Page, error) {
	if p, ok := f.pages[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) AttachmentByID(_ context.Context, id int64) (*Attachment, error) {
	if a, ok := f.attachments[id]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) ListAttachments(_ context.Context, pageID int64, prefix string) ([]Attachment, error) {
	f.lastPrefix = prefix
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []Attachment
	for _, a := range f.attachments {
		if a.PageID != pageID {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(a.Filename), strings.ToLower(prefix)) {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UserByID(_ context.Context, id int64) (*User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

var errBackendDown = errors.New("backend down")

// newTestEnv returns an Env rooted at a temporary directory with page 7
// ("Photos", /wiki/Photos) registered.
func newTestEnv(t *testing.T) (*Env, *fakeStore, string) {
	t.Helper()
	dir := t.TempDir()
	store := newFakeStore()
	store.pages[7] = &Page{ID: 7, Title: "Photos", Link: "/wiki/Photos"}

	env := NewEnv(store, StorageConfig{RootPath: dir, AppPath: dir, FilePath: "/site/wiki"}, BaseRouter{Base: testSite})
	env.SiteURL = testSite
	env.Now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return env, store, dir
}

// writeFile creates dir/rel with size bytes of content.
func writeFile(t *testing.T, dir, rel string, size int) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, make([]byte, size), 0o644))
	return p
}

func photosPage() PageContext {
	return PageContext{Option: "com_wiki", PageName: "Photos", PageID: 7}
}
