package macro

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileIndexMacro_Render(t *testing.T) {
	env, store, dir := newTestEnv(t)
	store.users[3] = &User{ID: 3, Name: "Jane Doe"}
	store.attachments[1] = &Attachment{
		ID:          1,
		PageID:      7,
		Filename:    "report.pdf",
		Description: "Quarterly",
		CreatedBy:   3,
		Created:     env.Now().Add(-2 * time.Hour),
	}
	store.attachments[2] = &Attachment{ID: 2, PageID: 7, Filename: "gone.zip"}
	writeFile(t, dir, "site/wiki/7/report.pdf", 2048)

	out, err := NewFileIndexMacro(env).Render(context.Background(), &Call{Page: photosPage()})
	require.NoError(t, err)

	want := `<ul>` +
		`<li><a href="https://hub.example.org/site/wiki/7/report.pdf">report.pdf</a> (2.0 kB) ` +
		`- added by <a href="https://hub.example.org/members/3">Jane Doe</a> 2 hours ago. <span>"Quarterly"</span></li>` + "\n" +
		`<li><a href="https://hub.example.org/site/wiki/7/gone.zip">gone.zip</a> (-- file not found --) </li>` + "\n" +
		`</ul>`
	assert.Equal(t, want, out)
}

func TestFileIndexMacro_Prefix(t *testing.T) {
	env, store, _ := newTestEnv(t)
	store.attachments[1] = &Attachment{ID: 1, PageID: 7, Filename: "report.pdf"}
	store.attachments[2] = &Attachment{ID: 2, PageID: 7, Filename: "photo.jpg"}

	out, err := NewFileIndexMacro(env).Render(context.Background(), &Call{Args: "<b>Report</b>", Page: photosPage()})
	require.NoError(t, err)
	assert.Equal(t, "Report", store.lastPrefix)
	assert.Contains(t, out, "report.pdf")
	assert.NotContains(t, out, "photo.jpg")
}

func TestFileIndexMacro_Empty(t *testing.T) {
	env, _, _ := newTestEnv(t)
	m := NewFileIndexMacro(env)

	out, err := m.Render(context.Background(), &Call{Page: photosPage()})
	require.NoError(t, err)
	assert.Equal(t, "(No files to display)", out)

	out, err = m.Render(context.Background(), &Call{Args: "draft", Page: photosPage()})
	require.NoError(t, err)
	assert.Equal(t, "(No draft files to display)", out)
}

func TestFileIndexMacro_ListError(t *testing.T) {
	env, store, _ := newTestEnv(t)
	store.listErr = errBackendDown

	_, err := NewFileIndexMacro(env).Render(context.Background(), &Call{Page: photosPage()})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBackendDown)
	assert.Contains(t, err.Error(), "failed to list attachments")
}
