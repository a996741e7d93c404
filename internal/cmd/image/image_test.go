package image

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wikimacro/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

func newTestOptions(args string) (*imageOptions, *bytes.Buffer) {
	var stdout bytes.Buffer
	return &imageOptions{
		args:     args,
		pageID:   7,
		pageName: "Photos",
		option:   "com_wiki",
		global:   cmdutil.GlobalOptions{NoColor: true},
		stdout:   &stdout,
	}, &stdout
}

func testEnv(t *testing.T) *macro.Env {
	return &macro.Env{
		Router:  macro.BaseRouter{Base: "https://hub.example.org"},
		Storage: macro.StorageConfig{AppPath: t.TempDir()},
	}
}

func TestRunImage_ExternalURL(t *testing.T) {
	opts, stdout := newTestOptions("https://cdn.example.org/logo.png, 64px")

	err := runImage(context.Background(), opts, testEnv(t))
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, `src="https://cdn.example.org/logo.png"`)
	assert.Contains(t, out, `style="width:64px"`)
}

func TestRunImage_MissingFileRendersFailure(t *testing.T) {
	opts, stdout := newTestOptions("missing.png")

	err := runImage(context.Background(), opts, testEnv(t))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "(Image(missing.png) failed - ")
}

func TestRunImage_JSON(t *testing.T) {
	opts, stdout := newTestOptions("https://cdn.example.org/logo.png")
	opts.global.Output = "json"

	err := runImage(context.Background(), opts, testEnv(t))
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Contains(t, out["html"], "<img ")
}

func TestRunImage_ExplainTable(t *testing.T) {
	opts, stdout := newTestOptions(`photo.jpg, 120px, right, class=thumb, desc="A pic"`)
	opts.explain = true

	// explain never touches the environment
	err := runImage(context.Background(), opts, nil)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "File: photo.jpg")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "120px")
	assert.Contains(t, out, `"A pic"`)
	assert.Contains(t, out, "Style: width:120px; float:right; margin-left:1em")
	assert.Contains(t, out, "Caption: A pic")
	assert.Contains(t, out, `Attributes: class="thumb"`)
}

func TestRunImage_ExplainJSON(t *testing.T) {
	opts, stdout := newTestOptions("logo.png, nofigure, link=Help:Images")
	opts.explain = true
	opts.global.Output = "json"

	err := runImage(context.Background(), opts, nil)
	require.NoError(t, err)

	var ex macro.ImageExplanation
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &ex))
	assert.Equal(t, "logo.png", ex.File)
	assert.True(t, ex.Model.NoFigure)
	assert.Equal(t, "none", ex.Model.Link)
}

func TestRunImage_ExplainPlain(t *testing.T) {
	opts, stdout := newTestOptions("logo.png, left")
	opts.explain = true
	opts.global.Output = "plain"

	err := runImage(context.Background(), opts, nil)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "File\tlogo.png\n")
	assert.Contains(t, out, "Alignment\tleft\n")
	assert.NotContains(t, out, "PASS")
}

func TestRunImage_InvalidOutputFormat(t *testing.T) {
	opts, _ := newTestOptions("logo.png")
	opts.explain = true
	opts.global.Output = "yaml"

	err := runImage(context.Background(), opts, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestJoinAttributes(t *testing.T) {
	assert.Equal(t, `class="thumb" id="hero"`, joinAttributes(map[string]string{"id": "hero", "class": "thumb"}))
}
