package render

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wikimacro/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

func newTestOptions(input string) (*renderOptions, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &renderOptions{
		pageID:   7,
		pageName: "Photos",
		option:   "com_wiki",
		global:   cmdutil.GlobalOptions{NoColor: true},
		stdin:    strings.NewReader(input),
		stdout:   &stdout,
		stderr:   &stderr,
	}, &stdout, &stderr
}

func testEnv() *macro.Env {
	return &macro.Env{Router: macro.BaseRouter{Base: "https://hub.example.org"}}
}

func TestRunRender_Footnotes(t *testing.T) {
	opts, stdout, stderr := newTestOptions("Text[[Footnote(a note)]]\n[[Footnote]]")

	err := runRender(context.Background(), opts, testEnv())
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, `<sup id="fndef-1"`)
	assert.Contains(t, out, `<ol class="footnotes">`)
	assert.Contains(t, out, "a note</li>")
	assert.Empty(t, stderr.String())
}

func TestRunRender_UnknownMacroWarns(t *testing.T) {
	opts, stdout, stderr := newTestOptions("a [[Bogus(x)]] b")

	err := runRender(context.Background(), opts, testEnv())
	require.NoError(t, err)

	assert.Equal(t, "a [[Bogus(x)]] b\n", stdout.String())
	assert.Contains(t, stderr.String(), "unknown macro: Bogus")
}

func TestRunRender_JSONOutput(t *testing.T) {
	opts, stdout, _ := newTestOptions("[[Twitter(nasa, 3)]] [[Bogus]]")
	opts.global.Output = "json"

	err := runRender(context.Background(), opts, testEnv())
	require.NoError(t, err)

	var out renderOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Contains(t, out.HTML, `data-screen-name="nasa"`)
	assert.Contains(t, out.HTML, "[[Bogus]]")
	assert.Equal(t, []string{"unknown macro: Bogus"}, out.Warnings)
	assert.Empty(t, out.Markdown)
}

func TestRunRender_Markdown(t *testing.T) {
	opts, stdout, _ := newTestOptions("<p>Read[[Footnote(more)]]</p>")
	opts.markdown = true

	err := runRender(context.Background(), opts, testEnv())
	require.NoError(t, err)

	out := stdout.String()
	assert.NotContains(t, out, "<p>")
	assert.Contains(t, out, "Read")
}

func TestRunRender_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0600))

	opts, stdout, _ := newTestOptions("")
	opts.file = path

	err := runRender(context.Background(), opts, testEnv())
	require.NoError(t, err)
	assert.Equal(t, "plain text\n", stdout.String())
}

func TestRunRender_MissingFile(t *testing.T) {
	opts, _, _ := newTestOptions("")
	opts.file = filepath.Join(t.TempDir(), "missing.txt")

	err := runRender(context.Background(), opts, testEnv())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestRunRender_InvalidOutputFormat(t *testing.T) {
	opts, _, _ := newTestOptions("x")
	opts.global.Output = "xml"

	err := runRender(context.Background(), opts, testEnv())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestRunRender_MissingConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, v := range []string{"WIKIMACRO_URL", "WIKIMACRO_EMAIL", "WIKIMACRO_API_TOKEN", "WIKIMACRO_BACKEND", "WIKIMACRO_APP_PATH"} {
		t.Setenv(v, "")
	}

	opts, _, _ := newTestOptions("x")
	err := runRender(context.Background(), opts, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wikimacro init")
}

func TestPageContextFromFlags(t *testing.T) {
	opts := &renderOptions{
		pageID:    -3,
		pageName:  "Draft",
		scope:     "groups/team",
		option:    "com_groups",
		filePath:  "/uploads",
		printable: true,
	}

	assert.Equal(t, macro.PageContext{
		Option:    "com_groups",
		Scope:     "groups/team",
		PageName:  "Draft",
		PageID:    -3,
		FilePath:  "/uploads",
		Printable: true,
	}, opts.page())
}

func TestNewCmdRender_Flags(t *testing.T) {
	cmd := NewCmdRender()

	option := cmd.Flags().Lookup("option")
	require.NotNil(t, option)
	assert.Equal(t, "com_wiki", option.DefValue)

	for _, name := range []string{"page-id", "page-name", "scope", "printable", "markdown", "file-path"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
