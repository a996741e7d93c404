package macrocmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wikimacro/internal/cmd/cmdutil"
)

func TestRunList_Table(t *testing.T) {
	var stdout bytes.Buffer
	opts := &listOptions{global: cmdutil.GlobalOptions{NoColor: true}, stdout: &stdout}

	require.NoError(t, runList(opts))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Name       Title"))
	assert.True(t, strings.HasPrefix(lines[1], "fileindex  FileIndex"))
	assert.True(t, strings.HasPrefix(lines[2], "footnote   Footnote"))
	assert.True(t, strings.HasPrefix(lines[3], "image      Image"))
	assert.True(t, strings.HasPrefix(lines[4], "twitter    Twitter"))
}

func TestRunList_JSON(t *testing.T) {
	var stdout bytes.Buffer
	opts := &listOptions{global: cmdutil.GlobalOptions{Output: "json", NoColor: true}, stdout: &stdout}

	require.NoError(t, runList(opts))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, "fileindex", rows[0]["name"])
	assert.Equal(t, "FileIndex", rows[0]["title"])
	// descriptions are not truncated outside table output
	assert.NotContains(t, rows[2]["description"], "...")
}

func TestRunList_Plain(t *testing.T) {
	var stdout bytes.Buffer
	opts := &listOptions{global: cmdutil.GlobalOptions{Output: "plain"}, stdout: &stdout}

	require.NoError(t, runList(opts))
	assert.True(t, strings.HasPrefix(stdout.String(), "fileindex\tFileIndex\t"))
}

func TestRunList_InvalidFormat(t *testing.T) {
	opts := &listOptions{global: cmdutil.GlobalOptions{Output: "csv"}}
	assert.Error(t, runList(opts))
}
