package dexport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/jdefrancesco/finddupes/internal/dfs"
	"github.com/jdefrancesco/finddupes/internal/dgroup"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGroups() []dgroup.Group {
	linked := dfs.NewDfile("/data/a", 500, dfs.FileID{Device: 7, Inode: 11}, 2)
	_ = linked.Merge(dfs.NewDfile("/data/a-link", 500, dfs.FileID{Device: 7, Inode: 11}, 2))

	return []dgroup.Group{
		{
			linked,
			dfs.NewDfile("/data/b", 500, dfs.FileID{Device: 7, Inode: 12}, 1),
		},
		{
			dfs.NewDfile("/data/<x>", 9, dfs.FileID{Device: 7, Inode: 20}, 1),
			dfs.NewDfile("/data/y", 9, dfs.FileID{Device: 7, Inode: 21}, 1),
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"json", "HTML", " csv ", "Tree"} {
		_, err := ParseFormat(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleGroups()))

	var decoded [][]exportFile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	require.Len(t, decoded[0], 2)

	assert.Equal(t, exportFile{
		Paths:  []string{"/data/a", "/data/a-link"},
		Size:   500,
		Device: 7,
		Inode:  11,
		Nlink:  2,
	}, decoded[0][0])
	assert.Equal(t, []string{"/data/y"}, decoded[1][1].Paths)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleGroups()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)

	assert.Equal(t, []string{"group", "size", "device", "inode", "nlink", "path"}, rows[0])
	assert.Equal(t, []string{"1", "500", "7", "11", "2", "/data/a"}, rows[1])
	assert.Equal(t, []string{"1", "500", "7", "11", "2", "/data/a-link"}, rows[2])
	assert.Equal(t, []string{"2", "9", "7", "21", "1", "/data/y"}, rows[5])
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleGroups()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<tr><td><p><code>/data/a</code>, <code>/data/a-link</code></p><p><code>/data/b</code></p></td><td>500</td></tr>")
	assert.Contains(t, out, "<code>/data/&lt;x&gt;</code>")
	assert.NotContains(t, out, "<x>")
	assert.Equal(t, 2, strings.Count(out, "<tr><td>"))
}

func TestWriteHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, nil))
	assert.Contains(t, buf.String(), "<tbody>\n</tbody>")
}

func TestWriteTree(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, sampleGroups()))
	out := buf.String()

	assert.Contains(t, out, "Group 1: 2 files of 500 B (500 B reclaimable)")
	assert.Contains(t, out, "/data/a-link")
	assert.Contains(t, out, "/data/<x>")

	buf.Reset()
	require.NoError(t, WriteTree(&buf, nil))
	assert.Equal(t, "No duplicates found.\n", buf.String())
}

func TestWriteDispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleGroups()))
	assert.True(t, strings.HasPrefix(buf.String(), "group,size"))

	assert.Error(t, Write(&buf, Format("yaml"), nil))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dupes.json")
	require.NoError(t, WriteFile(path, FormatJSON, sampleGroups()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestWriteFileRejectsDirectory(t *testing.T) {
	assert.Error(t, WriteFile(t.TempDir(), FormatJSON, nil))
	assert.Error(t, WriteFile("", FormatJSON, nil))
}

func TestWriteFileRefusesSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink handling differs on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.WriteFile(target, []byte("keep"), 0o600))
	link := filepath.Join(dir, "link.json")
	require.NoError(t, os.Symlink(target, link))

	assert.Error(t, WriteFile(link, FormatJSON, nil))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}
