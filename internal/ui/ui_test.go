package ui

import (
	"os"
	"strings"
	"testing"

	"github.com/jdefrancesco/finddupes/internal/dfs"
	"github.com/jdefrancesco/finddupes/internal/dgroup"
	"github.com/jdefrancesco/finddupes/internal/dsklog"

	tea "github.com/charmbracelet/bubbletea"
)

func TestMain(m *testing.M) {
	dsklog.InitializeDlogger(os.DevNull)
	os.Exit(m.Run())
}

func testGroups() []dgroup.Group {
	linked := dfs.NewDfile("/a/one", 10, dfs.FileID{Device: 1, Inode: 1}, 2)
	_ = linked.Merge(dfs.NewDfile("/a/one-link", 10, dfs.FileID{Device: 1, Inode: 1}, 2))

	return []dgroup.Group{
		{linked, dfs.NewDfile("/a/two", 10, dfs.FileID{Device: 1, Inode: 2}, 1)},
		{
			dfs.NewDfile("/b/big1", 1000, dfs.FileID{Device: 1, Inode: 3}, 1),
			dfs.NewDfile("/b/big2", 1000, dfs.FileID{Device: 1, Inode: 4}, 1),
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *model, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func TestNewModelSortsAndCollapses(t *testing.T) {
	m := newModel(testGroups())

	if len(m.rows) != 2 {
		t.Fatalf("expected 2 collapsed rows, got %d", len(m.rows))
	}
	if m.groups[0].Size != 1000 {
		t.Fatalf("expected the group with most reclaimable space first, got size %d", m.groups[0].Size)
	}
	if got := len(m.groups[1].Files); got != 3 {
		t.Fatalf("expected hard links listed as separate paths, got %d", got)
	}
	if !m.groups[1].Files[1].Link {
		t.Fatalf("expected second path of a linked file to be marked as a link")
	}
}

func TestExpandCollapse(t *testing.T) {
	m := newModel(testGroups())

	press(m, "enter")
	if len(m.rows) != 4 {
		t.Fatalf("expected 4 rows after expanding first group, got %d", len(m.rows))
	}

	press(m, "down", "enter")
	if len(m.rows) != 2 || m.cursor != 0 {
		t.Fatalf("collapsing from a file row: rows=%d cursor=%d", len(m.rows), m.cursor)
	}

	press(m, "e")
	if len(m.rows) != 7 {
		t.Fatalf("expected every path visible, got %d rows", len(m.rows))
	}
	press(m, "c")
	if len(m.rows) != 2 {
		t.Fatalf("expected everything collapsed, got %d rows", len(m.rows))
	}
}

func TestSortToggle(t *testing.T) {
	m := newModel(testGroups())
	press(m, "s")

	if m.sortMode != sortByCount {
		t.Fatalf("expected sort by count, got %v", m.sortMode)
	}
	if m.groups[0].Files[0].Path != "/a/one" {
		t.Fatalf("expected the group with more paths first, got %s", m.groups[0].Files[0].Path)
	}
}

func TestViewTruncatesPaths(t *testing.T) {
	long := "/" + strings.Repeat("x", 200)
	m := newModel([]dgroup.Group{{
		dfs.NewDfile(long, 5, dfs.FileID{Device: 1, Inode: 1}, 1),
		dfs.NewDfile(long+"y", 5, dfs.FileID{Device: 1, Inode: 2}, 1),
	}})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	press(m, "e")

	out := m.View()
	if strings.Contains(out, long) {
		t.Fatalf("expected long path to be truncated")
	}
	if !strings.Contains(out, "…") {
		t.Fatalf("expected truncation marker in view")
	}
}

func TestViewEmpty(t *testing.T) {
	m := newModel(nil)
	if !strings.Contains(m.View(), "No duplicates found.") {
		t.Fatalf("expected empty notice")
	}
	press(m, "enter", "down", "s")
}

func TestQuit(t *testing.T) {
	m := newModel(testGroups())
	_, cmd := m.Update(key("q"))
	if cmd == nil || !m.quitting {
		t.Fatalf("expected quit command")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quitting")
	}
}
