// Package ui is a read-only terminal browser for duplicate groups.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jdefrancesco/finddupes/internal/dfs"
	"github.com/jdefrancesco/finddupes/internal/dgroup"
	"github.com/jdefrancesco/finddupes/internal/dsklog"
	"github.com/jdefrancesco/finddupes/pkg/utils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Styles using Lip Gloss
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("35")).
			Padding(0, 1)

	normalFileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	linkFileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

type sortMode int

const (
	sortByReclaimable sortMode = iota
	sortByCount
)

func (s sortMode) String() string {
	if s == sortByCount {
		return "file count"
	}
	return "reclaimable size"
}

// fileEntry is one path. Hard links of the same physical file share an ID.
type fileEntry struct {
	Path string
	ID   dfs.FileID
	// Link is set on every path of a physical file after its first.
	Link bool
}

type duplicateGroup struct {
	Title       string
	Size        uint64
	Reclaimable uint64
	Files       []*fileEntry
	Expanded    bool
}

// row is a visible line: a group header, or one file when file >= 0.
type row struct {
	group int
	file  int
}

type model struct {
	groups   []*duplicateGroup
	rows     []row
	cursor   int
	offset   int
	sortMode sortMode
	width    int
	height   int
	quitting bool
}

// LaunchTUI shows groups until the user quits.
func LaunchTUI(groups []dgroup.Group) error {
	p := tea.NewProgram(newModel(groups), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

func newModel(groups []dgroup.Group) *model {
	m := &model{width: 80, height: 24}
	for _, g := range groups {
		m.groups = append(m.groups, buildGroup(g))
	}
	dsklog.Dlogger.Debugf("Browser loaded %d groups", len(m.groups))

	m.sortGroups()
	m.rebuildRows()
	return m
}

func buildGroup(g dgroup.Group) *duplicateGroup {
	dg := &duplicateGroup{
		Title: fmt.Sprintf("%d files of %s - %s reclaimable",
			len(g), utils.DisplaySize(g.Size()), utils.DisplaySize(g.Reclaimable())),
		Size:        g.Size(),
		Reclaimable: g.Reclaimable(),
	}
	for _, f := range g {
		for i, p := range f.Paths() {
			dg.Files = append(dg.Files, &fileEntry{Path: p, ID: f.ID(), Link: i > 0})
		}
	}
	return dg
}

// sortGroups orders groups by the current mode, largest first. Ties keep
// their previous order.
func (m *model) sortGroups() {
	sort.SliceStable(m.groups, func(i, j int) bool {
		a, b := m.groups[i], m.groups[j]
		if m.sortMode == sortByCount {
			return len(a.Files) > len(b.Files)
		}
		return a.Reclaimable > b.Reclaimable
	})
}

func (m *model) rebuildRows() {
	m.rows = m.rows[:0]
	for gi, g := range m.groups {
		m.rows = append(m.rows, row{group: gi, file: -1})
		if g.Expanded {
			for fi := range g.Files {
				m.rows = append(m.rows, row{group: gi, file: fi})
			}
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
}

// listHeight is the number of rows that fit between the header and footer.
func (m *model) listHeight() int {
	return max(m.height-7, 1)
}

func (m *model) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m *model) setExpanded(expanded bool) {
	// Keep the cursor on the same group.
	var current int
	if len(m.rows) > 0 {
		current = m.rows[m.cursor].group
	}
	for _, g := range m.groups {
		g.Expanded = expanded
	}
	m.rebuildRows()
	for i, r := range m.rows {
		if r.group == current && r.file < 0 {
			m.cursor = i
			break
		}
	}
	m.scroll()
}

// Init is called when the program starts
func (m *model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.scroll()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			m.scroll()

		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
			m.scroll()

		case "home", "g":
			m.cursor = 0
			m.scroll()

		case "end", "G":
			m.cursor = max(len(m.rows)-1, 0)
			m.scroll()

		case "enter", " ":
			if len(m.rows) == 0 {
				break
			}
			r := m.rows[m.cursor]
			g := m.groups[r.group]
			g.Expanded = !g.Expanded
			m.rebuildRows()
			// Collapsing from a file row lands on its header.
			for i, rr := range m.rows {
				if rr.group == r.group && rr.file < 0 {
					m.cursor = i
					break
				}
			}
			m.scroll()

		case "e":
			m.setExpanded(true)

		case "c":
			m.setExpanded(false)

		case "s":
			m.sortMode = (m.sortMode + 1) % 2
			m.sortGroups()
			m.cursor, m.offset = 0, 0
			m.rebuildRows()
		}
	}

	return m, nil
}

// View renders the UI
func (m *model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render("finddupes: Duplicate Browser")
	help := helpStyle.Render("[↑↓=navigate, enter=expand/collapse, e/c=expand/collapse all, s=sort, q=quit]")
	b.WriteString(title + "\n")
	b.WriteString(help + "\n\n")

	if len(m.rows) == 0 {
		b.WriteString(normalFileStyle.Render("No duplicates found."))
		return borderStyle.Render(b.String())
	}

	end := min(m.offset+m.listHeight(), len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], i == m.cursor))
		b.WriteString("\n")
	}

	var reclaimable uint64
	for _, g := range m.groups {
		reclaimable += g.Reclaimable
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d groups, %s reclaimable, sorted by %s",
		len(m.groups), utils.DisplaySize(reclaimable), m.sortMode)))

	return borderStyle.Render(b.String())
}

// renderRow renders a single row, truncated to the window width.
func (m *model) renderRow(r row, selected bool) string {
	g := m.groups[r.group]

	var text string
	var style lipgloss.Style
	switch {
	case r.file < 0:
		prefix := "▶ "
		if g.Expanded {
			prefix = "▼ "
		}
		text = prefix + g.Title
		style = headerStyle
	case g.Files[r.file].Link:
		text = "      ↳ " + g.Files[r.file].Path
		style = linkFileStyle
	default:
		text = "    " + g.Files[r.file].Path
		style = normalFileStyle
	}

	// Leave room for the border and padding.
	text = runewidth.Truncate(text, max(m.width-6, 10), "…")

	if selected {
		style = style.Inherit(selectedStyle)
	}
	return style.Render(text)
}
