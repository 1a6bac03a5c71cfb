package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/abcdqfr/wallpaper-shuffle/internal/presets"
)

func presetZoneID(id string) string { return "preset:" + id }

// gridWidth is the width left for the grid after the settings panel.
func (m *Model) gridWidth() int {
	w := m.width
	if m.settingsOpen {
		w -= SettingsPanelWidth
	}
	return max(CellWidth, w)
}

// gridHeight is the height of the grid box, border included.
func (m *Model) gridHeight() int {
	h := m.height - chromeHeight
	if m.logOpen {
		h -= logPaneHeight
	}
	return max(CellHeight+2, h)
}

// columns returns how many cells fit per row, or the preferred count.
func (m *Model) columns() int {
	fit := max(1, (m.gridWidth()-2)/CellWidth)
	if m.prefs.Columns > 0 {
		return min(m.prefs.Columns, fit)
	}
	return fit
}

func (m *Model) visibleRows() int {
	return max(1, (m.gridHeight()-2)/CellHeight)
}

// ensureVisible scrolls so the cursor's row is on screen.
func (m *Model) ensureVisible() {
	cols := m.columns()
	row := m.cursor / cols
	rows := m.visibleRows()
	if row < m.offset {
		m.offset = row
	}
	if row >= m.offset+rows {
		m.offset = row - rows + 1
	}
	m.clampOffset()
}

func (m *Model) scrollGrid(delta int) {
	m.offset += delta
	m.clampOffset()
}

func (m *Model) clampOffset() {
	cols := m.columns()
	total := (len(m.snap.Presets) + cols - 1) / cols
	m.offset = max(0, min(m.offset, total-m.visibleRows()))
}

func (m *Model) handleGridKey(msg tea.KeyMsg) tea.Cmd {
	n := len(m.snap.Presets)
	if n == 0 {
		return nil
	}
	cols := m.columns()

	switch {
	case key.Matches(msg, m.keys.Load):
		return m.loadSelected()
	case key.Matches(msg, m.keys.Up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor+cols < n {
			m.cursor += cols
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = n - 1
	}
	m.ensureVisible()
	return nil
}

// presetAt returns the index of the visible preset under the mouse.
func (m *Model) presetAt(msg tea.MouseMsg) (int, bool) {
	cols := m.columns()
	first := m.offset * cols
	last := min(len(m.snap.Presets), first+m.visibleRows()*cols)
	for i := first; i < last; i++ {
		if z := zone.Get(presetZoneID(m.snap.Presets[i].ID)); z != nil && z.InBounds(msg) {
			return i, true
		}
	}
	return 0, false
}

// renderContent lays out the grid, the settings panel beside it and the
// log pane below.
func (m *Model) renderContent() string {
	top := m.renderGrid()
	if m.settingsOpen {
		top = lipgloss.JoinHorizontal(lipgloss.Top, top, m.renderSettings(SettingsPanelWidth, m.gridHeight()))
	}
	if !m.logOpen {
		return top
	}
	return top + "\n" + m.renderLogs(m.width, logPaneHeight)
}

func (m *Model) renderGrid() string {
	width, height := m.gridWidth(), m.gridHeight()
	title := m.gridTitle()
	focused := m.focus == panelGrid

	if len(m.snap.Presets) == 0 {
		styles := m.theme.Styles()
		msg := "No presets found"
		if m.snap.Scanning {
			msg = m.spinner.View() + " Scanning presets..."
		} else if dir := m.snap.Settings.WallpaperDir(); dir == "" {
			msg = "wallpaperDir is not set; press s to open settings"
		}
		content := lipgloss.Place(width-2, height-2, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
		return m.renderBox(title, content, width, height, focused)
	}

	cols := m.columns()
	rows := m.visibleRows()
	first := m.offset * cols

	var lines []string
	for r := range rows {
		start := first + r*cols
		if start >= len(m.snap.Presets) {
			break
		}
		end := min(len(m.snap.Presets), start+cols)
		cells := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cells = append(cells, m.renderCell(i, m.snap.Presets[i]))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return m.renderBox(title, strings.Join(lines, "\n"), width, height, focused)
}

func (m *Model) gridTitle() string {
	n := len(m.snap.Presets)
	switch {
	case m.snap.Scanning:
		return fmt.Sprintf("Presets (%d, scanning)", n)
	case m.snap.Discovery.Skipped > 0:
		return fmt.Sprintf("Presets (%d, %d skipped)", n, m.snap.Discovery.Skipped)
	default:
		return fmt.Sprintf("Presets (%d)", n)
	}
}

// renderCell draws one preset: its name and preview details, framed. The
// selected cell is highlighted and the current one is marked.
func (m *Model) renderCell(i int, p presets.Preset) string {
	inner := CellWidth - 4
	name := truncateMiddle(p.ID, inner)
	if p.ID == m.snap.Current {
		name = truncateMiddle("● "+p.ID, inner)
	}

	borderColor := m.theme.BorderMuted
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
	if p.ID == m.snap.Current {
		nameStyle = nameStyle.Foreground(lipgloss.Color(m.theme.Success)).Bold(true)
	}
	if i == m.cursor {
		borderColor = m.theme.BorderFocus
		nameStyle = nameStyle.Background(lipgloss.Color(m.theme.SelectionBg))
	}
	detail := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint)).
		Render(truncate(p.Preview.String(), inner))

	cell := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Width(CellWidth-2).
		Padding(0, 1).
		Render(nameStyle.Render(padRight(name, inner)) + "\n" + detail)

	return zone.Mark(presetZoneID(p.ID), cell)
}
