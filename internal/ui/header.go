package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/abcdqfr/wallpaper-shuffle/internal/engine"
)

type buttonID int

const (
	buttonPrev buttonID = iota
	buttonNext
	buttonRandom
	buttonSettings
	buttonLog
	buttonExit
)

type toolbarButton struct {
	id     buttonID
	key    string
	label  string
	zoneID string
}

var toolbarButtons = []toolbarButton{
	{buttonPrev, "p", "Prev", "btn:prev"},
	{buttonNext, "n", "Next", "btn:next"},
	{buttonRandom, "r", "Random", "btn:random"},
	{buttonSettings, "s", "Settings", "btn:settings"},
	{buttonLog, "L", "Log", "btn:log"},
	{buttonExit, "X", "Exit", "btn:exit"},
}

func (m *Model) pressButton(id buttonID) tea.Cmd {
	switch id {
	case buttonPrev:
		return m.dispatch(engine.Prev(), nil)
	case buttonNext:
		return m.dispatch(engine.Next(), nil)
	case buttonRandom:
		return m.dispatch(engine.Random(), nil)
	case buttonSettings:
		m.toggleSettings()
		return nil
	case buttonLog:
		return m.toggleLogs()
	case buttonExit:
		return m.quit(OutcomeExit)
	}
	return nil
}

// renderToolbar renders the title and the clickable command buttons.
func (m *Model) renderToolbar() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles()

	title := bg.Render("Wallpaper Shuffle", styles.AccentText.Bold(true))

	buttons := make([]string, 0, len(toolbarButtons))
	for _, b := range toolbarButtons {
		style := styles.Button
		if m.readout.Busy() {
			style = style.Foreground(lipgloss.Color(m.theme.Faint))
		}
		label := styles.ButtonKey.Render(b.key) + style.UnsetPadding().Render(" "+b.label)
		buttons = append(buttons, zone.Mark(b.zoneID, style.Render(label)))
	}
	bar := strings.Join(buttons, bg.Spaces(1))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(bar) - 2
	return bg.FillLine(bg.Spaces(1)+title+bg.Spaces(max(1, gap))+bar, m.width)
}

// renderStatus renders the readout on the left and session details on the
// right.
func (m *Model) renderStatus() string {
	bg := NewBgStyle(m.theme.Surface)
	styles := m.theme.Styles()

	text := m.readout.Text()
	var left string
	switch {
	case m.readout.Busy():
		left = bg.Render(m.spinner.View(), styles.AccentText) + bg.Spaces(1) + bg.Render(text, styles.WarningText)
	case strings.HasPrefix(text, "Error: "):
		left = bg.Render(text, styles.DangerText)
	default:
		left = bg.Render(text, styles.Text)
	}

	var parts []string
	if q := m.queued(); q > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d queued", q), styles.WarningText))
	}
	if m.snap.IsFailing() {
		parts = append(parts, bg.Render(fmt.Sprintf("engine failing (%d)", m.snap.ConsecutiveFailures), styles.DangerText))
	}
	if m.snap.Current != "" {
		parts = append(parts, bg.Render("current "+m.snap.Current, styles.MutedText))
	}
	right := strings.Join(parts, bg.Render(" · ", styles.FaintText))

	avail := m.width - lipgloss.Width(right) - 3
	if lipgloss.Width(left) > avail {
		left = bg.Render(truncate(text, max(0, avail)), styles.Text)
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	return bg.FillLine(bg.Spaces(1)+left+bg.Spaces(max(1, gap))+right, m.width)
}

func (m *Model) queued() int {
	if m.coord == nil {
		return len(m.intents)
	}
	return m.coord.Queued() + len(m.intents)
}
