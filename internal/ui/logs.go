package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abcdqfr/wallpaper-shuffle/internal/logtail"
)

var logLevels = []string{"debug", "info", "warning", "error"}

// logPane holds the log pane state.
type logPane struct {
	vp       viewport.Model
	entries  []logtail.Entry
	err      error
	minLevel string
	follow   bool
	tickGen  int
	version  uint64 // bumped when entries change
	rendered uint64
}

func newLogPane() logPane {
	return logPane{
		vp:       viewport.New(0, 0),
		minLevel: "info",
		follow:   true,
	}
}

func (p *logPane) set(msg logLinesMsg) {
	p.entries = msg.entries
	p.err = msg.err
	p.version++
}

func (m *Model) toggleLogs() tea.Cmd {
	if m.logOpen && m.focus == panelLog {
		m.logOpen = false
		m.focus = panelGrid
		m.prefs.ShowLog = false
		m.savePrefs()
		m.ensureVisible()
		return nil
	}
	m.focus = panelLog
	m.prefs.ShowLog = true
	m.savePrefs()
	if m.logOpen {
		return nil
	}
	return m.openLogs()
}

// openLogs shows the pane and starts its refresh loop.
func (m *Model) openLogs() tea.Cmd {
	m.logOpen = true
	m.logs.tickGen++
	m.layoutLogs()
	m.ensureVisible()
	return tea.Batch(m.refreshLogs(), logTick(m.logs.tickGen))
}

func (m *Model) layoutLogs() {
	m.logs.vp.Width = max(0, m.width-2)
	m.logs.vp.Height = max(0, logPaneHeight-2)
	m.logs.rendered = 0
	m.renderLogContent()
}

func (m *Model) handleLogKey(msg tea.KeyMsg) tea.Cmd {
	p := &m.logs
	switch {
	case key.Matches(msg, m.keys.CycleLevel):
		p.minLevel = nextLevel(p.minLevel)
		return m.refreshLogs()
	case key.Matches(msg, m.keys.Follow):
		p.follow = !p.follow
		if p.follow {
			p.vp.GotoBottom()
		}
	case key.Matches(msg, m.keys.Up):
		p.follow = false
		p.vp.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		p.vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Top):
		p.follow = false
		p.vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		p.vp.GotoBottom()
	}
	return nil
}

func nextLevel(cur string) string {
	for i, l := range logLevels {
		if l == cur {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return logLevels[0]
}

// refreshLogs re-reads the log file off the update loop.
func (m *Model) refreshLogs() tea.Cmd {
	path, level := m.logPath, m.logs.minLevel
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		entries, err := logtail.Tail(path, LogTailLines, level, "")
		return logLinesMsg{entries: entries, err: err}
	}
}

// renderLogContent fills the viewport when the entries changed.
func (m *Model) renderLogContent() {
	p := &m.logs
	if p.rendered == p.version && p.rendered != 0 {
		return
	}
	styles := m.theme.Styles()

	var b strings.Builder
	switch {
	case p.err != nil:
		b.WriteString(styles.DangerText.Render("log unavailable: " + p.err.Error()))
	case len(p.entries) == 0:
		b.WriteString(styles.FaintText.Render("no log entries"))
	}
	for i, e := range p.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.formatLogEntry(e))
	}
	p.vp.SetContent(b.String())
	p.rendered = p.version
	if p.follow {
		p.vp.GotoBottom()
	}
}

func (m *Model) formatLogEntry(e logtail.Entry) string {
	styles := m.theme.Styles()
	if e.Level == "" {
		return styles.MutedText.Render(e.Raw)
	}

	ts := e.Time
	if t, err := time.Parse("2006-01-02T15:04:05", e.Time); err == nil {
		ts = t.Format("15:04:05")
	}

	levelStyle := styles.MutedText
	switch e.Level {
	case "warning", "warn":
		levelStyle = styles.WarningText
	case "error", "fatal", "panic":
		levelStyle = styles.DangerText
	case "info":
		levelStyle = styles.InfoText
	}

	parts := []string{
		styles.FaintText.Render(ts),
		levelStyle.Render(fmt.Sprintf("%-5s", strings.ToUpper(truncate(e.Level, 5)))),
	}
	if e.Cat != "" {
		parts = append(parts, styles.AccentText.Render("["+e.Cat+"]"))
	}
	parts = append(parts, styles.Text.Render(e.Msg))
	for _, f := range e.Fields {
		parts = append(parts, styles.FaintText.Render(f.Key+"=")+styles.MutedText.Render(f.Value))
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderLogs(width, height int) string {
	p := &m.logs
	follow := "off"
	if p.follow {
		follow = "on"
	}
	title := fmt.Sprintf("Log (%s+, %d lines, follow %s)", p.minLevel, len(p.entries), follow)
	content := lipgloss.NewStyle().MaxWidth(width - 2).Render(p.vp.View())
	return m.renderBox(title, content, width, height, m.focus == panelLog)
}

// Messages

type logLinesMsg struct {
	entries []logtail.Entry
	err     error
}

type logTickMsg struct{ gen int }

// Commands

func logTick(gen int) tea.Cmd {
	return tea.Tick(LogRefreshInterval, func(time.Time) tea.Msg {
		return logTickMsg{gen: gen}
	})
}
