package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/abcdqfr/wallpaper-shuffle/internal/engine"
	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
	"github.com/abcdqfr/wallpaper-shuffle/internal/settings"
)

// settingsPanel holds the settings panel state. Values are not kept here:
// every row reads the store's settings map, which changes only after the
// engine accepts a `settings` command.
type settingsPanel struct {
	page    int
	row     int
	editing bool
	input   textinput.Model
	err     string
}

func newSettingsPanel() settingsPanel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 512
	return settingsPanel{input: ti}
}

func pageZoneID(i int) string { return fmt.Sprintf("settings:page:%d", i) }

func rowZoneID(key string) string { return "settings:row:" + key }

func (p *settingsPanel) descriptors() []settings.Descriptor {
	return settings.OnPage(settings.Pages[p.page])
}

func (p *settingsPanel) selected() (settings.Descriptor, bool) {
	descs := p.descriptors()
	if p.row < 0 || p.row >= len(descs) {
		return settings.Descriptor{}, false
	}
	return descs[p.row], true
}

func (p *settingsPanel) turnPage(dir int) {
	n := len(settings.Pages)
	p.page = ((p.page+dir)%n + n) % n
	p.row = 0
	p.err = ""
}

func (m *Model) toggleSettings() {
	if m.settingsOpen && m.focus == panelSettings {
		m.settingsOpen = false
		m.focus = panelGrid
	} else {
		m.settingsOpen = true
		m.focus = panelSettings
	}
	m.ensureVisible()
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	p := &m.settings
	d, ok := p.selected()

	switch {
	case key.Matches(msg, m.keys.NextPage):
		p.turnPage(1)
	case key.Matches(msg, m.keys.PrevPage):
		p.turnPage(-1)
	case key.Matches(msg, m.keys.Up):
		if p.row > 0 {
			p.row--
		}
		p.err = ""
	case key.Matches(msg, m.keys.Down):
		if p.row < len(p.descriptors())-1 {
			p.row++
		}
		p.err = ""
	case !ok:
		return nil
	case key.Matches(msg, m.keys.Left):
		return m.stepSetting(d, -1)
	case key.Matches(msg, m.keys.Right):
		return m.stepSetting(d, 1)
	case key.Matches(msg, m.keys.Edit):
		if d.Kind == settings.KindPath || d.Kind == settings.KindText {
			m.startEdit(d)
			return textinput.Blink
		}
		return m.stepSetting(d, 1)
	}
	return nil
}

func (m *Model) startEdit(d settings.Descriptor) {
	p := &m.settings
	p.editing = true
	p.err = ""
	p.input.SetValue(m.snap.Settings.String(d.Key, ""))
	p.input.CursorEnd()
	p.input.Focus()
}

func (m *Model) handleSettingsEdit(msg tea.KeyMsg) tea.Cmd {
	p := &m.settings
	switch msg.Type {
	case tea.KeyEsc:
		p.editing = false
		p.input.Blur()
		return nil
	case tea.KeyEnter:
		d, ok := p.selected()
		if !ok {
			p.editing = false
			return nil
		}
		value, err := settings.FormatValue(d, p.input.Value())
		if err != nil {
			p.err = err.Error()
			return nil
		}
		p.editing = false
		p.input.Blur()
		return m.applySetting(d, value)
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (m *Model) stepSetting(d settings.Descriptor, dir int) tea.Cmd {
	cur := d.Current(m.snap.Settings)
	return m.applySetting(d, settings.Step(d, cur, dir))
}

// applySetting sends `settings <key> <value>`. The in-memory map is only
// updated once the engine accepts it; a new wallpaperDir restarts discovery.
func (m *Model) applySetting(d settings.Descriptor, value string) tea.Cmd {
	if value == d.Current(m.snap.Settings) {
		return nil
	}
	log.Info(log.CatUI, "changing setting", "key", d.Key, "value", value)
	return m.dispatch(engine.Set(d.Key, value), func(engine.Result) {
		m.store.SetSettings(m.store.Snapshot().Settings.Apply(d.Key, value))
		m.readout.Set(fmt.Sprintf("%s set to %s", d.Label, value))
		if d.Key == settings.KeyWallpaperDir {
			m.rescan()
		}
	})
}

// clickSettings handles a click inside the panel. It reports whether the
// click landed on the panel.
func (m *Model) clickSettings(msg tea.MouseMsg) (tea.Cmd, bool) {
	p := &m.settings
	for i := range settings.Pages {
		if z := zone.Get(pageZoneID(i)); z != nil && z.InBounds(msg) {
			m.focus = panelSettings
			p.page, p.row, p.err = i, 0, ""
			return nil, true
		}
	}
	for i, d := range p.descriptors() {
		if z := zone.Get(rowZoneID(d.Key)); z != nil && z.InBounds(msg) {
			m.focus = panelSettings
			if p.row == i && d.Kind != settings.KindPath && d.Kind != settings.KindText {
				return m.stepSetting(d, 1), true
			}
			p.row = i
			return nil, true
		}
	}
	return nil, false
}

func (m *Model) renderSettings(width, height int) string {
	p := &m.settings
	styles := m.theme.Styles()
	inner := width - 2
	focused := m.focus == panelSettings

	tabs := make([]string, 0, len(settings.Pages))
	for i, page := range settings.Pages {
		style := styles.Tab
		if i == p.page {
			style = styles.ActiveTab
		}
		tabs = append(tabs, zone.Mark(pageZoneID(i), style.Render(string(page))))
	}

	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, tabs...), ""}

	const labelWidth = 22
	for i, d := range p.descriptors() {
		label := padRight(truncate(d.Label, labelWidth-1), labelWidth)
		var value string
		if p.editing && i == p.row {
			p.input.Width = max(4, inner-labelWidth-4)
			value = p.input.View()
		} else {
			value = m.settingValue(d, inner-labelWidth-1)
		}
		row := label + value
		if focused && i == p.row && !p.editing {
			row = styles.Selected.Width(inner).Render(row)
		}
		lines = append(lines, zone.Mark(rowZoneID(d.Key), row))
	}

	lines = append(lines, "")
	if d, ok := p.selected(); ok {
		if tip := m.snap.Settings.Tooltip(d.Key); tip != "" {
			wrapped := lipgloss.NewStyle().Width(inner - 1).Render(tip)
			lines = append(lines, styles.FaintText.Render(wrapped))
		}
	}
	if p.err != "" {
		lines = append(lines, styles.DangerText.Render(truncate(p.err, inner-1)))
	}
	if m.snap.Settings.Len() == 0 {
		lines = append(lines, styles.WarningText.Render("Settings file not loaded; showing defaults."))
	}

	return m.renderBox("Settings", strings.Join(lines, "\n"), width, height, focused)
}

// settingValue renders a setting's current value for its kind.
func (m *Model) settingValue(d settings.Descriptor, width int) string {
	styles := m.theme.Styles()
	cur := d.Current(m.snap.Settings)

	switch d.Kind {
	case settings.KindBool:
		if b, _ := strconv.ParseBool(cur); b {
			return styles.SuccessText.Render("[x]")
		}
		return styles.MutedText.Render("[ ]")
	case settings.KindInt:
		return styles.AccentText.Render("‹ ") + styles.Text.Render(cur) + styles.AccentText.Render(" ›") +
			styles.FaintText.Render(fmt.Sprintf("  %d..%d", d.Min, d.Max))
	case settings.KindChoice:
		return styles.AccentText.Render("‹ ") + styles.Text.Render(cur) + styles.AccentText.Render(" ›")
	default:
		if cur == "" {
			return styles.FaintText.Render("(unset)")
		}
		return styles.Text.Render(truncateMiddle(cur, max(1, width)))
	}
}
