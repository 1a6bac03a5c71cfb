package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// BgStyle renders text segments on one background color. Lipgloss resets
// the background between separately styled segments, which leaves gaps; this
// paints the spaces too.
type BgStyle struct {
	bg    lipgloss.Color
	space string
}

// NewBgStyle creates a background helper for the given color.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render renders text with style on the helper's background, spaces included.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	wordStyle := style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return wordStyle.Render(text)
	}
	words := strings.Split(text, " ")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			out = append(out, "")
			continue
		}
		out = append(out, wordStyle.Render(w))
	}
	return strings.Join(out, b.space)
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// FillLine pads rendered content to width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}

// renderBox draws a rounded border of exactly width x height cells with
// title set into the top edge. Content is clipped to the inside.
func (m *Model) renderBox(title, content string, width, height int, focused bool) string {
	if width < 4 || height < 3 {
		return ""
	}
	border := m.theme.Border
	bg := m.theme.Surface
	if focused {
		border = m.theme.BorderFocus
		bg = m.theme.FocusBg
	}
	edge := lipgloss.NewStyle().Foreground(lipgloss.Color(border)).Background(lipgloss.Color(bg))
	fill := NewBgStyle(bg)
	inner := width - 2

	label := ""
	if title != "" {
		label = " " + truncate(title, inner-2) + " "
	}
	top := edge.Render("╭") +
		lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent)).Background(lipgloss.Color(bg)).Bold(true).Render(label) +
		edge.Render(strings.Repeat("─", max(0, inner-lipgloss.Width(label)))+"╮")

	lines := strings.Split(content, "\n")
	body := make([]string, 0, height-2)
	for i := range height - 2 {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		if w := lipgloss.Width(line); w > inner {
			line = lipgloss.NewStyle().MaxWidth(inner).Render(line)
		}
		body = append(body, edge.Render("│")+fill.FillLine(line, inner)+edge.Render("│"))
	}
	bottom := edge.Render("╰" + strings.Repeat("─", inner) + "╯")

	return top + "\n" + strings.Join(body, "\n") + "\n" + bottom
}

// truncate shortens s to fit width terminal cells, ending in an ellipsis
// when cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// truncateMiddle keeps the start and end of s, which suits preset names
// that share a prefix.
func truncateMiddle(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return truncate(s, width)
	}
	keep := width - 1
	head := (keep + 1) / 2
	tail := keep - head

	left := runewidth.Truncate(s, head, "")
	right := tailCells(s, tail)
	return left + "…" + right
}

// tailCells returns the longest suffix of s no wider than width cells.
func tailCells(s string, width int) string {
	runes := []rune(s)
	w := 0
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > width {
			break
		}
		w += rw
		i--
	}
	return string(runes[i:])
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
