package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func TestTruncate(t *testing.T) {
	if got := truncate("sunset-over-the-bay", 8); runewidth.StringWidth(got) > 8 || !strings.HasSuffix(got, "…") {
		t.Fatalf("truncate = %q, want at most 8 cells ending in an ellipsis", got)
	}
	if got := truncate("beach", 10); got != "beach" {
		t.Fatalf("truncate short = %q, want beach", got)
	}
	if got := truncate("beach", 0); got != "" {
		t.Fatalf("truncate zero width = %q, want empty", got)
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("abcd", 2); runewidth.StringWidth(got) > 2 {
		t.Fatalf("truncateMiddle limit<=3 = %q, wider than 2", got)
	}
	got := truncateMiddle("aurora-borealis-night", 9)
	if runewidth.StringWidth(got) != 9 {
		t.Fatalf("truncateMiddle width = %d, want 9 (%q)", runewidth.StringWidth(got), got)
	}
	if !strings.HasPrefix(got, "auro") || !strings.HasSuffix(got, "ight") {
		t.Fatalf("truncateMiddle = %q, want head and tail kept", got)
	}
}

func TestTruncateMiddle_WideRunes(t *testing.T) {
	got := truncateMiddle("桜の季節の夜景", 8)
	if w := runewidth.StringWidth(got); w > 8 {
		t.Fatalf("truncateMiddle wide = %q (%d cells), want at most 8", got, w)
	}
}

func TestRenderBox_ExactSize(t *testing.T) {
	m := New(Options{})
	defer m.cancel()

	box := m.renderBox("Presets (3)", "one\ntwo", 30, 6, true)
	lines := strings.Split(box, "\n")
	if len(lines) != 6 {
		t.Fatalf("renderBox height = %d, want 6", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 30 {
			t.Fatalf("renderBox line %d width = %d, want 30", i, w)
		}
	}
	if !strings.Contains(lines[0], "Presets (3)") {
		t.Fatalf("renderBox title missing from %q", lines[0])
	}
}

func TestBgStyle_FillLine(t *testing.T) {
	bg := NewBgStyle("#000000")
	if got := lipgloss.Width(bg.FillLine("abc", 12)); got != 12 {
		t.Fatalf("FillLine width = %d, want 12", got)
	}
	if bg.Spaces(0) != "" {
		t.Fatal("Spaces(0) should be empty")
	}
}
