package ui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"
)

func TestProgram_LoadThenClose(t *testing.T) {
	h := newHarness(t, &fakeEngine{}, "beach", "forest")

	tm := teatest.NewTestModel(t, h.m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("forest"))
	}, teatest.WithDuration(3*time.Second))

	// Move to forest and load it; the Mailbox pump delivers the result.
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Current: forest"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final, ok := tm.FinalModel(t).(*Model)
	require.True(t, ok)
	require.Equal(t, OutcomeHide, final.Outcome())
	require.Equal(t, "forest", h.store.Snapshot().Current)
	require.Equal(t, []string{"load forest"}, h.engine.commands())
}
