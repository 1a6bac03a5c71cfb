package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abcdqfr/wallpaper-shuffle/internal/config"
	"github.com/abcdqfr/wallpaper-shuffle/internal/engine"
	"github.com/abcdqfr/wallpaper-shuffle/internal/settings"
	"github.com/abcdqfr/wallpaper-shuffle/internal/tray"
	"github.com/abcdqfr/wallpaper-shuffle/internal/ui"
)

type fakeEngine struct {
	mu   sync.Mutex
	seen []string
	fail map[engine.Verb]string // verb -> stderr
}

func (f *fakeEngine) Execute(_ context.Context, cmd engine.Command) engine.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, cmd.String())
	res := engine.Result{ID: "id", Command: cmd}
	if msg, ok := f.fail[cmd.Verb()]; ok {
		res.ExitCode = 1
		res.Stderr = msg
	}
	return res
}

func (f *fakeEngine) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

type fakeIcon struct {
	actions chan tray.Action
	mu      sync.Mutex
	tooltip string
	closed  bool
}

func newFakeIcon() *fakeIcon {
	return &fakeIcon{actions: make(chan tray.Action, 4)}
}

func (f *fakeIcon) Actions() <-chan tray.Action { return f.actions }

func (f *fakeIcon) SetTooltip(text string) {
	f.mu.Lock()
	f.tooltip = text
	f.mu.Unlock()
}

func (f *fakeIcon) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func newTestSession(t *testing.T, eng *fakeEngine) *session {
	t.Helper()
	s := newSession(context.Background(), config.Config{}, eng)
	t.Cleanup(s.close)
	return s
}

// next runs one Mailbox callback, failing the test if none arrives.
func next(t *testing.T, s *session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	fn, ok := s.mailbox.Next(ctx)
	require.True(t, ok, "no callback arrived")
	fn()
}

func TestRoute_HiddenBlockingIntentRecordsResult(t *testing.T) {
	eng := &fakeEngine{}
	s := newTestSession(t, eng)

	s.route(ui.IntentNext)
	s.route(ui.IntentShuffle)

	require.Equal(t, []string{"next", "next"}, eng.commands())
	snap := s.store.Snapshot()
	require.True(t, snap.HasResult)
	require.Zero(t, snap.ConsecutiveFailures)
}

func TestRoute_HiddenFailureSetsStatus(t *testing.T) {
	eng := &fakeEngine{fail: map[engine.Verb]string{engine.VerbPrev: "no history"}}
	s := newTestSession(t, eng)

	s.route(ui.IntentPrev)

	snap := s.store.Snapshot()
	require.Equal(t, "Error: no history", snap.Status)
	require.Equal(t, 1, snap.ConsecutiveFailures)
}

func TestRoute_HiddenRandomCompletesOnMailbox(t *testing.T) {
	eng := &fakeEngine{}
	s := newTestSession(t, eng)

	s.route(ui.IntentRandom)
	require.False(t, s.store.Snapshot().HasResult)

	next(t, s)
	snap := s.store.Snapshot()
	require.True(t, snap.HasResult)
	require.Equal(t, engine.VerbRandom, snap.LastResult.Command.Verb())
}

func TestWaitHidden_TrayShowAndExit(t *testing.T) {
	eng := &fakeEngine{}
	s := newTestSession(t, eng)
	icon := newFakeIcon()
	s.attachTray(icon)

	icon.actions <- tray.ActionNext
	icon.actions <- tray.ActionShow
	require.True(t, s.waitHidden())
	require.Equal(t, []string{"next"}, eng.commands())

	icon.actions <- tray.ActionExit
	require.False(t, s.waitHidden())
	require.True(t, s.exitReq)
}

func TestExit_WaitsForEngine(t *testing.T) {
	eng := &fakeEngine{}
	s := newTestSession(t, eng)

	require.NoError(t, s.exit())
	require.Equal(t, []string{"exit"}, eng.commands())

	// Intents after exit began are dropped.
	s.route(ui.IntentNext)
	require.Equal(t, []string{"exit"}, eng.commands())
}

func TestRescan_FillsStoreFromWallpaperDir(t *testing.T) {
	dir := t.TempDir()
	for _, id := range []string{"beach", "forest"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, id), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, id, "preview.jpg"), []byte("x"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "broken"), 0o755))

	s := newTestSession(t, &fakeEngine{})
	s.store.SetSettings(settings.FromEntries(map[string]settings.Entry{
		settings.KeyWallpaperDir: {Value: dir},
	}))

	s.rescan()
	require.True(t, s.store.Snapshot().Scanning)
	for s.store.Snapshot().Scanning {
		next(t, s)
	}

	snap := s.store.Snapshot()
	require.Len(t, snap.Presets, 2)
	require.Equal(t, 1, snap.Discovery.Skipped)
}

func TestSyncTooltip_FollowsCurrent(t *testing.T) {
	s := newTestSession(t, &fakeEngine{})
	icon := newFakeIcon()
	s.attachTray(icon)

	s.coord.Run(context.Background(), engine.Load("forest"), s.record)
	s.syncTooltip()

	icon.mu.Lock()
	defer icon.mu.Unlock()
	require.Equal(t, "Wallpaper Shuffle: forest (timer stopped)", icon.tooltip)
	require.Equal(t, "Current: forest", s.store.Snapshot().Status)
}

func TestRoute_HiddenToggleShuffle(t *testing.T) {
	eng := &fakeEngine{}
	s := newTestSession(t, eng)

	s.route(ui.IntentToggleShuffle)
	require.Equal(t, "Timer started", s.store.Snapshot().Status)
	_, running := s.timer.Remaining()
	require.True(t, running)

	s.route(ui.IntentToggleShuffle)
	require.Equal(t, "Timer stopped", s.store.Snapshot().Status)
	_, running = s.timer.Remaining()
	require.False(t, running)
	require.Empty(t, eng.commands(), "toggling the timer must not reach the engine")
}

func TestWaitHidden_TrayTogglesTimer(t *testing.T) {
	s := newTestSession(t, &fakeEngine{})
	icon := newFakeIcon()
	s.attachTray(icon)

	icon.actions <- tray.ActionToggleShuffle
	icon.actions <- tray.ActionShow
	require.True(t, s.waitHidden())

	_, running := s.timer.Remaining()
	require.True(t, running)
	require.Equal(t, "Timer started", s.store.Snapshot().Status)
}

func TestSyncTooltip_ShowsCountdown(t *testing.T) {
	s := newTestSession(t, &fakeEngine{})
	icon := newFakeIcon()
	s.attachTray(icon)

	s.coord.Run(context.Background(), engine.Load("forest"), s.record)
	require.True(t, s.timer.Start(s.ctx))

	icon.mu.Lock()
	defer icon.mu.Unlock()
	require.Contains(t, icon.tooltip, "Wallpaper Shuffle: forest (")
	require.Contains(t, icon.tooltip, " | 30:00)")
}

func TestTooltipText(t *testing.T) {
	require.Equal(t, "Wallpaper Shuffle (timer stopped)", tooltipText("", 0, false, 0))
	require.Equal(t, "Wallpaper Shuffle: forest (04:59 | 30:00)",
		tooltipText("forest", 4*time.Minute+59*time.Second, true, 30*time.Minute))
}

func TestListPresets_MissingSettingsGivesEmpty(t *testing.T) {
	found, stats := listPresets(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.Empty(t, found)
	require.Zero(t, stats.Skipped)
}

func TestListPresets_MissingWallpaperDirGivesEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	body := `{"wallpaperDir": {"value": "` + filepath.Join(dir, "gone") + `"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	found, _ := listPresets(context.Background(), path)
	require.Empty(t, found)
}

func TestIntentFor(t *testing.T) {
	cases := map[tray.Action]ui.Intent{
		tray.ActionNext:   ui.IntentNext,
		tray.ActionPrev:   ui.IntentPrev,
		tray.ActionRandom: ui.IntentRandom,
		tray.ActionShow:   ui.IntentShow,
		tray.ActionExit:   ui.IntentExit,

		tray.ActionToggleShuffle: ui.IntentToggleShuffle,
	}
	for a, want := range cases {
		got, ok := intentFor(a)
		require.True(t, ok, a.String())
		require.Equal(t, want, got, a.String())
	}
	_, ok := intentFor(tray.Action(99))
	require.False(t, ok)
}
