package app

import (
	"context"
	"sync"
	"time"

	"github.com/abcdqfr/wallpaper-shuffle/internal/config"
	"github.com/abcdqfr/wallpaper-shuffle/internal/control"
	"github.com/abcdqfr/wallpaper-shuffle/internal/engine"
	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
	"github.com/abcdqfr/wallpaper-shuffle/internal/prefs"
	"github.com/abcdqfr/wallpaper-shuffle/internal/presets"
	"github.com/abcdqfr/wallpaper-shuffle/internal/settings"
	"github.com/abcdqfr/wallpaper-shuffle/internal/state"
	"github.com/abcdqfr/wallpaper-shuffle/internal/tray"
	"github.com/abcdqfr/wallpaper-shuffle/internal/ui"
	"github.com/abcdqfr/wallpaper-shuffle/internal/watch"
)

// session outlives the view. The fields from view on are touched only on
// the interactive thread: inside the view's Update loop, or in loop while
// the view is hidden.
type session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	cfg     config.Config
	mailbox *control.Mailbox
	sched   control.Scheduler
	coord   *control.Coordinator
	store   *state.Store
	scanner *presets.Pipeline
	timer   *shuffleTimer
	icon    tray.Icon // set before any goroutine reads it

	tipMu   sync.Mutex
	tooltip string

	view      *ui.Model
	deferred  []ui.Intent // routed to a view that had already closed
	showReq   bool
	exitReq   bool
	exiting   bool
	watcher   *watch.Watcher
	watchDir  string
	stopWatch chan struct{}
}

func newSession(parent context.Context, cfg config.Config, exec engine.Executor) *session {
	ctx, cancel := context.WithCancel(parent)
	s := &session{
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		mailbox: control.NewMailbox(),
		store:   &state.Store{},
		scanner: presets.NewPipeline(presets.NewMetaCache()),
	}
	// Every callback passes through here so the tray tooltip follows the
	// store no matter which loop drains the Mailbox.
	s.sched = control.SchedulerFunc(func(fn func()) {
		s.mailbox.Schedule(func() {
			fn()
			s.syncTooltip()
		})
	})
	s.coord = control.New(exec, s.sched)
	s.timer = newShuffleTimer(cfg.Shuffle.Interval(), s.failures, s.shuffle, s.syncTooltip)
	return s
}

func (s *session) attachTray(icon tray.Icon) {
	s.icon = icon
	go s.forwardTray(icon.Actions())
}

func (s *session) forwardTray(actions <-chan tray.Action) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case a, ok := <-actions:
			if !ok {
				return
			}
			in, known := intentFor(a)
			if !known {
				continue
			}
			s.sched.Schedule(func() { s.route(in) })
		}
	}
}

func intentFor(a tray.Action) (ui.Intent, bool) {
	switch a {
	case tray.ActionNext:
		return ui.IntentNext, true
	case tray.ActionPrev:
		return ui.IntentPrev, true
	case tray.ActionRandom:
		return ui.IntentRandom, true
	case tray.ActionShow:
		return ui.IntentShow, true
	case tray.ActionExit:
		return ui.IntentExit, true
	case tray.ActionToggleShuffle:
		return ui.IntentToggleShuffle, true
	default:
		return 0, false
	}
}

func (s *session) loadSettings() {
	m, err := settings.Load(s.cfg.SettingsPath)
	if err != nil {
		log.Warn(log.CatConfig, "starting without engine settings", "error", err.Error())
	}
	s.store.SetSettings(m)
}

// loop alternates between showing the view and waiting hidden for the tray.
func (s *session) loop(prefsPath string) error {
	for {
		userPrefs, _ := prefs.Load(prefsPath)
		s.view = ui.New(ui.Options{
			Context:       s.ctx,
			Coordinator:   s.coord,
			Mailbox:       s.mailbox,
			Store:         s.store,
			Rescan:        s.rescan,
			ToggleShuffle: s.toggleShuffle,
			Prefs:         userPrefs,
			PrefsPath:     prefsPath,
			LogPath:       s.cfg.LogPath,
			CanHide:       s.icon != nil,
		})
		outcome, err := ui.Run(s.view)
		// Intents that waited on a Blocking call go first.
		s.deferred = append(s.view.TakeIntents(), s.deferred...)
		s.view = nil
		if err != nil {
			return err
		}
		if s.ctx.Err() != nil {
			log.Info(log.CatApp, "interrupted; leaving engine running")
			return nil
		}
		if outcome == ui.OutcomeExit || s.icon == nil {
			return s.exit()
		}

		log.Info(log.CatApp, "view hidden")
		pending := s.deferred
		s.deferred = nil
		for _, in := range pending {
			s.route(in)
		}
		if !s.waitHidden() {
			if s.exitReq {
				return s.exit()
			}
			return nil
		}
		log.Info(log.CatApp, "view shown")
	}
}

// waitHidden drains the Mailbox until the tray asks for the view or for
// exit. It reports whether the view should be shown again.
func (s *session) waitHidden() bool {
	for !s.showReq && !s.exitReq {
		fn, ok := s.mailbox.Next(s.ctx)
		if !ok {
			return false
		}
		fn()
	}
	show := s.showReq
	s.showReq = false
	return show
}

// route delivers an intent to the view when it is showing, otherwise runs it
// here. Callers are Mailbox callbacks.
func (s *session) route(in ui.Intent) {
	if s.exiting {
		log.Debug(log.CatApp, "intent ignored while exiting", "intent", in.String())
		return
	}
	if s.view != nil {
		if !s.view.Closed() {
			s.view.Handle(in)
			return
		}
		s.deferred = append(s.deferred, in)
		return
	}

	switch in {
	case ui.IntentShow:
		s.showReq = true
		return
	case ui.IntentExit:
		s.exitReq = true
		return
	case ui.IntentToggleShuffle:
		s.store.SetStatus(s.toggleShuffle())
		return
	}
	cmd, ok := in.Command()
	if !ok {
		return
	}
	log.Info(log.CatApp, "intent while hidden", "intent", in.String())
	s.coord.Run(s.ctx, cmd, s.record)
}

func (s *session) record(res engine.Result) {
	s.store.RecordResult(res)
	switch {
	case res.Failed():
		s.store.SetStatus("Error: " + res.ErrorText())
	case res.Command.Verb() == engine.VerbLoad:
		s.store.SetStatus("Current: " + s.store.Snapshot().Current)
	}
}

// exit stops the engine and waits for it, running any callbacks that land
// in the meantime.
func (s *session) exit() error {
	s.exiting = true
	log.Info(log.CatApp, "stopping engine")

	var (
		res  engine.Result
		done bool
	)
	s.coord.RunAsync(context.WithoutCancel(s.ctx), engine.Exit(), func(r engine.Result) {
		res, done = r, true
	})
	for !done {
		fn, ok := s.mailbox.Next(context.Background())
		if !ok {
			break
		}
		fn()
	}
	if res.Failed() {
		log.Warn(log.CatApp, "engine exit failed", "error", res.ErrorText())
	}
	return nil
}

func (s *session) rescan() {
	dir := s.store.Snapshot().Settings.WallpaperDir()
	gen := s.scanner.Start(s.ctx, dir, s.sched,
		func(gen uint64, p presets.Preset) { s.store.AddPreset(gen, p) },
		func(st presets.Stats) { s.store.FinishDiscovery(st) },
	)
	// Emissions for gen run on this thread, so none can land before this.
	s.store.BeginDiscovery(gen)
	s.rewatch(dir)
}

func (s *session) rewatch(dir string) {
	if !s.cfg.Watch || dir == s.watchDir {
		return
	}
	s.unwatch()
	s.watchDir = dir
	if dir == "" {
		return
	}

	w, err := watch.New(watch.DefaultConfig(dir))
	if err != nil {
		log.ErrorErr(log.CatWatch, "watcher unavailable", err)
		return
	}
	signals, err := w.Start()
	if err != nil {
		log.Warn(log.CatWatch, "not watching preset directory", "dir", dir, "error", err.Error())
		_ = w.Stop()
		return
	}
	stop := make(chan struct{})
	s.watcher, s.stopWatch = w, stop
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-s.ctx.Done():
				return
			case <-signals:
				log.Debug(log.CatWatch, "preset directory changed", "dir", dir)
				s.sched.Schedule(s.rescan)
			}
		}
	}()
}

func (s *session) unwatch() {
	if s.watcher == nil {
		return
	}
	close(s.stopWatch)
	_ = s.watcher.Stop()
	s.watcher, s.stopWatch = nil, nil
}

func (s *session) failures() int {
	return s.store.Snapshot().ConsecutiveFailures
}

func (s *session) shuffle() {
	s.sched.Schedule(func() { s.route(ui.IntentShuffle) })
}

// toggleShuffle starts or stops the shuffle timer and describes the result
// for the status readout.
func (s *session) toggleShuffle() string {
	if s.timer.Toggle(s.ctx) {
		return "Timer started"
	}
	return "Timer stopped"
}

// syncTooltip pushes the current preset and the shuffle countdown to the
// tray. The timer goroutine calls it every second, so it is locked.
func (s *session) syncTooltip() {
	if s.icon == nil {
		return
	}
	remaining, running := s.timer.Remaining()
	text := tooltipText(s.store.Snapshot().Current, remaining, running, s.timer.interval)

	s.tipMu.Lock()
	defer s.tipMu.Unlock()
	if text == s.tooltip {
		return
	}
	s.tooltip = text
	s.icon.SetTooltip(text)
}

// tooltipText renders e.g. "Wallpaper Shuffle: forest (04:59 | 30:00)".
func tooltipText(current string, remaining time.Duration, running bool, interval time.Duration) string {
	text := "Wallpaper Shuffle"
	if current != "" {
		text += ": " + current
	}
	if !running {
		return text + " (timer stopped)"
	}
	return text + " (" + formatClock(remaining) + " | " + formatClock(interval) + ")"
}

// close releases everything the session started. Discovery and Async calls
// are waited for so their goroutines do not outlive the log file.
func (s *session) close() {
	s.cancel()
	s.timer.Stop()
	s.unwatch()
	if s.icon != nil {
		s.icon.Close()
	}
	s.scanner.Wait()
	s.coord.Wait()
	s.mailbox.Close()
}
