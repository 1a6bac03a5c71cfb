package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/abcdqfr/wallpaper-shuffle/internal/control"
	"github.com/abcdqfr/wallpaper-shuffle/internal/engine"
	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
	"github.com/abcdqfr/wallpaper-shuffle/internal/prefs"
	"github.com/abcdqfr/wallpaper-shuffle/internal/state"
)

// Intent is a request from outside the view: the tray menu or the shuffle
// timer.
type Intent int

const (
	IntentNext Intent = iota
	IntentPrev
	IntentRandom
	IntentShuffle
	IntentShow
	IntentExit
	IntentToggleShuffle
)

func (i Intent) String() string {
	switch i {
	case IntentNext:
		return "next"
	case IntentPrev:
		return "prev"
	case IntentRandom:
		return "random"
	case IntentShuffle:
		return "shuffle"
	case IntentShow:
		return "show"
	case IntentExit:
		return "exit"
	case IntentToggleShuffle:
		return "toggle-shuffle"
	default:
		return fmt.Sprintf("Intent(%d)", int(i))
	}
}

// Command returns the engine command an intent maps to. Show and Exit have
// none; Exit is run by whoever owns the process.
func (i Intent) Command() (engine.Command, bool) {
	switch i {
	case IntentNext, IntentShuffle:
		return engine.Next(), true
	case IntentPrev:
		return engine.Prev(), true
	case IntentRandom:
		return engine.Random(), true
	default:
		return engine.Command{}, false
	}
}

// Outcome tells the caller why the view closed.
type Outcome int

const (
	// OutcomeHide closes the view; the process and the engine keep running.
	OutcomeHide Outcome = iota
	// OutcomeExit asks the caller to stop the engine and quit.
	OutcomeExit
)

func (o Outcome) String() string {
	if o == OutcomeExit {
		return "exit"
	}
	return "hide"
}

type panel int

const (
	panelGrid panel = iota
	panelSettings
	panelLog
)

// Options configures the view.
type Options struct {
	Context       context.Context
	Coordinator   *control.Coordinator
	Mailbox       *control.Mailbox
	Store         *state.Store
	Rescan        func()        // restart discovery for the current wallpaperDir
	ToggleShuffle func() string // start or stop the shuffle timer, describing the result
	Prefs         prefs.Prefs
	PrefsPath     string
	LogPath       string
	CanHide       bool // a tray icon can bring the view back
}

// Model is the root view state for Bubble Tea. It is used through a pointer
// because completions scheduled on the Mailbox close over it.
type Model struct {
	// Wiring
	parent    context.Context // process lifetime; engine calls use it
	ctx       context.Context // this view's lifetime
	cancel    context.CancelFunc
	coord     *control.Coordinator
	mailbox   *control.Mailbox
	store     *state.Store
	rescanFn  func()
	shuffleFn func() string
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	canHide   bool

	// UI state
	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
	height  int
	ready   bool

	// Data state
	snap    state.Snapshot
	readout control.Readout

	// Grid
	focus  panel
	cursor int
	offset int // first visible grid row

	// Overlays and panels
	showHelp     bool
	settingsOpen bool
	settings     settingsPanel
	logOpen      bool
	logs         logPane

	pending []tea.Cmd // commands produced by Mailbox callbacks
	intents []Intent  // waiting for the Blocking call in flight
	outcome Outcome
	closed  bool
}

// New creates the view. The session store seeds it, so a re-shown view
// picks up where the hidden one left off.
func New(opts Options) *Model {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	p := opts.Prefs
	if p.Theme == "" {
		p.Theme = prefs.Defaults().Theme
	}

	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	snap := store.Snapshot()

	status := snap.Status
	if status == "" {
		status = "Ready"
		if snap.Current != "" {
			status = "Current: " + snap.Current
		}
	}

	m := &Model{
		parent:    parent,
		ctx:       ctx,
		cancel:    cancel,
		coord:     opts.Coordinator,
		mailbox:   opts.Mailbox,
		store:     store,
		rescanFn:  opts.Rescan,
		shuffleFn: opts.ToggleShuffle,
		prefs:     p,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		canHide:   opts.CanHide,
		theme:     GetTheme(p.Theme),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		snap:      snap,
		readout:   control.NewReadout(status),
		settings:  newSettingsPanel(),
		logs:      newLogPane(),
		logOpen:   p.ShowLog,
	}
	if i := snap.Index(snap.Current); i >= 0 {
		m.cursor = i
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitMail(m.ctx, m.mailbox),
		waitClosed(m.ctx),
	}
	if m.logOpen {
		cmds = append(cmds, m.openLogs())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.layoutLogs()
		m.ensureVisible()
		return m, nil

	case mailMsg:
		if m.mailbox != nil {
			m.mailbox.Drain()
		}
		m.refresh()
		cmds := m.takePending()
		if !m.closed {
			cmds = append(cmds, waitMail(m.ctx, m.mailbox))
		}
		return m, tea.Batch(cmds...)

	case closedMsg:
		log.Info(log.CatUI, "shutting down view")
		return m, m.quit(OutcomeHide)

	case spinner.TickMsg:
		if !m.readout.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case logLinesMsg:
		m.logs.set(msg)
		m.renderLogContent()
		return m, nil

	case logTickMsg:
		if !m.logOpen || msg.gen != m.logs.tickGen {
			return m, nil
		}
		return m, tea.Batch(m.refreshLogs(), logTick(m.logs.tickGen))

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return zone.Scan(m.renderMain())
}

// Handle acts on an intent from the tray or the shuffle timer. It runs on
// the view's thread, from a Mailbox callback.
func (m *Model) Handle(in Intent) {
	switch in {
	case IntentShow:
		return
	case IntentExit:
		m.pending = append(m.pending, m.quit(OutcomeExit))
		return
	case IntentToggleShuffle:
		m.toggleShuffle()
		return
	}
	if m.readout.Busy() {
		log.Debug(log.CatUI, "intent queued behind blocking call", "intent", in.String())
		m.intents = append(m.intents, in)
		return
	}
	cmd, ok := in.Command()
	if !ok {
		return
	}
	log.Info(log.CatUI, "intent", "intent", in.String())
	if c := m.dispatch(cmd, nil); c != nil {
		m.pending = append(m.pending, c)
	}
}

// Outcome reports why the view closed.
func (m *Model) Outcome() Outcome { return m.outcome }

// Busy reports whether input is suspended for a Blocking call.
func (m *Model) Busy() bool { return m.readout.Busy() }

// Status returns the readout text.
func (m *Model) Status() string { return m.readout.Text() }

// Closed reports whether the view has asked to quit. Intents routed to a
// closed view would never run.
func (m *Model) Closed() bool { return m.closed }

// TakeIntents returns the intents still waiting for a Blocking call and
// forgets them. The caller runs them once the view has closed.
func (m *Model) TakeIntents() []Intent {
	out := m.intents
	m.intents = nil
	return out
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.readout.Busy() {
		if msg.String() == "ctrl+c" {
			return m.close()
		}
		return nil
	}

	if m.showHelp {
		m.showHelp = false
		return nil
	}

	if m.settings.editing {
		return m.handleSettingsEdit(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		return m.close()
	case key.Matches(msg, m.keys.Exit):
		return m.quit(OutcomeExit)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return nil
	case key.Matches(msg, m.keys.Escape):
		m.settingsOpen = false
		m.focus = panelGrid
		return nil
	case key.Matches(msg, m.keys.Settings):
		m.toggleSettings()
		return nil
	case key.Matches(msg, m.keys.Logs):
		return m.toggleLogs()
	case key.Matches(msg, m.keys.Next):
		return m.dispatch(engine.Next(), nil)
	case key.Matches(msg, m.keys.Prev):
		return m.dispatch(engine.Prev(), nil)
	case key.Matches(msg, m.keys.Random):
		return m.dispatch(engine.Random(), nil)
	case key.Matches(msg, m.keys.Rescan):
		m.rescan()
		return nil
	case key.Matches(msg, m.keys.Shuffle):
		m.toggleShuffle()
		return nil
	}

	switch m.focus {
	case panelSettings:
		return m.handleSettingsKey(msg)
	case panelLog:
		return m.handleLogKey(msg)
	default:
		return m.handleGridKey(msg)
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.readout.Busy() || m.showHelp {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollGrid(-1)
		return nil
	case tea.MouseButtonWheelDown:
		m.scrollGrid(1)
		return nil
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	for _, b := range toolbarButtons {
		if z := zone.Get(b.zoneID); z != nil && z.InBounds(msg) {
			return m.pressButton(b.id)
		}
	}
	if m.settingsOpen {
		if cmd, ok := m.clickSettings(msg); ok {
			return cmd
		}
	}
	if i, ok := m.presetAt(msg); ok {
		m.focus = panelGrid
		m.cursor = i
		return m.loadSelected()
	}
	return nil
}

// dispatch runs cmd in the mode the coordinator picks for it. Blocking
// calls suspend input and return a command that waits for the engine;
// Async calls return nil and report back through the Mailbox. onOK runs
// after a successful result.
func (m *Model) dispatch(cmd engine.Command, onOK func(engine.Result)) tea.Cmd {
	if m.coord == nil {
		return nil
	}
	if control.ModeFor(cmd) == control.Async {
		m.coord.RunAsync(m.parent, cmd, m.asyncDone(onOK))
		return nil
	}
	return m.runBlocking(cmd, onOK)
}

// runBlocking suspends input, then waits for the engine in a command
// goroutine under the coordinator's FIFO gate. The result comes back as a
// Mailbox callback so it is applied even if the view closed in between.
func (m *Model) runBlocking(cmd engine.Command, onOK func(engine.Result)) tea.Cmd {
	m.readout.Begin()
	log.Debug(log.CatUI, "input suspended", "command", cmd.String())

	ctx, coord, mb := m.parent, m.coord, m.mailbox
	call := func() tea.Msg {
		res := coord.RunBlocking(ctx, cmd)
		mb.Schedule(func() { m.finishBlocking(res, onOK) })
		return nil
	}
	return tea.Batch(call, m.spinner.Tick)
}

func (m *Model) finishBlocking(res engine.Result, onOK func(engine.Result)) {
	m.readout.Finish(res)
	m.store.RecordResult(res)
	if res.OK() && onOK != nil {
		onOK(res)
	}
	m.store.SetStatus(m.readout.Text())
	log.Debug(log.CatUI, "input restored", "command", res.Command.String(), "ok", res.OK())
	m.runIntents()
}

// runIntents dispatches waiting intents in arrival order until one of them
// starts a new Blocking call.
func (m *Model) runIntents() {
	for len(m.intents) > 0 && !m.closed && !m.readout.Busy() {
		in := m.intents[0]
		m.intents = m.intents[1:]
		m.Handle(in)
	}
}

func (m *Model) asyncDone(onOK func(engine.Result)) func(engine.Result) {
	return func(res engine.Result) {
		m.store.RecordResult(res)
		switch {
		case res.Failed():
			m.readout.Note("Error: " + res.ErrorText())
		case onOK != nil:
			onOK(res)
		}
		m.store.SetStatus(m.readout.Text())
	}
}

func (m *Model) loadSelected() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.snap.Presets) {
		return nil
	}
	id := m.snap.Presets[m.cursor].ID
	log.Info(log.CatUI, "loading preset", "preset", id)
	return m.dispatch(engine.Load(id), func(engine.Result) {
		m.readout.Set("Current: " + id)
	})
}

// toggleShuffle reports the timer state without disturbing a Blocking
// call's readout.
func (m *Model) toggleShuffle() {
	if m.shuffleFn == nil {
		return
	}
	m.readout.Note(m.shuffleFn())
	m.store.SetStatus(m.readout.Text())
}

func (m *Model) rescan() {
	if m.rescanFn == nil {
		return
	}
	m.rescanFn()
	m.cursor, m.offset = 0, 0
	m.refresh()
}

// refresh reloads the snapshot from the store after Mailbox callbacks ran.
func (m *Model) refresh() {
	m.snap = m.store.Snapshot()
	if n := len(m.snap.Presets); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	m.ensureVisible()
}

func (m *Model) takePending() []tea.Cmd {
	cmds := m.pending
	m.pending = nil
	return cmds
}

func (m *Model) close() tea.Cmd {
	if m.canHide {
		return m.quit(OutcomeHide)
	}
	return m.quit(OutcomeExit)
}

func (m *Model) quit(o Outcome) tea.Cmd {
	m.outcome = o
	m.closed = true
	log.Info(log.CatUI, "closing view", "outcome", o.String())
	return tea.Quit
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		log.Warn(log.CatUI, "saving prefs failed", "error", err.Error())
	}
}

// renderMain renders toolbar, panels, status line and footer.
func (m *Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderToolbar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderFooter() string {
	return NewBgStyle(m.theme.Background).FillLine(m.help.ShortHelpView(m.keys.ShortHelp()), m.width)
}

// Messages

type mailMsg struct{}

type closedMsg struct{}

// Commands

// waitMail fires when the Mailbox has work. It leaves the work queued, so a
// pump that outlives its view loses nothing.
func waitMail(ctx context.Context, mb *control.Mailbox) tea.Cmd {
	if mb == nil {
		return nil
	}
	return func() tea.Msg {
		if !mb.Ready(ctx) {
			return nil
		}
		return mailMsg{}
	}
}

func waitClosed(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return closedMsg{}
	}
}

var zoneOnce sync.Once

// Run shows the view until it is closed and reports why.
func Run(m *Model) (Outcome, error) {
	zoneOnce.Do(zone.NewGlobal)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return OutcomeExit, fmt.Errorf("run view: %w", err)
	}
	return m.outcome, nil
}
