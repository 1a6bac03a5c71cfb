package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abcdqfr/wallpaper-shuffle/internal/config"
	"github.com/abcdqfr/wallpaper-shuffle/internal/control"
	"github.com/abcdqfr/wallpaper-shuffle/internal/engine"
	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
	"github.com/abcdqfr/wallpaper-shuffle/internal/presets"
	"github.com/abcdqfr/wallpaper-shuffle/internal/settings"
	"github.com/abcdqfr/wallpaper-shuffle/internal/tracing"
	"github.com/abcdqfr/wallpaper-shuffle/internal/tray"
)

// Options configure the wallshuffle application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/wallshuffle/prefs.toml
	Debug      bool
	NoTray     bool
}

const shutdownTimeout = 2 * time.Second

// Run shows the control view until the user exits or the context is
// cancelled. With a tray icon, closing the view only hides it.
func Run(ctx context.Context, opts Options) error {
	cfg, closeLog, err := setup(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	runner, shutdownTracing, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer flushTraces(shutdownTracing)

	log.Info(log.CatApp, "starting", "engine", runner.Path(), "settings", cfg.SettingsPath)

	s := newSession(ctx, cfg, runner)
	defer s.close()

	if cfg.Tray.Enabled && !opts.NoTray {
		icon, err := tray.Start(tooltipText("", 0, false, 0))
		if err != nil {
			log.Warn(log.CatTray, "running without tray", "error", err.Error())
		} else {
			s.attachTray(icon)
		}
	}

	s.loadSettings()
	s.rescan()
	if cfg.Shuffle.Interval() > 0 {
		s.timer.Start(s.ctx)
	}

	return s.loop(opts.PrefsPath)
}

// Dispatch sends a single command through a Coordinator and waits for its
// result, including Async commands.
func Dispatch(ctx context.Context, opts Options, cmd engine.Command) (engine.Result, error) {
	cfg, closeLog, err := setup(opts)
	if err != nil {
		return engine.Result{}, err
	}
	defer closeLog()

	runner, shutdownTracing, err := newRunner(cfg)
	if err != nil {
		return engine.Result{}, err
	}
	defer flushTraces(shutdownTracing)

	mailbox := control.NewMailbox()
	coord := control.New(runner, mailbox)

	var (
		res  engine.Result
		done bool
	)
	coord.Run(ctx, cmd, func(r engine.Result) {
		res, done = r, true
	})
	for !done {
		fn, ok := mailbox.Next(ctx)
		if !ok {
			return engine.Result{}, fmt.Errorf("waiting for %s: %w", cmd.Verb(), ctx.Err())
		}
		fn()
	}
	return res, nil
}

// List runs a discovery pass over the configured wallpaperDir. Like the
// view, a missing settings file or directory gives no presets and a logged
// warning; only config and log setup fail.
func List(ctx context.Context, opts Options) ([]presets.Preset, presets.Stats, error) {
	cfg, closeLog, err := setup(opts)
	if err != nil {
		return nil, presets.Stats{}, err
	}
	defer closeLog()

	found, stats := listPresets(ctx, cfg.SettingsPath)
	return found, stats, nil
}

func listPresets(ctx context.Context, settingsPath string) ([]presets.Preset, presets.Stats) {
	// Load logs its own warning and returns an empty map on failure.
	m, _ := settings.Load(settingsPath)
	return presets.Collect(ctx, m.WallpaperDir(), presets.NewMetaCache())
}

func setup(opts Options) (config.Config, func(), error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	closeLog, err := log.Init(cfg.LogPath, opts.Debug)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init log: %w", err)
	}
	return cfg, closeLog, nil
}

func newRunner(cfg config.Config) (*engine.Runner, func(context.Context) error, error) {
	tp, err := tracing.NewProvider(tracing.Config{
		Enabled:  cfg.Tracing.Enabled,
		FilePath: cfg.Tracing.FilePath,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init tracing: %w", err)
	}
	runner, err := engine.NewRunner(cfg.EnginePath, engine.WithTracer(tp.Tracer()))
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return nil, nil, fmt.Errorf("init engine: %w", err)
	}
	return runner, tp.Shutdown, nil
}

func flushTraces(shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Warn(log.CatApp, "trace flush failed", "error", err.Error())
	}
}
