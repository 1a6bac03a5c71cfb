package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/abcdqfr/wallpaper-shuffle/internal/app"
)

// engineFailed reports a command the engine rejected. Its text has already
// been printed, so run only turns it into an exit status.
type engineFailed struct {
	code int
}

func (e engineFailed) Error() string { return "engine command failed" }

func exitCode(err error) (int, bool) {
	var ef engineFailed
	if errors.As(err, &ef) {
		return ef.code, true
	}
	return 0, false
}

// NewRootCmd creates the root command. Without a subcommand it shows the
// control view.
func NewRootCmd() *cobra.Command {
	var opts app.Options

	rootCmd := &cobra.Command{
		Use:   "wallshuffle",
		Short: "Control view for the Wallpaper Shuffle engine",
		Long: `wallshuffle drives the Wallpaper Shuffle engine script: browse presets,
load, shuffle and change engine settings from the terminal. With a system
tray available, closing the view keeps the tray icon running.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default is ~/.config/wallshuffle/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "view preferences file (default is ~/.config/wallshuffle/prefs.toml)")
	flags.BoolVar(&opts.Debug, "debug", false, "log at debug level")
	rootCmd.Flags().BoolVar(&opts.NoTray, "no-tray", false, "do not show a tray icon; closing the view exits")

	rootCmd.AddCommand(
		newVerbCmd(&opts, "next", "Switch to the next wallpaper"),
		newVerbCmd(&opts, "prev", "Switch to the previous wallpaper"),
		newVerbCmd(&opts, "random", "Switch to a random wallpaper"),
		newVerbCmd(&opts, "exit", "Stop the engine"),
		newLoadCmd(&opts),
		newSetCmd(&opts),
		newListCmd(&opts),
	)
	return rootCmd
}
