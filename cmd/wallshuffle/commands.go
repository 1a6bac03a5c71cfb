package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abcdqfr/wallpaper-shuffle/internal/app"
	"github.com/abcdqfr/wallpaper-shuffle/internal/engine"
	"github.com/abcdqfr/wallpaper-shuffle/internal/settings"
)

func newVerbCmd(opts *app.Options, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dispatch(cmd, opts, engine.NewCommand(engine.Verb(verb)))
		},
	}
}

func newLoadCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "load <preset>",
		Short: "Load a preset by its directory name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, opts, engine.Load(args[0]))
		},
	}
}

func newSetCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change an engine setting",
		Long: `Change an engine setting. Known keys are checked and formatted the way the
engine expects (true/false, integers, lower-case choices); unknown keys are
passed through unchanged.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if d, ok := settings.Lookup(key); ok {
				formatted, err := settings.FormatValue(d, value)
				if err != nil {
					return err
				}
				value = formatted
			}
			return dispatch(cmd, opts, engine.Set(key, value))
		},
	}
}

func newListCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets in the configured wallpaperDir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			found, stats, err := app.List(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range found {
				fmt.Fprintf(w, "%s\t%s\n", p.ID, p.Preview.String())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if stats.Skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d directories skipped\n", stats.Skipped)
			}
			return nil
		},
	}
}

func dispatch(cmd *cobra.Command, opts *app.Options, c engine.Command) error {
	res, err := app.Dispatch(cmd.Context(), *opts, c)
	if err != nil {
		return err
	}
	if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	if res.Failed() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error: "+res.ErrorText())
		return engineFailed{code: 1}
	}
	return nil
}
