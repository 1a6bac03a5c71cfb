package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeEngine routes commandFn through this test binary; TestHelperProcess
// then plays the engine.
func fakeEngine(t *testing.T) {
	t.Helper()
	orig := commandFn
	commandFn = func(name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "WALLSHUFFLE_HELPER_PROCESS=1")
		return cmd
	}
	t.Cleanup(func() { commandFn = orig })
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("WALLSHUFFLE_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	// args: "--", engine path, verb, rest...
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "no verb")
		os.Exit(2)
	}
	verb, rest := args[2], args[3:]
	switch {
	case verb == "load" && len(rest) == 1 && rest[0] == "missing":
		fmt.Fprint(os.Stderr, "not found\n")
		os.Exit(1)
	case verb == "settings" && len(rest) != 2:
		fmt.Fprint(os.Stderr, "usage: settings <key> <value>")
		os.Exit(64)
	case verb == "crash":
		os.Exit(3)
	default:
		fmt.Fprintf(os.Stdout, "ok %s %s", verb, strings.Join(rest, " "))
		os.Exit(0)
	}
}

func TestRunner_SuccessCapturesStdout(t *testing.T) {
	fakeEngine(t)
	r, err := NewRunner("/opt/engine.sh")
	require.NoError(t, err)

	res := r.Execute(context.Background(), Load("beach"))

	require.True(t, res.OK(), "result: %+v", res)
	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "ok load beach", res.Stdout)
	require.Empty(t, res.ErrorText())
	require.NotEmpty(t, res.ID)
	require.Equal(t, VerbLoad, res.Command.Verb())
}

func TestRunner_NonZeroExitIsResultNotError(t *testing.T) {
	fakeEngine(t)
	r, err := NewRunner("/opt/engine.sh")
	require.NoError(t, err)

	res := r.Execute(context.Background(), Load("missing"))

	require.True(t, res.Failed())
	require.NoError(t, res.Err)
	require.False(t, res.LaunchFailed())
	require.Equal(t, 1, res.ExitCode)
	require.Equal(t, "not found", res.ErrorText())
}

func TestRunner_ExitWithoutStderrDescribesStatus(t *testing.T) {
	fakeEngine(t)
	r, err := NewRunner("/opt/engine.sh")
	require.NoError(t, err)

	res := r.Execute(context.Background(), NewCommand("crash"))

	require.Equal(t, 3, res.ExitCode)
	require.Equal(t, "crash exited with status 3", res.ErrorText())
}

func TestRunner_MissingExecutableIsLaunchFailure(t *testing.T) {
	r, err := NewRunner(filepath.Join(t.TempDir(), "does-not-exist.sh"))
	require.NoError(t, err)

	res := r.Execute(context.Background(), Next())

	require.True(t, res.LaunchFailed())
	require.True(t, errors.Is(res.Err, ErrLaunch))
	require.Equal(t, -1, res.ExitCode)
	require.Contains(t, res.ErrorText(), "engine launch failed")
}

func TestRunner_NotExecutableIsLaunchFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o600))

	r, err := NewRunner(path)
	require.NoError(t, err)

	res := r.Execute(context.Background(), Random())
	require.True(t, res.LaunchFailed(), "result: %+v", res)
}

func TestNewRunner_EmptyPath(t *testing.T) {
	_, err := NewRunner("   ")
	require.Error(t, err)
}

func TestCommand_ImmutableAndRendered(t *testing.T) {
	args := []string{"wallpaperDir", "/home/me/My Wallpapers"}
	cmd := NewCommand(VerbSettings, args...)
	args[0] = "mutated"

	require.Equal(t, []string{"wallpaperDir", "/home/me/My Wallpapers"}, cmd.Args())

	got := cmd.Tokens()
	got[0] = "mutated"
	require.Equal(t, VerbSettings, cmd.Verb())

	require.Equal(t, `settings wallpaperDir "/home/me/My Wallpapers"`, cmd.String())
}

func TestCommand_Constructors(t *testing.T) {
	cases := []struct {
		cmd  Command
		want []string
	}{
		{Load("beach"), []string{"load", "beach"}},
		{Next(), []string{"next"}},
		{Prev(), []string{"prev"}},
		{Random(), []string{"random"}},
		{Exit(), []string{"exit"}},
		{Set("maxFps", "60"), []string{"settings", "maxFps", "60"}},
	}
	for _, tc := range cases {
		t.Run(tc.want[0], func(t *testing.T) {
			require.Equal(t, tc.want, tc.cmd.Tokens())
		})
	}

	var zero Command
	require.True(t, zero.IsZero())
	require.Equal(t, Verb(""), zero.Verb())
	require.Nil(t, zero.Args())
}
