package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(args ...string) (string, error) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSet_RejectsBadValueBeforeDispatch(t *testing.T) {
	_, err := execute("set", "volumeLevel", "loud")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a number")

	_, err = execute("set", "scalingMode", "zoom")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not one of")
}

func TestLoad_RequiresPreset(t *testing.T) {
	_, err := execute("load")
	require.Error(t, err)
}

func TestRoot_HasSubcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"next", "prev", "random", "exit", "load", "set", "list"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		require.Equal(t, name, cmd.Name())
	}
	require.NotNil(t, root.Flags().Lookup("no-tray"))
	require.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestExitCode(t *testing.T) {
	code, ok := exitCode(fmt.Errorf("wrapped: %w", engineFailed{code: 1}))
	require.True(t, ok)
	require.Equal(t, 1, code)

	_, ok = exitCode(errors.New("plain"))
	require.False(t, ok)
}
