package tray

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageIsPNG(t *testing.T) {
	data, err := Image()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 32, img.Bounds().Dx())
	require.Equal(t, 32, img.Bounds().Dy())
}

func TestStartWithoutSessionBus(t *testing.T) {
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "")

	require.False(t, Available())
	_, err := Start("Wallpaper Shuffle")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestMenuCoversEveryAction(t *testing.T) {
	seen := map[Action]bool{}
	for _, m := range menu {
		if m.title != "" {
			seen[m.action] = true
		}
	}
	for _, a := range []Action{ActionNext, ActionPrev, ActionRandom, ActionShow, ActionExit, ActionToggleShuffle} {
		require.True(t, seen[a], "no menu entry for %s", a)
	}
}

func TestActionString(t *testing.T) {
	require.Equal(t, "random", ActionRandom.String())
	require.Equal(t, "toggle-shuffle", ActionToggleShuffle.String())
	require.Equal(t, "Action(9)", Action(9).String())
}
