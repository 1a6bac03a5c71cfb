package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `{
  "wallpaperDir": {"type": "filechooser", "value": "~/Wallpapers", "tooltip": "Where presets live"},
  "volumeLevel":  {"type": "scale", "value": 35, "tooltip": "Engine volume"},
  "maxFps":       {"value": 60.0},
  "muteAudio":    {"value": true},
  "scalingMode":  {"value": "Fill"},
  "screenRoot":   {"value": null}
}`

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings-schema.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("HOME", "/home/me")
	m, err := Load(writeSettings(t, sample))
	require.NoError(t, err)

	require.Equal(t, 6, m.Len())
	require.Equal(t, "Where presets live", m.Tooltip(KeyWallpaperDir))
	require.Equal(t, "/home/me/Wallpapers", m.WallpaperDir())
	require.Equal(t, 35, m.Int(KeyVolumeLevel, 50))
	require.Equal(t, 60, m.Int(KeyMaxFps, 1))
	require.True(t, m.Bool(KeyMuteAudio, false))
	require.Equal(t, "fallback", m.String(KeyScreenRoot, "fallback"))
	require.Equal(t, "fallback", m.String("unknownKey", "fallback"))
	require.Equal(t, []string{"maxFps", "muteAudio", "scalingMode", "screenRoot", "volumeLevel", "wallpaperDir"}, m.Keys())
}

func TestLoad_MissingAndMalformed(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }},
		{"malformed", func(t *testing.T) string { return writeSettings(t, `{"wallpaperDir": `) }},
		{"wrong shape", func(t *testing.T) string { return writeSettings(t, `["a", "b"]`) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Load(tc.path(t))
			require.Error(t, err)
			require.Zero(t, m.Len())
			require.Empty(t, m.WallpaperDir())
			require.Equal(t, 50, m.Int(KeyVolumeLevel, 50))
		})
	}
}

func TestApply_UpdatesCopyOnly(t *testing.T) {
	orig := FromEntries(map[string]Entry{
		KeyVolumeLevel: {Value: 10, Tooltip: "vol"},
	})

	next := orig.Apply(KeyVolumeLevel, "80").Apply(KeyMuteAudio, "true").Apply("custom", "x")

	require.Equal(t, 10, orig.Int(KeyVolumeLevel, 0))
	require.Equal(t, 80, next.Int(KeyVolumeLevel, 0))
	require.Equal(t, "vol", next.Tooltip(KeyVolumeLevel))
	require.True(t, next.Bool(KeyMuteAudio, false))
	require.Equal(t, "x", next.String("custom", ""))
}

func TestFormatValue(t *testing.T) {
	vol, _ := Lookup(KeyVolumeLevel)
	fps, _ := Lookup(KeyMaxFps)
	mute, _ := Lookup(KeyMuteAudio)
	mode, _ := Lookup(KeyScalingMode)
	dir, _ := Lookup(KeyWallpaperDir)
	screen, _ := Lookup(KeyScreenRoot)

	tests := []struct {
		name    string
		d       Descriptor
		in      any
		want    string
		wantErr bool
	}{
		{"int from float", vol, 42.9, "42", false},
		{"int from string", vol, "17", "17", false},
		{"int clamped high", vol, 150, "100", false},
		{"int clamped low", fps, 0, "1", false},
		{"int garbage", fps, "fast", "", true},
		{"bool true", mute, true, "true", false},
		{"bool from string", mute, "false", "false", false},
		{"bool garbage", mute, "maybe", "", true},
		{"choice lowered", mode, "Stretch", "stretch", false},
		{"choice unknown", mode, "tile", "", true},
		{"path trimmed", dir, "  /srv/wp  ", "/srv/wp", false},
		{"path empty", dir, "   ", "", true},
		{"text", screen, " HDMI-1 ", "HDMI-1", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormatValue(tc.d, tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDescriptorCurrent(t *testing.T) {
	m := FromEntries(map[string]Entry{
		KeyScalingMode: {Value: "Fit"},
		KeyMaxFps:      {Value: "junk"},
	})
	mode, _ := Lookup(KeyScalingMode)
	fps, _ := Lookup(KeyMaxFps)
	vol, _ := Lookup(KeyVolumeLevel)

	require.Equal(t, "fit", mode.Current(m))
	require.Equal(t, "60", fps.Current(m), "unparseable value falls back to default")
	require.Equal(t, "50", vol.Current(m), "absent value falls back to default")
}

func TestStep(t *testing.T) {
	vol, _ := Lookup(KeyVolumeLevel)
	mute, _ := Lookup(KeyMuteAudio)
	mode, _ := Lookup(KeyScalingMode)
	dir, _ := Lookup(KeyWallpaperDir)

	require.Equal(t, "51", Step(vol, "50", +1))
	require.Equal(t, "100", Step(vol, "100", +1))
	require.Equal(t, "0", Step(vol, "0", -1))
	require.Equal(t, "true", Step(mute, "false", +1))
	require.Equal(t, "false", Step(mute, "true", -1))
	require.Equal(t, "stretch", Step(mode, "default", +1))
	require.Equal(t, "fill", Step(mode, "default", -1))
	require.Equal(t, "default", Step(mode, "bogus", +1))
	require.Equal(t, "/x", Step(dir, "/x", +1))
}

func TestDescriptorsByPage(t *testing.T) {
	var total int
	for _, p := range Pages {
		ds := OnPage(p)
		require.NotEmpty(t, ds, "page %s", p)
		total += len(ds)
	}
	require.Equal(t, len(Descriptors()), total)

	basic := OnPage(PageBasic)
	require.Equal(t, KeyLinuxWpePath, basic[0].Key)
	require.Equal(t, KindPath, basic[1].Kind)

	_, ok := Lookup("nope")
	require.False(t, ok)
	require.Equal(t, "choice", KindChoice.String())
}
