package settings

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Kind is the value type of a setting.
type Kind int

const (
	KindText Kind = iota
	KindPath
	KindInt
	KindBool
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPath:
		return "path"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindChoice:
		return "choice"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Page groups settings in the settings panel.
type Page string

const (
	PageBasic       Page = "Basic"
	PageAudio       Page = "Audio"
	PageDisplay     Page = "Display"
	PagePerformance Page = "Performance"
)

// Pages lists the panel pages in display order.
var Pages = []Page{PageBasic, PageAudio, PageDisplay, PagePerformance}

// Setting keys understood by the engine.
const (
	KeyLinuxWpePath      = "linuxWpePath"
	KeyWallpaperDir      = "wallpaperDir"
	KeyVolumeLevel       = "volumeLevel"
	KeyMuteAudio         = "muteAudio"
	KeyNoAutomute        = "noAutomute"
	KeyNoAudioProcessing = "noAudioProcessing"
	KeyScreenRoot        = "screenRoot"
	KeyScalingMode       = "scalingMode"
	KeyMaxFps            = "maxFps"
	KeyNoFullscreenPause = "noFullscreenPause"
	KeyDisableMouse      = "disableMouse"
)

// Descriptor describes one editable setting.
type Descriptor struct {
	Key     string
	Label   string
	Page    Page
	Kind    Kind
	Min     int      // KindInt
	Max     int      // KindInt
	Choices []string // KindChoice, lower-case
	Default string   // engine-formatted
}

var descriptors = []Descriptor{
	{Key: KeyLinuxWpePath, Label: "Linux WPE Path", Page: PageBasic, Kind: KindPath},
	{Key: KeyWallpaperDir, Label: "Wallpaper Directory", Page: PageBasic, Kind: KindPath},

	{Key: KeyVolumeLevel, Label: "Volume Level", Page: PageAudio, Kind: KindInt, Min: 0, Max: 100, Default: "50"},
	{Key: KeyMuteAudio, Label: "Mute Audio", Page: PageAudio, Kind: KindBool, Default: "false"},
	{Key: KeyNoAutomute, Label: "Disable Auto-mute", Page: PageAudio, Kind: KindBool, Default: "false"},
	{Key: KeyNoAudioProcessing, Label: "Disable Audio Processing", Page: PageAudio, Kind: KindBool, Default: "false"},

	{Key: KeyScreenRoot, Label: "Screen Output", Page: PageDisplay, Kind: KindText},
	{Key: KeyScalingMode, Label: "Scaling Mode", Page: PageDisplay, Kind: KindChoice,
		Choices: []string{"default", "stretch", "fit", "fill"}, Default: "default"},

	{Key: KeyMaxFps, Label: "Maximum FPS", Page: PagePerformance, Kind: KindInt, Min: 1, Max: 240, Default: "60"},
	{Key: KeyNoFullscreenPause, Label: "Disable Fullscreen Pause", Page: PagePerformance, Kind: KindBool, Default: "false"},
	{Key: KeyDisableMouse, Label: "Disable Mouse", Page: PagePerformance, Kind: KindBool, Default: "false"},
}

// Descriptors returns every known setting in panel order.
func Descriptors() []Descriptor {
	return slices.Clone(descriptors)
}

// OnPage returns the settings shown on page.
func OnPage(page Page) []Descriptor {
	var out []Descriptor
	for _, d := range descriptors {
		if d.Page == page {
			out = append(out, d)
		}
	}
	return out
}

// Lookup returns the descriptor for key.
func Lookup(key string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Key == key {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Current returns d's value from m in engine format, or d.Default.
func (d Descriptor) Current(m Map) string {
	e, ok := m.Get(d.Key)
	if !ok || e.Value == nil {
		return d.Default
	}
	v, err := FormatValue(d, e.Value)
	if err != nil {
		return d.Default
	}
	return v
}

// FormatValue renders v the way the engine expects for d: true/false for
// booleans, base-10 integers clamped to the range, lower-case choices.
// Paths and text are trimmed; an empty path is rejected.
func FormatValue(d Descriptor, v any) (string, error) {
	switch d.Kind {
	case KindBool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return "", fmt.Errorf("%s: not a boolean: %v", d.Key, v)
		}
		return strconv.FormatBool(b), nil

	case KindInt:
		n, err := toInt(v)
		if err != nil {
			return "", fmt.Errorf("%s: not a number: %v", d.Key, v)
		}
		n = max(d.Min, min(d.Max, n))
		return strconv.Itoa(n), nil

	case KindChoice:
		s := strings.ToLower(strings.TrimSpace(cast.ToString(v)))
		if !slices.Contains(d.Choices, s) {
			return "", fmt.Errorf("%s: %q is not one of %s", d.Key, s, strings.Join(d.Choices, ", "))
		}
		return s, nil

	case KindPath:
		s := strings.TrimSpace(cast.ToString(v))
		if s == "" {
			return "", fmt.Errorf("%s: path is empty", d.Key)
		}
		return s, nil

	default:
		return strings.TrimSpace(cast.ToString(v)), nil
	}
}

// toInt accepts whole numbers in any numeric type or string, including
// JSON floats like 60.0 and slider values like "42.7" (truncated).
func toInt(v any) (int, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), nil
		}
		return 0, fmt.Errorf("parse %q", s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Step returns the value one increment away from cur in direction dir
// (+1 or -1): ints move by one within range, booleans toggle, choices cycle.
// Paths and text return cur unchanged.
func Step(d Descriptor, cur string, dir int) string {
	switch d.Kind {
	case KindInt:
		n, err := toInt(cur)
		if err != nil {
			n = cast.ToInt(d.Default)
		}
		return strconv.Itoa(max(d.Min, min(d.Max, n+dir)))
	case KindBool:
		b, _ := cast.ToBoolE(cur)
		return strconv.FormatBool(!b)
	case KindChoice:
		i := slices.Index(d.Choices, strings.ToLower(cur))
		if i < 0 {
			return d.Choices[0]
		}
		n := len(d.Choices)
		return d.Choices[((i+dir)%n+n)%n]
	default:
		return cur
	}
}
