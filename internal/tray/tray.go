// Package tray puts a status icon with a control menu in the desktop tray.
package tray

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"time"

	"fyne.io/systray"

	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
)

// Action is a tray menu choice.
type Action int

const (
	ActionNext Action = iota
	ActionPrev
	ActionRandom
	ActionShow
	ActionExit
	ActionToggleShuffle
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	case ActionRandom:
		return "random"
	case ActionShow:
		return "show"
	case ActionExit:
		return "exit"
	case ActionToggleShuffle:
		return "toggle-shuffle"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ErrUnavailable is returned when there is no session bus to host the icon.
var ErrUnavailable = errors.New("no system tray available")

// Icon is a running tray icon.
type Icon interface {
	// Actions delivers menu choices until Close.
	Actions() <-chan Action
	SetTooltip(text string)
	Close()
}

type menuEntry struct {
	title   string
	tooltip string
	action  Action
}

var menu = []menuEntry{
	{"Toggle Timer", "Start or stop the shuffle timer", ActionToggleShuffle},
	{"Next", "Next wallpaper", ActionNext},
	{"Previous", "Previous wallpaper", ActionPrev},
	{"Random", "Random wallpaper", ActionRandom},
	{"", "", -1},
	{"Show Window", "Open the control view", ActionShow},
	{"Exit", "Stop the engine and quit", ActionExit},
}

const readyTimeout = 5 * time.Second

// Systray is an Icon backed by fyne.io/systray.
type Systray struct {
	actions chan Action
	done    chan struct{}
	end     func()
	once    sync.Once
}

// Available reports whether a tray host can be reached. On Linux the icon
// is a StatusNotifierItem on the session bus.
func Available() bool {
	return os.Getenv("DBUS_SESSION_BUS_ADDRESS") != ""
}

// Start shows the icon and its menu. The caller owns the returned icon and
// must Close it.
func Start(tooltip string) (*Systray, error) {
	if !Available() {
		return nil, ErrUnavailable
	}
	icon, err := Image()
	if err != nil {
		return nil, err
	}

	s := &Systray{
		actions: make(chan Action, len(menu)),
		done:    make(chan struct{}),
	}
	ready := make(chan struct{})
	start, end := systray.RunWithExternalLoop(func() {
		systray.SetIcon(icon)
		systray.SetTitle("Wallpaper Shuffle")
		systray.SetTooltip(tooltip)
		for _, m := range menu {
			if m.title == "" {
				systray.AddSeparator()
				continue
			}
			item := systray.AddMenuItem(m.title, m.tooltip)
			go s.forward(item.ClickedCh, m.action)
		}
		close(ready)
	}, nil)
	s.end = end
	start()
	select {
	case <-ready:
	case <-time.After(readyTimeout):
		s.Close()
		return nil, fmt.Errorf("%w: tray host did not answer", ErrUnavailable)
	}

	log.Info(log.CatTray, "tray icon ready")
	return s, nil
}

func (s *Systray) forward(clicked <-chan struct{}, a Action) {
	for {
		select {
		case <-s.done:
			return
		case <-clicked:
			log.Debug(log.CatTray, "tray action", "action", a.String())
			select {
			case s.actions <- a:
			case <-s.done:
				return
			}
		}
	}
}

// Actions implements Icon.
func (s *Systray) Actions() <-chan Action { return s.actions }

// SetTooltip implements Icon.
func (s *Systray) SetTooltip(text string) { systray.SetTooltip(text) }

// Close removes the icon. Safe to call twice.
func (s *Systray) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.end != nil {
			s.end()
		}
		log.Info(log.CatTray, "tray icon removed")
	})
}

// Image renders the tray icon: a 32x32 framed landscape in PNG.
func Image() ([]byte, error) {
	const size = 32
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	frame := color.NRGBA{R: 0x71, G: 0x9c, B: 0xd6, A: 0xff}
	sky := color.NRGBA{R: 0x63, G: 0xcd, B: 0xcf, A: 0xff}
	hill := color.NRGBA{R: 0x81, G: 0xb2, B: 0x9a, A: 0xff}

	for y := range size {
		for x := range size {
			switch {
			case x < 2 || y < 2 || x >= size-2 || y >= size-2:
				img.Set(x, y, frame)
			case y > size/2+(x-size/2)*(x-size/2)/24:
				img.Set(x, y, hill)
			default:
				img.Set(x, y, sky)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode tray icon: %w", err)
	}
	return buf.Bytes(), nil
}
