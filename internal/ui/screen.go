// Package ui is the terminal shell: a tab bar, a navigation stack per tab
// and the demo screens pushed onto it.
package ui

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileylov/designlab/internal/catalog"
	"github.com/rileylov/designlab/internal/config"
	"github.com/rileylov/designlab/internal/motion"
	"github.com/rileylov/designlab/internal/slide"
)

// Screen is anything that can sit on a tab's navigation stack.
type Screen interface {
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
}

// navigateMsg asks the app to push a destination on the active tab.
type navigateMsg struct {
	dest catalog.Destination
}

func navigate(dest catalog.Destination) tea.Cmd {
	return func() tea.Msg { return navigateMsg{dest: dest} }
}

// Options are the collaborators handed to every screen.
type Options struct {
	Logger     *slog.Logger
	Geometry   slide.Geometry
	TrackCells int
	FPS        int
	Profiles   motion.Profiles
	Haptics    config.HapticMode
	// Sink receives slide events in addition to the local haptics.
	Sink slide.Sink
	// Bell is where the terminal bell is rung in bell mode.
	Bell io.Writer
	// Clipboard copies text; nil disables copying.
	Clipboard func(string) error
	// Rand seeds the star field; nil uses a time-based source.
	Rand *rand.Rand
}

// OptionsFromConfig fills the screen options from a validated config.
func OptionsFromConfig(cfg config.Config, logger *slog.Logger) Options {
	return Options{
		Logger:     logger,
		Geometry:   cfg.Geometry(),
		TrackCells: cfg.Slide.TrackCells,
		FPS:        cfg.Motion.FPS,
		Profiles:   cfg.Profiles(),
		Haptics:    cfg.Haptics.Mode,
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.TrackCells <= 0 {
		o.TrackCells = 48
	}
	if o.Profiles == (motion.Profiles{}) {
		o.Profiles = motion.DefaultProfiles()
	}
	if o.Bell == nil {
		o.Bell = io.Discard
	}
	if o.Rand == nil {
		now := uint64(time.Now().UnixNano())
		o.Rand = rand.New(rand.NewPCG(now, now>>17))
	}
	return o
}

// NewScreen builds the screen for dest.
func (o Options) NewScreen(dest catalog.Destination) (Screen, error) {
	switch dest {
	case catalog.SlidePay:
		return newSlidePayScreen(o)
	case catalog.FitVolume:
		return newVolumeScreen(o), nil
	case catalog.BlinkStar:
		return newStarScreen(o), nil
	default:
		return nil, fmt.Errorf("no screen for destination %s", dest)
	}
}

// frameCmd schedules the next animation frame for the screen with id.
func frameCmd(fps int, id string, gen int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(time.Time) tea.Msg {
		return frameMsg{id: id, gen: gen}
	})
}

type frameMsg struct {
	id  string
	gen int
}
