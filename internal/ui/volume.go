package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rileylov/designlab/internal/motion"
	"github.com/rileylov/designlab/internal/slide"
)

const (
	volumeMin   = 0
	volumeMax   = 10
	volumeStart = 4
	volumeFit   = 8

	// readoutGap is the number of lines between the current and
	// recommended readouts while they disagree.
	readoutGap = 2
)

var (
	readoutStyle = lipgloss.NewStyle().Bold(true).Width(28)
	fitStyle     = readoutStyle.Foreground(highlight)
)

// volumeMeter steps a volume toward a recommended level.
type volumeMeter struct {
	volume      int
	recommended int
}

// step moves the volume by delta within bounds. animate is set when the step
// lands on or leaves the recommended level.
func (v *volumeMeter) step(delta int) (changed, animate bool) {
	next := min(max(v.volume+delta, volumeMin), volumeMax)
	if next == v.volume {
		return false, false
	}
	animate = next == v.recommended || v.volume == v.recommended
	v.volume = next
	return true, animate
}

func (v volumeMeter) fit() bool { return v.volume == v.recommended }

type volumeScreen struct {
	id    string
	opts  Options
	meter volumeMeter
	gap   *motion.Tween
	gen   int
	width int
}

func newVolumeScreen(opts Options) *volumeScreen {
	opts = opts.withDefaults()
	s := &volumeScreen{
		id:    zone.NewPrefix(),
		opts:  opts,
		meter: volumeMeter{volume: volumeStart, recommended: volumeFit},
		gap:   motion.NewTween(opts.FPS, opts.Profiles),
	}
	s.gap.Start(readoutGap, readoutGap, slide.ProfileNone)
	return s
}

func (s *volumeScreen) Title() string { return "Match the volume" }

func (s *volumeScreen) Init() tea.Cmd { return nil }

func (s *volumeScreen) downID() string { return s.id + "down" }
func (s *volumeScreen) upID() string   { return s.id + "up" }

func (s *volumeScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "+", "=", "up", "k":
			return s, s.step(1)
		case "-", "_", "down", "j":
			return s, s.step(-1)
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return s, nil
		}
		if z := zone.Get(s.upID()); z != nil && z.InBounds(msg) {
			return s, s.step(1)
		}
		if z := zone.Get(s.downID()); z != nil && z.InBounds(msg) {
			return s, s.step(-1)
		}

	case frameMsg:
		if msg.id != s.id || msg.gen != s.gen || !s.gap.Active() {
			return s, nil
		}
		if _, done := s.gap.Step(); !done {
			return s, frameCmd(s.opts.FPS, s.id, s.gen)
		}
	}
	return s, nil
}

func (s *volumeScreen) step(delta int) tea.Cmd {
	changed, animate := s.meter.step(delta)
	if !changed {
		return nil
	}
	target := float64(readoutGap)
	if s.meter.fit() {
		target = 0
	}
	if !animate {
		s.gap.Start(s.gap.Pos(), target, slide.ProfileNone)
		return nil
	}
	s.gap.Start(s.gap.Pos(), target, slide.ProfileEaseOutFast)
	s.gen++
	return frameCmd(s.opts.FPS, s.id, s.gen)
}

func (s *volumeScreen) View() string {
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		zone.Mark(s.downID(), buttonStyle.Render(" - ")),
		zone.Mark(s.upID(), buttonStyle.Render(" + ")),
	)

	gap := int(math.Round(s.gap.Pos()))
	settled := !s.gap.Active()

	var readouts []string
	if s.meter.fit() && settled {
		readouts = append(readouts, fitStyle.Render(fmt.Sprintf("✓ Volume set!  %6d", s.meter.volume)))
	} else {
		readouts = append(readouts, readoutStyle.Render(fmt.Sprintf("♪ Current volume %6d", s.meter.volume)))
		for i := 0; i < gap; i++ {
			readouts = append(readouts, "")
		}
		readouts = append(readouts, readoutStyle.Foreground(muted).Render(fmt.Sprintf("♫ Recommended    %6d", s.meter.recommended)))
	}

	rule := strings.Repeat("─", 28)
	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Adjust the volume"),
		"",
		buttons,
		"",
		rule,
		lipgloss.JoinVertical(lipgloss.Left, readouts...),
		rule,
		"",
		statusStyle.Render("+/- or click the buttons"),
	)
	if s.width > 0 {
		return lipgloss.PlaceHorizontal(s.width, lipgloss.Center, content)
	}
	return content
}
