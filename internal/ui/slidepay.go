package ui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rileylov/designlab/internal/config"
	"github.com/rileylov/designlab/internal/motion"
	"github.com/rileylov/designlab/internal/slide"
)

const (
	slideLabel    = "slide to pay"
	trackRows     = 3
	flashDuration = 120 * time.Millisecond
)

var (
	trackStyle     = lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A2A"}).Foreground(muted)
	revealStyle    = lipgloss.NewStyle().Background(paid).Foreground(white).Bold(true)
	handleStyle    = lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#222222", Dark: "#DDDDDD"}).Foreground(lipgloss.AdaptiveColor{Light: "#FFF", Dark: "#000"}).Bold(true)
	handleHotStyle = handleStyle.Background(special)
	faceStyle      = lipgloss.NewStyle().Bold(true).Padding(1, 0)
)

type flashEndMsg struct {
	id  string
	gen int
}

// bellSink rings the terminal bell on every pulse.
func bellSink(w io.Writer) slide.Sink {
	return slide.Only(slide.SinkFunc(func(slide.Event) {
		_, _ = io.WriteString(w, "\a")
	}), slide.EventPulse)
}

type slidePayScreen struct {
	id    string
	opts  Options
	ctrl  *slide.Controller
	tween *motion.Tween
	drag  DragHandler
	hit   HitTest

	width  int
	height int

	shown    float64 // offset currently drawn; differs from ctrl while animating
	frameGen int

	flashing bool
	flashGen int

	keyDragging bool
	keyCells    int

	status string
}

func newSlidePayScreen(opts Options) (*slidePayScreen, error) {
	opts = opts.withDefaults()
	s := &slidePayScreen{
		id:    zone.NewPrefix(),
		opts:  opts,
		tween: motion.NewTween(opts.FPS, opts.Profiles),
	}

	logger := opts.Logger.With("screen", "slide-pay")
	sinks := slide.Fanout{
		slide.SinkFunc(func(e slide.Event) {
			if e.Kind != slide.EventMoved {
				logger.Debug("slide event", "kind", e.Kind.String(), "offset", e.Offset, "profile", e.Profile.String())
			}
		}),
		opts.Sink,
	}
	if opts.Haptics == config.HapticsBell {
		sinks = append(sinks, bellSink(opts.Bell))
	}

	ctrl, err := slide.New(opts.Geometry, sinks)
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl
	s.hit = s.handleHit
	return s, nil
}

func (s *slidePayScreen) Title() string { return "Slide to pay" }

func (s *slidePayScreen) Init() tea.Cmd { return nil }

func (s *slidePayScreen) trackID() string { return s.id + "track" }
func (s *slidePayScreen) resetID() string { return s.id + "reset" }

// pointsPerCell converts terminal columns to controller points.
func (s *slidePayScreen) pointsPerCell() float64 {
	return s.ctrl.Geometry().TrackWidth / float64(s.opts.TrackCells)
}

func (s *slidePayScreen) handleCells() int {
	return max(1, int(math.Round(s.ctrl.Geometry().HandleWidth/s.pointsPerCell())))
}

// handleStart is the first column of the handle for a drawn offset.
func (s *slidePayScreen) handleStart(offset float64) int {
	col := int(math.Round(offset / s.pointsPerCell()))
	return min(max(col, 0), s.opts.TrackCells-s.handleCells())
}

// handleHit accepts presses that land on the handle inside the track zone.
func (s *slidePayScreen) handleHit(msg tea.MouseMsg) (string, bool) {
	z := zone.Get(s.trackID())
	if z == nil || !z.InBounds(msg) {
		return "", false
	}
	x, _ := z.Pos(msg)
	start := s.handleStart(s.shown)
	if x >= start && x < start+s.handleCells() {
		return s.trackID(), true
	}
	return "", false
}

func (s *slidePayScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height

	case tea.MouseMsg:
		return s, s.handleMouse(msg)

	case tea.KeyMsg:
		return s, s.handleKey(msg)

	case frameMsg:
		if msg.id != s.id || msg.gen != s.frameGen || !s.tween.Active() {
			return s, nil
		}
		pos, done := s.tween.Step()
		s.shown = pos
		if !done {
			return s, frameCmd(s.opts.FPS, s.id, s.frameGen)
		}

	case flashEndMsg:
		if msg.id == s.id && msg.gen == s.flashGen {
			s.flashing = false
		}
	}
	return s, nil
}

func (s *slidePayScreen) handleMouse(msg tea.MouseMsg) tea.Cmd {
	g := s.drag.HandleMouseEvent(msg, s.hit)
	switch g.Phase {
	case DragBegan:
		s.beginGesture()
		return nil
	case DragChanged:
		return s.update(float64(g.Translation) * s.pointsPerCell())
	case DragEnded:
		return s.end()
	}

	if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
		if z := zone.Get(s.resetID()); z != nil && z.InBounds(msg) {
			return s.reset()
		}
	}
	return nil
}

func (s *slidePayScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "right", "l":
		return s.keyStep(1)
	case "shift+right", "L":
		return s.keyStep(4)
	case "left", "h":
		return s.keyStep(-1)
	case "shift+left", "H":
		return s.keyStep(-4)
	case "enter", " ":
		if s.keyDragging {
			s.keyDragging = false
			return s.end()
		}
	case "r":
		return s.reset()
	}
	return nil
}

// keyStep drives a keyboard gesture one or more cells at a time.
func (s *slidePayScreen) keyStep(cells int) tea.Cmd {
	if s.ctrl.Completed() {
		return nil
	}
	if !s.keyDragging {
		s.keyDragging = true
		s.keyCells = 0
		s.beginGesture()
	}
	// Keep the count on the track so reversing responds on the next press.
	maxCells := int(math.Ceil(s.ctrl.MaxOffset() / s.pointsPerCell()))
	s.keyCells = min(max(s.keyCells+cells, 0), maxCells)
	return s.update(float64(s.keyCells) * s.pointsPerCell())
}

func (s *slidePayScreen) beginGesture() {
	s.tween.Stop()
	s.shown = s.ctrl.Offset()
}

func (s *slidePayScreen) update(translation float64) tea.Cmd {
	res := s.ctrl.DragUpdate(translation)
	if res.Ignored {
		return nil
	}
	s.shown = res.Offset
	if res.PulseFired && s.opts.Haptics != config.HapticsOff {
		s.flashing = true
		s.flashGen++
		id, gen := s.id, s.flashGen
		return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashEndMsg{id: id, gen: gen} })
	}
	return nil
}

func (s *slidePayScreen) end() tea.Cmd {
	res := s.ctrl.DragEnd()
	if res.Ignored {
		return nil
	}
	if res.Completed {
		s.status = "Payment confirmed"
	} else {
		s.status = ""
	}
	return s.animate(res)
}

// reset re-arms the control. Like the on-screen button it only acts once a
// payment has gone through, and it springs back more loosely than a short
// release.
func (s *slidePayScreen) reset() tea.Cmd {
	if !s.ctrl.Completed() {
		return nil
	}
	s.keyDragging = false
	s.status = ""
	res := s.ctrl.Reset()
	s.tween.StartWith(s.shown, res.Offset, s.opts.Profiles.Retry)
	return s.play(res.Offset)
}

func (s *slidePayScreen) animate(res slide.EndResult) tea.Cmd {
	s.tween.Start(s.shown, res.Offset, res.Profile)
	return s.play(res.Offset)
}

// play drives the started tween toward target frame by frame.
func (s *slidePayScreen) play(target float64) tea.Cmd {
	s.frameGen++
	if !s.tween.Active() {
		s.shown = target
		return nil
	}
	return frameCmd(s.opts.FPS, s.id, s.frameGen)
}

func (s *slidePayScreen) View() string {
	completed := s.ctrl.Completed()

	resetStyle := buttonDisabledStyle
	if completed {
		resetStyle = buttonActiveStyle
	}
	resetBtn := zone.Mark(s.resetID(), resetStyle.Render("Try again"))

	face := ":-|"
	cup := " "
	if completed {
		face = ":-D"
		cup = "[_]D  paid"
	}

	hint := "drag the handle, or ←/→ then enter · r resets"
	if !completed && s.ctrl.AboveThreshold() {
		hint = "release to pay"
	}
	if s.status != "" {
		hint = s.status
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Slide to pay"),
		"",
		resetBtn,
		faceStyle.Render(face),
		cup,
		"",
		zone.Mark(s.trackID(), s.renderTrack()),
		"",
		statusStyle.Render(hint),
	)
	if s.width > 0 {
		return lipgloss.PlaceHorizontal(s.width, lipgloss.Center, content)
	}
	return content
}

// renderTrack draws the capsule, the green reveal mask behind the handle and
// the handle itself.
func (s *slidePayScreen) renderTrack() string {
	cells := s.opts.TrackCells
	ppc := s.pointsPerCell()
	hw := s.handleCells()
	start := s.handleStart(s.shown)

	reveal := int(math.Round((s.shown + s.ctrl.Geometry().HandleWidth/2) / ppc))
	reveal = min(max(reveal, 0), cells)

	label := []rune(slideLabel)
	labelAt := (cells - len(label)) / 2

	hStyle := handleStyle
	if s.flashing {
		hStyle = handleHotStyle
	}

	rows := make([]string, trackRows)
	for r := 0; r < trackRows; r++ {
		var b strings.Builder
		for c := 0; c < cells; {
			// Group runs of cells sharing a style.
			style, text, n := s.cellRun(c, r, start, hw, reveal, labelAt, label, hStyle)
			b.WriteString(style.Render(text))
			c += n
		}
		rows[r] = b.String()
	}
	return strings.Join(rows, "\n")
}

func (s *slidePayScreen) cellRun(c, row, start, hw, reveal, labelAt int, label []rune, hStyle lipgloss.Style) (lipgloss.Style, string, int) {
	mid := row == trackRows/2

	if c >= start && c < start+hw {
		text := strings.Repeat(" ", hw)
		if mid {
			glyph := "›"
			if s.ctrl.Completed() {
				glyph = "✓"
			}
			text = strings.Repeat(" ", hw/2) + glyph + strings.Repeat(" ", hw-hw/2-1)
		}
		return hStyle, text, hw
	}

	style := trackStyle
	end := s.opts.TrackCells
	if c < reveal {
		style = revealStyle
		end = reveal
	}
	if c < start {
		end = min(end, start)
	}

	var b strings.Builder
	n := 0
	for i := c; i < end; i++ {
		ch := ' '
		if mid && i >= labelAt && i < labelAt+len(label) {
			ch = label[i-labelAt]
		}
		b.WriteRune(ch)
		n++
	}
	return style, b.String(), n
}

// String summarises the control state for logs and tests.
func (s *slidePayScreen) String() string {
	return fmt.Sprintf("offset=%.1f shown=%.1f completed=%v", s.ctrl.Offset(), s.shown, s.ctrl.Completed())
}
