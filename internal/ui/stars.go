package ui

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

const (
	starCount = 60
	starFPS   = 12
)

type rgb struct{ r, g, b float64 }

var starColors = []rgb{{255, 255, 255}, {152, 255, 214}}

type star struct {
	x, y   int
	size   float64 // 1..18, picks the glyph
	color  rgb
	base   float64 // resting opacity
	blink  float64 // extra opacity at the top of a blink
	period float64 // seconds
	phase  float64
}

func (st star) glyph() string {
	switch {
	case st.size < 6:
		return "·"
	case st.size < 12:
		return "+"
	default:
		return "✦"
	}
}

// opacity at t seconds since the field was created.
func (st star) opacity(t float64) float64 {
	wave := 0.5 + 0.5*math.Sin(2*math.Pi*t/st.period+st.phase)
	return st.base + st.blink*wave
}

func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// generateStars scatters n stars over a w×h field.
func generateStars(r *rand.Rand, n, w, h int) []star {
	if w <= 0 || h <= 0 {
		return nil
	}
	stars := make([]star, n)
	for i := range stars {
		stars[i] = star{
			x:      r.IntN(w),
			y:      r.IntN(h),
			size:   uniform(r, 1, 18),
			color:  starColors[r.IntN(len(starColors))],
			base:   uniform(r, 0.1, 0.5),
			blink:  uniform(r, 0.1, 0.3),
			period: uniform(r, 2, 5),
			phase:  uniform(r, 0, 2*math.Pi),
		}
	}
	return stars
}

type starTickMsg struct {
	id  string
	gen int
}

type starScreen struct {
	id     string
	opts   Options
	stars  []star
	width  int
	height int
	start  time.Time
	now    time.Time
	gen    int
}

func newStarScreen(opts Options) *starScreen {
	opts = opts.withDefaults()
	now := time.Now()
	return &starScreen{id: zone.NewPrefix(), opts: opts, start: now, now: now}
}

func (s *starScreen) Title() string { return "Twinkling stars" }

func (s *starScreen) Init() tea.Cmd { return s.tick() }

func (s *starScreen) tick() tea.Cmd {
	id, gen := s.id, s.gen
	return tea.Tick(time.Second/starFPS, func(time.Time) tea.Msg { return starTickMsg{id: id, gen: gen} })
}

func (s *starScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width != s.width || msg.Height != s.height {
			s.width, s.height = msg.Width, msg.Height
			s.stars = generateStars(s.opts.Rand, starCount, s.width, s.height)
		}
	case tea.KeyMsg:
		if msg.String() == "s" {
			s.stars = generateStars(s.opts.Rand, starCount, s.width, s.height)
		}
	case starTickMsg:
		if msg.id != s.id || msg.gen != s.gen {
			return s, nil
		}
		s.now = time.Now()
		return s, s.tick()
	}
	return s, nil
}

func (s *starScreen) View() string {
	if s.width <= 0 || s.height <= 0 {
		return ""
	}
	t := s.now.Sub(s.start).Seconds()

	grid := make([][]string, s.height)
	for y := range grid {
		grid[y] = make([]string, s.width)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}
	for _, st := range s.stars {
		a := math.Min(1, st.opacity(t)*1.4)
		c := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", int(st.color.r*a), int(st.color.g*a), int(st.color.b*a)))
		grid[st.y][st.x] = lipgloss.NewStyle().Foreground(c).Render(st.glyph())
	}

	caption := " Stare at the stars for a while "
	cy := s.height / 2
	cx := (s.width - lipgloss.Width(caption)) / 2
	if cx >= 0 {
		rendered := titleStyle.Render(caption)
		row := grid[cy]
		grid[cy] = append(append(append([]string{}, row[:cx]...), rendered), row[cx+lipgloss.Width(caption):]...)
	}

	lines := make([]string, s.height)
	for y, row := range grid {
		lines[y] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}
