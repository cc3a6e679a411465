package ui

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rileylov/designlab/internal/catalog"
	"github.com/rileylov/designlab/internal/config"
	"github.com/rileylov/designlab/internal/motion"
	"github.com/rileylov/designlab/internal/slide"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

// 340 points over 34 cells keeps one cell at exactly ten points.
func testOptions() Options {
	return Options{
		Geometry:   slide.Geometry{TrackWidth: 340, HandleWidth: 50, CompleteRatio: 0.86},
		TrackCells: 34,
		FPS:        60,
		Haptics:    config.HapticsFlash,
		Rand:       rand.New(rand.NewPCG(1, 2)),
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestSlide(t *testing.T, opts Options) *slidePayScreen {
	t.Helper()
	s, err := newSlidePayScreen(opts)
	if err != nil {
		t.Fatalf("newSlidePayScreen: %v", err)
	}
	s.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return s
}

// settle feeds animation frames until the tween finishes.
func settle(t *testing.T, s *slidePayScreen) {
	t.Helper()
	for i := 0; i < 1000 && s.tween.Active(); i++ {
		s.Update(frameMsg{id: s.id, gen: s.frameGen})
	}
	if s.tween.Active() {
		t.Fatalf("animation did not settle")
	}
}

func TestSlideKeyboardGestureCompletes(t *testing.T) {
	s := newTestSlide(t, testOptions())

	var pulseCmd tea.Cmd
	for i := 0; i < 25; i++ {
		if _, cmd := s.Update(key("right")); cmd != nil {
			pulseCmd = cmd
		}
	}
	if s.ctrl.Offset() != 250 || s.shown != 250 {
		t.Fatalf("after 25 steps: %s", s)
	}
	if pulseCmd == nil || !s.flashing {
		t.Fatalf("crossing the threshold should flash the handle")
	}
	if !strings.Contains(s.View(), "release to pay") {
		t.Fatalf("hint should invite a release above the threshold")
	}

	s.Update(key("enter"))
	if !s.ctrl.Completed() || !s.tween.Active() {
		t.Fatalf("release should complete and animate: %s", s)
	}
	settle(t, s)
	if s.shown != 290 {
		t.Fatalf("handle settled at %v, want 290", s.shown)
	}
	if v := s.View(); !strings.Contains(v, "paid") || !strings.Contains(v, "Payment confirmed") {
		t.Fatalf("completed view missing confirmation:\n%s", v)
	}

	// Further input is ignored until a reset.
	s.Update(key("left"))
	if s.ctrl.Offset() != 290 {
		t.Fatalf("input accepted while completed: %s", s)
	}
}

func TestSlideKeyboardGestureStaysOnTrack(t *testing.T) {
	s := newTestSlide(t, testOptions())

	for i := 0; i < 60; i++ {
		s.Update(key("right"))
	}
	if s.ctrl.Offset() != 290 {
		t.Fatalf("pressing past the end should clamp: %s", s)
	}
	s.Update(key("left"))
	if s.ctrl.Offset() != 280 {
		t.Fatalf("one press back from the end should move the handle: %s", s)
	}
	for i := 0; i < 5; i++ {
		s.Update(key("left"))
	}
	s.Update(key("enter"))
	if s.ctrl.Completed() {
		t.Fatalf("backing away below the threshold must not pay: %s", s)
	}

	for i := 0; i < 10; i++ {
		s.Update(key("left"))
	}
	s.Update(key("right"))
	if s.ctrl.Offset() != 10 {
		t.Fatalf("one press forward from the start should move the handle: %s", s)
	}
}

func TestSlideReleaseBelowThresholdSpringsBack(t *testing.T) {
	s := newTestSlide(t, testOptions())
	for i := 0; i < 10; i++ {
		s.Update(key("right"))
	}
	s.Update(key(" "))
	if s.ctrl.Completed() || s.ctrl.Offset() != 0 {
		t.Fatalf("release at 100 should reset: %s", s)
	}
	if got, want := s.tween.Params(), motion.DefaultProfiles().Spring; got != want {
		t.Fatalf("release animated with %+v, want %+v", got, want)
	}
	settle(t, s)
	if s.shown != 0 {
		t.Fatalf("handle settled at %v, want 0", s.shown)
	}
}

func TestSlideMouseGesture(t *testing.T) {
	s := newTestSlide(t, testOptions())
	s.hit = hitAlways(s.trackID())

	s.Update(tea.MouseMsg{X: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	s.Update(tea.MouseMsg{X: 30, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if s.ctrl.Offset() != 250 {
		t.Fatalf("25 cells should be 250 points: %s", s)
	}
	s.Update(tea.MouseMsg{X: 60, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if s.ctrl.Offset() != 290 {
		t.Fatalf("drag past the end should clamp: %s", s)
	}
	s.Update(tea.MouseMsg{X: 60, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if !s.ctrl.Completed() {
		t.Fatalf("release past the threshold should complete: %s", s)
	}
}

func TestSlideResetOnlyAfterCompletion(t *testing.T) {
	s := newTestSlide(t, testOptions())
	s.Update(key("right"))
	if _, cmd := s.Update(key("r")); cmd != nil {
		t.Fatalf("reset should be disabled before completion")
	}
	if s.ctrl.Offset() != 10 {
		t.Fatalf("reset changed an in-progress drag: %s", s)
	}

	for i := 0; i < 30; i++ {
		s.Update(key("right"))
	}
	s.Update(key("enter"))
	settle(t, s)

	if _, cmd := s.Update(key("r")); cmd == nil {
		t.Fatalf("reset after completion should animate")
	}
	if s.ctrl.Completed() || s.ctrl.Offset() != 0 {
		t.Fatalf("reset did not re-arm: %s", s)
	}
	if got, want := s.tween.Params(), motion.DefaultProfiles().Retry; got != want {
		t.Fatalf("retry animated with %+v, want %+v", got, want)
	}
	settle(t, s)
	s.Update(key("right"))
	if s.ctrl.Offset() != 10 {
		t.Fatalf("drag after reset not accepted: %s", s)
	}
}

func TestSlideBellModeRingsOncePerCrossing(t *testing.T) {
	var bell bytes.Buffer
	opts := testOptions()
	opts.Haptics = config.HapticsBell
	opts.Bell = &bell
	s := newTestSlide(t, opts)

	for i := 0; i < 29; i++ {
		s.Update(key("right"))
	}
	for i := 0; i < 10; i++ {
		s.Update(key("left"))
	}
	if got := strings.Count(bell.String(), "\a"); got != 2 {
		t.Fatalf("bell rang %d times, want 2 (up and down)", got)
	}
}

func TestSlideForwardsEventsToSink(t *testing.T) {
	var kinds []slide.EventKind
	opts := testOptions()
	opts.Haptics = config.HapticsOff
	opts.Sink = slide.SinkFunc(func(e slide.Event) { kinds = append(kinds, e.Kind) })
	s := newTestSlide(t, opts)

	s.Update(key("L"))
	s.Update(key("enter"))
	want := []slide.EventKind{slide.EventMoved, slide.EventReset}
	if len(kinds) != len(want) || kinds[0] != want[0] || kinds[1] != want[1] {
		t.Fatalf("sink got %v, want %v", kinds, want)
	}
	if s.flashing {
		t.Fatalf("haptics off should not flash")
	}
}

func TestSlideRejectsBadGeometry(t *testing.T) {
	opts := testOptions()
	opts.Geometry.HandleWidth = 400
	if _, err := opts.NewScreen(catalog.SlidePay); !errors.Is(err, slide.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestVolumeMeterStep(t *testing.T) {
	v := volumeMeter{volume: 7, recommended: 8}
	if changed, animate := v.step(1); !changed || !animate || !v.fit() {
		t.Fatalf("landing on the recommendation should animate: %+v", v)
	}
	if changed, animate := v.step(1); !changed || !animate || v.fit() {
		t.Fatalf("leaving the recommendation should animate: %+v", v)
	}
	if changed, animate := v.step(1); !changed || animate {
		t.Fatalf("plain step should not animate: %+v", v)
	}
	v.volume = volumeMax
	if changed, _ := v.step(1); changed {
		t.Fatalf("volume exceeded max")
	}
	v.volume = volumeMin
	if changed, _ := v.step(-1); changed {
		t.Fatalf("volume went below min")
	}
}

func TestVolumeScreenMergesReadouts(t *testing.T) {
	s := newVolumeScreen(testOptions())
	for i := 0; i < 4; i++ {
		s.Update(key("+"))
	}
	for i := 0; i < 1000 && s.gap.Active(); i++ {
		s.Update(frameMsg{id: s.id, gen: s.gen})
	}
	v := s.View()
	if !strings.Contains(v, "Volume set!") || strings.Contains(v, "Recommended") {
		t.Fatalf("fit view should show one merged readout:\n%s", v)
	}
	s.Update(key("-"))
	if !strings.Contains(s.View(), "Recommended") {
		t.Fatalf("leaving the fit should split the readouts again")
	}
}

func TestGenerateStarsWithinBounds(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	stars := generateStars(r, starCount, 40, 10)
	if len(stars) != starCount {
		t.Fatalf("got %d stars", len(stars))
	}
	for _, st := range stars {
		if st.x < 0 || st.x >= 40 || st.y < 0 || st.y >= 10 {
			t.Fatalf("star out of bounds: %+v", st)
		}
		if st.period < 2 || st.period > 5 || st.base < 0.1 || st.base > 0.5 || st.blink < 0.1 || st.blink > 0.3 {
			t.Fatalf("star parameters out of range: %+v", st)
		}
		for _, tm := range []float64{0, 0.7, 3.3} {
			if o := st.opacity(tm); o < st.base-1e-9 || o > st.base+st.blink+1e-9 {
				t.Fatalf("opacity %v outside [%v,%v]", o, st.base, st.base+st.blink)
			}
		}
	}
	if generateStars(r, 5, 0, 10) != nil {
		t.Fatalf("empty field should have no stars")
	}
}

func TestStarScreenView(t *testing.T) {
	s := newStarScreen(testOptions())
	s.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	v := s.View()
	if !strings.Contains(v, "Stare at the stars") {
		t.Fatalf("missing caption")
	}
	if got := strings.Count(v, "\n"); got != 11 {
		t.Fatalf("view has %d line breaks, want 11", got)
	}
}

func TestCatalogSearchDebouncesAndNavigates(t *testing.T) {
	s := newCatalogScreen("Gallery", catalog.Gallery(), testOptions())
	s.Update(tea.WindowSizeMsg{Width: 120, Height: 20})

	for _, r := range "slide" {
		s.Update(key(string(r)))
	}
	if len(s.shown) != 3 {
		t.Fatalf("filter applied before the debounce fired")
	}
	s.Update(debouncedFilterMsg{id: s.id})
	if len(s.shown) != 1 || s.shown[0].Destination != catalog.SlidePay {
		t.Fatalf("shown = %+v", s.shown)
	}

	_, cmd := s.Update(key("enter"))
	if cmd == nil {
		t.Fatalf("enter should navigate")
	}
	if msg, ok := cmd().(navigateMsg); !ok || msg.dest != catalog.SlidePay {
		t.Fatalf("enter produced %#v", cmd())
	}
}

func TestCatalogCategoryCycle(t *testing.T) {
	s := newCatalogScreen("Gallery", catalog.Gallery(), testOptions())
	s.Update(key("ctrl+f"))
	if s.category == nil || *s.category != catalog.Animation || len(s.shown) != 1 {
		t.Fatalf("first cycle should select Animation, got %v %d", s.category, len(s.shown))
	}
	s.Update(key("ctrl+f"))
	s.Update(key("ctrl+f"))
	s.Update(key("ctrl+f"))
	if s.category != nil || len(s.shown) != 3 {
		t.Fatalf("cycle should wrap to All")
	}
}

func TestCatalogCopiesSelection(t *testing.T) {
	var copied string
	opts := testOptions()
	opts.Clipboard = func(s string) error { copied = s; return nil }
	s := newCatalogScreen("Gallery", catalog.Gallery(), opts)

	s.Update(key("ctrl+y"))
	if !strings.HasPrefix(copied, "Match the volume") || !strings.Contains(s.statusMessage, "Copied") {
		t.Fatalf("copied %q, status %q", copied, s.statusMessage)
	}

	opts.Clipboard = func(string) error { return errors.New("no display") }
	s = newCatalogScreen("Gallery", catalog.Gallery(), opts)
	s.Update(key("ctrl+y"))
	if !strings.Contains(s.statusMessage, "no display") {
		t.Fatalf("status = %q", s.statusMessage)
	}
}

func TestEmptyArchive(t *testing.T) {
	s := newCatalogScreen("Archive", catalog.Archive(), testOptions())
	if _, cmd := s.Update(key("enter")); cmd != nil {
		t.Fatalf("enter on an empty list should not navigate")
	}
	if !strings.Contains(s.View(), "No demos here yet.") {
		t.Fatalf("empty archive view:\n%s", s.View())
	}
}

func TestAppNavigation(t *testing.T) {
	a := New(testOptions())
	if a.View() != "" {
		t.Fatalf("view before sizing should be empty")
	}
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	a.Update(navigateMsg{dest: catalog.SlidePay})
	if a.Current().Title() != "Slide to pay" {
		t.Fatalf("current = %q", a.Current().Title())
	}
	if got := strings.Join(a.header.crumbs, crumbSep); got != "designlab › Gallery › Slide to pay" {
		t.Fatalf("breadcrumb = %q", got)
	}
	if !strings.Contains(a.View(), "slide to pay") {
		t.Fatalf("track missing from view")
	}

	a.Update(key("tab"))
	if a.Current().Title() != "Archive" {
		t.Fatalf("tab should switch to Archive, got %q", a.Current().Title())
	}
	a.Update(key("tab"))
	if a.Current().Title() != "Slide to pay" {
		t.Fatalf("switching back should keep the Gallery path, got %q", a.Current().Title())
	}

	a.Update(key("esc"))
	if a.Current().Title() != "Gallery" || a.tab().stack.Len() != 0 {
		t.Fatalf("esc should pop to Gallery, got %q", a.Current().Title())
	}
}

func TestAppReselectingTabPopsToRoot(t *testing.T) {
	a := New(testOptions())
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	a.Update(navigateMsg{dest: catalog.BlinkStar})
	a.Update(navigateMsg{dest: catalog.FitVolume})
	if a.tab().stack.Len() != 2 {
		t.Fatalf("stack len = %d", a.tab().stack.Len())
	}
	a.selectTab(0)
	if a.tab().stack.Len() != 0 {
		t.Fatalf("reselecting the tab should pop to root")
	}
}

func TestFitCrumbsKeepsCurrentScreen(t *testing.T) {
	crumbs := []string{"designlab", "Gallery", "Slide to pay"}
	cases := []struct {
		width int
		want  string
	}{
		{80, " designlab › Gallery › Slide to pay"},
		{30, " … › Gallery › Slide to pay"},
		{20, " … › Slide to pay"},
		{7, " Slide…"},
		{0, ""},
	}
	for _, tc := range cases {
		if got := fitCrumbs(crumbs, tc.width); got != tc.want {
			t.Errorf("fitCrumbs(%d) = %q, want %q", tc.width, got, tc.want)
		}
	}
}
