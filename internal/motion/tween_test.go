package motion

import (
	"testing"

	"github.com/rileylov/designlab/internal/slide"
)

// run steps t to completion and returns every frame.
func run(t *testing.T, tw *Tween) []float64 {
	t.Helper()
	var frames []float64
	for i := 0; i < 10*tw.FPS(); i++ {
		pos, done := tw.Step()
		frames = append(frames, pos)
		if done {
			return frames
		}
	}
	t.Fatalf("tween did not finish")
	return nil
}

func TestEaseOutNeverOvershoots(t *testing.T) {
	tw := NewTween(60, DefaultProfiles())
	tw.Start(250, 290, slide.ProfileEaseOutFast)

	frames := run(t, tw)
	for i, p := range frames {
		if p > 290+1e-9 {
			t.Fatalf("frame %d overshot: %v", i, p)
		}
		if i > 0 && p < frames[i-1]-1e-9 {
			t.Fatalf("frame %d moved backwards: %v -> %v", i, frames[i-1], p)
		}
	}
	if last := frames[len(frames)-1]; last != 290 {
		t.Fatalf("final frame = %v, want 290", last)
	}
}

func TestSpringOvershootsOnReset(t *testing.T) {
	tw := NewTween(60, DefaultProfiles())
	tw.Start(200, 0, slide.ProfileSpring)

	overshot := false
	for _, p := range run(t, tw) {
		if p < 0 {
			overshot = true
		}
	}
	if !overshot {
		t.Fatalf("expected an underdamped spring to pass the target")
	}
	if tw.Pos() != 0 || tw.Active() {
		t.Fatalf("tween should end settled at 0, got pos=%v active=%v", tw.Pos(), tw.Active())
	}
}

// deepest returns the lowest position reached animating 290 -> 0 on p.
func deepest(t *testing.T, p Params) float64 {
	tw := NewTween(60, DefaultProfiles())
	tw.StartWith(290, 0, p)
	if tw.Params() != p {
		t.Fatalf("params = %+v, want %+v", tw.Params(), p)
	}
	low := 290.0
	for _, pos := range run(t, tw) {
		low = min(low, pos)
	}
	return low
}

func TestRetrySpringIsLooserThanReleaseSpring(t *testing.T) {
	p := DefaultProfiles()
	if p.Retry.Damping != 0.7 || p.Spring.Damping != 0.8 || p.Retry.Frequency != p.Spring.Frequency {
		t.Fatalf("unexpected defaults %+v", p)
	}
	retry, release := deepest(t, p.Retry), deepest(t, p.Spring)
	if !(retry < release && release < 0) {
		t.Fatalf("retry overshoot %v should be deeper than release overshoot %v", retry, release)
	}
}

func TestProfileNoneJumps(t *testing.T) {
	tw := NewTween(60, DefaultProfiles())
	tw.Start(10, 80, slide.ProfileNone)
	if tw.Active() {
		t.Fatalf("ProfileNone should not animate")
	}
	if pos, done := tw.Step(); pos != 80 || !done {
		t.Fatalf("Step = %v,%v want 80,true", pos, done)
	}
}

func TestUndampedSpringIsBounded(t *testing.T) {
	tw := NewTween(30, Profiles{Spring: Params{Frequency: 10, Damping: 0}})
	tw.Start(100, 0, slide.ProfileSpring)
	frames := run(t, tw)
	if len(frames) != maxSeconds*30 {
		t.Fatalf("expected the frame cap to end the tween, got %d frames", len(frames))
	}
	if tw.Pos() != 0 {
		t.Fatalf("capped tween should snap to target")
	}
}

func TestStop(t *testing.T) {
	tw := NewTween(0, DefaultProfiles())
	if tw.FPS() != 60 {
		t.Fatalf("default fps = %d", tw.FPS())
	}
	tw.Start(0, 100, slide.ProfileSpring)
	tw.Step()
	tw.Stop()
	pos := tw.Pos()
	if p, done := tw.Step(); !done || p != pos {
		t.Fatalf("stopped tween moved: %v -> %v", pos, p)
	}
}
