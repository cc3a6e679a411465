// Package motion steps damped springs toward a target offset so the
// renderer can animate the snap that follows a release or a reset.
package motion

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/rileylov/designlab/internal/slide"
)

const (
	epsilon = 0.05
	// maxSeconds bounds an animation that never settles, e.g. a spring
	// with zero damping.
	maxSeconds = 3
)

// Params configures one spring.
type Params struct {
	Frequency float64 // angular frequency
	Damping   float64 // damping ratio; >= 1 never overshoots
}

// Profiles maps each animated profile to its spring. Retry is the looser
// spring used when the user re-arms a completed control.
type Profiles struct {
	EaseOut Params
	Spring  Params
	Retry   Params
}

// DefaultProfiles returns a 0.3s ease-out, a 0.5s response spring with 0.8
// damping for a short release, and the same response with 0.7 damping for
// a retry.
func DefaultProfiles() Profiles {
	return Profiles{
		EaseOut: Params{Frequency: 20, Damping: 1},
		Spring:  Params{Frequency: 2 * math.Pi / 0.5, Damping: 0.8},
		Retry:   Params{Frequency: 2 * math.Pi / 0.5, Damping: 0.7},
	}
}

// Tween animates a single value.
type Tween struct {
	fps      int
	profiles Profiles

	spring harmonica.Spring
	params Params
	pos    float64
	vel    float64
	target float64
	frames int
	active bool
}

// NewTween returns an idle tween stepped at fps frames per second.
func NewTween(fps int, profiles Profiles) *Tween {
	if fps <= 0 {
		fps = 60
	}
	return &Tween{fps: fps, profiles: profiles}
}

// FPS returns the frame rate the tween was built for.
func (t *Tween) FPS() int { return t.fps }

// Start begins animating from from to to with the spring for profile.
// ProfileNone jumps straight to the target.
func (t *Tween) Start(from, to float64, profile slide.Profile) {
	switch profile {
	case slide.ProfileEaseOutFast:
		t.StartWith(from, to, t.profiles.EaseOut)
	case slide.ProfileSpring:
		t.StartWith(from, to, t.profiles.Spring)
	default:
		t.pos, t.vel, t.target, t.frames = to, 0, to, 0
		t.params = Params{}
		t.active = false
	}
}

// StartWith animates from from to to on an explicit spring.
func (t *Tween) StartWith(from, to float64, p Params) {
	t.pos, t.vel, t.target, t.frames = from, 0, to, 0
	t.params = p
	t.spring = harmonica.NewSpring(harmonica.FPS(t.fps), p.Frequency, p.Damping)
	t.active = true
}

// Params is the spring of the current or last animation; zero after a jump.
func (t *Tween) Params() Params { return t.params }

// Stop abandons the animation at its current position.
func (t *Tween) Stop() { t.active = false }

// Active reports whether Step still has frames to produce.
func (t *Tween) Active() bool { return t.active }

// Pos is the current animated value.
func (t *Tween) Pos() float64 { return t.pos }

// Step advances one frame. Once settled, or after maxSeconds of frames, the
// position snaps to the target and done is true.
func (t *Tween) Step() (pos float64, done bool) {
	if !t.active {
		return t.pos, true
	}
	t.pos, t.vel = t.spring.Update(t.pos, t.vel, t.target)
	t.frames++

	if (math.Abs(t.pos-t.target) < epsilon && math.Abs(t.vel) < epsilon) || t.frames >= maxSeconds*t.fps {
		t.pos, t.vel = t.target, 0
		t.active = false
		return t.pos, true
	}
	return t.pos, false
}
