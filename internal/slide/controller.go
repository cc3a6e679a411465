// Package slide implements the slide-to-confirm gesture controller.
//
// A Controller turns the cumulative horizontal translation of a drag into a
// clamped handle offset, reports when that offset crosses the completion
// threshold, and on release decides between snapping to the completed end
// of the track or springing back to the start.
package slide

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned by New when the track geometry cannot
// produce a usable completion threshold.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Profile tags the animation a renderer should use to reach a new offset.
type Profile int

const (
	// ProfileNone means the offset tracks the pointer 1:1, unanimated.
	ProfileNone Profile = iota
	// ProfileEaseOutFast is a quick, non-oscillating approach.
	ProfileEaseOutFast
	// ProfileSpring is a bouncy approach; overshoot is allowed.
	ProfileSpring
)

func (p Profile) String() string {
	switch p {
	case ProfileEaseOutFast:
		return "easeOutFast"
	case ProfileSpring:
		return "spring"
	default:
		return "none"
	}
}

// Geometry is the immutable shape of a slide control.
type Geometry struct {
	TrackWidth    float64
	HandleWidth   float64
	CompleteRatio float64
}

// MaxOffset is the furthest the handle can travel.
func (g Geometry) MaxOffset() float64 {
	return g.TrackWidth - g.HandleWidth
}

// Threshold is the offset at or beyond which a release completes.
func (g Geometry) Threshold() float64 {
	return g.MaxOffset() * g.CompleteRatio
}

// Validate reports why g cannot back a controller, wrapping
// ErrInvalidConfiguration.
func (g Geometry) Validate() error {
	for _, v := range []float64{g.TrackWidth, g.HandleWidth, g.CompleteRatio} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: geometry values must be finite", ErrInvalidConfiguration)
		}
	}
	if g.HandleWidth < 0 {
		return fmt.Errorf("%w: handle width %.2f is negative", ErrInvalidConfiguration, g.HandleWidth)
	}
	if g.HandleWidth >= g.TrackWidth {
		return fmt.Errorf("%w: handle width %.2f must be smaller than track width %.2f",
			ErrInvalidConfiguration, g.HandleWidth, g.TrackWidth)
	}
	if g.CompleteRatio <= 0 || g.CompleteRatio > 1 {
		return fmt.Errorf("%w: complete ratio %.2f must be in (0,1]", ErrInvalidConfiguration, g.CompleteRatio)
	}
	return nil
}

// UpdateResult is what a drag update hands back to the renderer.
type UpdateResult struct {
	Offset     float64
	PulseFired bool
	// Ignored is set when the update was dropped, either because the
	// control is completed or the delta was not a number.
	Ignored bool
}

// EndResult is the terminal position decided on release or reset.
type EndResult struct {
	Offset    float64
	Completed bool
	Profile   Profile
	Ignored   bool
}

// Controller owns the drag state of one slide control. It is not safe for
// concurrent use; one gesture drives it at a time.
type Controller struct {
	geo       Geometry
	sink      Sink
	offset    float64
	completed bool
}

// New validates geo and returns a controller at rest. A nil sink discards
// events.
func New(geo Geometry, sink Sink) (*Controller, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = Discard
	}
	return &Controller{geo: geo, sink: sink}, nil
}

func (c *Controller) Geometry() Geometry   { return c.geo }
func (c *Controller) Offset() float64      { return c.offset }
func (c *Controller) Completed() bool      { return c.completed }
func (c *Controller) MaxOffset() float64   { return c.geo.MaxOffset() }
func (c *Controller) Threshold() float64   { return c.geo.Threshold() }
func (c *Controller) Progress() float64    { return c.offset / c.geo.MaxOffset() }
func (c *Controller) AboveThreshold() bool { return c.offset >= c.geo.Threshold() }

// DragUpdate moves the handle to the cumulative translation rawDeltaX,
// clamped to the track. Crossing the threshold in either direction fires a
// single pulse no matter how far the handle jumped.
func (c *Controller) DragUpdate(rawDeltaX float64) UpdateResult {
	if c.completed || math.IsNaN(rawDeltaX) {
		return UpdateResult{Offset: c.offset, Ignored: true}
	}

	threshold := c.geo.Threshold()
	prev := c.offset
	next := math.Max(0, math.Min(c.geo.MaxOffset(), rawDeltaX))

	crossedUp := prev < threshold && next >= threshold
	crossedDown := prev >= threshold && next < threshold
	pulse := crossedUp || crossedDown
	if pulse {
		c.sink.Emit(Event{Kind: EventPulse, Offset: next})
	}

	c.offset = next
	c.sink.Emit(Event{Kind: EventMoved, Offset: next, Profile: ProfileNone})

	return UpdateResult{Offset: next, PulseFired: pulse}
}

// DragEnd settles the gesture. Release never pulses, even when the snap
// crosses the threshold.
func (c *Controller) DragEnd() EndResult {
	if c.completed {
		return EndResult{Offset: c.offset, Completed: true, Profile: ProfileNone, Ignored: true}
	}

	if c.offset >= c.geo.Threshold() {
		c.offset = c.geo.MaxOffset()
		c.completed = true
		c.sink.Emit(Event{Kind: EventCompleted, Offset: c.offset, Completed: true, Profile: ProfileEaseOutFast})
		return EndResult{Offset: c.offset, Completed: true, Profile: ProfileEaseOutFast}
	}

	return c.Reset()
}

// Reset returns the handle to the start of the track and re-arms the
// control. It may be called at any time.
func (c *Controller) Reset() EndResult {
	c.offset = 0
	c.completed = false
	c.sink.Emit(Event{Kind: EventReset, Offset: 0, Profile: ProfileSpring})
	return EndResult{Offset: 0, Completed: false, Profile: ProfileSpring}
}
