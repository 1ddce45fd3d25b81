package mandelview

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultFlightSeconds is the duration of landmark flights started from the viewer.
const DefaultFlightSeconds = 1.5

// Flight animates the view from one Bounds to another. The tween drives a
// progress value from 0 to 1; the center moves linearly and the extent
// scales geometrically, so zooming by 1000x looks as smooth as by 2x.
// Interpolation happens in float64 because deep views outrun float32.
type Flight struct {
	from, to Bounds
	tween    *gween.Tween
	done     bool
}

// NewFlight creates a flight lasting duration seconds. A nil easeFn is linear.
func NewFlight(from, to Bounds, duration float32, easeFn ease.TweenFunc) *Flight {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	return &Flight{
		from:  from,
		to:    to,
		tween: gween.New(0, 1, duration, easeFn),
	}
}

// Target returns the bounds the flight ends at.
func (f *Flight) Target() Bounds {
	return f.to
}

// Done reports whether the flight has reached its target.
func (f *Flight) Done() bool {
	return f.done
}

// Update advances the flight by dt seconds and returns the bounds to show.
func (f *Flight) Update(dt float32) (Bounds, bool) {
	if f.done {
		return f.to, true
	}
	t, finished := f.tween.Update(dt)
	if finished {
		f.done = true
		return f.to, true
	}
	b := interpolateBounds(f.from, f.to, float64(t))
	if b.Validate() != nil {
		return f.from, false
	}
	return b, false
}

// interpolateBounds blends a and b at t in [0, 1].
func interpolateBounds(a, b Bounds, t float64) Bounds {
	ca, cb := a.Center(), b.Center()
	c := ComplexPoint{
		R: ca.R + (cb.R-ca.R)*t,
		I: ca.I + (cb.I-ca.I)*t,
	}
	w := a.Width() * math.Pow(b.Width()/a.Width(), t)
	h := a.Height() * math.Pow(b.Height()/a.Height(), t)
	return BoundsAround(c, w, h)
}
