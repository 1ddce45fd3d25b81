package mandelview

import (
	"fmt"
	"math"
)

// DefaultMaxIterations is the iteration budget used when a config leaves it unset.
const DefaultMaxIterations = 1024

// ComplexPoint is a point in the complex plane. It is a value type; every
// operation that "moves" a point returns a new one.
type ComplexPoint struct {
	R, I float64
}

// Add returns p + q.
func (p ComplexPoint) Add(q ComplexPoint) ComplexPoint {
	return ComplexPoint{R: p.R + q.R, I: p.I + q.I}
}

// Sub returns p - q.
func (p ComplexPoint) Sub(q ComplexPoint) ComplexPoint {
	return ComplexPoint{R: p.R - q.R, I: p.I - q.I}
}

// Scale returns p * s.
func (p ComplexPoint) Scale(s float64) ComplexPoint {
	return ComplexPoint{R: p.R * s, I: p.I * s}
}

func (p ComplexPoint) finite() bool {
	return !math.IsNaN(p.R) && !math.IsInf(p.R, 0) &&
		!math.IsNaN(p.I) && !math.IsInf(p.I, 0)
}

// Bounds is the rectangle of the complex plane mapped onto the viewport.
// TopLeft is the upper-left corner (smallest real part, largest imaginary
// part) and BottomRight the lower-right corner, matching screen space where
// y grows downward.
type Bounds struct {
	TopLeft     ComplexPoint
	BottomRight ComplexPoint
}

// Width returns the real-axis extent of b.
func (b Bounds) Width() float64 {
	return b.BottomRight.R - b.TopLeft.R
}

// Height returns the imaginary-axis extent of b.
func (b Bounds) Height() float64 {
	return b.TopLeft.I - b.BottomRight.I
}

// Center returns the midpoint of b.
func (b Bounds) Center() ComplexPoint {
	return ComplexPoint{
		R: b.TopLeft.R + b.Width()/2,
		I: b.BottomRight.I + b.Height()/2,
	}
}

// BoundsAround returns the bounds of the given size centered on c.
func BoundsAround(c ComplexPoint, width, height float64) Bounds {
	return Bounds{
		TopLeft:     ComplexPoint{R: c.R - width/2, I: c.I + height/2},
		BottomRight: ComplexPoint{R: c.R + width/2, I: c.I - height/2},
	}
}

// Validate reports whether b satisfies the corner ordering invariant and
// holds only finite coordinates.
func (b Bounds) Validate() error {
	if !b.TopLeft.finite() || !b.BottomRight.finite() {
		return fmt.Errorf("%w: non-finite corner %v", ErrInvalidBounds, b)
	}
	if !(b.TopLeft.R < b.BottomRight.R) {
		return fmt.Errorf("%w: top-left r %g not below bottom-right r %g",
			ErrInvalidBounds, b.TopLeft.R, b.BottomRight.R)
	}
	if !(b.TopLeft.I > b.BottomRight.I) {
		return fmt.Errorf("%w: top-left i %g not above bottom-right i %g",
			ErrInvalidBounds, b.TopLeft.I, b.BottomRight.I)
	}
	return nil
}

// String formats b as [(r,i) (r,i)].
func (b Bounds) String() string {
	return fmt.Sprintf("[(%g,%g) (%g,%g)]",
		b.TopLeft.R, b.TopLeft.I, b.BottomRight.R, b.BottomRight.I)
}

// ViewportSize is the pixel size of a surface. It is fixed for the lifetime
// of one surface.
type ViewportSize struct {
	Width, Height int
}

// Validate rejects non-positive dimensions.
func (v ViewportSize) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, v.Width, v.Height)
	}
	return nil
}

// Pixels returns Width*Height.
func (v ViewportSize) Pixels() int {
	return v.Width * v.Height
}

// RenderRequest is the complete input of one full-frame computation. It is
// sent by value; nothing in it is shared with the sender.
type RenderRequest struct {
	Viewport      ViewportSize
	Bounds        Bounds
	MaxIterations int
}

// Validate checks every precondition of the escape-time engine.
func (r RenderRequest) Validate() error {
	if err := r.Viewport.Validate(); err != nil {
		return err
	}
	if r.MaxIterations <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, r.MaxIterations)
	}
	return r.Bounds.Validate()
}

// Pixel is a position in viewport pixel space. Coordinates are floats
// because browser pointer events report fractional offsets.
type Pixel struct {
	X, Y float64
}
