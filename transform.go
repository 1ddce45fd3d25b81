package mandelview

import (
	"fmt"
	"math"
)

const (
	// ZoomBase is raised to the wheel delta to get the zoom scale factor.
	// One browser wheel notch (delta 100) scales the view by about 16%.
	ZoomBase = 1.0015

	// MinPixelSpan is the smallest plane distance between two adjacent
	// pixels, relative to the largest corner magnitude, that Zoom produces.
	// Below it neighbouring pixels collapse onto the same float64 value.
	MinPixelSpan = 8 * 2.220446049250313e-16
)

// mustViewport panics on a non-positive viewport. Callers are expected to
// have validated the viewport once when the surface was created.
func mustViewport(vp ViewportSize) {
	if err := vp.Validate(); err != nil {
		panic(fmt.Sprintf("mandelview: %v", err))
	}
}

// stepR returns the plane distance between horizontally adjacent pixels.
// A single-column viewport maps everything to TopLeft.R.
func (b Bounds) stepR(vp ViewportSize) float64 {
	if vp.Width <= 1 {
		return 0
	}
	return b.Width() / float64(vp.Width-1)
}

// stepI returns the plane distance between vertically adjacent pixels.
func (b Bounds) stepI(vp ViewportSize) float64 {
	if vp.Height <= 1 {
		return 0
	}
	return b.Height() / float64(vp.Height-1)
}

// At maps the pixel (px, py) to its point in the plane. Pixel 0 maps to the
// top-left corner and pixel (Width-1, Height-1) to the bottom-right corner.
func (b Bounds) At(px, py float64, vp ViewportSize) ComplexPoint {
	return ComplexPoint{
		R: b.TopLeft.R + px*b.stepR(vp),
		I: b.TopLeft.I - py*b.stepI(vp),
	}
}

// Pan shifts b so that the content under the cursor follows a drag from
// (prevX, prevY) to (curX, curY). The plane width and height are kept.
func Pan(curX, curY, prevX, prevY float64, b Bounds, vp ViewportSize) Bounds {
	mustViewport(vp)

	dx := curX - prevX
	dy := curY - prevY
	if dx == 0 && dy == 0 {
		return b
	}

	delta := ComplexPoint{
		R: -dx * b.Width() / float64(vp.Width),
		I: dy * b.Height() / float64(vp.Height),
	}
	nb := Bounds{
		TopLeft:     b.TopLeft.Add(delta),
		BottomRight: b.BottomRight.Add(delta),
	}
	if nb.Validate() != nil {
		return b
	}
	return nb
}

// Zoom scales b around the plane point under pixel (x, y) by
// ZoomBase^wheelDelta. Positive deltas (wheel down) zoom out, negative
// deltas zoom in, and the point under the cursor stays where it is on
// screen. A zoom that would degenerate the bounds is not applied.
func Zoom(x, y, wheelDelta float64, b Bounds, vp ViewportSize) Bounds {
	nb, err := ZoomChecked(x, y, wheelDelta, b, vp)
	if err != nil {
		return b
	}
	return nb
}

// ZoomChecked is Zoom but reports why a zoom was refused. On error the
// original bounds are returned.
func ZoomChecked(x, y, wheelDelta float64, b Bounds, vp ViewportSize) (Bounds, error) {
	mustViewport(vp)

	if wheelDelta == 0 {
		return b, nil
	}

	focus := b.At(x, y, vp)
	s := math.Pow(ZoomBase, wheelDelta)
	nb := Bounds{
		TopLeft:     focus.Add(b.TopLeft.Sub(focus).Scale(s)),
		BottomRight: focus.Add(b.BottomRight.Sub(focus).Scale(s)),
	}
	if err := nb.Validate(); err != nil {
		return b, fmt.Errorf("%w: %v", ErrDegenerateZoom, err)
	}
	if !nb.resolvable(vp) {
		return b, fmt.Errorf("%w: pixel step below float64 precision at %v", ErrDegenerateZoom, nb)
	}
	return nb, nil
}

// resolvable reports whether adjacent pixels of vp still map to distinct
// float64 plane coordinates under b.
func (b Bounds) resolvable(vp ViewportSize) bool {
	mag := math.Max(
		math.Max(math.Abs(b.TopLeft.R), math.Abs(b.BottomRight.R)),
		math.Max(math.Abs(b.TopLeft.I), math.Abs(b.BottomRight.I)),
	)
	limit := MinPixelSpan * math.Max(mag, 1)
	return b.Width()/float64(vp.Width) > limit &&
		b.Height()/float64(vp.Height) > limit
}
