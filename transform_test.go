package mandelview

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// relEqual compares a and b relative to the larger magnitude.
func relEqual(a, b, rel float64) bool {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1 {
		scale = 1
	}
	return math.Abs(a-b) <= rel*scale
}

var testViewport = ViewportSize{Width: 800, Height: 600}

func TestBoundsValidate(t *testing.T) {
	tests := []struct {
		name string
		b    Bounds
		ok   bool
	}{
		{"initial", InitialBounds, true},
		{"full", region(-2, 0.5, -1.2, 1.2), true},
		{"zero width", Bounds{ComplexPoint{0, 1}, ComplexPoint{0, -1}}, false},
		{"zero height", Bounds{ComplexPoint{-1, 0}, ComplexPoint{1, 0}}, false},
		{"flipped r", Bounds{ComplexPoint{1, 1}, ComplexPoint{-1, -1}}, false},
		{"flipped i", Bounds{ComplexPoint{-1, -1}, ComplexPoint{1, 1}}, false},
		{"nan", Bounds{ComplexPoint{math.NaN(), 1}, ComplexPoint{1, -1}}, false},
		{"inf", Bounds{ComplexPoint{-1, 1}, ComplexPoint{math.Inf(1), -1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidBounds) {
				t.Errorf("Validate() = %v, want ErrInvalidBounds", err)
			}
		})
	}
}

func TestBoundsAroundCenter(t *testing.T) {
	c := ComplexPoint{R: -0.75, I: 0.1}
	b := BoundsAround(c, 3, 2)
	if err := b.Validate(); err != nil {
		t.Fatal(err)
	}
	got := b.Center()
	if !approxEqual(got.R, c.R, 1e-15) || !approxEqual(got.I, c.I, 1e-15) {
		t.Errorf("Center() = %v, want %v", got, c)
	}
	if !approxEqual(b.Width(), 3, 1e-15) || !approxEqual(b.Height(), 2, 1e-15) {
		t.Errorf("size = %vx%v, want 3x2", b.Width(), b.Height())
	}
}

func TestBoundsAtCorners(t *testing.T) {
	b := InitialBounds
	if got := b.At(0, 0, testViewport); got != b.TopLeft {
		t.Errorf("At(0,0) = %v, want %v", got, b.TopLeft)
	}
	got := b.At(float64(testViewport.Width-1), float64(testViewport.Height-1), testViewport)
	if !relEqual(got.R, b.BottomRight.R, 1e-15) || !relEqual(got.I, b.BottomRight.I, 1e-15) {
		t.Errorf("At(W-1,H-1) = %v, want %v", got, b.BottomRight)
	}
}

func TestBoundsAtSinglePixel(t *testing.T) {
	vp := ViewportSize{Width: 1, Height: 1}
	if got := InitialBounds.At(0, 0, vp); got != InitialBounds.TopLeft {
		t.Errorf("At(0,0) = %v, want %v", got, InitialBounds.TopLeft)
	}
}

func TestPanZeroDelta(t *testing.T) {
	b := InitialBounds
	if got := Pan(120, 80, 120, 80, b, testViewport); got != b {
		t.Errorf("Pan with zero delta = %v, want %v", got, b)
	}
}

func TestPanExact(t *testing.T) {
	// Power-of-two sizes keep every operation exact.
	b := region(-2, 2, -1, 1)
	vp := ViewportSize{Width: 4, Height: 2}

	got := Pan(1, 1, 0, 0, b, vp)
	want := region(-3, 1, 0, 2)
	if got != want {
		t.Errorf("Pan = %v, want %v", got, want)
	}
}

func TestPanDirection(t *testing.T) {
	b := InitialBounds
	right := Pan(110, 100, 100, 100, b, testViewport)
	if !(right.TopLeft.R < b.TopLeft.R) {
		t.Errorf("drag right: TopLeft.R = %v, want below %v", right.TopLeft.R, b.TopLeft.R)
	}
	if right.TopLeft.I != b.TopLeft.I {
		t.Errorf("drag right changed I: %v", right.TopLeft.I)
	}

	down := Pan(100, 110, 100, 100, b, testViewport)
	if !(down.TopLeft.I > b.TopLeft.I) {
		t.Errorf("drag down: TopLeft.I = %v, want above %v", down.TopLeft.I, b.TopLeft.I)
	}
}

func TestPanPreservesSpan(t *testing.T) {
	b := InitialBounds
	deltas := [][2]float64{{37, -12}, {-400, 300}, {0.5, 0.25}, {1e4, -1e4}}
	for _, d := range deltas {
		got := Pan(d[0], d[1], 0, 0, b, testViewport)
		if err := got.Validate(); err != nil {
			t.Fatalf("Pan(%v) invalid: %v", d, err)
		}
		if !relEqual(got.Width(), b.Width(), 1e-9) {
			t.Errorf("Pan(%v) width = %v, want %v", d, got.Width(), b.Width())
		}
		if !relEqual(got.Height(), b.Height(), 1e-9) {
			t.Errorf("Pan(%v) height = %v, want %v", d, got.Height(), b.Height())
		}
	}
}

func TestPanMovesContentWithPointer(t *testing.T) {
	b := region(-2, 2, -1.5, 1.5)
	vp := ViewportSize{Width: 401, Height: 301}
	// Dragging n pixels shifts the view by n/Width of its extent.
	got := Pan(400, 0, 0, 0, b, vp)
	wantShift := -b.Width() * 400 / 401
	if !approxEqual(got.TopLeft.R-b.TopLeft.R, wantShift, 1e-12) {
		t.Errorf("shift = %v, want %v", got.TopLeft.R-b.TopLeft.R, wantShift)
	}
}

func TestPanRoundTrip(t *testing.T) {
	b := InitialBounds
	there := Pan(250, 175, 100, 40, b, testViewport)
	back := Pan(100, 40, 250, 175, there, testViewport)
	if !relEqual(back.TopLeft.R, b.TopLeft.R, 1e-12) || !relEqual(back.BottomRight.I, b.BottomRight.I, 1e-12) {
		t.Errorf("round trip = %v, want %v", back, b)
	}
}

func TestZoomZeroDelta(t *testing.T) {
	b := InitialBounds
	if got := Zoom(400, 300, 0, b, testViewport); got != b {
		t.Errorf("Zoom with zero delta = %v, want %v", got, b)
	}
}

func TestZoomDirection(t *testing.T) {
	b := InitialBounds
	in := Zoom(400, 300, -100, b, testViewport)
	if !(in.Width() < b.Width()) || !(in.Height() < b.Height()) {
		t.Errorf("negative delta should zoom in: %v -> %v", b, in)
	}
	out := Zoom(400, 300, 100, b, testViewport)
	if !(out.Width() > b.Width()) || !(out.Height() > b.Height()) {
		t.Errorf("positive delta should zoom out: %v -> %v", b, out)
	}
}

func TestZoomScaleFactor(t *testing.T) {
	b := InitialBounds
	for _, delta := range []float64{-300, -100, -1, 1, 53, 500} {
		got := Zoom(123, 456, delta, b, testViewport)
		want := math.Pow(ZoomBase, delta)
		if !relEqual(got.Width()/b.Width(), want, 1e-12) {
			t.Errorf("delta %v: width ratio = %v, want %v", delta, got.Width()/b.Width(), want)
		}
		if !relEqual(got.Height()/b.Height(), want, 1e-12) {
			t.Errorf("delta %v: height ratio = %v, want %v", delta, got.Height()/b.Height(), want)
		}
	}
}

func TestZoomKeepsFocusFixed(t *testing.T) {
	b := InitialBounds
	points := [][2]float64{{0, 0}, {799, 599}, {400, 300}, {13.5, 577.25}, {640, 20}}
	for _, p := range points {
		for _, delta := range []float64{-500, -100, 100, 500} {
			t.Run(fmt.Sprintf("%v/%v", p, delta), func(t *testing.T) {
				before := b.At(p[0], p[1], testViewport)
				nb := Zoom(p[0], p[1], delta, b, testViewport)
				after := nb.At(p[0], p[1], testViewport)
				if !relEqual(before.R, after.R, 1e-12) || !relEqual(before.I, after.I, 1e-12) {
					t.Errorf("focus moved: %v -> %v", before, after)
				}
			})
		}
	}
}

func TestZoomInverse(t *testing.T) {
	b := InitialBounds
	in := Zoom(300, 200, -250, b, testViewport)
	back := Zoom(300, 200, 250, in, testViewport)
	if !relEqual(back.TopLeft.R, b.TopLeft.R, 1e-12) || !relEqual(back.TopLeft.I, b.TopLeft.I, 1e-12) ||
		!relEqual(back.BottomRight.R, b.BottomRight.R, 1e-12) || !relEqual(back.BottomRight.I, b.BottomRight.I, 1e-12) {
		t.Errorf("zoom in then out = %v, want %v", back, b)
	}
}

func TestZoomPreservesAspect(t *testing.T) {
	b := InitialBounds
	got := Zoom(10, 590, -700, b, testViewport)
	if !relEqual(got.Width()/got.Height(), b.Width()/b.Height(), 1e-12) {
		t.Errorf("aspect = %v, want %v", got.Width()/got.Height(), b.Width()/b.Height())
	}
}

func TestZoomDegenerateRefused(t *testing.T) {
	b := InitialBounds
	var err error
	for i := 0; i < 10000; i++ {
		var nb Bounds
		nb, err = ZoomChecked(400, 300, -1000, b, testViewport)
		if err != nil {
			if nb != b {
				t.Errorf("refused zoom returned %v, want unchanged %v", nb, b)
			}
			break
		}
		b = nb
	}
	if !errors.Is(err, ErrDegenerateZoom) {
		t.Fatalf("deep zoom error = %v, want ErrDegenerateZoom", err)
	}
	if verr := b.Validate(); verr != nil {
		t.Errorf("last accepted bounds invalid: %v", verr)
	}
	if got := Zoom(400, 300, -1000, b, testViewport); got != b {
		t.Errorf("Zoom past precision = %v, want unchanged %v", got, b)
	}
}

func TestZoomOverflowRefused(t *testing.T) {
	b := InitialBounds
	if _, err := ZoomChecked(0, 0, 1e6, b, testViewport); !errors.Is(err, ErrDegenerateZoom) {
		t.Errorf("overflowing zoom error = %v, want ErrDegenerateZoom", err)
	}
}

func TestTransformInvalidViewportPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for zero viewport, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "invalid viewport") {
			t.Errorf("panic message should mention the viewport, got: %s", msg)
		}
	}()
	Pan(1, 1, 0, 0, InitialBounds, ViewportSize{})
}
