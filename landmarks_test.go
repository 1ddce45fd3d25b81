package mandelview

import "testing"

func TestLandmarksValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, l := range Landmarks {
		if err := l.Bounds.Validate(); err != nil {
			t.Errorf("%s: %v", l.Name, err)
		}
		if seen[l.Name] {
			t.Errorf("duplicate landmark %q", l.Name)
		}
		seen[l.Name] = true
	}
	if Landmarks[0].Bounds != InitialBounds {
		t.Error("first landmark should be the initial view")
	}
}

func TestInitialBoundsMirrorsLowerHalf(t *testing.T) {
	// The start view sits above the real axis; its mirror image is the
	// region with the same real range and negated imaginary range.
	if InitialBounds.TopLeft.I <= InitialBounds.BottomRight.I {
		t.Fatal("InitialBounds is upside down")
	}
	if !approxEqual(InitialBounds.TopLeft.I, 0.7231095788998697, 1e-16) ||
		!approxEqual(InitialBounds.BottomRight.I, 0.38616459565220895, 1e-16) {
		t.Errorf("InitialBounds = %v", InitialBounds)
	}
}

func TestLandmarkByName(t *testing.T) {
	l, ok := LandmarkByName("Seahorse-Valley")
	if !ok || l.Name != "seahorse-valley" {
		t.Errorf("LandmarkByName = %+v, %v", l, ok)
	}
	if _, ok := LandmarkByName("nowhere"); ok {
		t.Error("found a landmark that does not exist")
	}
}

func TestFitBounds(t *testing.T) {
	vp := ViewportSize{Width: 800, Height: 600}
	tests := []struct {
		name string
		b    Bounds
	}{
		{"square", region(-1, 1, -1, 1)},
		{"wide", region(-2, 2, -0.5, 0.5)},
		{"tall", region(-0.1, 0.1, -1, 1)},
		{"initial", InitialBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitBounds(tt.b, vp)
			if !relEqual(got.Width()/got.Height(), 800.0/600.0, 1e-12) {
				t.Errorf("aspect = %v, want %v", got.Width()/got.Height(), 800.0/600.0)
			}
			if got.Width() < tt.b.Width()*(1-1e-12) || got.Height() < tt.b.Height()*(1-1e-12) {
				t.Errorf("FitBounds shrank %v to %v", tt.b, got)
			}
			c0, c1 := tt.b.Center(), got.Center()
			if !approxEqual(c0.R, c1.R, 1e-12) || !approxEqual(c0.I, c1.I, 1e-12) {
				t.Errorf("center moved from %v to %v", c0, c1)
			}
		})
	}
}
