package mandelview

import "strings"

// InitialBounds is the view shown at startup: the filament region east of
// the main cardioid's lower bulb, seen with the imaginary axis pointing up.
var InitialBounds = Bounds{
	TopLeft:     ComplexPoint{R: 0.06293479950912537, I: 0.7231095788998697},
	BottomRight: ComplexPoint{R: 0.568352273969803, I: 0.38616459565220895},
}

// Landmark is a named region of the set.
type Landmark struct {
	Name   string
	Bounds Bounds
}

// region builds Bounds from axis ranges.
func region(rMin, rMax, iMin, iMax float64) Bounds {
	return Bounds{
		TopLeft:     ComplexPoint{R: rMin, I: iMax},
		BottomRight: ComplexPoint{R: rMax, I: iMin},
	}
}

// Landmarks lists classic regions. Keys 1-9 in the viewer select them in order.
var Landmarks = []Landmark{
	{Name: "start", Bounds: InitialBounds},
	{Name: "full", Bounds: region(-2.0, 0.5, -1.2, 1.2)},
	// Dense filaments and repeating "seahorse" curls.
	{Name: "seahorse-valley", Bounds: region(-0.8, -0.7, 0.05, 0.15)},
	// Large bulb with trunk-like tendrils.
	{Name: "elephant-valley", Bounds: region(-1.85, -1.75, -0.10, -0.02)},
	// Small copy of the set with tight spiral arms.
	{Name: "spiral-minibrot", Bounds: region(-0.7435, -0.7420, 0.1310, 0.1325)},
	{Name: "triple-spiral", Bounds: region(-0.7480, -0.7450, 0.0950, 0.0980)},
	{Name: "dragon-valley", Bounds: region(-0.7400, -0.7350, 0.1800, 0.1850)},
	// Self-similar copy inside a spiral arm.
	{Name: "mini-spiral-minibrot", Bounds: region(-1.7390, -1.7375, -0.0235, -0.0220)},
}

// LandmarkByName looks a landmark up case-insensitively.
func LandmarkByName(name string) (Landmark, bool) {
	for _, l := range Landmarks {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Landmark{}, false
}

// FitBounds grows b along one axis so its aspect ratio matches vp, keeping
// the center. Pixels then cover square areas of the plane.
func FitBounds(b Bounds, vp ViewportSize) Bounds {
	mustViewport(vp)
	w, h := b.Width(), b.Height()
	target := float64(vp.Width) / float64(vp.Height)
	if w/h < target {
		w = h * target
	} else {
		h = w / target
	}
	return BoundsAround(b.Center(), w, h)
}
