package mandelview

import "image/color"

// Palette maps an escape time to a colour. Implementations must be
// deterministic: the same count always yields the same colour.
type Palette interface {
	Color(n IterationCount) color.RGBA
}

// ColorInterior is the colour of Bounded pixels.
var ColorInterior = color.RGBA{A: 255}

// wheelLen is the number of entries in the hue wheel: six ramps of 255 steps.
const wheelLen = 255 * 6

// wheel walks red, yellow, green, cyan, blue, magenta and back to red.
var wheel [wheelLen]color.RGBA

func init() {
	for i := 0; i < 255; i++ {
		up := uint8(i)
		down := uint8(255 - i)
		wheel[i] = color.RGBA{255, up, 0, 255}
		wheel[255+i] = color.RGBA{down, 255, 0, 255}
		wheel[510+i] = color.RGBA{0, 255, up, 255}
		wheel[765+i] = color.RGBA{0, down, 255, 255}
		wheel[1020+i] = color.RGBA{up, 0, 255, 255}
		wheel[1275+i] = color.RGBA{255, 0, down, 255}
	}
}

// WheelPalette steps around the hue wheel Density entries per iteration.
// Higher densities show more colour bands at low iteration counts.
type WheelPalette struct {
	Density int
}

// DefaultDensity is the wheel step used when a config leaves it unset.
const DefaultDensity = 8

// Color implements Palette.
func (p WheelPalette) Color(n IterationCount) color.RGBA {
	if n == Bounded || n < 0 {
		return ColorInterior
	}
	d := p.Density
	if d <= 0 {
		d = DefaultDensity
	}
	return wheel[(int(n)*d)%wheelLen]
}
