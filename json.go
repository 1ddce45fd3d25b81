package mandelview

import (
	"encoding/json"
	"fmt"
)

// wirePoint is a ComplexPoint as it appears in JSON messages.
type wirePoint struct {
	R float64 `json:"r"`
	I float64 `json:"i"`
}

// wireRequest is the JSON form of a RenderRequest:
//
//	{"width":800,"height":600,"bounds":[{"r":-2,"i":1.2},{"r":0.5,"i":-1.2}],"N":1024}
type wireRequest struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Bounds [2]wirePoint `json:"bounds"`
	N      int          `json:"N"`
}

// MarshalJSON encodes b as a two-element array of {r, i} corners.
func (b Bounds) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]wirePoint{
		{R: b.TopLeft.R, I: b.TopLeft.I},
		{R: b.BottomRight.R, I: b.BottomRight.I},
	})
}

// UnmarshalJSON decodes the form written by MarshalJSON. It does not
// validate the corners; call Validate.
func (b *Bounds) UnmarshalJSON(data []byte) error {
	var corners []wirePoint
	if err := json.Unmarshal(data, &corners); err != nil {
		return fmt.Errorf("decode bounds: %w", err)
	}
	if len(corners) != 2 {
		return fmt.Errorf("decode bounds: %w: want 2 corners, got %d", ErrInvalidBounds, len(corners))
	}
	b.TopLeft = ComplexPoint{R: corners[0].R, I: corners[0].I}
	b.BottomRight = ComplexPoint{R: corners[1].R, I: corners[1].I}
	return nil
}

// MarshalJSON encodes r in the render message format.
func (r RenderRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRequest{
		Width:  r.Viewport.Width,
		Height: r.Viewport.Height,
		Bounds: [2]wirePoint{
			{R: r.Bounds.TopLeft.R, I: r.Bounds.TopLeft.I},
			{R: r.Bounds.BottomRight.R, I: r.Bounds.BottomRight.I},
		},
		N: r.MaxIterations,
	})
}

// UnmarshalJSON decodes the render message format and validates the result.
func (r *RenderRequest) UnmarshalJSON(data []byte) error {
	var w struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Bounds Bounds `json:"bounds"`
		N      int    `json:"N"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode render request: %w", err)
	}
	req := RenderRequest{
		Viewport:      ViewportSize{Width: w.Width, Height: w.Height},
		Bounds:        w.Bounds,
		MaxIterations: w.N,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("decode render request: %w", err)
	}
	*r = req
	return nil
}
