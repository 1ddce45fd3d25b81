package mandelview

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRenderRequestWireFormat(t *testing.T) {
	req := RenderRequest{
		Viewport:      ViewportSize{Width: 800, Height: 600},
		Bounds:        region(-2, 0.5, -1.25, 1.25),
		MaxIterations: 1024,
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"width":800,"height":600,"bounds":[{"r":-2,"i":1.25},{"r":0.5,"i":-1.25}],"N":1024}`
	if string(data) != want {
		t.Errorf("Marshal = %s\nwant      %s", data, want)
	}

	var got RenderRequest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got != req {
		t.Errorf("Unmarshal = %+v, want %+v", got, req)
	}
}

func TestRenderRequestDecodeValidates(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"no iterations", `{"width":4,"height":4,"bounds":[{"r":-1,"i":1},{"r":1,"i":-1}],"N":0}`, ErrInvalidIterations},
		{"no width", `{"width":0,"height":4,"bounds":[{"r":-1,"i":1},{"r":1,"i":-1}],"N":10}`, ErrInvalidViewport},
		{"flipped", `{"width":4,"height":4,"bounds":[{"r":1,"i":-1},{"r":-1,"i":1}],"N":10}`, ErrInvalidBounds},
		{"one corner", `{"width":4,"height":4,"bounds":[{"r":1,"i":-1}],"N":10}`, ErrInvalidBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req RenderRequest
			if err := json.Unmarshal([]byte(tt.data), &req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if req != (RenderRequest{}) {
				t.Errorf("failed decode modified the request: %+v", req)
			}
		})
	}
}

func TestBoundsJSON(t *testing.T) {
	data, err := json.Marshal(InitialBounds)
	if err != nil {
		t.Fatal(err)
	}
	var b Bounds
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatal(err)
	}
	if b != InitialBounds {
		t.Errorf("round trip = %v, want %v", b, InitialBounds)
	}
	if err := json.Unmarshal([]byte(`[{"r":0,"i":0},{"r":1,"i":1},{"r":2,"i":2}]`), &b); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("three corners err = %v", err)
	}
	if err := json.Unmarshal([]byte(`{"r":0}`), &b); err == nil {
		t.Error("object decoded as bounds")
	}
}
