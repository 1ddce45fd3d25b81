package mandelview

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	FromX    float64 `json:"fromX,omitempty"`
	FromY    float64 `json:"fromY,omitempty"`
	ToX      float64 `json:"toX,omitempty"`
	ToY      float64 `json:"toY,omitempty"`
	Delta    float64 `json:"delta,omitempty"`
	Frames   int     `json:"frames,omitempty"`
	Landmark string  `json:"landmark,omitempty"`
	Seconds  float32 `json:"seconds,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"press": true, "move": true, "release": true, "drag": true, "wheel": true,
	"wait": true, "screenshot": true, "fly": true, "reset": true,
}

// Screenshotter captures the next presented frame under a label.
type Screenshotter interface {
	Screenshot(label string)
}

// TestRunner sequences injected input, flights and screenshots across
// frames for automated visual testing.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	err       error
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be stepped once per frame.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "fly" {
			if _, ok := LandmarkByName(st.Landmark); !ok {
				return nil, fmt.Errorf("parse test script: step %d: unknown landmark %q", i, st.Landmark)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns the first error a step produced.
func (r *TestRunner) Err() error {
	return r.err
}

// Step advances the runner by one frame. It waits while injected events
// are pending or a flight is in progress.
func (r *TestRunner) Step(c *Controller, shots Screenshotter) {
	if r.done {
		return
	}
	if c.Injecting() || c.Flying() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	var err error
	switch st.Action {
	case "screenshot":
		if shots != nil {
			shots.Screenshot(st.Label)
		}
	case "press":
		c.InjectPress(st.X, st.Y)
	case "move":
		c.InjectMove(st.X, st.Y)
	case "release":
		c.InjectRelease(st.X, st.Y)
	case "drag":
		c.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		c.InjectWheel(st.X, st.Y, st.Delta)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "fly":
		seconds := st.Seconds
		if seconds == 0 {
			seconds = DefaultFlightSeconds
		}
		err = c.FlyToLandmark(st.Landmark, seconds)
	case "reset":
		err = c.Reset()
	}
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("test script step %d (%s): %w", r.cursor-1, st.Action, err)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !c.Injecting() && !c.Flying() {
		r.done = true
	}
}
