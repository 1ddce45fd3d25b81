package mandelview

// syntheticEvent is a single injected pointer or wheel event in viewport
// pixel coordinates, fed through the same path as real input.
type syntheticEvent struct {
	pointer PointerEvent
	wheel   WheelEvent
	isWheel bool
}

// InjectPress queues a primary button press at (x, y). Events are consumed
// one per frame by ProcessInjected.
func (c *Controller) InjectPress(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticEvent{
		pointer: PointerEvent{Action: PointerPress, X: x, Y: y},
	})
}

// InjectMove queues a pointer move to (x, y). Use it between InjectPress and
// InjectRelease to simulate a drag.
func (c *Controller) InjectMove(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticEvent{
		pointer: PointerEvent{Action: PointerMove, X: x, Y: y},
	})
}

// InjectRelease queues a primary button release at (x, y).
func (c *Controller) InjectRelease(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticEvent{
		pointer: PointerEvent{Action: PointerRelease, X: x, Y: y},
	})
}

// InjectWheel queues a wheel scroll of delta at (x, y).
func (c *Controller) InjectWheel(x, y, delta float64) {
	c.injectQueue = append(c.injectQueue, syntheticEvent{
		wheel:   WheelEvent{X: x, Y: y, Delta: delta},
		isWheel: true,
	})
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (c *Controller) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	c.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		c.InjectMove(x, y)
	}
	c.InjectRelease(toX, toY)
}

// Injecting reports whether synthetic events are waiting.
func (c *Controller) Injecting() bool {
	return len(c.injectQueue) > 0
}

// ProcessInjected pops one event from the inject queue and handles it.
// Returns true if an event was consumed, in which case real input for the
// frame should be skipped.
func (c *Controller) ProcessInjected() (bool, error) {
	if len(c.injectQueue) == 0 {
		return false, nil
	}
	evt := c.injectQueue[0]
	copy(c.injectQueue, c.injectQueue[1:])
	c.injectQueue = c.injectQueue[:len(c.injectQueue)-1]

	if evt.isWheel {
		return true, c.HandleWheel(evt.wheel)
	}
	return true, c.HandlePointer(evt.pointer)
}
