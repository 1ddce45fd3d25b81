package mandelview

import (
	"fmt"
	"time"

	"github.com/tanema/gween/ease"
)

// Sender accepts render requests. *Dispatcher implements it.
type Sender interface {
	Request(req RenderRequest) error
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// Viewport is the size of the surface the dispatcher paints. Required.
	Viewport ViewportSize
	// Bounds is the initial view. The zero value selects InitialBounds.
	Bounds Bounds
	// MaxIterations is the per-pixel budget. 0 means DefaultMaxIterations.
	MaxIterations int
	// Debounce rate-limits drag and wheel input. nil selects DefaultDebounce;
	// a pointer to the zero value disables debouncing.
	Debounce *DebounceOptions
}

// Controller is the interaction layer. It holds the current bounds, turns
// pointer and wheel input into Pan and Zoom calls and sends a RenderRequest
// for every change. It is not safe for concurrent use: drive it from one
// goroutine, normally the frame loop.
type Controller struct {
	sender  Sender
	vp      ViewportSize
	initial Bounds
	bounds  Bounds
	maxIter int

	drag  DragState
	pan   *Debouncer[PanStep]
	wheel *Debouncer[WheelEvent]

	flight *Flight

	handlers    handlerRegistry
	sink        EventSink
	injectQueue []syntheticEvent
	now         func() time.Time

	sent int
	err  error
}

// NewController creates a Controller that sends requests to s.
func NewController(s Sender, cfg ControllerConfig) (*Controller, error) {
	if s == nil {
		return nil, fmt.Errorf("new controller: nil sender")
	}
	if err := cfg.Viewport.Validate(); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	b := cfg.Bounds
	if b == (Bounds{}) {
		b = InitialBounds
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	maxIter := cfg.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}
	if maxIter < 0 {
		return nil, fmt.Errorf("new controller: %w: %d", ErrInvalidIterations, maxIter)
	}
	opts := DefaultDebounce
	if cfg.Debounce != nil {
		opts = *cfg.Debounce
	}

	c := &Controller{
		sender:  s,
		vp:      cfg.Viewport,
		initial: b,
		bounds:  b,
		maxIter: maxIter,
		now:     time.Now,
	}
	c.pan = NewDebouncer(c.applyPan, opts).WithMerge(func(prev, next PanStep) PanStep {
		return PanStep{From: prev.From, To: next.To}
	})
	c.wheel = NewDebouncer(c.applyZoom, opts).WithMerge(func(prev, next WheelEvent) WheelEvent {
		next.Delta += prev.Delta
		return next
	})
	return c, nil
}

// SetClock replaces the time source used for debouncing.
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}

// SetEventSink forwards every view event to sink. Pass nil to stop.
func (c *Controller) SetEventSink(sink EventSink) {
	c.sink = sink
}

// OnViewChange registers fn to run after every bounds change.
func (c *Controller) OnViewChange(fn func(ViewEvent)) CallbackHandle {
	return c.handlers.add(fn)
}

// Bounds returns the current view.
func (c *Controller) Bounds() Bounds {
	return c.bounds
}

// Viewport returns the viewport size requests are made for.
func (c *Controller) Viewport() ViewportSize {
	return c.vp
}

// MaxIterations returns the per-pixel budget sent with each request.
func (c *Controller) MaxIterations() int {
	return c.maxIter
}

// Sent returns the number of requests accepted by the sender.
func (c *Controller) Sent() int {
	return c.sent
}

// Dragging reports whether the primary button is held.
func (c *Controller) Dragging() bool {
	return c.drag.Phase == DragDragging
}

// Flying reports whether a flight is in progress.
func (c *Controller) Flying() bool {
	return c.flight != nil
}

// Request builds the request for the current view.
func (c *Controller) Request() RenderRequest {
	return RenderRequest{Viewport: c.vp, Bounds: c.bounds, MaxIterations: c.maxIter}
}

// Start sends the request for the initial view.
func (c *Controller) Start() error {
	c.err = nil
	c.send()
	return c.err
}

// HandlePointer feeds one pointer event through the drag state machine.
// A press cancels any flight. A release delivers the pending pan at once
// so the final segment of a drag is never lost.
func (c *Controller) HandlePointer(ev PointerEvent) error {
	c.err = nil
	if ev.Action == PointerPress {
		c.flight = nil
	}
	next, step, ok := c.drag.Transition(ev)
	c.drag = next
	if ok {
		c.pan.Call(c.now(), step)
	}
	if ev.Action == PointerRelease {
		c.pan.Flush()
	}
	return c.err
}

// HandleWheel zooms around the event position, subject to debouncing.
// It cancels any flight.
func (c *Controller) HandleWheel(ev WheelEvent) error {
	c.err = nil
	c.flight = nil
	if ev.Delta == 0 {
		return nil
	}
	c.wheel.Call(c.now(), ev)
	return c.err
}

// Poll delivers debounced input whose quiet period ended before now.
func (c *Controller) Poll(now time.Time) error {
	c.err = nil
	c.pan.Poll(now)
	c.wheel.Poll(now)
	return c.err
}

// Update advances the controller by one frame of dt seconds: debounced
// input is polled and any flight moves on.
func (c *Controller) Update(dt float32) error {
	c.err = nil
	now := c.now()
	c.pan.Poll(now)
	c.wheel.Poll(now)
	if c.flight != nil {
		b, done := c.flight.Update(dt)
		if done {
			c.flight = nil
		}
		if b != c.bounds {
			c.bounds = b
			c.emit(ViewEvent{Type: ViewFlight, Bounds: b})
			c.send()
		}
	}
	return c.err
}

// SetBounds replaces the view and sends a request. Pending input and any
// flight are dropped.
func (c *Controller) SetBounds(b Bounds) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("set bounds: %w", err)
	}
	c.err = nil
	c.cancelPending()
	c.bounds = b
	c.emit(ViewEvent{Type: ViewSet, Bounds: b})
	c.send()
	return c.err
}

// Apply adopts the bounds and iteration budget of req, which must be for
// the controller's viewport, and sends it like SetBounds.
func (c *Controller) Apply(req RenderRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	if req.Viewport != c.vp {
		return fmt.Errorf("apply: %w: request %dx%d, viewport %dx%d", ErrSurfaceMismatch,
			req.Viewport.Width, req.Viewport.Height, c.vp.Width, c.vp.Height)
	}
	c.maxIter = req.MaxIterations
	return c.SetBounds(req.Bounds)
}

// Reset returns to the initial view.
func (c *Controller) Reset() error {
	return c.SetBounds(c.initial)
}

// FlyTo animates the view to b over seconds. The target is widened to the
// viewport's aspect ratio first. A non-positive duration jumps directly.
func (c *Controller) FlyTo(b Bounds, seconds float32, easeFn ease.TweenFunc) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("fly to: %w", err)
	}
	b = FitBounds(b, c.vp)
	if seconds <= 0 {
		return c.SetBounds(b)
	}
	c.cancelPending()
	c.flight = NewFlight(c.bounds, b, seconds, easeFn)
	return nil
}

// FlyToLandmark starts a flight to the named landmark.
func (c *Controller) FlyToLandmark(name string, seconds float32) error {
	l, ok := LandmarkByName(name)
	if !ok {
		return fmt.Errorf("fly to: unknown landmark %q", name)
	}
	return c.FlyTo(l.Bounds, seconds, ease.InOutCubic)
}

// cancelPending drops debounced input, an active drag and any flight.
func (c *Controller) cancelPending() {
	c.pan.Cancel()
	c.wheel.Cancel()
	c.drag = DragState{}
	c.flight = nil
}

func (c *Controller) applyPan(step PanStep) {
	nb := Pan(step.To.X, step.To.Y, step.From.X, step.From.Y, c.bounds, c.vp)
	if nb == c.bounds {
		return
	}
	c.bounds = nb
	c.emit(ViewEvent{
		Type:   ViewPan,
		Bounds: nb,
		X:      step.To.X,
		Y:      step.To.Y,
		DeltaX: step.To.X - step.From.X,
		DeltaY: step.To.Y - step.From.Y,
	})
	c.send()
}

func (c *Controller) applyZoom(ev WheelEvent) {
	nb := Zoom(ev.X, ev.Y, ev.Delta, c.bounds, c.vp)
	if nb == c.bounds {
		return
	}
	c.bounds = nb
	c.emit(ViewEvent{Type: ViewZoom, Bounds: nb, X: ev.X, Y: ev.Y, WheelDelta: ev.Delta})
	c.send()
}

func (c *Controller) emit(ev ViewEvent) {
	c.handlers.fire(ev)
	if c.sink != nil {
		c.sink.EmitViewEvent(ev)
	}
}

// send hands the current view to the sender. The first error of a call
// is kept for the caller.
func (c *Controller) send() {
	if err := c.sender.Request(c.Request()); err != nil {
		if c.err == nil {
			c.err = err
		}
		return
	}
	c.sent++
}
