package mandelview

// PointerAction identifies a kind of pointer event.
type PointerAction uint8

const (
	PointerPress   PointerAction = iota // primary button pressed
	PointerMove                         // pointer moved
	PointerRelease                      // primary button released
)

func (a PointerAction) String() string {
	switch a {
	case PointerPress:
		return "press"
	case PointerMove:
		return "move"
	case PointerRelease:
		return "release"
	default:
		return "unknown"
	}
}

// PointerEvent is a pointer event in viewport pixel coordinates.
type PointerEvent struct {
	Action PointerAction
	X, Y   float64
}

// WheelEvent is a wheel scroll at a pixel position. Delta follows DOM wheel
// semantics: positive scrolls down (away from the content) and zooms out.
type WheelEvent struct {
	X, Y  float64
	Delta float64
}

// DragPhase is the state of the drag state machine.
type DragPhase uint8

const (
	DragIdle     DragPhase = iota // no button held
	DragDragging                  // button held; Last is the previous position
)

// DragState is the drag state machine. It is a value: Transition returns
// the next state rather than mutating the receiver.
type DragState struct {
	Phase DragPhase
	Last  Pixel
}

// PanStep is the pixel segment a drag covered since the previous event.
type PanStep struct {
	From, To Pixel
}

// Transition applies ev to s. When the event moves a held pointer, the
// covered segment is returned with ok set.
//
//	Idle     --press-->   Dragging(press position)
//	Dragging --move-->    Dragging(move position), pan Last->move
//	Dragging --release--> Idle, pan Last->release
//	Idle     --move/release--> Idle
func (s DragState) Transition(ev PointerEvent) (next DragState, step PanStep, ok bool) {
	p := Pixel{X: ev.X, Y: ev.Y}
	switch ev.Action {
	case PointerPress:
		return DragState{Phase: DragDragging, Last: p}, PanStep{}, false
	case PointerMove:
		if s.Phase != DragDragging {
			return s, PanStep{}, false
		}
		return DragState{Phase: DragDragging, Last: p}, PanStep{From: s.Last, To: p}, s.Last != p
	case PointerRelease:
		if s.Phase != DragDragging {
			return DragState{}, PanStep{}, false
		}
		return DragState{}, PanStep{From: s.Last, To: p}, s.Last != p
	}
	return s, PanStep{}, false
}

// --- View event registry ---

// ViewEventType identifies why the view bounds changed.
type ViewEventType uint8

const (
	ViewPan    ViewEventType = iota // drag moved the view
	ViewZoom                        // wheel scaled the view
	ViewFlight                      // an animated flight advanced
	ViewSet                         // bounds were replaced directly
)

func (t ViewEventType) String() string {
	switch t {
	case ViewPan:
		return "pan"
	case ViewZoom:
		return "zoom"
	case ViewFlight:
		return "flight"
	case ViewSet:
		return "set"
	default:
		return "unknown"
	}
}

// ViewEvent reports a bounds change made by a Controller.
type ViewEvent struct {
	Type   ViewEventType
	Bounds Bounds
	// Pointer position for pan and zoom.
	X, Y float64
	// Pan fields.
	DeltaX, DeltaY float64
	// Zoom field.
	WheelDelta float64
}

// EventSink is the interface for optional ECS integration. When set on a
// Controller, view events are forwarded to it.
type EventSink interface {
	EmitViewEvent(event ViewEvent)
}

type viewHandler struct {
	id uint32
	fn func(ViewEvent)
}

type handlerRegistry struct {
	view   []viewHandler
	nextID uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id  uint32
	reg *handlerRegistry
}

// Remove unregisters the callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.view
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = viewHandler{}
			h.reg.view = s[:len(s)-1]
			return
		}
	}
}

func (r *handlerRegistry) add(fn func(ViewEvent)) CallbackHandle {
	r.nextID++
	r.view = append(r.view, viewHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r}
}

func (r *handlerRegistry) fire(ev ViewEvent) {
	for _, h := range r.view {
		h.fn(ev)
	}
}
