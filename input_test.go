package mandelview

import "testing"

func TestDragTransition(t *testing.T) {
	var s DragState
	steps := []struct {
		ev     PointerEvent
		phase  DragPhase
		ok     bool
		from   Pixel
		to     Pixel
	}{
		{PointerEvent{PointerMove, 5, 5}, DragIdle, false, Pixel{}, Pixel{}},
		{PointerEvent{PointerPress, 10, 10}, DragDragging, false, Pixel{}, Pixel{}},
		{PointerEvent{PointerMove, 15, 12}, DragDragging, true, Pixel{10, 10}, Pixel{15, 12}},
		{PointerEvent{PointerMove, 15, 12}, DragDragging, false, Pixel{15, 12}, Pixel{15, 12}},
		{PointerEvent{PointerRelease, 20, 20}, DragIdle, true, Pixel{15, 12}, Pixel{20, 20}},
		{PointerEvent{PointerMove, 30, 30}, DragIdle, false, Pixel{}, Pixel{}},
		{PointerEvent{PointerRelease, 30, 30}, DragIdle, false, Pixel{}, Pixel{}},
	}
	for i, st := range steps {
		next, step, ok := s.Transition(st.ev)
		if next.Phase != st.phase {
			t.Errorf("step %d (%v): phase = %v, want %v", i, st.ev.Action, next.Phase, st.phase)
		}
		if ok != st.ok {
			t.Errorf("step %d (%v): ok = %v, want %v", i, st.ev.Action, ok, st.ok)
		}
		if ok && (step.From != st.from || step.To != st.to) {
			t.Errorf("step %d (%v): step = %+v, want %v->%v", i, st.ev.Action, step, st.from, st.to)
		}
		s = next
	}
}

func TestDragTransitionIsValue(t *testing.T) {
	s := DragState{Phase: DragDragging, Last: Pixel{1, 1}}
	s.Transition(PointerEvent{PointerMove, 9, 9})
	if s.Last != (Pixel{1, 1}) {
		t.Error("Transition mutated its receiver")
	}
}

func TestDragRepressRestarts(t *testing.T) {
	s := DragState{Phase: DragDragging, Last: Pixel{1, 1}}
	next, _, ok := s.Transition(PointerEvent{PointerPress, 50, 50})
	if ok || next.Last != (Pixel{50, 50}) {
		t.Errorf("press while dragging = %+v (ok %v), want restart at (50,50)", next, ok)
	}
}

func TestPointerActionString(t *testing.T) {
	tests := map[PointerAction]string{
		PointerPress: "press", PointerMove: "move", PointerRelease: "release", PointerAction(9): "unknown",
	}
	for a, want := range tests {
		if got := a.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", a, got, want)
		}
	}
}

func TestViewEventTypeString(t *testing.T) {
	tests := map[ViewEventType]string{
		ViewPan: "pan", ViewZoom: "zoom", ViewFlight: "flight", ViewSet: "set", ViewEventType(42): "unknown",
	}
	for ty, want := range tests {
		if got := ty.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", ty, got, want)
		}
	}
}

func TestHandlerRegistry(t *testing.T) {
	var reg handlerRegistry
	var a, b int
	ha := reg.add(func(ViewEvent) { a++ })
	reg.add(func(ViewEvent) { b++ })

	reg.fire(ViewEvent{})
	if a != 1 || b != 1 {
		t.Fatalf("a=%d b=%d, want 1 1", a, b)
	}

	ha.Remove()
	ha.Remove() // second remove is a no-op
	reg.fire(ViewEvent{})
	if a != 1 || b != 2 {
		t.Errorf("after Remove: a=%d b=%d, want 1 2", a, b)
	}
	if len(reg.view) != 1 {
		t.Errorf("registry holds %d handlers, want 1", len(reg.view))
	}

	CallbackHandle{}.Remove() // zero handle is safe
}
