package ecs

import (
	"github.com/phanxgames/mandelview"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ViewEventType is the Donburi event type for mandelview view events.
var ViewEventType = events.NewEventType[mandelview.ViewEvent]()

// ViewState is the component stored on the view entity.
type ViewState struct {
	Bounds mandelview.Bounds
	// Changes counts the events applied so far.
	Changes int
	// Last is the kind of the most recent change.
	Last mandelview.ViewEventType
}

// ViewComponent holds the current view on the entity created by NewDonburiSink.
var ViewComponent = donburi.NewComponentType[ViewState]()

// DonburiSink is an EventSink backed by a Donburi world.
type DonburiSink struct {
	world donburi.World
	view  donburi.Entity
}

// NewDonburiSink creates an EventSink backed by a Donburi world. View events
// are published to ViewEventType and can be consumed with events.Subscribe
// and ProcessEvents. The sink also creates one entity with ViewComponent
// that always holds the latest bounds.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{
		world: world,
		view:  world.Create(ViewComponent),
	}
}

// Entity returns the view entity.
func (s *DonburiSink) Entity() donburi.Entity {
	return s.view
}

// View returns the state stored on the view entity.
func (s *DonburiSink) View() ViewState {
	return *ViewComponent.Get(s.world.Entry(s.view))
}

// EmitViewEvent implements mandelview.EventSink.
func (s *DonburiSink) EmitViewEvent(event mandelview.ViewEvent) {
	st := ViewComponent.Get(s.world.Entry(s.view))
	st.Bounds = event.Bounds
	st.Changes++
	st.Last = event.Type
	ViewEventType.Publish(s.world, event)
}
