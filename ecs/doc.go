// Package ecs provides ECS adapters for mandelview's view events.
//
// The primary adapter is [NewDonburiSink], which bridges controller view
// events (pan, zoom, flight, set) into a [Donburi] world as typed events and
// keeps a view entity holding the latest bounds. Subscribe to
// [ViewEventType] in your ECS systems to receive the events.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	controller.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
