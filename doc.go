// Package mandelview is an interactive Mandelbrot set viewer for [Ebitengine].
//
// The package is split into three layers that talk only through values:
//
//   - the bounds transform: [Pan] and [Zoom] map pixel-space gestures to a
//     new [Bounds] in the complex plane;
//   - the escape-time engine: [Compute] and [ComputeParallel] turn a
//     [RenderRequest] into per-pixel iteration counts;
//   - the render dispatcher: a [Dispatcher] owns a [Surface], paints the
//     counts through a deterministic [Palette] and drops results that a
//     newer request has superseded.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and wires
// all three layers together:
//
//	mandelview.Run(mandelview.ViewerConfig{
//		Title: "Mandelbrot", Width: 800, Height: 600, ShowHUD: true,
//	})
//
// Drag to pan, scroll to zoom, press 1-8 to fly to a landmark and R to reset.
//
// # Headless use
//
// A [Dispatcher] works with any [Surface]. [MemorySurface] keeps frames in
// memory:
//
//	d := mandelview.NewDispatcher(mandelview.DispatcherConfig{})
//	d.Start(ctx)
//	surface := mandelview.NewMemorySurface(vp)
//	d.Handshake(surface)
//	d.Request(mandelview.RenderRequest{Viewport: vp, Bounds: b, MaxIterations: 1024})
//
// Requests sent before the handshake, and any second handshake, are ignored
// and counted in [Stats.Rejected].
//
// # Interaction
//
// A [Controller] holds the current bounds and turns [PointerEvent] and
// [WheelEvent] input into requests. Drag and wheel input is debounced with
// the caller's clock ([Debouncer]); [Controller.FlyTo] animates between
// views with tweens (via [gween]). Synthetic input ([Controller.InjectDrag],
// [Controller.InjectWheel]) and JSON scripts ([LoadTestScript]) drive the
// same path deterministically.
//
// View changes can be observed with [Controller.OnViewChange] or forwarded
// into a [Donburi] world through the mandelview/ecs adapter. The
// mandelview/wsview package serves the viewer to browsers over websockets.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package mandelview
