package mandelview

import "errors"

var (
	// ErrInvalidViewport is returned for a viewport with a non-positive dimension.
	ErrInvalidViewport = errors.New("invalid viewport")
	// ErrInvalidIterations is returned for a non-positive iteration budget.
	ErrInvalidIterations = errors.New("invalid max iterations")
	// ErrInvalidBounds is returned when the corner ordering invariant is broken.
	ErrInvalidBounds = errors.New("invalid bounds")
	// ErrDegenerateZoom is returned when a zoom would leave float64 precision.
	ErrDegenerateZoom = errors.New("degenerate zoom")

	// ErrNoSurface is returned for a render request received before the handshake.
	ErrNoSurface = errors.New("no surface: handshake not received")
	// ErrSurfaceOwned is returned for a second handshake.
	ErrSurfaceOwned = errors.New("surface already transferred")
	// ErrSurfaceMismatch is returned when a request's viewport differs from the surface.
	ErrSurfaceMismatch = errors.New("viewport does not match surface")
	// ErrClosed is returned for messages sent to a closed dispatcher.
	ErrClosed = errors.New("dispatcher closed")
	// ErrRunning is returned by a second call to Dispatcher.Run.
	ErrRunning = errors.New("dispatcher already running")
)
