// Package wsview serves the Mandelbrot viewer to browsers over websockets.
//
// Each connection gets its own dispatcher and controller. The page sends
// pointer, wheel and key input as JSON text messages; the server answers
// with a JSON "view" message after every bounds change and a binary PNG
// message for every painted frame.
package wsview

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/phanxgames/mandelview"
)

//go:embed static/index.html
var indexHTML []byte

// MaxWidth and MaxHeight cap the viewport a client may ask for.
const (
	MaxWidth  = 1920
	MaxHeight = 1080
)

// Config configures a Handler. Zero values select defaults.
type Config struct {
	// Width and Height are the default viewport. Clients may override them
	// with the w and h query parameters. Default 800x600.
	Width, Height int
	// MaxIterations is the per-pixel budget. 0 means DefaultMaxIterations.
	MaxIterations int
	// Workers bounds engine goroutines per session. 0 means GOMAXPROCS.
	Workers int
	// Density is the palette step per iteration.
	Density int
	// Debounce rate-limits drag and wheel input. nil selects DefaultDebounce.
	Debounce *mandelview.DebounceOptions
	// OriginPatterns authorizes cross-origin pages, as in websocket.AcceptOptions.
	OriginPatterns []string
	// TickInterval drives debouncing and flights. Default 1/60 s.
	TickInterval time.Duration
	// Debug logs dispatcher timings to stderr.
	Debug bool
}

func (cfg *Config) setDefaults() {
	if cfg.Width == 0 {
		cfg.Width = 800
	}
	if cfg.Height == 0 {
		cfg.Height = 600
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = mandelview.DefaultMaxIterations
	}
	if cfg.Density == 0 {
		cfg.Density = mandelview.DefaultDensity
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second / 60
	}
}

// InputMessage is a client to server message.
//
//	{"type":"press","x":10,"y":20}
//	{"type":"wheel","x":10,"y":20,"delta":-100}
//	{"type":"fly","landmark":"seahorse-valley"}
//	{"type":"render","request":{"width":800,"height":600,"bounds":[{"r":-2,"i":1.2},{"r":0.5,"i":-1.2}],"N":1024}}
//
// A render request replaces the view and iteration budget. Its size must
// match the session's viewport.
type InputMessage struct {
	Type     string          `json:"type"`
	X        float64         `json:"x,omitempty"`
	Y        float64         `json:"y,omitempty"`
	Delta    float64         `json:"delta,omitempty"`
	Landmark string          `json:"landmark,omitempty"`
	Request  json.RawMessage `json:"request,omitempty"`
}

// ViewMessage is a server to client text message.
type ViewMessage struct {
	Type      string            `json:"type"` // "view" or "error"
	Bounds    mandelview.Bounds `json:"bounds"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Landmarks []string          `json:"landmarks,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Handler serves the viewer page at / and the websocket endpoint at /ws.
type Handler struct {
	cfg Config
	mux *http.ServeMux
}

// NewHandler creates a Handler.
func NewHandler(cfg Config) *Handler {
	cfg.setDefaults()
	h := &Handler{cfg: cfg, mux: http.NewServeMux()}
	h.mux.HandleFunc("/ws", h.serveWS)
	h.mux.HandleFunc("/", h.serveIndex)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

// viewport reads the optional w and h query parameters.
func (h *Handler) viewport(r *http.Request) (mandelview.ViewportSize, error) {
	vp := mandelview.ViewportSize{Width: h.cfg.Width, Height: h.cfg.Height}
	q := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *int
		max int
	}{{"w", &vp.Width, MaxWidth}, {"h", &vp.Height, MaxHeight}} {
		s := q.Get(p.key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return vp, fmt.Errorf("query %s: %w", p.key, err)
		}
		if n > p.max {
			return vp, fmt.Errorf("query %s: %d exceeds %d", p.key, n, p.max)
		}
		*p.dst = n
	}
	return vp, vp.Validate()
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	vp, err := h.viewport(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.cfg.OriginPatterns,
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.CloseNow()

	err = h.session(r.Context(), c, vp)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("wsview: session %s: %v", r.RemoteAddr, err)
		_ = c.Close(websocket.StatusInternalError, "session failed")
		return
	}
	_ = c.Close(websocket.StatusNormalClosure, "")
}

// session runs one connection until the client leaves or ctx ends.
func (h *Handler) session(ctx context.Context, c *websocket.Conn, vp mandelview.ViewportSize) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	surface := newPNGSurface(vp.Width, vp.Height)
	d := mandelview.NewDispatcher(mandelview.DispatcherConfig{
		Palette: mandelview.WheelPalette{Density: h.cfg.Density},
		Workers: h.cfg.Workers,
		Debug:   h.cfg.Debug,
	})
	d.Start(ctx)
	defer d.Close()
	if err := d.Handshake(surface); err != nil {
		return err
	}

	ctrl, err := mandelview.NewController(d, mandelview.ControllerConfig{
		Viewport:      vp,
		MaxIterations: h.cfg.MaxIterations,
		Debounce:      h.cfg.Debounce,
	})
	if err != nil {
		return err
	}

	names := make([]string, len(mandelview.Landmarks))
	for i, l := range mandelview.Landmarks {
		names[i] = l.Name
	}
	views := make(chan ViewMessage, 16)
	pushView := func(b mandelview.Bounds) {
		msg := ViewMessage{Type: "view", Bounds: b, Width: vp.Width, Height: vp.Height}
		select {
		case views <- msg:
		default:
		}
	}
	ctrl.OnViewChange(func(ev mandelview.ViewEvent) { pushView(ev.Bounds) })

	writeErr := make(chan error, 1)
	go func() {
		writeErr <- writeLoop(ctx, c, surface.frames, views)
	}()

	if err := wsjson.Write(ctx, c, ViewMessage{
		Type: "view", Bounds: ctrl.Bounds(), Width: vp.Width, Height: vp.Height, Landmarks: names,
	}); err != nil {
		return err
	}
	if err := ctrl.Start(); err != nil {
		return err
	}

	inputs := make(chan InputMessage)
	readErr := make(chan error, 1)
	go func() {
		readErr <- readLoop(ctx, c, inputs)
	}()

	ticker := time.NewTicker(h.cfg.TickInterval)
	defer ticker.Stop()
	dt := float32(h.cfg.TickInterval.Seconds())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case err := <-writeErr:
			return err
		case msg := <-inputs:
			if err := apply(ctrl, msg); err != nil {
				replyError(views, ViewMessage{Type: "error", Bounds: ctrl.Bounds(), Width: vp.Width, Height: vp.Height, Error: err.Error()}, msg.Type)
			}
		case <-ticker.C:
			if err := ctrl.Update(dt); err != nil {
				return err
			}
		}
	}
}

// replyError queues an error reply without blocking. A reply that does not
// fit is logged instead.
func replyError(views chan<- ViewMessage, reply ViewMessage, input string) {
	select {
	case views <- reply:
	default:
		log.Printf("wsview: dropped error reply to %s: %s", input, reply.Error)
	}
}

// apply feeds one client message to the controller.
func apply(ctrl *mandelview.Controller, msg InputMessage) error {
	switch msg.Type {
	case "press":
		return ctrl.HandlePointer(mandelview.PointerEvent{Action: mandelview.PointerPress, X: msg.X, Y: msg.Y})
	case "move":
		return ctrl.HandlePointer(mandelview.PointerEvent{Action: mandelview.PointerMove, X: msg.X, Y: msg.Y})
	case "release":
		return ctrl.HandlePointer(mandelview.PointerEvent{Action: mandelview.PointerRelease, X: msg.X, Y: msg.Y})
	case "wheel":
		return ctrl.HandleWheel(mandelview.WheelEvent{X: msg.X, Y: msg.Y, Delta: msg.Delta})
	case "reset":
		return ctrl.Reset()
	case "fly":
		return ctrl.FlyToLandmark(msg.Landmark, mandelview.DefaultFlightSeconds)
	case "render":
		if len(msg.Request) == 0 {
			return errors.New("render: missing request")
		}
		var req mandelview.RenderRequest
		if err := json.Unmarshal(msg.Request, &req); err != nil {
			return err
		}
		return ctrl.Apply(req)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func readLoop(ctx context.Context, c *websocket.Conn, out chan<- InputMessage) error {
	for {
		var msg InputMessage
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			return err
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func writeLoop(ctx context.Context, c *websocket.Conn, frames <-chan []byte, views <-chan ViewMessage) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v := <-views:
			if err := wsjson.Write(ctx, c, v); err != nil {
				return err
			}
		case png := <-frames:
			if err := c.Write(ctx, websocket.MessageBinary, png); err != nil {
				return err
			}
		}
	}
}
