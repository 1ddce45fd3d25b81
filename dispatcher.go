package mandelview

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"
	"time"
)

const defaultInboxSize = 64

// DispatcherConfig configures a Dispatcher. Zero values select defaults.
type DispatcherConfig struct {
	// Palette colours iteration counts. Defaults to WheelPalette{DefaultDensity}.
	Palette Palette
	// Workers bounds the engine goroutines per frame. 0 means GOMAXPROCS.
	Workers int
	// Compute overrides the escape-time engine. Defaults to ParallelCompute(Workers).
	Compute ComputeFunc
	// OnFrame is called on the dispatcher goroutine after each painted frame.
	OnFrame func(FrameInfo)
	// OnReject is called on the dispatcher goroutine for every message that
	// breaks the protocol.
	OnReject func(error)
	// InboxSize is the message buffer length. 0 means 64.
	InboxSize int
	// Debug logs frame timings and rejected messages to stderr.
	Debug bool
}

// FrameInfo describes a painted frame.
type FrameInfo struct {
	Seq     uint64
	Request RenderRequest
	// Elapsed runs from the request's arrival to the end of the paint.
	Elapsed time.Duration
}

// Stats counts dispatcher activity.
type Stats struct {
	Requests  uint64 // render requests received
	Painted   uint64 // frames written to the surface
	Discarded uint64 // results dropped because a newer request arrived
	Rejected  uint64 // messages refused for breaking the protocol
}

type messageKind uint8

const (
	msgHandshake messageKind = iota
	msgRender
)

type message struct {
	kind    messageKind
	surface Surface
	req     RenderRequest
}

type frameResult struct {
	seq      uint64
	req      RenderRequest
	res      PixelResult
	err      error
	received time.Time
	computed time.Duration
}

// Dispatcher owns a Surface and paints escape-time frames into it.
//
// It is driven by messages: exactly one Handshake transferring the surface,
// then any number of Requests. Messages are processed in arrival order on
// the goroutine running Run. Each request supersedes the previous one: the
// older computation is cancelled and its result, should it still arrive, is
// discarded, so the surface never goes back to a stale frame.
//
// Requests received before the handshake are ignored and counted as
// rejected. A second handshake is ignored the same way.
type Dispatcher struct {
	cfg     DispatcherConfig
	palette Palette
	compute ComputeFunc

	inbox     chan message
	results   chan frameResult
	done      chan struct{}
	closeOnce sync.Once
	running   atomic.Bool

	// Owned by the Run goroutine.
	surface Surface
	size    ViewportSize
	seq     uint64
	cancel  context.CancelFunc
	pix     []byte
	lut     []color.RGBA

	requests  atomic.Uint64
	painted   atomic.Uint64
	discarded atomic.Uint64
	rejected  atomic.Uint64
}

// NewDispatcher creates a Dispatcher. Call Run (or Start) to process messages.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		cfg:     cfg,
		palette: cfg.Palette,
		compute: cfg.Compute,
		results: make(chan frameResult),
		done:    make(chan struct{}),
	}
	if d.palette == nil {
		d.palette = WheelPalette{Density: DefaultDensity}
	}
	if d.compute == nil {
		d.compute = ParallelCompute(cfg.Workers)
	}
	size := cfg.InboxSize
	if size <= 0 {
		size = defaultInboxSize
	}
	d.inbox = make(chan message, size)
	return d
}

// Start runs the dispatcher on a new goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		if err := d.Run(ctx); err != nil && d.cfg.Debug {
			debugLogf("dispatcher stopped: %v", err)
		}
	}()
}

// Run processes messages until ctx is cancelled or Close is called. The
// dispatcher is closed when Run returns. Run may be called only once; later
// calls return ErrRunning.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer d.Close()
	defer d.stopInFlight()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.done:
			return nil
		case msg := <-d.inbox:
			d.handle(ctx, msg)
		case r := <-d.results:
			d.apply(r)
		}
	}
}

// Close stops the dispatcher. Messages sent afterwards, or after Run has
// returned for any reason, return ErrClosed.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.done) })
}

// Handshake transfers ownership of s to the dispatcher. After the call the
// sender must not write to s.
func (d *Dispatcher) Handshake(s Surface) error {
	if s == nil {
		return fmt.Errorf("handshake: %w", ErrNoSurface)
	}
	if err := SurfaceSize(s).Validate(); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	return d.send(message{kind: msgHandshake, surface: s})
}

// Request queues a full-frame render. Malformed requests are refused here,
// before anything is sent. Request never waits for a render to finish.
func (d *Dispatcher) Request(req RenderRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("request: %w", err)
	}
	return d.send(message{kind: msgRender, req: req})
}

func (d *Dispatcher) send(msg message) error {
	select {
	case <-d.done:
		return ErrClosed
	default:
	}
	select {
	case d.inbox <- msg:
		return nil
	case <-d.done:
		return ErrClosed
	}
}

// Stats returns a snapshot of the counters. Safe from any goroutine.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Requests:  d.requests.Load(),
		Painted:   d.painted.Load(),
		Discarded: d.discarded.Load(),
		Rejected:  d.rejected.Load(),
	}
}

func (d *Dispatcher) handle(ctx context.Context, msg message) {
	switch msg.kind {
	case msgHandshake:
		if d.surface != nil {
			d.reject(ErrSurfaceOwned)
			return
		}
		d.surface = msg.surface
		d.size = SurfaceSize(msg.surface)
		if d.cfg.Debug {
			debugLogf("surface %dx%d attached", d.size.Width, d.size.Height)
		}
	case msgRender:
		d.requests.Add(1)
		if d.surface == nil {
			d.reject(ErrNoSurface)
			return
		}
		if msg.req.Viewport != d.size {
			d.reject(fmt.Errorf("%w: request %dx%d, surface %dx%d", ErrSurfaceMismatch,
				msg.req.Viewport.Width, msg.req.Viewport.Height, d.size.Width, d.size.Height))
			return
		}
		d.start(ctx, msg.req)
	}
}

func (d *Dispatcher) reject(err error) {
	d.rejected.Add(1)
	if d.cfg.Debug {
		debugLogf("rejected: %v", err)
	}
	if d.cfg.OnReject != nil {
		d.cfg.OnReject(err)
	}
}

// start cancels the in-flight computation and launches one for req.
func (d *Dispatcher) start(ctx context.Context, req RenderRequest) {
	d.stopInFlight()
	d.seq++
	seq := d.seq
	received := time.Now()

	cctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go func() {
		t0 := time.Now()
		res, err := d.compute(cctx, req)
		r := frameResult{
			seq:      seq,
			req:      req,
			res:      res,
			err:      err,
			received: received,
			computed: time.Since(t0),
		}
		select {
		case d.results <- r:
		case <-d.done:
		case <-ctx.Done():
		}
	}()
}

func (d *Dispatcher) stopInFlight() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// apply paints r if it belongs to the latest request.
func (d *Dispatcher) apply(r frameResult) {
	if r.seq != d.seq {
		d.discarded.Add(1)
		if d.cfg.Debug {
			debugLogf("discarded stale frame %d (latest %d)", r.seq, d.seq)
		}
		return
	}
	d.stopInFlight()
	if r.err != nil {
		d.discarded.Add(1)
		if d.cfg.Debug && !errors.Is(r.err, context.Canceled) {
			debugLogf("frame %d failed: %v", r.seq, r.err)
		}
		return
	}

	t0 := time.Now()
	d.paint(r.req, r.res)
	d.painted.Add(1)

	if d.cfg.Debug {
		debugLogFrame(frameStats{
			seq:         r.seq,
			computeTime: r.computed,
			paintTime:   time.Since(t0),
			pixels:      len(r.res.Counts),
			bounded:     countBounded(r.res.Counts),
		})
	}
	if d.cfg.OnFrame != nil {
		d.cfg.OnFrame(FrameInfo{Seq: r.seq, Request: r.req, Elapsed: time.Since(r.received)})
	}
}

// paint converts counts to RGBA through a per-budget colour table and writes
// the frame to the surface.
func (d *Dispatcher) paint(req RenderRequest, res PixelResult) {
	if len(d.lut) != req.MaxIterations+1 {
		d.lut = make([]color.RGBA, req.MaxIterations+1)
		for n := range d.lut {
			d.lut[n] = d.palette.Color(IterationCount(n))
		}
	}
	interior := d.palette.Color(Bounded)

	need := len(res.Counts) * 4
	if cap(d.pix) < need {
		d.pix = make([]byte, need)
	}
	pix := d.pix[:need]
	for i, n := range res.Counts {
		c := interior
		if n >= 0 && int(n) < len(d.lut) {
			c = d.lut[n]
		}
		j := i * 4
		pix[j] = c.R
		pix[j+1] = c.G
		pix[j+2] = c.B
		pix[j+3] = c.A
	}
	d.surface.WritePixels(pix)
}
