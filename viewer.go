package mandelview

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelNotch converts ebiten wheel offsets (one unit per notch, positive
// up) to DOM-style deltas (100 per notch, positive down).
const wheelNotch = 100

// ViewerConfig holds optional parameters for Run and NewViewer.
// Zero values select defaults.
type ViewerConfig struct {
	// Title is the window title. Defaults to "Mandelbrot".
	Title string
	// Width and Height are the surface size in pixels. Default 800x600.
	Width, Height int
	// MaxIterations is the per-pixel budget. 0 means DefaultMaxIterations.
	MaxIterations int
	// Workers bounds the engine goroutines. 0 means GOMAXPROCS.
	Workers int
	// Density is the palette step per iteration. 0 means DefaultDensity.
	Density int
	// Bounds is the initial view. The zero value selects InitialBounds.
	Bounds Bounds
	// ShowHUD draws the bounds, zoom and frame counters over the image.
	ShowHUD bool
	// Debounce rate-limits drag and wheel input. nil selects DefaultDebounce.
	Debounce *DebounceOptions
	// ScreenshotDir receives screenshots. Defaults to "screenshots".
	ScreenshotDir string
	// Script is an optional JSON test script stepped once per frame.
	Script []byte
	// ExitWhenScriptDone ends Run once the script and its screenshots finish.
	ExitWhenScriptDone bool
	// Debug logs dispatcher timings to stderr.
	Debug bool
}

func (cfg *ViewerConfig) setDefaults() {
	if cfg.Title == "" {
		cfg.Title = "Mandelbrot"
	}
	if cfg.Width == 0 {
		cfg.Width = 800
	}
	if cfg.Height == 0 {
		cfg.Height = 600
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Density == 0 {
		cfg.Density = DefaultDensity
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = DefaultScreenshotDir
	}
}

// Viewer is the desktop front end: an ebiten.Game that polls the mouse,
// drives a Controller and presents the frames a Dispatcher paints.
//
// The dispatcher owns an in-memory surface; the viewer copies new frames
// onto its canvas from the game goroutine.
type Viewer struct {
	cfg        ViewerConfig
	vp         ViewportSize
	dispatcher *Dispatcher
	ctrl       *Controller
	surface    *MemorySurface
	cancel     context.CancelFunc

	canvas *ebiten.Image
	pix    []byte
	drawn  int

	runner *TestRunner
	shots  ScreenshotQueue
	shot   []byte

	pressed      bool
	lastX, lastY int
	showHUD      bool
}

// NewViewer builds a viewer and starts its dispatcher. Call Close when done.
func NewViewer(ctx context.Context, cfg ViewerConfig) (*Viewer, error) {
	cfg.setDefaults()
	vp := ViewportSize{Width: cfg.Width, Height: cfg.Height}
	if err := vp.Validate(); err != nil {
		return nil, fmt.Errorf("new viewer: %w", err)
	}

	var runner *TestRunner
	if len(cfg.Script) > 0 {
		r, err := LoadTestScript(cfg.Script)
		if err != nil {
			return nil, fmt.Errorf("new viewer: %w", err)
		}
		runner = r
	}

	ctx, cancel := context.WithCancel(ctx)
	d := NewDispatcher(DispatcherConfig{
		Palette: WheelPalette{Density: cfg.Density},
		Workers: cfg.Workers,
		Debug:   cfg.Debug,
	})
	d.Start(ctx)

	surface := NewMemorySurface(vp)
	if err := d.Handshake(surface); err != nil {
		cancel()
		return nil, fmt.Errorf("new viewer: %w", err)
	}
	ctrl, err := NewController(d, ControllerConfig{
		Viewport:      vp,
		Bounds:        cfg.Bounds,
		MaxIterations: cfg.MaxIterations,
		Debounce:      cfg.Debounce,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("new viewer: %w", err)
	}
	if err := ctrl.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("new viewer: %w", err)
	}

	return &Viewer{
		cfg:        cfg,
		vp:         vp,
		dispatcher: d,
		ctrl:       ctrl,
		surface:    surface,
		cancel:     cancel,
		canvas:     ebiten.NewImage(vp.Width, vp.Height),
		pix:        make([]byte, vp.Pixels()*4),
		runner:     runner,
		shots:      ScreenshotQueue{Dir: cfg.ScreenshotDir},
		showHUD:    cfg.ShowHUD,
	}, nil
}

// Controller returns the viewer's interaction layer.
func (v *Viewer) Controller() *Controller {
	return v.ctrl
}

// Screenshot queues a capture of the next drawn frame.
func (v *Viewer) Screenshot(label string) {
	v.shots.Screenshot(label)
}

// Close stops the dispatcher.
func (v *Viewer) Close() {
	v.dispatcher.Close()
	v.cancel()
}

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))

	if err := v.handleKeys(); err != nil {
		return err
	}
	if v.runner != nil {
		v.runner.Step(v.ctrl, &v.shots)
		if err := v.runner.Err(); err != nil {
			return err
		}
	}

	consumed, err := v.ctrl.ProcessInjected()
	if err != nil {
		return err
	}
	if !consumed {
		if err := v.pollInput(); err != nil {
			return err
		}
	}
	if err := v.ctrl.Update(dt); err != nil {
		return err
	}

	if v.cfg.ExitWhenScriptDone && v.runner != nil && v.runner.Done() && v.shots.Pending() == 0 {
		return ebiten.Termination
	}
	return nil
}

func (v *Viewer) handleKeys() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		return v.ctrl.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		v.showHUD = !v.showHUD
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		v.shots.Screenshot("manual")
	}
	for i, l := range Landmarks {
		if i >= 9 {
			break
		}
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			return v.ctrl.FlyToLandmark(l.Name, DefaultFlightSeconds)
		}
	}
	return nil
}

// pollInput converts the mouse state of this frame into controller events.
func (v *Viewer) pollInput() error {
	x, y := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	ev, ok := pointerTransition(v.pressed, v.lastX, v.lastY, pressed, x, y)
	v.pressed, v.lastX, v.lastY = pressed, x, y
	if ok {
		if err := v.ctrl.HandlePointer(ev); err != nil {
			return err
		}
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		return v.ctrl.HandleWheel(WheelEvent{X: float64(x), Y: float64(y), Delta: -wy * wheelNotch})
	}
	return nil
}

// pointerTransition derives the pointer event between two polled states.
func pointerTransition(wasPressed bool, lastX, lastY int, pressed bool, x, y int) (PointerEvent, bool) {
	p := PointerEvent{X: float64(x), Y: float64(y)}
	switch {
	case pressed && !wasPressed:
		p.Action = PointerPress
	case !pressed && wasPressed:
		p.Action = PointerRelease
	case pressed && (x != lastX || y != lastY):
		p.Action = PointerMove
	default:
		return PointerEvent{}, false
	}
	return p, true
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.surface.Writes() != v.drawn {
		v.drawn = v.surface.CopyPixels(v.pix)
		v.canvas.WritePixels(v.pix)
	}
	screen.DrawImage(v.canvas, nil)

	if v.shots.Pending() > 0 {
		b := screen.Bounds()
		if len(v.shot) != b.Dx()*b.Dy()*4 {
			v.shot = make([]byte, b.Dx()*b.Dy()*4)
		}
		screen.ReadPixels(v.shot)
		v.shots.Flush(unpremultiply(v.shot, b.Dx(), b.Dy()))
	}

	if v.showHUD {
		ebitenutil.DebugPrintAt(screen, hudText(v.ctrl, v.dispatcher.Stats(), ebiten.ActualFPS()), 4, 4)
	}
}

// Layout implements ebiten.Game. The surface size is fixed.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.vp.Width, v.vp.Height
}

// hudText formats the overlay shown with ShowHUD.
func hudText(c *Controller, st Stats, fps float64) string {
	b := c.Bounds()
	center := b.Center()
	zoom := InitialBounds.Width() / b.Width()
	return fmt.Sprintf("center %.10g %+.10gi\nwidth %.4g  zoom %.4gx (10^%.1f)\nframes %d  dropped %d  FPS %.1f",
		center.R, center.I, b.Width(), zoom, math.Log10(zoom), st.Painted, st.Discarded, fps)
}

// Run opens a window and runs the viewer until it is closed.
func Run(cfg ViewerConfig) error {
	v, err := NewViewer(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	ebiten.SetWindowTitle(v.cfg.Title)
	ebiten.SetWindowSize(v.vp.Width, v.vp.Height)
	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
