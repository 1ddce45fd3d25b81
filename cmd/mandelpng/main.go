// Mandelpng renders one view of the Mandelbrot set to a PNG file without
// opening a window.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/phanxgames/mandelview"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run() error {
	var (
		width    = flag.Int("width", 1920, "image width in pixels")
		height   = flag.Int("height", 1080, "image height in pixels")
		iter     = flag.Int("n", mandelview.DefaultMaxIterations, "max iterations per pixel")
		workers  = flag.Int("workers", 0, "engine goroutines (0 = GOMAXPROCS)")
		density  = flag.Int("density", mandelview.DefaultDensity, "palette step per iteration")
		landmark = flag.String("landmark", "seahorse-valley", "named landmark to render")
		reqFile  = flag.String("request", "", "JSON render request to use instead of -width, -height, -n and -landmark")
		out      = flag.String("o", "mandel.png", "output file")
		timeout  = flag.Duration("timeout", time.Minute, "give up after this long")
	)
	flag.Parse()

	var (
		req  mandelview.RenderRequest
		name string
	)
	if *reqFile != "" {
		r, err := loadRequest(*reqFile)
		if err != nil {
			return err
		}
		req, name = r, *reqFile
	} else {
		l, ok := mandelview.LandmarkByName(*landmark)
		if !ok {
			return fmt.Errorf("unknown landmark %q", *landmark)
		}
		vp := mandelview.ViewportSize{Width: *width, Height: *height}
		if err := vp.Validate(); err != nil {
			return err
		}
		req = mandelview.RenderRequest{
			Viewport:      vp,
			Bounds:        mandelview.FitBounds(l.Bounds, vp),
			MaxIterations: *iter,
		}
		name = l.Name
	}
	vp := req.Viewport

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	painted := make(chan mandelview.FrameInfo, 1)
	d := mandelview.NewDispatcher(mandelview.DispatcherConfig{
		Palette: mandelview.WheelPalette{Density: *density},
		Workers: *workers,
		OnFrame: func(fi mandelview.FrameInfo) { painted <- fi },
	})
	d.Start(ctx)
	defer d.Close()

	surface := mandelview.NewMemorySurface(vp)
	if err := d.Handshake(surface); err != nil {
		return err
	}
	if err := d.Request(req); err != nil {
		return err
	}

	select {
	case fi := <-painted:
		log.Printf("rendered %s %v in %v", name, req.Bounds, fi.Elapsed)
	case <-ctx.Done():
		return fmt.Errorf("render %s: %w", name, ctx.Err())
	}

	if err := surface.WritePNG(*out); err != nil {
		return err
	}
	log.Printf("wrote %s", *out)
	return nil
}

// loadRequest reads a render request in the wire format, e.g.
//
//	{"width":800,"height":600,"bounds":[{"r":-2,"i":1.2},{"r":0.5,"i":-1.2}],"N":1024}
func loadRequest(path string) (mandelview.RenderRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mandelview.RenderRequest{}, fmt.Errorf("load request: %w", err)
	}
	var req mandelview.RenderRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return mandelview.RenderRequest{}, fmt.Errorf("load request %s: %w", path, err)
	}
	return req, nil
}
