// Mandelview opens an interactive Mandelbrot viewer window.
// Drag to pan, scroll to zoom, 1-8 fly to landmarks, R resets, P saves a
// screenshot, H toggles the HUD and Esc quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
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
		width    = flag.Int("width", 800, "surface width in pixels")
		height   = flag.Int("height", 600, "surface height in pixels")
		iter     = flag.Int("n", mandelview.DefaultMaxIterations, "max iterations per pixel")
		workers  = flag.Int("workers", 0, "engine goroutines (0 = GOMAXPROCS)")
		density  = flag.Int("density", mandelview.DefaultDensity, "palette step per iteration")
		landmark = flag.String("landmark", "", "start at a named landmark")
		hud      = flag.Bool("hud", true, "show the HUD overlay")
		debounce = flag.Duration("debounce", 100*time.Millisecond, "input debounce wait (0 disables)")
		shots    = flag.String("screenshots", mandelview.DefaultScreenshotDir, "screenshot directory")
		script   = flag.String("script", "", "JSON test script to run")
		exit     = flag.Bool("exit", false, "quit when the script finishes")
		debug    = flag.Bool("debug", false, "log frame timings to stderr")
	)
	flag.Parse()

	cfg := mandelview.ViewerConfig{
		Title:              "Mandelbrot",
		Width:              *width,
		Height:             *height,
		MaxIterations:      *iter,
		Workers:            *workers,
		Density:            *density,
		ShowHUD:            *hud,
		Debounce:           &mandelview.DebounceOptions{Wait: *debounce, Trailing: true},
		ScreenshotDir:      *shots,
		ExitWhenScriptDone: *exit,
		Debug:              *debug,
	}
	if *landmark != "" {
		l, ok := mandelview.LandmarkByName(*landmark)
		if !ok {
			names := make([]string, len(mandelview.Landmarks))
			for i, l := range mandelview.Landmarks {
				names[i] = l.Name
			}
			return fmt.Errorf("unknown landmark %q (have %s)", *landmark, strings.Join(names, ", "))
		}
		cfg.Bounds = mandelview.FitBounds(l.Bounds, mandelview.ViewportSize{Width: *width, Height: *height})
	}
	if *script != "" {
		data, err := os.ReadFile(*script)
		if err != nil {
			return err
		}
		cfg.Script = data
	}

	return mandelview.Run(cfg)
}
