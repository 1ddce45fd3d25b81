// Mandelserve serves the Mandelbrot viewer to browsers over websockets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/phanxgames/mandelview"
	"github.com/phanxgames/mandelview/wsview"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	var (
		port    = flag.Int("port", 8080, "http port")
		width   = flag.Int("width", 800, "default viewport width")
		height  = flag.Int("height", 600, "default viewport height")
		iter    = flag.Int("n", mandelview.DefaultMaxIterations, "max iterations per pixel")
		workers = flag.Int("workers", 0, "engine goroutines per session (0 = GOMAXPROCS)")
		origins = flag.String("origin", "", "extra authorized origin pattern")
		debug   = flag.Bool("debug", false, "log frame timings to stderr")
	)
	flag.Parse()

	cfg := wsview.Config{
		Width:         *width,
		Height:        *height,
		MaxIterations: *iter,
		Workers:       *workers,
		Debug:         *debug,
	}
	if *origins != "" {
		cfg.OriginPatterns = []string{*origins}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           wsview.NewHandler(cfg),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on http://localhost:%d", *port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
