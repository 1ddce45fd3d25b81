package mandelview

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EscapeRadiusSq is the squared escape radius: an orbit has diverged once
// re(z)^2 + im(z)^2 exceeds it.
const EscapeRadiusSq = 4.0

// IterationCount is the escape time of one pixel: the iteration in
// [1, maxIterations] at which the orbit left the escape radius, or Bounded.
type IterationCount int32

// Bounded marks a pixel whose orbit stayed inside the escape radius for
// every iteration. Such pixels belong to the interior of the set.
const Bounded IterationCount = -1

// PixelResult holds one IterationCount per pixel, row-major.
type PixelResult struct {
	Width, Height int
	Counts        []IterationCount
}

// At returns the count of pixel (x, y).
func (r PixelResult) At(x, y int) IterationCount {
	return r.Counts[y*r.Width+x]
}

// EscapeTime iterates z <- z^2 + c from z = 0 and returns the iteration at
// which |z| exceeded the escape radius, or Bounded.
func EscapeTime(cr, ci float64, maxIter int) IterationCount {
	var zr, zi float64
	for n := 1; n <= maxIter; n++ {
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
		if zr*zr+zi*zi > EscapeRadiusSq {
			return IterationCount(n)
		}
	}
	return Bounded
}

// Compute runs the escape-time iteration for every pixel of req on the
// calling goroutine.
func Compute(req RenderRequest) (PixelResult, error) {
	if err := req.Validate(); err != nil {
		return PixelResult{}, fmt.Errorf("compute: %w", err)
	}
	res := newPixelResult(req.Viewport)
	computeRows(req, res.Counts, 0, req.Viewport.Height)
	return res, nil
}

// ComputeParallel splits the rows of req into bands and computes them on up
// to workers goroutines. workers <= 0 means GOMAXPROCS. The result is
// identical to Compute. Cancelling ctx stops the bands between rows and
// returns ctx.Err().
func ComputeParallel(ctx context.Context, req RenderRequest, workers int) (PixelResult, error) {
	if err := req.Validate(); err != nil {
		return PixelResult{}, fmt.Errorf("compute: %w", err)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	res := newPixelResult(req.Viewport)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, band := range splitRows(req.Viewport.Height, bandHeight(req.Viewport.Height, workers)) {
		g.Go(func() error {
			for y := band.start; y < band.end; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				computeRows(req, res.Counts, y, y+1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PixelResult{}, err
	}
	return res, nil
}

// ComputeFunc computes a full frame. The dispatcher calls it off its own
// goroutine with a context that is cancelled when the request is superseded.
type ComputeFunc func(ctx context.Context, req RenderRequest) (PixelResult, error)

// ParallelCompute returns a ComputeFunc backed by ComputeParallel.
func ParallelCompute(workers int) ComputeFunc {
	return func(ctx context.Context, req RenderRequest) (PixelResult, error) {
		return ComputeParallel(ctx, req, workers)
	}
}

func newPixelResult(vp ViewportSize) PixelResult {
	return PixelResult{
		Width:  vp.Width,
		Height: vp.Height,
		Counts: make([]IterationCount, vp.Pixels()),
	}
}

// computeRows fills counts for rows [y0, y1). Rows written by different
// calls never overlap.
func computeRows(req RenderRequest, counts []IterationCount, y0, y1 int) {
	b := req.Bounds
	vp := req.Viewport
	stepR := b.stepR(vp)
	stepI := b.stepI(vp)
	maxIter := req.MaxIterations

	for py := y0; py < y1; py++ {
		ci := b.TopLeft.I - float64(py)*stepI
		row := counts[py*vp.Width : (py+1)*vp.Width]
		for px := range row {
			cr := b.TopLeft.R + float64(px)*stepR
			row[px] = EscapeTime(cr, ci, maxIter)
		}
	}
}

// rowBand is a half-open range of rows.
type rowBand struct {
	start, end int
}

// bandHeight picks a band height giving each worker several bands so that
// expensive interior rows are spread out.
func bandHeight(rows, workers int) int {
	h := rows / (workers * 4)
	if h < 1 {
		h = 1
	}
	return h
}

// splitRows splits rows into bands of height h. The last band is shorter if
// rows is not divisible by h.
func splitRows(rows, h int) []rowBand {
	if h <= 0 {
		panic("band height must be positive")
	}
	bands := make([]rowBand, 0, (rows+h-1)/h)
	for y := 0; y < rows; y += h {
		end := y + h
		if end > rows {
			end = rows
		}
		bands = append(bands, rowBand{start: y, end: end})
	}
	return bands
}
