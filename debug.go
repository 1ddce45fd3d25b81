package mandelview

import (
	"fmt"
	"os"
	"time"
)

// frameStats holds per-frame timing for one painted frame.
// Only logged when the dispatcher's Debug flag is set.
type frameStats struct {
	seq         uint64
	computeTime time.Duration
	paintTime   time.Duration
	pixels      int
	bounded     int
}

// debugLogFrame prints frame timing to stderr.
func debugLogFrame(stats frameStats) {
	total := stats.computeTime + stats.paintTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[mandelview] frame %d: compute: %v | paint: %v | total: %v\n",
		stats.seq, stats.computeTime, stats.paintTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[mandelview] pixels: %d | bounded: %d\n",
		stats.pixels, stats.bounded)
}

// debugLogf prints a tagged diagnostic line to stderr.
func debugLogf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[mandelview] "+format+"\n", args...)
}

// countBounded counts interior pixels of a result.
func countBounded(counts []IterationCount) int {
	n := 0
	for _, c := range counts {
		if c == Bounded {
			n++
		}
	}
	return n
}
