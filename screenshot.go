package mandelview

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultScreenshotDir is where screenshots go when no directory is set.
const DefaultScreenshotDir = "screenshots"

// ScreenshotQueue collects labels until the next frame is captured. Each
// label produces one timestamped PNG in Dir.
type ScreenshotQueue struct {
	Dir    string
	labels []string
}

// Screenshot queues a labeled capture of the next frame.
func (q *ScreenshotQueue) Screenshot(label string) {
	q.labels = append(q.labels, label)
}

// Pending returns the number of queued labels.
func (q *ScreenshotQueue) Pending() int {
	return len(q.labels)
}

// Flush writes img once for every queued label and returns the paths
// written. Failures are logged to stderr and the queue is cleared either way.
func (q *ScreenshotQueue) Flush(img image.Image) []string {
	if len(q.labels) == 0 {
		return nil
	}
	defer func() { q.labels = q.labels[:0] }()

	dir := q.Dir
	if dir == "" {
		dir = DefaultScreenshotDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		debugLogf("screenshot: mkdir %s: %v", dir, err)
		return nil
	}

	stamp := time.Now().Format("20060102_150405")
	var paths []string
	for _, label := range q.labels {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			debugLogf("screenshot: %v", err)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

// unpremultiply converts premultiplied RGBA bytes, as read back from a GPU
// image, to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// WritePNG saves the current pixels to path.
func (s *MemorySurface) WritePNG(path string) error {
	return writePNG(path, s.Snapshot())
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
