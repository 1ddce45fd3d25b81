package mandelview

import (
	"image"
	"sync"
)

// Surface is the pixel destination owned by a Dispatcher. WritePixels
// receives width*height*4 bytes of RGBA and must copy them; the caller
// reuses the slice for the next frame.
//
// *ebiten.Image satisfies Surface.
type Surface interface {
	Bounds() image.Rectangle
	WritePixels(pix []byte)
}

// SurfaceSize returns the viewport size of s.
func SurfaceSize(s Surface) ViewportSize {
	b := s.Bounds()
	return ViewportSize{Width: b.Dx(), Height: b.Dy()}
}

// MemorySurface is an in-memory Surface backed by an *image.RGBA. It is used
// for headless rendering and tests. Reads are safe from any goroutine.
type MemorySurface struct {
	mu     sync.RWMutex
	img    *image.RGBA
	writes int
}

// NewMemorySurface allocates a transparent surface of the given size.
func NewMemorySurface(vp ViewportSize) *MemorySurface {
	mustViewport(vp)
	return &MemorySurface{img: image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))}
}

// Bounds implements Surface.
func (s *MemorySurface) Bounds() image.Rectangle {
	return s.img.Rect
}

// WritePixels implements Surface. Short slices write a prefix.
func (s *MemorySurface) WritePixels(pix []byte) {
	s.mu.Lock()
	copy(s.img.Pix, pix)
	s.writes++
	s.mu.Unlock()
}

// Writes returns how many frames have been written.
func (s *MemorySurface) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Snapshot returns a copy of the current pixels.
func (s *MemorySurface) Snapshot() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img := image.NewRGBA(s.img.Rect)
	copy(img.Pix, s.img.Pix)
	return img
}

// CopyPixels copies the current pixels into dst and returns the write count
// they belong to. dst must hold width*height*4 bytes.
func (s *MemorySurface) CopyPixels(dst []byte) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copy(dst, s.img.Pix)
	return s.writes
}
