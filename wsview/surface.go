package wsview

import (
	"bytes"
	"image"
	"image/png"
)

// pngSurface is the Surface a session hands to its dispatcher. Every painted
// frame is encoded to PNG and offered to the writer; a frame the writer has
// not picked up yet is replaced by the newer one.
type pngSurface struct {
	img    *image.RGBA
	enc    png.Encoder
	frames chan []byte
}

func newPNGSurface(w, h int) *pngSurface {
	return &pngSurface{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		enc:    png.Encoder{CompressionLevel: png.BestSpeed},
		frames: make(chan []byte, 1),
	}
}

func (s *pngSurface) Bounds() image.Rectangle {
	return s.img.Rect
}

func (s *pngSurface) WritePixels(pix []byte) {
	copy(s.img.Pix, pix)
	var buf bytes.Buffer
	if err := s.enc.Encode(&buf, s.img); err != nil {
		return
	}
	// Single producer: after draining, the send cannot block.
	select {
	case <-s.frames:
	default:
	}
	s.frames <- buf.Bytes()
}
