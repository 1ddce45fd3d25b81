package mandelview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-zoom", "after-zoom"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	var q ScreenshotQueue
	q.Screenshot("a")
	q.Screenshot("b")
	q.Screenshot("c")
	if q.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", q.Pending())
	}
	if q.labels[0] != "a" || q.labels[1] != "b" || q.labels[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", q.labels)
	}
}

func TestScreenshotQueueFlush(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	q := ScreenshotQueue{Dir: dir}
	q.Screenshot("start view")
	q.Screenshot("zoomed")

	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 200, G: 10, B: 30, A: 255})

	paths := q.Flush(img)
	if len(paths) != 2 {
		t.Fatalf("Flush wrote %d files, want 2", len(paths))
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d after flush", q.Pending())
	}
	if !strings.HasSuffix(paths[0], "_start_view.png") || !strings.HasSuffix(paths[1], "_zoomed.png") {
		t.Errorf("paths = %v", paths)
	}

	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", got.Bounds(), img.Bounds())
	}
	if c := color.NRGBAModel.Convert(got.At(1, 1)).(color.NRGBA); c != (color.NRGBA{200, 10, 30, 255}) {
		t.Errorf("pixel = %v", c)
	}
}

func TestScreenshotQueueFlush_Empty(t *testing.T) {
	q := ScreenshotQueue{Dir: t.TempDir()}
	if paths := q.Flush(image.NewNRGBA(image.Rect(0, 0, 1, 1))); paths != nil {
		t.Errorf("empty queue wrote %v", paths)
	}
}

func TestUnpremultiply(t *testing.T) {
	pix := []byte{
		64, 32, 0, 128, // half alpha
		10, 20, 30, 255, // opaque
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pix, 3, 1)
	want := []byte{127, 63, 0, 128, 10, 20, 30, 255, 0, 0, 0, 0}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", img.Pix, want)
		}
	}
}

func TestMemorySurfaceWritePNG(t *testing.T) {
	s := NewMemorySurface(ViewportSize{Width: 2, Height: 2})
	s.WritePixels([]byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	})
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := s.WritePNG(path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b, _ := img.At(1, 0).RGBA(); r != 0 || g != 0xffff || b != 0 {
		t.Errorf("pixel (1,0) = %v %v %v, want green", r, g, b)
	}
}

func TestMemorySurfaceCopyPixels(t *testing.T) {
	s := NewMemorySurface(ViewportSize{Width: 1, Height: 1})
	dst := make([]byte, 4)
	if n := s.CopyPixels(dst); n != 0 {
		t.Errorf("fresh surface write count = %d", n)
	}
	s.WritePixels([]byte{1, 2, 3, 4})
	s.WritePixels([]byte{5, 6, 7, 8})
	if n := s.CopyPixels(dst); n != 2 || dst[0] != 5 || dst[3] != 8 {
		t.Errorf("CopyPixels = %d, %v", n, dst)
	}
	if SurfaceSize(s) != (ViewportSize{Width: 1, Height: 1}) {
		t.Errorf("SurfaceSize = %v", SurfaceSize(s))
	}
}
