package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func createTestJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solid(w, h, color.RGBA{255, 0, 0, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, solid(w, h, color.RGBA{0, 0, 255, 255}))
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestProcessJPEG(t *testing.T) {
	data, err := Process(bytes.NewReader(createTestJPEG(100, 100)), Options{})
	if err != nil {
		t.Fatalf("Process JPEG: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty data")
	}
}

func TestProcessPNGBecomesJPEG(t *testing.T) {
	data, err := Process(bytes.NewReader(createTestPNG(100, 100)), Options{})
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	decodedSize(t, data)
}

func TestProcessDownscale(t *testing.T) {
	data, err := Process(bytes.NewReader(createTestJPEG(2048, 1024)), Options{})
	if err != nil {
		t.Fatalf("Process large image: %v", err)
	}

	w, h := decodedSize(t, data)
	if w != DefaultMaxDimension || h != DefaultMaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", DefaultMaxDimension, DefaultMaxDimension/2, w, h)
	}
}

func TestProcessCustomMaxDimension(t *testing.T) {
	data, err := Process(bytes.NewReader(createTestPNG(300, 600)), Options{MaxDimension: 200})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	w, h := decodedSize(t, data)
	if w != 100 || h != 200 {
		t.Errorf("expected 100x200, got %dx%d", w, h)
	}
}

func TestProcessSmallImageNotUpscaled(t *testing.T) {
	data, err := Process(bytes.NewReader(createTestJPEG(50, 50)), Options{})
	if err != nil {
		t.Fatalf("Process small image: %v", err)
	}

	w, h := decodedSize(t, data)
	if w != 50 || h != 50 {
		t.Errorf("small image should not be resized: got %dx%d", w, h)
	}
}

func TestProcessInvalidFormat(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("not an image")), Options{}); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestProcessGIFRejected(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("GIF89a...")), Options{}); err == nil {
		t.Error("expected error for GIF")
	}
}
