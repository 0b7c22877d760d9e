package pubseo

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestProcessImageResizesWideImages(t *testing.T) {
	img, data, err := processImage(pngOf(t, 2400, 1260), "Summer Trip.PNG")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if img.Width != maxImageWidth || img.Height != 630 {
		t.Errorf("dimensions = %dx%d, want %dx630", img.Width, img.Height, maxImageWidth)
	}
	if img.Filename != "summer-trip.jpg" {
		t.Errorf("Filename = %q, want summer-trip.jpg", img.Filename)
	}
	if img.Size != len(data) || len(data) == 0 {
		t.Errorf("Size = %d, data = %d bytes", img.Size, len(data))
	}
}

func TestProcessImageKeepsNarrowImages(t *testing.T) {
	img, _, err := processImage(pngOf(t, 300, 200), "###.png")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if img.Width != 300 || img.Height != 200 {
		t.Errorf("dimensions = %dx%d, want 300x200", img.Width, img.Height)
	}
	if img.Filename != "image.jpg" {
		t.Errorf("Filename = %q, want image.jpg", img.Filename)
	}
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	if _, _, err := processImage(bytes.NewBufferString("not an image"), "x.png"); err == nil {
		t.Fatal("expected decode error")
	}
}
