package label

import (
	"image"
	"testing"

	"github.com/labelbridge/ppla-engine/pkg/labelformat"
)

func TestRendererSize(t *testing.T) {
	r, err := New(&labelformat.Label{
		Version:  "1.0",
		WidthMM:  104,
		HeightMM: 74,
		DPI:      203,
	})
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	w, h := r.Size()
	if w != 831 {
		t.Errorf("Expected width 831 dots for 104mm at 203dpi, got %d", w)
	}
	if h != 591 {
		t.Errorf("Expected height 591 dots for 74mm at 203dpi, got %d", h)
	}
}

func TestRendererRejectsSubDotMedia(t *testing.T) {
	_, err := New(&labelformat.Label{
		Version:  "1.0",
		WidthMM:  0.05,
		HeightMM: 74,
	})
	if err == nil {
		t.Fatal("Expected error for media narrower than one dot")
	}
}

func TestRenderLineDrawsPixels(t *testing.T) {
	img, err := Render(&labelformat.Label{
		Version: "1.0",
		Commands: []labelformat.Command{
			{Type: "line", Y: 50, Length: 200, Thickness: 4},
		},
	})
	if err != nil {
		t.Fatalf("Failed to render label: %v", err)
	}

	if !hasDarkPixel(img, image.Rect(10, 45, 200, 55)) {
		t.Error("Expected dark pixels along the rendered line")
	}
	if hasDarkPixel(img, image.Rect(10, 200, 200, 250)) {
		t.Error("Expected empty region below the line to stay white")
	}
}

func TestRenderBarcode(t *testing.T) {
	img, err := Render(&labelformat.Label{
		Version: "1.0",
		Commands: []labelformat.Command{
			{Type: "barcode", Value: "4712345678901", Format: "CODE128", Y: 20, Height: 60},
		},
	})
	if err != nil {
		t.Fatalf("Failed to render barcode: %v", err)
	}

	if !hasDarkPixel(img, img.Bounds()) {
		t.Error("Expected barcode to produce dark pixels")
	}
}

func TestRenderQRCode(t *testing.T) {
	img, err := Render(&labelformat.Label{
		Version: "1.0",
		Commands: []labelformat.Command{
			{Type: "qrcode", Value: "https://example.com/track/1", Size: 120},
		},
	})
	if err != nil {
		t.Fatalf("Failed to render QR code: %v", err)
	}

	if !hasDarkPixel(img, img.Bounds()) {
		t.Error("Expected QR code to produce dark pixels")
	}
}

func TestRenderUnknownCommand(t *testing.T) {
	_, err := Render(&labelformat.Label{
		Version: "1.0",
		Commands: []labelformat.Command{
			{Type: "hologram"},
		},
	})
	if err == nil {
		t.Fatal("Expected error for unsupported command type")
	}
}

func TestFeedAdvancesCursor(t *testing.T) {
	l := &labelformat.Label{Version: "1.0"}
	r, err := New(l)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	before := r.y
	if err := r.renderFeed(&labelformat.Command{Type: "feed", Lines: 3}); err != nil {
		t.Fatalf("Failed to render feed: %v", err)
	}

	if r.y != before+3*lineHeight {
		t.Errorf("Expected cursor to advance by %v, got %v", 3*lineHeight, r.y-before)
	}
}

func hasDarkPixel(img image.Image, region image.Rectangle) bool {
	region = region.Intersect(img.Bounds())
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if (r+g+b)/3 < 0x4000 {
				return true
			}
		}
	}
	return false
}
