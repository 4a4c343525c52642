package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// quadrantPNG builds a w*h image whose left half is red and right half is green
func quadrantPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{G: 255, A: 255})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestThumbnailerPreview(t *testing.T) {
	data := quadrantPNG(t, 800, 400)

	dataURL, err := NewThumbnailer(200).Preview(data)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	img, err := DecodeDataURL(dataURL)
	if err != nil {
		t.Fatalf("Preview is not a png data url: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Errorf("Expected 200x100 thumbnail, got %v", img.Bounds())
	}
}

func TestThumbnailerRejectsNonImage(t *testing.T) {
	if _, err := NewThumbnailer(0).Preview([]byte("not an image")); err == nil {
		t.Error("Expected decode error")
	}
}

func TestFitKeepsSmallImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 80))
	if Fit(img, 256) != image.Image(img) {
		t.Error("Expected small image to be returned unchanged")
	}

	tall := Fit(image.NewRGBA(image.Rect(0, 0, 100, 1000)), 100)
	if tall.Bounds().Dx() != 10 || tall.Bounds().Dy() != 100 {
		t.Errorf("Expected 10x100, got %v", tall.Bounds())
	}
}

func TestCropperSnapshotPercent(t *testing.T) {
	data := quadrantPNG(t, 100, 100)

	// Right half only
	dataURL, err := NewCropper(0).Snapshot(data, Region{X: 50, Y: 0, Width: 50, Height: 100})
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	img, err := DecodeDataURL(dataURL)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 100 {
		t.Fatalf("Expected 50x100 crop, got %v", img.Bounds())
	}

	r, g, _, _ := img.At(10, 10).RGBA()
	if r != 0 || g == 0 {
		t.Errorf("Expected green pixels in right half crop")
	}
}

func TestCropperSnapshotPixelClamped(t *testing.T) {
	data := quadrantPNG(t, 100, 60)

	dataURL, err := NewCropper(0).Snapshot(data, Region{X: 80, Y: 40, Width: 500, Height: 500, Unit: UnitPixel})
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	img, err := DecodeDataURL(dataURL)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 20 {
		t.Errorf("Expected region clamped to 20x20, got %v", img.Bounds())
	}
}

func TestCropperSnapshotOutside(t *testing.T) {
	data := quadrantPNG(t, 10, 10)
	if _, err := NewCropper(0).Snapshot(data, Region{X: 50, Y: 50, Width: 5, Height: 5, Unit: UnitPixel}); err == nil {
		t.Error("Expected error for region outside the image")
	}
	if _, err := NewCropper(0).Snapshot(data, Region{Width: 0, Height: 5}); err == nil {
		t.Error("Expected error for empty region")
	}
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		input   string
		want    Region
		wantErr bool
	}{
		{input: "10 20 30 40", want: Region{X: 10, Y: 20, Width: 30, Height: 40, Unit: UnitPercent}},
		{input: "10,20,30,40%", want: Region{X: 10, Y: 20, Width: 30, Height: 40, Unit: UnitPercent}},
		{input: "0 0 128 96px", want: Region{Width: 128, Height: 96, Unit: UnitPixel}},
		{input: "1.5 2.5 50 50", want: Region{X: 1.5, Y: 2.5, Width: 50, Height: 50}},
		{input: "10 20 30", wantErr: true},
		{input: "a b c d", wantErr: true},
		{input: "-1 0 10 10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRegion(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRegion(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRegion(%q) = %+v, want %+v", tt.input, got, tt.want)
			}

			back, err := ParseRegion(got.String())
			if err != nil || back != got {
				t.Errorf("String() did not round trip: %q -> %+v (%v)", got.String(), back, err)
			}
		})
	}
}
