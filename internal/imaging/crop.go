package imaging

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// Unit says how Region coordinates are interpreted
type Unit int

const (
	// UnitPercent treats coordinates as 0..100 of the image dimensions
	UnitPercent Unit = iota
	// UnitPixel treats coordinates as source pixels
	UnitPixel
)

// String returns the suffix used by ParseRegion
func (u Unit) String() string {
	if u == UnitPixel {
		return "px"
	}
	return "%"
}

// Region is a crop rectangle as reported by a cropping widget
type Region struct {
	X, Y          float64
	Width, Height float64
	Unit          Unit
}

// String formats the region so ParseRegion can read it back
func (r Region) String() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return fmt.Sprintf("%s %s %s %s%s", f(r.X), f(r.Y), f(r.Width), f(r.Height), r.Unit)
}

// Rect resolves r against bounds and clamps it to them
func (r Region) Rect(bounds image.Rectangle) (image.Rectangle, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return image.Rectangle{}, fmt.Errorf("crop region must have positive size")
	}

	x, y, w, h := r.X, r.Y, r.Width, r.Height
	if r.Unit == UnitPercent {
		bw, bh := float64(bounds.Dx()), float64(bounds.Dy())
		x, y = x*bw/100, y*bh/100
		w, h = w*bw/100, h*bh/100
	}

	rect := image.Rect(
		bounds.Min.X+int(x),
		bounds.Min.Y+int(y),
		bounds.Min.X+int(x+w),
		bounds.Min.Y+int(y+h),
	).Intersect(bounds)

	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("crop region %s lies outside the image", r)
	}
	return rect, nil
}

// ParseRegion reads "x y w h" with an optional "px" or "%" suffix on the
// last value. Commas are accepted as separators.
func ParseRegion(s string) (Region, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 4 {
		return Region{}, fmt.Errorf("expected 4 values (x y width height), got %d", len(fields))
	}

	region := Region{Unit: UnitPercent}
	last := fields[3]
	switch {
	case strings.HasSuffix(last, "px"):
		region.Unit = UnitPixel
		fields[3] = strings.TrimSuffix(last, "px")
	case strings.HasSuffix(last, "%"):
		fields[3] = strings.TrimSuffix(last, "%")
	}

	values := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Region{}, fmt.Errorf("invalid crop value %q: %w", f, err)
		}
		if v < 0 {
			return Region{}, fmt.Errorf("crop values must be non-negative")
		}
		values[i] = v
	}
	region.X, region.Y, region.Width, region.Height = values[0], values[1], values[2], values[3]

	return region, nil
}

// Cropper renders crop snapshots
type Cropper struct {
	// MaxSize bounds the snapshot's longest edge; zero keeps full resolution
	MaxSize int
}

// NewCropper creates a cropper whose snapshots fit in maxSize pixels
func NewCropper(maxSize int) *Cropper {
	return &Cropper{MaxSize: maxSize}
}

// Snapshot returns the cropped region of data as a PNG data URL
func (c *Cropper) Snapshot(data []byte, region Region) (string, error) {
	img, _, err := Decode(data)
	if err != nil {
		return "", err
	}

	rect, err := region.Rect(img.Bounds())
	if err != nil {
		return "", err
	}

	cropped := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(cropped, cropped.Bounds(), img, rect.Min, draw.Src)

	return EncodeDataURL(Fit(cropped, c.MaxSize))
}
