// Package imaging builds the local preview thumbnail and the cosmetic crop
// snapshot. Both are returned as PNG data URLs; neither is ever uploaded.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	"image/png"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// DefaultPreviewSize is the longest edge of a preview thumbnail in pixels
const DefaultPreviewSize = 256

const dataURLPrefix = "data:image/png;base64,"

// Decode decodes any registered image format
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// Thumbnailer produces preview thumbnails
type Thumbnailer struct {
	MaxSize int
}

// NewThumbnailer creates a thumbnailer bounded by maxSize pixels
func NewThumbnailer(maxSize int) *Thumbnailer {
	if maxSize <= 0 {
		maxSize = DefaultPreviewSize
	}
	return &Thumbnailer{MaxSize: maxSize}
}

// Preview decodes data and returns a scaled PNG data URL
func (t *Thumbnailer) Preview(data []byte) (string, error) {
	img, _, err := Decode(data)
	if err != nil {
		return "", err
	}
	return EncodeDataURL(Fit(img, t.MaxSize))
}

// Fit scales img down so its longest edge is at most maxSize. Smaller
// images are returned unchanged.
func Fit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxSize
		nh = max(1, h*maxSize/w)
	} else {
		nh = maxSize
		nw = max(1, w*maxSize/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// EncodeDataURL encodes img as a PNG data URL
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL reverses EncodeDataURL
func DecodeDataURL(dataURL string) (image.Image, error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return nil, fmt.Errorf("not a png data url")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, dataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("invalid data url payload: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid data url image: %w", err)
	}
	return img, nil
}
