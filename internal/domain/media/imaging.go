package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const (
	ThumbnailWidth = 200
	// MaxImagePixels caps width*height read from the image header before
	// any pixel buffer is allocated.
	MaxImagePixels = 50_000_000
)

var errImageTooLarge = errors.New("image dimensions exceed pixel limit")

// ResponsiveWidths are generated only when narrower than the original.
var ResponsiveWidths = []int{320, 640, 1024}

// processable lists the raster types that get dimensions and variants.
var processable = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
}

type processedImage struct {
	Width     int
	Height    int
	Thumbnail []byte
	Sizes     map[int][]byte
}

func isProcessable(mimeType string) bool {
	_, ok := processable[mimeType]
	return ok
}

// processImage reads dimensions and renders the thumbnail and responsive
// widths, keeping the aspect ratio and the source format.
func processImage(data []byte, mimeType string) (*processedImage, error) {
	format, ok := processable[mimeType]
	if !ok {
		return nil, fmt.Errorf("process image: unsupported type %s", mimeType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("process image: read header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("process image: %dx%d: %w", cfg.Width, cfg.Height, errImageTooLarge)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("process image: decode: %w", err)
	}
	bounds := img.Bounds()
	out := &processedImage{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Sizes:  make(map[int][]byte),
	}

	thumbWidth := min(ThumbnailWidth, out.Width)
	if out.Thumbnail, err = encode(imaging.Resize(img, thumbWidth, 0, imaging.Lanczos), format); err != nil {
		return nil, err
	}

	for _, w := range ResponsiveWidths {
		if w >= out.Width {
			continue
		}
		data, err := encode(imaging.Resize(img, w, 0, imaging.Lanczos), format)
		if err != nil {
			return nil, err
		}
		out.Sizes[w] = data
	}
	return out, nil
}

func encode(img image.Image, format imaging.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("process image: encode: %w", err)
	}
	return buf.Bytes(), nil
}
