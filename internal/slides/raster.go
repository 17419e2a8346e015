package slides

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// Rasterizer produces the page image for a slide at a zoom factor. Zoom 1 is
// the page's native size.
type Rasterizer interface {
	Rasterize(ctx context.Context, name string, zoom float64) ([]byte, error)
}

// ImageDir rasterizes slides from pre-rendered page images in a directory,
// scaling them down for zoom below 1. The output is always PNG.
type ImageDir struct {
	Dir string
}

// Rasterize implements Rasterizer.
func (d ImageDir) Rasterize(ctx context.Context, name string, zoom float64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if zoom <= 0 {
		return nil, fmt.Errorf("invalid zoom %v", zoom)
	}

	f, err := os.Open(filepath.Join(d.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open slide image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return encodePNG(Scale(src, zoom))
}

// Scale resizes img by zoom with Catmull-Rom resampling. Zoom of 1 or more
// returns img unchanged. Each side is at least one pixel.
func Scale(img image.Image, zoom float64) image.Image {
	if zoom >= 1 {
		return img
	}
	b := img.Bounds()
	w := max(int(float64(b.Dx())*zoom), 1)
	h := max(int(float64(b.Dy())*zoom), 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
