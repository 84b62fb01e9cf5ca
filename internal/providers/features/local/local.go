// Package local extracts image features in-process.
//
// The image is resampled to a 16x16 grid and every cell contributes eight
// centred colour and luminance statistics, giving a 2048-wide vector with
// values in [-1, 1]. Bright, saturated images lean positive; dark, flat ones
// lean negative.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	gridSize        = 16
	featuresPerCell = 8

	// Dimensions is the length of every vector Extract returns.
	Dimensions = gridSize * gridSize * featuresPerCell

	// MaxPixels bounds the decoded size of any accepted image.
	MaxPixels = 40_000_000
)

// ErrTooLarge is returned for images whose header declares more than
// MaxPixels pixels.
var ErrTooLarge = errors.New("image exceeds pixel budget")

// CheckSize reads only the image header and rejects undecodable or
// oversized images.
func CheckSize(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, format, fmt.Errorf("empty %s image", format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return cfg, format, fmt.Errorf("%w: %s %dx%d", ErrTooLarge, format, cfg.Width, cfg.Height)
	}
	return cfg, format, nil
}

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, data []byte) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, _, err := CheckSize(data); err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	grid := image.NewRGBA(image.Rect(0, 0, gridSize, gridSize))
	draw.ApproxBiLinear.Scale(grid, grid.Bounds(), src, src.Bounds(), draw.Src, nil)

	var lum [gridSize][gridSize]float64
	var meanLum float64
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			r, g, b := rgb(grid, x, y)
			lum[y][x] = 0.299*r + 0.587*g + 0.114*b
			meanLum += lum[y][x]
		}
	}
	meanLum /= gridSize * gridSize

	out := make([]float64, 0, Dimensions)
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			r, g, b := rgb(grid, x, y)
			chroma := math.Max(r, math.Max(g, b)) - math.Min(r, math.Min(g, b))

			var gx, gy float64
			if x+1 < gridSize {
				gx = lum[y][x+1] - lum[y][x]
			}
			if y+1 < gridSize {
				gy = lum[y+1][x] - lum[y][x]
			}

			out = append(out,
				2*r-1,
				2*g-1,
				2*b-1,
				2*lum[y][x]-1,
				2*chroma-1,
				lum[y][x]-meanLum,
				gx,
				gy,
			)
		}
	}
	return out, nil
}

// rgb returns the pixel's channels in [0, 1].
func rgb(img *image.RGBA, x, y int) (float64, float64, float64) {
	c := img.RGBAAt(x, y)
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}
