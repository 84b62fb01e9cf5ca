package local

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func mean(v []float64) float64 {
	var s float64
	for _, f := range v {
		s += f
	}
	return s / float64(len(v))
}

func TestExtractDimensionsAndRange(t *testing.T) {
	feats, err := New().Extract(context.Background(), solidPNG(t, color.RGBA{R: 200, G: 120, B: 40, A: 255}))
	require.NoError(t, err)
	require.Len(t, feats, Dimensions)
	for _, f := range feats {
		assert.GreaterOrEqual(t, f, -1.0)
		assert.LessOrEqual(t, f, 1.0)
	}
}

func TestExtractBrightnessDrivesMean(t *testing.T) {
	bright, err := New().Extract(context.Background(), solidPNG(t, color.RGBA{R: 255, G: 240, B: 80, A: 255}))
	require.NoError(t, err)
	dark, err := New().Extract(context.Background(), solidPNG(t, color.RGBA{R: 10, G: 10, B: 20, A: 255}))
	require.NoError(t, err)

	assert.Greater(t, mean(bright), 0.1)
	assert.Less(t, mean(dark), -0.1)
}

func TestExtractRejectsNonImage(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("not an image"))
	assert.Error(t, err)
}

// resizedPNGHeader returns a valid 1x1 PNG whose header claims w x h.
func resizedPNGHeader(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := solidPNG(t, color.Gray{Y: 128})
	// signature(8) + length(4), then "IHDR" and its 13 data bytes.
	binary.BigEndian.PutUint32(data[16:], w)
	binary.BigEndian.PutUint32(data[20:], h)
	binary.BigEndian.PutUint32(data[29:], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestExtractRejectsOversizedImage(t *testing.T) {
	bomb := resizedPNGHeader(t, 12000, 12000)

	cfg, _, err := CheckSize(bomb)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, 12000, cfg.Width)

	_, err = New().Extract(context.Background(), bomb)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestCheckSizeAcceptsBudget(t *testing.T) {
	_, format, err := CheckSize(resizedPNGHeader(t, 8000, 5000))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	_, _, err = CheckSize(resizedPNGHeader(t, 8000, 5001))
	assert.ErrorIs(t, err, ErrTooLarge)
}
