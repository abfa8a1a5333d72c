package media

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestProcessImage_GeneratesNarrowerSizesOnly(t *testing.T) {
	out, err := processImage(testPNG(t, 800, 600), "image/png")
	require.NoError(t, err)

	assert.Equal(t, 800, out.Width)
	assert.Equal(t, 600, out.Height)

	w, h := decodedSize(t, out.Thumbnail)
	assert.Equal(t, 200, w)
	assert.Equal(t, 150, h)

	require.Len(t, out.Sizes, 2)
	w, h = decodedSize(t, out.Sizes[320])
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
	w, _ = decodedSize(t, out.Sizes[640])
	assert.Equal(t, 640, w)
	assert.NotContains(t, out.Sizes, 1024)
}

func TestProcessImage_SmallImage(t *testing.T) {
	out, err := processImage(testPNG(t, 120, 60), "image/png")
	require.NoError(t, err)

	w, h := decodedSize(t, out.Thumbnail)
	assert.Equal(t, 120, w)
	assert.Equal(t, 60, h)
	assert.Empty(t, out.Sizes)
}

func TestProcessImage_Errors(t *testing.T) {
	_, err := processImage([]byte("%PDF-1.4"), "application/pdf")
	assert.Error(t, err)

	_, err = processImage([]byte("not an image"), "image/png")
	assert.Error(t, err)
}

// pngHeader builds a PNG that only declares its dimensions: IHDR, an empty
// IDAT and IEND.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	chunk := func(kind string, data []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		body := append([]byte(kind), data...)
		buf.Write(body)
		_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA
	chunk("IHDR", ihdr)
	chunk("IDAT", nil)
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestProcessImage_RejectsOversizedHeader(t *testing.T) {
	data := pngHeader(12000, 12000)
	require.Less(t, len(data), 100)

	w, h := decodedSize(t, data)
	assert.Equal(t, 12000, w)
	assert.Equal(t, 12000, h)

	out, err := processImage(data, "image/png")
	assert.Nil(t, out)
	assert.ErrorIs(t, err, errImageTooLarge)
}
