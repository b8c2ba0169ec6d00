package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/jaehokim/marketplace-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode_ScalesToServingInput(t *testing.T) {
	data := encodePNG(t, 64, 48, color.RGBA{R: 255, A: 255})

	decoded, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, decoded.Pixels, InputHeight)
	require.Len(t, decoded.Pixels[0], InputWidth)

	center := decoded.Pixels[InputHeight/2][InputWidth/2]
	assert.InDelta(t, 1.0, center[0], 0.02)
	assert.InDelta(t, 0.0, center[1], 0.02)
	assert.InDelta(t, 0.0, center[2], 0.02)
}

func TestDecode_SupportsJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	decoded, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, decoded.Pixels, InputHeight)
}

func TestDecode_RejectsBadPayloads(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "not an image", data: []byte("definitely not pixels")},
		{name: "truncated png", data: encodePNG(t, 16, 16, color.RGBA{A: 255})[:20]},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			assert.ErrorIs(t, err, errs.ErrImageDecode)
		})
	}
}
