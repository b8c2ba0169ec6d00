package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/jaehokim/marketplace-service/pkg/errs"
	"github.com/rs/zerolog/log"
)

// Serving input size of the MobileNet-family models we deploy.
const (
	InputWidth  = 224
	InputHeight = 224
)

// Image is a decoded RGB raster normalized to [0,1], laid out
// height x width x channel the way the serving layer expects it.
type Image struct {
	Pixels [][][3]float32
}

// Decode converts raw stored image bytes into the fixed-size input the
// classifier consumes. Empty, truncated or unsupported payloads fail with
// errs.ErrImageDecode.
func Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, errs.ErrImageDecode
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Error().Err(err).Str("component", "Decode").Msg("")
		return nil, errs.ErrImageDecode
	}

	scaled := image.NewRGBA(image.Rect(0, 0, InputWidth, InputHeight))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	pixels := make([][][3]float32, InputHeight)
	for y := 0; y < InputHeight; y++ {
		row := make([][3]float32, InputWidth)
		for x := 0; x < InputWidth; x++ {
			offset := scaled.PixOffset(x, y)
			row[x] = [3]float32{
				float32(scaled.Pix[offset]) / 255,
				float32(scaled.Pix[offset+1]) / 255,
				float32(scaled.Pix[offset+2]) / 255,
			}
		}
		pixels[y] = row
	}

	return &Image{Pixels: pixels}, nil
}
