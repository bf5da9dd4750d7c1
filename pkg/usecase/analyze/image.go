package analyze

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/m-mizutani/goerr/v2"

	// registered decoders for uploaded image formats
	_ "image/gif"
	_ "image/jpeg"
)

// normalizeImage re-encodes the uploaded image as RGBA PNG so the
// detection backend always receives a single color encoding.
func normalizeImage(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode image")
	}

	if format == "png" {
		if _, ok := img.(*image.RGBA); ok {
			return data, nil
		}
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, goerr.Wrap(err, "failed to encode image")
	}

	return buf.Bytes(), nil
}
