// Package texture loads glTF images and decodes them to RGBA8 pixel data.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/scenery/internal/engine/model"
)

// MIME types that select the TGA decoder. image.Decode cannot sniff TGA.
var tgaMIMETypes = map[string]bool{
	"image/x-tga":   true,
	"image/tga":     true,
	"image/x-targa": true,
}

// Decode decodes encoded image bytes into straight-alpha RGBA8 pixels.
// hint is a file name, extension or MIME type and is only used to pick the
// TGA decoder; every other format is detected from its content.
func Decode(data []byte, hint string) (model.Image, error) {
	var (
		img      image.Image
		channels int
		err      error
	)

	if isTGA(hint) {
		img, channels, err = DecodeTGA(data)
		if err != nil {
			return model.Image{}, fmt.Errorf("%w: %v", model.ErrUnsupported, err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return model.Image{}, fmt.Errorf("%w: decoding image: %v", model.ErrUnsupported, err)
		}
		channels = Channels(img)
	}

	if channels != 3 && channels != 4 {
		return model.Image{}, fmt.Errorf("%w: image has %d channels, need 3 or 4", model.ErrUnsupported, channels)
	}

	rgba := ToNRGBA(img)
	return model.Image{
		Width:       rgba.Rect.Dx(),
		Height:      rgba.Rect.Dy(),
		Channels:    channels,
		MipLevels:   1,
		ArrayLayers: 1,
		Pixels:      rgba.Pix,
	}, nil
}

// Channels reports the channel count of the decoded source encoding.
// Single-channel models report 1; images whose pixels are all opaque report 3.
func Channels(img image.Image) int {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// ToNRGBA converts img to a tightly packed, origin-based straight-alpha RGBA image.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func isTGA(hint string) bool {
	hint = strings.ToLower(hint)
	if tgaMIMETypes[hint] {
		return true
	}
	return path.Ext(hint) == ".tga" || hint == "tga"
}
