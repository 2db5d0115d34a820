package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("TGA data truncated")

// DecodeTGA decodes a TGA image into straight-alpha pixels.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10) files
// at 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.NRGBA, int, error) {
	if len(data) < tgaHeaderSize {
		return nil, 0, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, 0, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, 0, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, 0, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, 0, errTGATruncated
	}
	pixelData := data[offset:]
	bytesPerPixel := bpp / 8

	// Bit 5 of the descriptor: rows stored top-to-bottom
	r := tgaReader{
		width:         width,
		height:        height,
		bytesPerPixel: bytesPerPixel,
		topToBottom:   descriptor&0x20 != 0,
	}

	var img *image.NRGBA
	var err error
	if imageType == TGATypeUncompressed {
		img, err = r.decodeRaw(pixelData)
	} else {
		img, err = r.decodeRLE(pixelData)
	}
	if err != nil {
		return nil, 0, err
	}
	return img, bytesPerPixel, nil
}

type tgaReader struct {
	width, height int
	bytesPerPixel int
	topToBottom   bool
}

// set stores the pixel'th source pixel (BGR or BGRA) into img.
func (r tgaReader) set(img *image.NRGBA, pixel int, src []byte) {
	x := pixel % r.width
	y := pixel / r.width
	if !r.topToBottom {
		y = r.height - 1 - y
	}
	i := img.PixOffset(x, y)
	img.Pix[i] = src[2]
	img.Pix[i+1] = src[1]
	img.Pix[i+2] = src[0]
	img.Pix[i+3] = 255
	if r.bytesPerPixel == 4 {
		img.Pix[i+3] = src[3]
	}
}

func (r tgaReader) decodeRaw(pixelData []byte) (*image.NRGBA, error) {
	count := r.width * r.height
	if len(pixelData) < count*r.bytesPerPixel {
		return nil, errTGATruncated
	}

	img := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	for p := 0; p < count; p++ {
		i := p * r.bytesPerPixel
		r.set(img, p, pixelData[i:i+r.bytesPerPixel])
	}
	return img, nil
}

func (r tgaReader) decodeRLE(pixelData []byte) (*image.NRGBA, error) {
	count := r.width * r.height
	// A packet covers at most 128 pixels, so short input cannot describe a large image.
	if count > (len(pixelData)/(1+r.bytesPerPixel)+1)*128 {
		return nil, errTGATruncated
	}

	img := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	pixel := 0
	i := 0

	for pixel < count {
		if i >= len(pixelData) {
			return nil, errTGATruncated
		}
		packet := pixelData[i]
		i++
		n := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run packet: one pixel repeated n times
			if i+r.bytesPerPixel > len(pixelData) {
				return nil, errTGATruncated
			}
			src := pixelData[i : i+r.bytesPerPixel]
			i += r.bytesPerPixel
			for k := 0; k < n && pixel < count; k++ {
				r.set(img, pixel, src)
				pixel++
			}
			continue
		}

		// Raw packet: n literal pixels
		for k := 0; k < n && pixel < count; k++ {
			if i+r.bytesPerPixel > len(pixelData) {
				return nil, errTGATruncated
			}
			r.set(img, pixel, pixelData[i:i+r.bytesPerPixel])
			i += r.bytesPerPixel
			pixel++
		}
	}

	return img, nil
}
