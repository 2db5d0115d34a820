package texture

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/internal/logger"
)

// LoadImages decodes every image of doc. Relative file URIs resolve against baseDir.
func LoadImages(doc *gltf.Document, baseDir string) ([]model.Image, error) {
	images := make([]model.Image, 0, len(doc.Images))
	for i := range doc.Images {
		img, err := LoadImage(doc, uint32(i), baseDir)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		logger.Debug("image decoded",
			zap.Int("index", i),
			zap.String("name", img.Name),
			zap.Int("width", img.Width),
			zap.Int("height", img.Height),
			zap.Int("channels", img.Channels))
		images = append(images, img)
	}
	return images, nil
}

// LoadImage reads and decodes one image of doc.
// The image bytes come from a local file URI, a data URI or a buffer view.
func LoadImage(doc *gltf.Document, index uint32, baseDir string) (model.Image, error) {
	if int(index) >= len(doc.Images) || doc.Images[index] == nil {
		return model.Image{}, fmt.Errorf("%w: image %d (have %d)", model.ErrMissingReference, index, len(doc.Images))
	}
	src := doc.Images[index]

	data, hint, err := imageBytes(doc, src, baseDir)
	if err != nil {
		return model.Image{}, err
	}

	img, err := Decode(data, hint)
	if err != nil {
		return model.Image{}, err
	}
	img.Name = src.Name + src.URI
	if !src.IsEmbeddedResource() {
		img.URI = src.URI
	}
	return img, nil
}

// imageBytes returns the encoded bytes of src and a decoder hint.
func imageBytes(doc *gltf.Document, src *gltf.Image, baseDir string) ([]byte, string, error) {
	switch {
	case src.BufferView != nil:
		data, err := bufferViewBytes(doc, *src.BufferView)
		return data, src.MimeType, err

	case src.URI == "":
		return nil, "", fmt.Errorf("%w: image has neither uri nor bufferView", model.ErrMissingReference)

	case src.IsEmbeddedResource():
		data, err := src.MarshalData()
		if err != nil {
			return nil, "", fmt.Errorf("%w: data uri: %v", model.ErrParse, err)
		}
		hint := src.MimeType
		if hint == "" {
			hint = dataURIMediaType(src.URI)
		}
		return data, hint, nil
	}

	p, err := localPath(src.URI, baseDir)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading image: %v", model.ErrParse, err)
	}
	hint := src.MimeType
	if hint == "" {
		hint = p
	}
	return data, hint, nil
}

// localPath resolves a file URI against baseDir. Remote schemes are rejected.
func localPath(uri, baseDir string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: image uri %q: %v", model.ErrParse, uri, err)
	}

	var p string
	switch {
	case u.Scheme == "file":
		p = u.Path
	case u.Scheme == "" || isDriveLetter(u.Scheme):
		if p, err = url.PathUnescape(uri); err != nil {
			return "", fmt.Errorf("%w: image uri %q: %v", model.ErrParse, uri, err)
		}
	default:
		return "", fmt.Errorf("%w: image uri %q is not a local file", model.ErrUnsupported, uri)
	}

	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Join(baseDir, p), nil
}

func isDriveLetter(scheme string) bool {
	return len(scheme) == 1
}

// dataURIMediaType returns the media type of a data URI, e.g. "image/png".
func dataURIMediaType(uri string) string {
	mt := strings.TrimPrefix(uri, "data:")
	if i := strings.IndexAny(mt, ";,"); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

func bufferViewBytes(doc *gltf.Document, index uint32) ([]byte, error) {
	if int(index) >= len(doc.BufferViews) || doc.BufferViews[index] == nil {
		return nil, fmt.Errorf("%w: buffer view %d (have %d)", model.ErrMissingReference, index, len(doc.BufferViews))
	}
	view := doc.BufferViews[index]
	if int(view.Buffer) >= len(doc.Buffers) || doc.Buffers[view.Buffer] == nil {
		return nil, fmt.Errorf("%w: buffer %d (have %d)", model.ErrMissingReference, view.Buffer, len(doc.Buffers))
	}
	buf := doc.Buffers[view.Buffer].Data

	start := int(view.ByteOffset)
	end := start + int(view.ByteLength)
	if end > len(buf) {
		return nil, fmt.Errorf("%w: buffer view %d spans [%d, %d) of a %d byte buffer",
			model.ErrParse, index, start, end, len(buf))
	}
	return buf[start:end], nil
}
