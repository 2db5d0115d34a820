package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

// glTF container errors.
var (
	ErrMissingExtension = errors.New("missing file extension")
	ErrUnknownExtension = errors.New("unknown file extension")
	ErrInvalidGLBMagic  = errors.New("invalid GLB magic: expected 'glTF'")
)

var glbMagic = []byte("glTF")

// Container is the file layout of a glTF asset.
type Container int

const (
	ContainerJSON   Container = iota // .gltf: JSON with external or data-URI buffers
	ContainerBinary                  // .glb: binary single-file container
)

// String returns a human-readable container name.
func (c Container) String() string {
	switch c {
	case ContainerJSON:
		return "gltf"
	case ContainerBinary:
		return "glb"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// DetectContainer selects the container from the file extension.
func DetectContainer(path string) (Container, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case "":
		return 0, fmt.Errorf("%w: %s", ErrMissingExtension, path)
	case ".gltf":
		return ContainerJSON, nil
	case ".glb":
		return ContainerBinary, nil
	default:
		return 0, fmt.Errorf("%w %q: %s", ErrUnknownExtension, ext, path)
	}
}

// OpenGLTF parses a .gltf or .glb file and loads its buffers.
// External buffers resolve against the file's directory.
func OpenGLTF(path string) (*gltf.Document, Container, error) {
	container, err := DetectContainer(path)
	if err != nil {
		return nil, 0, err
	}

	if container == ContainerBinary {
		if err := checkGLBMagic(path); err != nil {
			return nil, 0, err
		}
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", container, err)
	}
	return doc, container, nil
}

func checkGLBMagic(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	magic := make([]byte, len(glbMagic))
	if _, err := io.ReadFull(f, magic); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGLBMagic, err)
	}
	if !bytes.Equal(magic, glbMagic) {
		return fmt.Errorf("%w, got %q", ErrInvalidGLBMagic, magic)
	}
	return nil
}
