package model

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Vertex attribute semantics read by the mesh builder.
const (
	attrPosition  = "POSITION"
	attrNormal    = "NORMAL"
	attrTexCoord0 = "TEXCOORD_0"
	attrColor0    = "COLOR_0"
	attrTangent   = "TANGENT"
)

// AccessorSource reads typed attribute streams out of a parsed asset.
type AccessorSource interface {
	Indices(accessor uint32) ([]uint32, error)
	Positions(accessor uint32) ([][3]float32, error)
	Normals(accessor uint32) ([][3]float32, error)
	TexCoords(accessor uint32) ([][2]float32, error)
	Colors(accessor uint32) ([][4]float32, error)
	Tangents(accessor uint32) ([][4]float32, error)
}

// DocumentAccessors reads accessors from a glTF document whose buffers are loaded.
type DocumentAccessors struct {
	Doc *gltf.Document
}

func (d DocumentAccessors) accessor(index uint32) (*gltf.Accessor, error) {
	if int(index) >= len(d.Doc.Accessors) || d.Doc.Accessors[index] == nil {
		return nil, fmt.Errorf("%w: accessor %d (have %d)", ErrMissingReference, index, len(d.Doc.Accessors))
	}
	return d.Doc.Accessors[index], nil
}

// Indices reads an index accessor of any unsigned component type.
func (d DocumentAccessors) Indices(index uint32) ([]uint32, error) {
	acr, err := d.accessor(index)
	if err != nil {
		return nil, err
	}
	out, err := modeler.ReadIndices(d.Doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: reading indices from accessor %d: %v", ErrParse, index, err)
	}
	return out, nil
}

// Positions reads a VEC3 position accessor.
func (d DocumentAccessors) Positions(index uint32) ([][3]float32, error) {
	acr, err := d.accessor(index)
	if err != nil {
		return nil, err
	}
	out, err := modeler.ReadPosition(d.Doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: reading positions from accessor %d: %v", ErrParse, index, err)
	}
	return out, nil
}

// Normals reads a VEC3 normal accessor.
func (d DocumentAccessors) Normals(index uint32) ([][3]float32, error) {
	acr, err := d.accessor(index)
	if err != nil {
		return nil, err
	}
	out, err := modeler.ReadNormal(d.Doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: reading normals from accessor %d: %v", ErrParse, index, err)
	}
	return out, nil
}

// TexCoords reads a VEC2 texture coordinate accessor, normalizing integer components.
func (d DocumentAccessors) TexCoords(index uint32) ([][2]float32, error) {
	acr, err := d.accessor(index)
	if err != nil {
		return nil, err
	}
	out, err := modeler.ReadTextureCoord(d.Doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: reading texture coordinates from accessor %d: %v", ErrParse, index, err)
	}
	return out, nil
}

// Colors reads a VEC3 or VEC4 color accessor as normalized RGBA.
// VEC3 colors get an alpha of 1.
func (d DocumentAccessors) Colors(index uint32) ([][4]float32, error) {
	acr, err := d.accessor(index)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(d.Doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: reading colors from accessor %d: %v", ErrParse, index, err)
	}

	switch v := data.(type) {
	case [][4]float32:
		return v, nil
	case [][3]float32:
		out := make([][4]float32, len(v))
		for i, c := range v {
			out[i] = [4]float32{c[0], c[1], c[2], 1}
		}
		return out, nil
	case [][4]uint8:
		out := make([][4]float32, len(v))
		for i, c := range v {
			out[i] = [4]float32{unorm8(c[0]), unorm8(c[1]), unorm8(c[2]), unorm8(c[3])}
		}
		return out, nil
	case [][3]uint8:
		out := make([][4]float32, len(v))
		for i, c := range v {
			out[i] = [4]float32{unorm8(c[0]), unorm8(c[1]), unorm8(c[2]), 1}
		}
		return out, nil
	case [][4]uint16:
		out := make([][4]float32, len(v))
		for i, c := range v {
			out[i] = [4]float32{unorm16(c[0]), unorm16(c[1]), unorm16(c[2]), unorm16(c[3])}
		}
		return out, nil
	case [][3]uint16:
		out := make([][4]float32, len(v))
		for i, c := range v {
			out[i] = [4]float32{unorm16(c[0]), unorm16(c[1]), unorm16(c[2]), 1}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: color accessor %d has layout %T", ErrUnsupported, index, data)
	}
}

// Tangents reads a VEC4 float tangent accessor.
func (d DocumentAccessors) Tangents(index uint32) ([][4]float32, error) {
	acr, err := d.accessor(index)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(d.Doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: reading tangents from accessor %d: %v", ErrParse, index, err)
	}
	out, ok := data.([][4]float32)
	if !ok {
		return nil, fmt.Errorf("%w: tangent accessor %d has layout %T", ErrUnsupported, index, data)
	}
	return out, nil
}

func unorm8(v uint8) float32 {
	return float32(v) / 255
}

func unorm16(v uint16) float32 {
	return float32(v) / 65535
}
