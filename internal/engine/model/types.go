// Package model provides the engine-side asset types and the extractors that
// build them from a parsed glTF document.
package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// FilterMode is a texture filter used for minification, magnification or mip selection.
type FilterMode uint16

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// String returns a human-readable filter name.
func (f FilterMode) String() string {
	switch f {
	case FilterNearest:
		return "Nearest"
	case FilterLinear:
		return "Linear"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// WrapMode is a texture addressing mode.
type WrapMode uint16

const (
	WrapClampToEdge WrapMode = iota
	WrapMirroredRepeat
	WrapRepeat
)

// String returns a human-readable wrap mode name.
func (w WrapMode) String() string {
	switch w {
	case WrapClampToEdge:
		return "ClampToEdge"
	case WrapMirroredRepeat:
		return "MirroredRepeat"
	case WrapRepeat:
		return "Repeat"
	default:
		return fmt.Sprintf("Unknown(%d)", w)
	}
}

// Sampler describes how a texture is filtered and addressed.
// The zero value uses nearest filtering and clamps on every axis.
type Sampler struct {
	Min FilterMode
	Mag FilterMode
	Mip FilterMode

	WrapU WrapMode
	WrapV WrapMode
	WrapW WrapMode
}

// Image holds decoded texel data in RGBA8 with straight alpha.
type Image struct {
	Name        string
	URI         string // Empty for embedded images
	Width       int
	Height      int
	Channels    int // Channel count of the source encoding (3 or 4)
	MipLevels   int
	ArrayLayers int
	Pixels      []byte // Width*Height*4 bytes
}

// AlphaMode selects how a material's alpha is interpreted.
type AlphaMode uint16

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

// String returns a human-readable alpha mode name.
func (a AlphaMode) String() string {
	switch a {
	case AlphaOpaque:
		return "Opaque"
	case AlphaMask:
		return "Mask"
	case AlphaBlend:
		return "Blend"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// TextureRef points at an image and the sampler used to read it.
type TextureRef struct {
	Image   uint32
	Sampler uint32
}

// Material holds PBR metallic-roughness constants and texture slots.
// Nil slots are unused by the material.
type Material struct {
	Name            string
	BaseColorFactor [4]float32
	MetallicFactor  float32
	RoughnessFactor float32
	AlphaMode       AlphaMode
	AlphaCutoff     *float32 // Set only for AlphaMask

	Albedo            *TextureRef
	MetallicRoughness *TextureRef
	Normal            *TextureRef
	Emissive          *TextureRef
	Occlusion         *TextureRef
}

// Vertex is the unified vertex layout shared by every mesh.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Color    mgl32.Vec4
	Tangent  mgl32.Vec4
}

// Vertex attribute defaults for streams a primitive does not provide.
var (
	DefaultNormal  = mgl32.Vec3{0, 1, 0}
	DefaultUV      = mgl32.Vec2{0, 0}
	DefaultColor   = mgl32.Vec4{1, 1, 1, 1}
	DefaultTangent = mgl32.Vec4{1, 0, 0, 0}
)

// MaterialBatch is a contiguous run of indices that share one material.
type MaterialBatch struct {
	StartIndex    uint32
	IndexCount    uint32
	MaterialIndex uint32
}

// MeshAsset holds one mesh's merged geometry ready for GPU upload.
type MeshAsset struct {
	Name     string
	Batches  []MaterialBatch
	Indices  []uint32
	Vertices []Vertex
}
