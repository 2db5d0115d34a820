package model

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// MeshBuilder merges the primitives of a mesh into one vertex buffer and one
// index buffer split into material batches.
//
// The scratch buffers are reused across Build calls: they are truncated at the
// start of every mesh and only ever grow. A MeshBuilder is not safe for
// concurrent use.
type MeshBuilder struct {
	src           AccessorSource
	materialCount int

	indices  []uint32
	vertices []Vertex
}

// NewMeshBuilder creates a builder reading from src. materialCount bounds the
// material indices primitives may reference.
func NewMeshBuilder(src AccessorSource, materialCount int) *MeshBuilder {
	return &MeshBuilder{
		src:           src,
		materialCount: materialCount,
	}
}

// Build converts one source mesh. index is the mesh's position in the document
// and is appended to the mesh name.
func (b *MeshBuilder) Build(index int, mesh *gltf.Mesh) (MeshAsset, error) {
	asset := MeshAsset{Name: mesh.Name + strconv.Itoa(index)}

	b.indices = b.indices[:0]
	b.vertices = b.vertices[:0]

	for i, prim := range mesh.Primitives {
		batch, err := b.appendPrimitive(prim)
		if err != nil {
			return MeshAsset{}, fmt.Errorf("mesh %d (%q) primitive %d: %w", index, mesh.Name, i, err)
		}
		asset.Batches = append(asset.Batches, batch)
	}

	asset.Indices = slices.Clone(b.indices)
	asset.Vertices = slices.Clone(b.vertices)
	return asset, nil
}

func (b *MeshBuilder) appendPrimitive(prim *gltf.Primitive) (MaterialBatch, error) {
	// Indices, offset by the vertices already in the buffer
	if prim.Indices == nil {
		return MaterialBatch{}, fmt.Errorf("%w: primitive has no index accessor", ErrUnsupported)
	}
	local, err := b.src.Indices(*prim.Indices)
	if err != nil {
		return MaterialBatch{}, err
	}

	base := uint32(len(b.vertices))
	batch := MaterialBatch{
		StartIndex: uint32(len(b.indices)),
		IndexCount: uint32(len(local)),
	}
	b.indices = slices.Grow(b.indices, len(local))
	for _, idx := range local {
		b.indices = append(b.indices, idx+base)
	}

	// Positions, with defaults for every other attribute
	posAccessor, ok := prim.Attributes[attrPosition]
	if !ok {
		return MaterialBatch{}, fmt.Errorf("%w: primitive has no %s attribute", ErrUnsupported, attrPosition)
	}
	positions, err := b.src.Positions(posAccessor)
	if err != nil {
		return MaterialBatch{}, err
	}
	b.vertices = slices.Grow(b.vertices, len(positions))
	for _, p := range positions {
		b.vertices = append(b.vertices, Vertex{
			Position: mgl32.Vec3(p),
			Normal:   DefaultNormal,
			UV:       DefaultUV,
			Color:    DefaultColor,
			Tangent:  DefaultTangent,
		})
	}
	for _, idx := range local {
		if int(idx) >= len(positions) {
			return MaterialBatch{}, fmt.Errorf("%w: index %d out of range for %d vertices", ErrParse, idx, len(positions))
		}
	}

	verts := b.vertices[base:]
	if err := b.overlayAttributes(prim, verts); err != nil {
		return MaterialBatch{}, err
	}

	if prim.Material == nil {
		return MaterialBatch{}, fmt.Errorf("%w: primitive has no material", ErrMissingReference)
	}
	if int(*prim.Material) >= b.materialCount {
		return MaterialBatch{}, fmt.Errorf("%w: material %d (have %d)", ErrMissingReference, *prim.Material, b.materialCount)
	}
	batch.MaterialIndex = *prim.Material

	return batch, nil
}

// overlayAttributes writes the optional streams onto the primitive's vertices.
func (b *MeshBuilder) overlayAttributes(prim *gltf.Primitive, verts []Vertex) error {
	if acc, ok := prim.Attributes[attrNormal]; ok {
		normals, err := b.src.Normals(acc)
		if err != nil {
			return err
		}
		if err := checkStream(attrNormal, len(normals), len(verts)); err != nil {
			return err
		}
		for i, n := range normals {
			verts[i].Normal = mgl32.Vec3(n)
		}
	}

	if acc, ok := prim.Attributes[attrTexCoord0]; ok {
		uvs, err := b.src.TexCoords(acc)
		if err != nil {
			return err
		}
		if err := checkStream(attrTexCoord0, len(uvs), len(verts)); err != nil {
			return err
		}
		for i, uv := range uvs {
			verts[i].UV = mgl32.Vec2(uv)
		}
	}

	if acc, ok := prim.Attributes[attrColor0]; ok {
		colors, err := b.src.Colors(acc)
		if err != nil {
			return err
		}
		if err := checkStream(attrColor0, len(colors), len(verts)); err != nil {
			return err
		}
		for i, c := range colors {
			verts[i].Color = mgl32.Vec4(c)
		}
	}

	if acc, ok := prim.Attributes[attrTangent]; ok {
		tangents, err := b.src.Tangents(acc)
		if err != nil {
			return err
		}
		if err := checkStream(attrTangent, len(tangents), len(verts)); err != nil {
			return err
		}
		for i, t := range tangents {
			verts[i].Tangent = mgl32.Vec4(t)
		}
	}

	return nil
}

func checkStream(name string, got, vertexCount int) error {
	if got > vertexCount {
		return fmt.Errorf("%w: %s has %d elements but %s has %d", ErrParse, name, got, attrPosition, vertexCount)
	}
	return nil
}
