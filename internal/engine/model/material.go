package model

import (
	"fmt"

	"github.com/qmuntal/gltf"
)

// glTF defaults for values a material may omit.
const (
	defaultAlphaCutoff float32 = 0.5
	defaultMetallic    float32 = 1
	defaultRoughness   float32 = 1
)

// TextureResolver maps a source texture index to the image and sampler it reads.
type TextureResolver interface {
	ResolveTexture(index uint32) (TextureRef, error)
}

// TextureTable resolves textures against the loaded image and sampler lists.
// Textures without a sampler share one default sampler appended to the list
// on first use.
type TextureTable struct {
	textures       []*gltf.Texture
	imageCount     int
	samplers       []Sampler
	defaultSampler *uint32
}

// NewTextureTable creates a resolver over the document's textures.
// samplers is not modified; use Samplers to obtain the final list.
func NewTextureTable(textures []*gltf.Texture, imageCount int, samplers []Sampler) *TextureTable {
	return &TextureTable{
		textures:   textures,
		imageCount: imageCount,
		samplers:   samplers,
	}
}

// ResolveTexture returns the image and sampler slots of a texture.
func (t *TextureTable) ResolveTexture(index uint32) (TextureRef, error) {
	if int(index) >= len(t.textures) || t.textures[index] == nil {
		return TextureRef{}, fmt.Errorf("%w: texture %d (have %d)", ErrMissingReference, index, len(t.textures))
	}
	tex := t.textures[index]

	if tex.Source == nil {
		return TextureRef{}, fmt.Errorf("%w: texture %d has no image source", ErrMissingReference, index)
	}
	if int(*tex.Source) >= t.imageCount {
		return TextureRef{}, fmt.Errorf("%w: texture %d references image %d (have %d)",
			ErrMissingReference, index, *tex.Source, t.imageCount)
	}

	ref := TextureRef{Image: *tex.Source}
	if tex.Sampler == nil {
		ref.Sampler = t.fallbackSampler()
		return ref, nil
	}
	if int(*tex.Sampler) >= len(t.samplers) {
		return TextureRef{}, fmt.Errorf("%w: texture %d references sampler %d (have %d)",
			ErrMissingReference, index, *tex.Sampler, len(t.samplers))
	}
	ref.Sampler = *tex.Sampler
	return ref, nil
}

// Samplers returns the sampler list, including the fallback sampler if one was needed.
func (t *TextureTable) Samplers() []Sampler {
	return t.samplers
}

func (t *TextureTable) fallbackSampler() uint32 {
	if t.defaultSampler == nil {
		idx := uint32(len(t.samplers))
		// A sampler-less glTF texture repeats on both axes.
		t.samplers = append(t.samplers[:len(t.samplers):len(t.samplers)], Sampler{
			Min:   FilterLinear,
			Mag:   FilterLinear,
			Mip:   FilterLinear,
			WrapU: WrapRepeat,
			WrapV: WrapRepeat,
		})
		t.defaultSampler = &idx
	}
	return *t.defaultSampler
}

// ExtractMaterial converts a glTF material, resolving its texture slots.
func ExtractMaterial(m *gltf.Material, textures TextureResolver) (Material, error) {
	mat := Material{
		Name:            m.Name,
		BaseColorFactor: [4]float32{1, 1, 1, 1},
		MetallicFactor:  defaultMetallic,
		RoughnessFactor: defaultRoughness,
	}

	mat.AlphaMode, mat.AlphaCutoff = alphaMode(m)

	var err error
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			mat.BaseColorFactor = *pbr.BaseColorFactor
		}
		if pbr.MetallicFactor != nil {
			mat.MetallicFactor = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			mat.RoughnessFactor = *pbr.RoughnessFactor
		}
		if pbr.BaseColorTexture != nil {
			if mat.Albedo, err = resolveSlot(textures, "base color", pbr.BaseColorTexture.Index); err != nil {
				return Material{}, err
			}
		}
		if pbr.MetallicRoughnessTexture != nil {
			if mat.MetallicRoughness, err = resolveSlot(textures, "metallic-roughness", pbr.MetallicRoughnessTexture.Index); err != nil {
				return Material{}, err
			}
		}
	}

	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		if mat.Normal, err = resolveSlot(textures, "normal", *m.NormalTexture.Index); err != nil {
			return Material{}, err
		}
	}
	if m.EmissiveTexture != nil {
		if mat.Emissive, err = resolveSlot(textures, "emissive", m.EmissiveTexture.Index); err != nil {
			return Material{}, err
		}
	}
	if m.OcclusionTexture != nil && m.OcclusionTexture.Index != nil {
		if mat.Occlusion, err = resolveSlot(textures, "occlusion", *m.OcclusionTexture.Index); err != nil {
			return Material{}, err
		}
	}

	return mat, nil
}

// alphaMode maps the source alpha mode. Only Mask carries a cutoff.
func alphaMode(m *gltf.Material) (AlphaMode, *float32) {
	switch m.AlphaMode {
	case gltf.AlphaMask:
		cutoff := defaultAlphaCutoff
		if m.AlphaCutoff != nil {
			cutoff = *m.AlphaCutoff
		}
		return AlphaMask, &cutoff
	case gltf.AlphaBlend:
		return AlphaBlend, nil
	default:
		return AlphaOpaque, nil
	}
}

func resolveSlot(textures TextureResolver, slot string, index uint32) (*TextureRef, error) {
	ref, err := textures.ResolveTexture(index)
	if err != nil {
		return nil, fmt.Errorf("%s texture: %w", slot, err)
	}
	return &ref, nil
}
