package model

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32(v float32) *float32 { return &v }

func TestExtractMaterial_Defaults(t *testing.T) {
	table := NewTextureTable(nil, 0, nil)

	mat, err := ExtractMaterial(&gltf.Material{Name: "plain"}, table)
	require.NoError(t, err)

	assert.Equal(t, "plain", mat.Name)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, mat.BaseColorFactor)
	assert.Equal(t, float32(1), mat.MetallicFactor)
	assert.Equal(t, float32(1), mat.RoughnessFactor)
	assert.Equal(t, AlphaOpaque, mat.AlphaMode)
	assert.Nil(t, mat.AlphaCutoff)
	assert.Nil(t, mat.Albedo)
	assert.Nil(t, mat.MetallicRoughness)
	assert.Nil(t, mat.Normal)
	assert.Nil(t, mat.Emissive)
	assert.Nil(t, mat.Occlusion)
}

func TestExtractMaterial_Factors(t *testing.T) {
	base := [4]float32{0.5, 0.25, 1, 0.75}
	m := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &base,
			MetallicFactor:  f32(0),
			RoughnessFactor: f32(0.4),
		},
	}

	mat, err := ExtractMaterial(m, NewTextureTable(nil, 0, nil))
	require.NoError(t, err)

	assert.Equal(t, base, mat.BaseColorFactor)
	assert.Equal(t, float32(0), mat.MetallicFactor)
	assert.Equal(t, float32(0.4), mat.RoughnessFactor)
}

func TestExtractMaterial_AlphaModes(t *testing.T) {
	tests := []struct {
		name       string
		mode       gltf.AlphaMode
		cutoff     *float32
		wantMode   AlphaMode
		wantCutoff *float32
	}{
		{name: "opaque", mode: gltf.AlphaOpaque, wantMode: AlphaOpaque},
		{name: "opaque ignores cutoff", mode: gltf.AlphaOpaque, cutoff: f32(0.3), wantMode: AlphaOpaque},
		{name: "mask default cutoff", mode: gltf.AlphaMask, wantMode: AlphaMask, wantCutoff: f32(0.5)},
		{name: "mask explicit cutoff", mode: gltf.AlphaMask, cutoff: f32(0.2), wantMode: AlphaMask, wantCutoff: f32(0.2)},
		{name: "blend", mode: gltf.AlphaBlend, cutoff: f32(0.7), wantMode: AlphaBlend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mat, err := ExtractMaterial(&gltf.Material{AlphaMode: tt.mode, AlphaCutoff: tt.cutoff}, NewTextureTable(nil, 0, nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantMode, mat.AlphaMode)
			assert.Equal(t, tt.wantCutoff, mat.AlphaCutoff)
		})
	}
}

func TestExtractMaterial_TextureSlots(t *testing.T) {
	textures := []*gltf.Texture{
		{Source: gltf.Index(0), Sampler: gltf.Index(0)},
		{Source: gltf.Index(1)},
		{Source: gltf.Index(1), Sampler: gltf.Index(0)},
	}
	table := NewTextureTable(textures, 2, []Sampler{{Mag: FilterLinear}})

	m := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture:         &gltf.TextureInfo{Index: 0},
			MetallicRoughnessTexture: &gltf.TextureInfo{Index: 2},
		},
		NormalTexture:    &gltf.NormalTexture{Index: gltf.Index(1)},
		EmissiveTexture:  &gltf.TextureInfo{Index: 1},
		OcclusionTexture: &gltf.OcclusionTexture{Index: gltf.Index(0)},
	}

	mat, err := ExtractMaterial(m, table)
	require.NoError(t, err)

	assert.Equal(t, &TextureRef{Image: 0, Sampler: 0}, mat.Albedo)
	assert.Equal(t, &TextureRef{Image: 1, Sampler: 0}, mat.MetallicRoughness)
	assert.Equal(t, &TextureRef{Image: 1, Sampler: 1}, mat.Normal)
	assert.Equal(t, &TextureRef{Image: 1, Sampler: 1}, mat.Emissive)
	assert.Equal(t, &TextureRef{Image: 0, Sampler: 0}, mat.Occlusion)

	// One fallback sampler shared by every sampler-less texture.
	samplers := table.Samplers()
	require.Len(t, samplers, 2)
	assert.Equal(t, Sampler{
		Min:   FilterLinear,
		Mag:   FilterLinear,
		Mip:   FilterLinear,
		WrapU: WrapRepeat,
		WrapV: WrapRepeat,
	}, samplers[1])
}

func TestTextureTable_DoesNotModifyInput(t *testing.T) {
	input := make([]Sampler, 1, 4)
	table := NewTextureTable([]*gltf.Texture{{Source: gltf.Index(0)}}, 1, input)

	ref, err := table.ResolveTexture(0)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), ref.Sampler)
	assert.Len(t, table.Samplers(), 2)
	assert.Equal(t, Sampler{}, input[:2][1])
}

func TestExtractMaterial_MissingReferences(t *testing.T) {
	textures := []*gltf.Texture{
		{Source: gltf.Index(3)},
		{Source: gltf.Index(0), Sampler: gltf.Index(2)},
		{Sampler: gltf.Index(0)},
	}
	table := NewTextureTable(textures, 1, []Sampler{{}})

	tests := []struct {
		name string
		mat  *gltf.Material
	}{
		{
			name: "texture out of range",
			mat:  &gltf.Material{EmissiveTexture: &gltf.TextureInfo{Index: 9}},
		},
		{
			name: "image out of range",
			mat: &gltf.Material{PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorTexture: &gltf.TextureInfo{Index: 0},
			}},
		},
		{
			name: "sampler out of range",
			mat:  &gltf.Material{NormalTexture: &gltf.NormalTexture{Index: gltf.Index(1)}},
		},
		{
			name: "texture without source",
			mat:  &gltf.Material{OcclusionTexture: &gltf.OcclusionTexture{Index: gltf.Index(2)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractMaterial(tt.mat, table)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingReference)
		})
	}
}
