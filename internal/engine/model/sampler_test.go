package model

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
)

func magPtr(f gltf.MagFilter) *gltf.MagFilter       { return &f }
func minPtr(f gltf.MinFilter) *gltf.MinFilter       { return &f }
func wrapPtr(w gltf.WrappingMode) *gltf.WrappingMode { return &w }

func TestExtractSampler_Unspecified(t *testing.T) {
	assert.Equal(t, Sampler{}, ExtractSampler(SamplerSource{}))
	assert.Equal(t, Sampler{}, ExtractSampler(SamplerSourceFromGLTF(nil)))
}

func TestExtractSampler_MinAndMip(t *testing.T) {
	tests := []struct {
		name    string
		in      gltf.MinFilter
		wantMin FilterMode
		wantMip FilterMode
	}{
		{"nearest", gltf.MinNearest, FilterNearest, FilterNearest},
		{"linear", gltf.MinLinear, FilterLinear, FilterLinear},
		{"nearest mipmap nearest", gltf.MinNearestMipMapNearest, FilterNearest, FilterNearest},
		{"linear mipmap nearest", gltf.MinLinearMipMapNearest, FilterLinear, FilterNearest},
		{"nearest mipmap linear", gltf.MinNearestMipMapLinear, FilterNearest, FilterLinear},
		{"linear mipmap linear", gltf.MinLinearMipMapLinear, FilterLinear, FilterLinear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ExtractSampler(SamplerSource{MinFilter: minPtr(tt.in)})
			assert.Equal(t, tt.wantMin, s.Min, "min")
			assert.Equal(t, tt.wantMip, s.Mip, "mip")
			assert.Equal(t, FilterNearest, s.Mag)
		})
	}
}

func TestExtractSampler_MagAndWrap(t *testing.T) {
	s := ExtractSampler(SamplerSource{
		MagFilter: magPtr(gltf.MagLinear),
		WrapS:     wrapPtr(gltf.WrapMirroredRepeat),
		WrapT:     wrapPtr(gltf.WrapClampToEdge),
	})

	assert.Equal(t, FilterLinear, s.Mag)
	assert.Equal(t, WrapMirroredRepeat, s.WrapU)
	assert.Equal(t, WrapClampToEdge, s.WrapV)
	assert.Equal(t, WrapClampToEdge, s.WrapW)

	s = ExtractSampler(SamplerSource{MagFilter: magPtr(gltf.MagNearest), WrapS: wrapPtr(gltf.WrapRepeat)})
	assert.Equal(t, FilterNearest, s.Mag)
	assert.Equal(t, WrapRepeat, s.WrapU)
}

func TestSamplerSourceFromGLTF(t *testing.T) {
	src := SamplerSourceFromGLTF(&gltf.Sampler{
		MagFilter: gltf.MagLinear,
		MinFilter: gltf.MinUndefined,
		WrapS:     gltf.WrapClampToEdge,
		WrapT:     gltf.WrapRepeat,
	})

	assert.NotNil(t, src.MagFilter)
	assert.Nil(t, src.MinFilter)

	s := ExtractSampler(src)
	assert.Equal(t, Sampler{
		Mag:   FilterLinear,
		WrapU: WrapClampToEdge,
		WrapV: WrapRepeat,
	}, s)
}
