package model

import "github.com/qmuntal/gltf"

// SamplerSource is a source sampler record. Nil fields are unspecified.
type SamplerSource struct {
	MagFilter *gltf.MagFilter
	MinFilter *gltf.MinFilter
	WrapS     *gltf.WrappingMode
	WrapT     *gltf.WrappingMode
}

// SamplerSourceFromGLTF converts a parsed glTF sampler.
// Undefined filters stay unspecified; wraps are always set because the
// decoder already substitutes the glTF default (repeat) for omitted values.
func SamplerSourceFromGLTF(s *gltf.Sampler) SamplerSource {
	var src SamplerSource
	if s == nil {
		return src
	}
	if s.MagFilter != gltf.MagUndefined {
		magF := s.MagFilter
		src.MagFilter = &magF
	}
	if s.MinFilter != gltf.MinUndefined {
		minF := s.MinFilter
		src.MinFilter = &minF
	}
	wrapS, wrapT := s.WrapS, s.WrapT
	src.WrapS = &wrapS
	src.WrapT = &wrapT
	return src
}

// ExtractSampler maps a source sampler onto engine filter and wrap modes.
// Unspecified or unknown values fall back to the Sampler zero value.
func ExtractSampler(src SamplerSource) Sampler {
	var s Sampler
	if src.MagFilter != nil {
		s.Mag = magFilter(*src.MagFilter)
	}
	if src.MinFilter != nil {
		s.Min = minFilter(*src.MinFilter)
		s.Mip = mipFilter(*src.MinFilter)
	}
	if src.WrapS != nil {
		s.WrapU = wrapMode(*src.WrapS)
	}
	if src.WrapT != nil {
		s.WrapV = wrapMode(*src.WrapT)
	}
	return s
}

func magFilter(f gltf.MagFilter) FilterMode {
	if f == gltf.MagLinear {
		return FilterLinear
	}
	return FilterNearest
}

// minFilter picks the base filter out of glTF's combined min/mip enumeration.
func minFilter(f gltf.MinFilter) FilterMode {
	switch f {
	case gltf.MinLinear, gltf.MinLinearMipMapNearest, gltf.MinLinearMipMapLinear:
		return FilterLinear
	default:
		return FilterNearest
	}
}

// mipFilter picks the mip filter out of glTF's combined min/mip enumeration.
// Plain Linear maps to Linear.
func mipFilter(f gltf.MinFilter) FilterMode {
	switch f {
	case gltf.MinLinear, gltf.MinNearestMipMapLinear, gltf.MinLinearMipMapLinear:
		return FilterLinear
	default:
		return FilterNearest
	}
}

func wrapMode(w gltf.WrappingMode) WrapMode {
	switch w {
	case gltf.WrapMirroredRepeat:
		return WrapMirroredRepeat
	case gltf.WrapRepeat:
		return WrapRepeat
	default:
		return WrapClampToEdge
	}
}
