package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// PlasticMaterial mixes a diffuse base with a glossy dielectric coat
type PlasticMaterial struct {
	Kd             core.Vec3
	Ks             core.Vec3
	Roughness      float64
	RemapRoughness bool
}

// NewPlastic creates a plastic with perceptual roughness
func NewPlastic(kd, ks core.Vec3, roughness float64) *PlasticMaterial {
	return &PlasticMaterial{Kd: kd, Ks: ks, Roughness: roughness, RemapRoughness: true}
}

// ComputeScatteringFunctions implements the Material interface
func (p *PlasticMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	bsdf := Make(arena, NewBSDF(si, 1))
	if kd := p.Kd.Clamp(0, 1); !kd.IsBlack() {
		bsdf.Add(Make(arena, LambertianReflection{R: kd}))
	}
	if ks := p.Ks.Clamp(0, 1); !ks.IsBlack() {
		alpha := p.Roughness
		if p.RemapRoughness {
			alpha = RoughnessToAlpha(alpha)
		}
		alpha = max(alpha, 1e-3)
		bsdf.Add(Make(arena, MicrofacetReflection{
			R:            ks,
			Distribution: TrowbridgeReitz{AlphaX: alpha, AlphaY: alpha},
			Fresnel:      FresnelDielectric{EtaI: 1.5, EtaT: 1},
		}))
	}
	si.BSDF = bsdf
}
