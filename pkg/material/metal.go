package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// MetalMaterial is a conductor with complex index of refraction Eta + i*K per channel
type MetalMaterial struct {
	Eta       core.Vec3
	K         core.Vec3
	Roughness float64 // 0 gives a perfect mirror
	// RemapRoughness treats Roughness as perceptual and converts it to alpha
	RemapRoughness bool
}

// Measured RGB approximations of common metals
var (
	CopperEta = core.NewVec3(0.200438, 0.924033, 1.102212)
	CopperK   = core.NewVec3(3.912949, 2.452848, 2.142188)
	GoldEta   = core.NewVec3(0.143119, 0.374957, 1.442479)
	GoldK     = core.NewVec3(3.983160, 2.385721, 1.603215)
	SilverEta = core.NewVec3(0.155265, 0.116723, 0.138342)
	SilverK   = core.NewVec3(4.828181, 3.122250, 2.146961)
)

// NewMetal creates a metal with perceptual roughness
func NewMetal(eta, k core.Vec3, roughness float64) *MetalMaterial {
	return &MetalMaterial{Eta: eta, K: k, Roughness: roughness, RemapRoughness: true}
}

// ComputeScatteringFunctions implements the Material interface
func (m *MetalMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	bsdf := Make(arena, NewBSDF(si, 1))
	fresnel := FresnelConductor{EtaI: core.NewVec3(1, 1, 1), EtaT: m.Eta, K: m.K}
	if m.Roughness <= 0 {
		bsdf.Add(Make(arena, SpecularReflection{R: core.NewVec3(1, 1, 1), Fresnel: fresnel}))
	} else {
		alpha := m.Roughness
		if m.RemapRoughness {
			alpha = RoughnessToAlpha(alpha)
		}
		bsdf.Add(Make(arena, MicrofacetReflection{
			R:            core.NewVec3(1, 1, 1),
			Distribution: TrowbridgeReitz{AlphaX: alpha, AlphaY: alpha},
			Fresnel:      fresnel,
		}))
	}
	si.BSDF = bsdf
}
