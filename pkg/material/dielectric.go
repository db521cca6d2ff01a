package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// SpecularReflection is a perfect mirror lobe
type SpecularReflection struct {
	R       core.Vec3
	Fresnel Fresnel
}

func (s *SpecularReflection) Type() BxDFType {
	return BSDFReflection | BSDFSpecular
}

// F implements BxDF; a delta lobe has no value for arbitrary direction pairs
func (s *SpecularReflection) F(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (s *SpecularReflection) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
	if wi.Z == 0 {
		return core.Vec3{}, wi, 0, s.Type()
	}
	f := s.Fresnel.Evaluate(CosTheta(wi)).MultiplyVec(s.R).Multiply(1 / AbsCosTheta(wi))
	return f, wi, 1, s.Type()
}

func (s *SpecularReflection) Pdf(wo, wi core.Vec3) float64 {
	return 0
}

// SpecularTransmission refracts through a smooth dielectric boundary
type SpecularTransmission struct {
	T    core.Vec3
	EtaA float64 // Index above the surface (normal side)
	EtaB float64 // Index below the surface
	Mode TransportMode
}

func (s *SpecularTransmission) Type() BxDFType {
	return BSDFTransmission | BSDFSpecular
}

func (s *SpecularTransmission) F(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (s *SpecularTransmission) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	entering := CosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	if !entering {
		etaI, etaT = etaT, etaI
	}
	wi, ok := Refract(wo, core.NewVec3(0, 0, 1).FaceForward(wo), etaI/etaT)
	if !ok || wi.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, s.Type()
	}
	ft := s.T.Multiply(1 - FrDielectric(CosTheta(wi), s.EtaA, s.EtaB))
	if s.Mode == Radiance {
		ft = ft.Multiply((etaI * etaI) / (etaT * etaT))
	}
	return ft.Multiply(1 / AbsCosTheta(wi)), wi, 1, s.Type()
}

func (s *SpecularTransmission) Pdf(wo, wi core.Vec3) float64 {
	return 0
}

// FresnelSpecular chooses between mirror reflection and refraction in proportion
// to the Fresnel reflectance
type FresnelSpecular struct {
	R, T       core.Vec3
	EtaA, EtaB float64
	Mode       TransportMode
}

func (f *FresnelSpecular) Type() BxDFType {
	return BSDFReflection | BSDFTransmission | BSDFSpecular
}

func (f *FresnelSpecular) F(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (f *FresnelSpecular) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	fr := FrDielectric(CosTheta(wo), f.EtaA, f.EtaB)
	if u.X < fr {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		if wi.Z == 0 {
			return core.Vec3{}, wi, 0, 0
		}
		return f.R.Multiply(fr / AbsCosTheta(wi)), wi, fr, BSDFReflection | BSDFSpecular
	}

	entering := CosTheta(wo) > 0
	etaI, etaT := f.EtaA, f.EtaB
	if !entering {
		etaI, etaT = etaT, etaI
	}
	wi, ok := Refract(wo, core.NewVec3(0, 0, 1).FaceForward(wo), etaI/etaT)
	if !ok || wi.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}
	ft := f.T.Multiply(1 - fr)
	if f.Mode == Radiance {
		ft = ft.Multiply((etaI * etaI) / (etaT * etaT))
	}
	return ft.Multiply(1 / AbsCosTheta(wi)), wi, 1 - fr, BSDFTransmission | BSDFSpecular
}

func (f *FresnelSpecular) Pdf(wo, wi core.Vec3) float64 {
	return 0
}

// GlassMaterial is a smooth dielectric such as glass or water
type GlassMaterial struct {
	Kr  core.Vec3 // Reflection tint
	Kt  core.Vec3 // Transmission tint
	Eta float64   // Index of refraction
}

// NewGlass creates a clear dielectric with the given index of refraction
func NewGlass(eta float64) *GlassMaterial {
	return &GlassMaterial{Kr: core.NewVec3(1, 1, 1), Kt: core.NewVec3(1, 1, 1), Eta: eta}
}

// ComputeScatteringFunctions implements the Material interface
func (g *GlassMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	bsdf := Make(arena, NewBSDF(si, g.Eta))
	r := g.Kr.Clamp(0, 1)
	t := g.Kt.Clamp(0, 1)
	switch {
	case r.IsBlack() && t.IsBlack():
	case allowMultipleLobes:
		bsdf.Add(Make(arena, FresnelSpecular{R: r, T: t, EtaA: 1, EtaB: g.Eta, Mode: mode}))
	default:
		if !r.IsBlack() {
			bsdf.Add(Make(arena, SpecularReflection{R: r, Fresnel: FresnelDielectric{EtaI: 1, EtaT: g.Eta}}))
		}
		if !t.IsBlack() {
			bsdf.Add(Make(arena, SpecularTransmission{T: t, EtaA: 1, EtaB: g.Eta, Mode: mode}))
		}
	}
	si.BSDF = bsdf
}

// MirrorMaterial is a perfect specular reflector
type MirrorMaterial struct {
	Kr core.Vec3
}

// NewMirror creates a mirror with reflectance kr
func NewMirror(kr core.Vec3) *MirrorMaterial {
	return &MirrorMaterial{Kr: kr}
}

// ComputeScatteringFunctions implements the Material interface
func (m *MirrorMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	bsdf := Make(arena, NewBSDF(si, 1))
	if r := m.Kr.Clamp(0, 1); !r.IsBlack() {
		bsdf.Add(Make(arena, SpecularReflection{R: r, Fresnel: FresnelNoOp{}}))
	}
	si.BSDF = bsdf
}
