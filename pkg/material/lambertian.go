package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// LambertianReflection scatters equally in all directions of the outgoing hemisphere
type LambertianReflection struct {
	R core.Vec3 // Reflectance
}

func (l *LambertianReflection) Type() BxDFType {
	return BSDFReflection | BSDFDiffuse
}

// F implements BxDF; the BRDF is constant R/pi
func (l *LambertianReflection) F(wo, wi core.Vec3) core.Vec3 {
	return l.R.Multiply(1 / math.Pi)
}

func (l *LambertianReflection) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	return cosineSampleF(l, wo, u)
}

func (l *LambertianReflection) Pdf(wo, wi core.Vec3) float64 {
	return cosinePdf(wo, wi)
}

// LambertianTransmission scatters equally into the opposite hemisphere
type LambertianTransmission struct {
	T core.Vec3 // Transmittance
}

func (l *LambertianTransmission) Type() BxDFType {
	return BSDFTransmission | BSDFDiffuse
}

func (l *LambertianTransmission) F(wo, wi core.Vec3) core.Vec3 {
	return l.T.Multiply(1 / math.Pi)
}

func (l *LambertianTransmission) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	wi := core.CosineSampleHemisphere(u)
	if wo.Z > 0 {
		wi.Z = -wi.Z
	}
	return l.F(wo, wi), wi, l.Pdf(wo, wi), l.Type()
}

func (l *LambertianTransmission) Pdf(wo, wi core.Vec3) float64 {
	if SameHemisphere(wo, wi) {
		return 0
	}
	return AbsCosTheta(wi) / math.Pi
}

// OrenNayar models rough diffuse surfaces made of V-shaped microfacets
type OrenNayar struct {
	R    core.Vec3
	A, B float64
}

// NewOrenNayar creates the lobe for a facet slope deviation of sigma degrees
func NewOrenNayar(r core.Vec3, sigma float64) OrenNayar {
	sigma = core.Radians(sigma)
	sigma2 := sigma * sigma
	return OrenNayar{
		R: r,
		A: 1 - sigma2/(2*(sigma2+0.33)),
		B: 0.45 * sigma2 / (sigma2 + 0.09),
	}
}

func (o *OrenNayar) Type() BxDFType {
	return BSDFReflection | BSDFDiffuse
}

func (o *OrenNayar) F(wo, wi core.Vec3) core.Vec3 {
	sinThetaI := SinTheta(wi)
	sinThetaO := SinTheta(wo)

	maxCos := 0.0
	if sinThetaI > 1e-4 && sinThetaO > 1e-4 {
		dCos := CosPhi(wi)*CosPhi(wo) + SinPhi(wi)*SinPhi(wo)
		maxCos = max(0, dCos)
	}

	var sinAlpha, tanBeta float64
	if AbsCosTheta(wi) > AbsCosTheta(wo) {
		sinAlpha = sinThetaO
		tanBeta = sinThetaI / AbsCosTheta(wi)
	} else {
		sinAlpha = sinThetaI
		tanBeta = sinThetaO / AbsCosTheta(wo)
	}
	return o.R.Multiply((o.A + o.B*maxCos*sinAlpha*tanBeta) / math.Pi)
}

func (o *OrenNayar) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	return cosineSampleF(o, wo, u)
}

func (o *OrenNayar) Pdf(wo, wi core.Vec3) float64 {
	return cosinePdf(wo, wi)
}

// MatteMaterial is a diffuse material, Lambertian when Sigma is zero and Oren-Nayar otherwise
type MatteMaterial struct {
	Kd    core.Vec3 // Diffuse reflectance
	Sigma float64   // Facet slope deviation in degrees
}

// NewMatte creates a Lambertian material
func NewMatte(kd core.Vec3) *MatteMaterial {
	return &MatteMaterial{Kd: kd}
}

// ComputeScatteringFunctions implements the Material interface
func (m *MatteMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	bsdf := Make(arena, NewBSDF(si, 1))
	kd := m.Kd.Clamp(0, math.Inf(1))
	if !kd.IsBlack() {
		if m.Sigma == 0 {
			bsdf.Add(Make(arena, LambertianReflection{R: kd}))
		} else {
			bsdf.Add(Make(arena, NewOrenNayar(kd, m.Sigma)))
		}
	}
	si.BSDF = bsdf
}
