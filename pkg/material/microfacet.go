package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// TrowbridgeReitz is the GGX microfacet distribution
type TrowbridgeReitz struct {
	AlphaX, AlphaY float64
}

// RoughnessToAlpha maps a perceptual roughness in [0,1] to a distribution alpha
func RoughnessToAlpha(roughness float64) float64 {
	roughness = max(roughness, 1e-3)
	x := math.Log(roughness)
	return 1.62142 + 0.819955*x + 0.1734*x*x + 0.0171201*x*x*x + 0.000640711*x*x*x*x
}

// D returns the differential area of microfacets with normal wh
func (d TrowbridgeReitz) D(wh core.Vec3) float64 {
	tan2Theta := Tan2Theta(wh)
	if math.IsInf(tan2Theta, 0) || math.IsNaN(tan2Theta) {
		return 0
	}
	cos4Theta := Cos2Theta(wh) * Cos2Theta(wh)
	e := (Cos2Phi(wh)/(d.AlphaX*d.AlphaX) + Sin2Phi(wh)/(d.AlphaY*d.AlphaY)) * tan2Theta
	return 1 / (math.Pi * d.AlphaX * d.AlphaY * cos4Theta * (1 + e) * (1 + e))
}

// Lambda measures invisible masked microfacet area per visible area
func (d TrowbridgeReitz) Lambda(w core.Vec3) float64 {
	absTanTheta := math.Abs(TanTheta(w))
	if math.IsInf(absTanTheta, 0) || math.IsNaN(absTanTheta) {
		return 0
	}
	alpha := math.Sqrt(Cos2Phi(w)*d.AlphaX*d.AlphaX + Sin2Phi(w)*d.AlphaY*d.AlphaY)
	alpha2Tan2Theta := (alpha * absTanTheta) * (alpha * absTanTheta)
	return (-1 + math.Sqrt(1+alpha2Tan2Theta)) / 2
}

// G1 is the masking function for one direction
func (d TrowbridgeReitz) G1(w core.Vec3) float64 {
	return 1 / (1 + d.Lambda(w))
}

// G is the joint masking-shadowing function
func (d TrowbridgeReitz) G(wo, wi core.Vec3) float64 {
	return 1 / (1 + d.Lambda(wo) + d.Lambda(wi))
}

// SampleWh samples a microfacet normal proportionally to D(wh)*|cos(wh)|
func (d TrowbridgeReitz) SampleWh(wo core.Vec3, u core.Vec2) core.Vec3 {
	var tan2Theta, phi float64
	if d.AlphaX == d.AlphaY {
		tan2Theta = d.AlphaX * d.AlphaX * u.X / (1 - u.X)
		phi = 2 * math.Pi * u.Y
	} else {
		phi = math.Atan(d.AlphaY / d.AlphaX * math.Tan(2*math.Pi*u.Y+0.5*math.Pi))
		if u.Y > 0.5 {
			phi += math.Pi
		}
		sinPhi, cosPhi := math.Sincos(phi)
		alpha2 := 1 / (cosPhi*cosPhi/(d.AlphaX*d.AlphaX) + sinPhi*sinPhi/(d.AlphaY*d.AlphaY))
		tan2Theta = alpha2 * u.X / (1 - u.X)
	}
	cosTheta := 1 / math.Sqrt(1+tan2Theta)
	sinTheta := math.Sqrt(max(0, 1-cosTheta*cosTheta))
	wh := core.SphericalDirection(sinTheta, cosTheta, phi, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1))
	if !SameHemisphere(wo, wh) {
		wh = wh.Negate()
	}
	return wh
}

// Pdf returns the density of SampleWh
func (d TrowbridgeReitz) Pdf(wo, wh core.Vec3) float64 {
	return d.D(wh) * AbsCosTheta(wh)
}

// MicrofacetReflection is a glossy Torrance-Sparrow reflection lobe
type MicrofacetReflection struct {
	R            core.Vec3
	Distribution TrowbridgeReitz
	Fresnel      Fresnel
}

func (m *MicrofacetReflection) Type() BxDFType {
	return BSDFReflection | BSDFGlossy
}

func (m *MicrofacetReflection) F(wo, wi core.Vec3) core.Vec3 {
	cosThetaO := AbsCosTheta(wo)
	cosThetaI := AbsCosTheta(wi)
	wh := wi.Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wh.IsBlack() {
		return core.Vec3{}
	}
	wh = wh.Normalize()
	f := m.Fresnel.Evaluate(wi.Dot(wh.FaceForward(core.NewVec3(0, 0, 1))))
	return m.R.MultiplyVec(f).Multiply(m.Distribution.D(wh) * m.Distribution.G(wo, wi) / (4 * cosThetaI * cosThetaO))
}

func (m *MicrofacetReflection) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, m.Type()
	}
	wh := m.Distribution.SampleWh(wo, u)
	if wo.Dot(wh) < 0 {
		return core.Vec3{}, core.Vec3{}, 0, m.Type()
	}
	wi := Reflect(wo, wh)
	if !SameHemisphere(wo, wi) {
		return core.Vec3{}, core.Vec3{}, 0, m.Type()
	}
	pdf := m.Distribution.Pdf(wo, wh) / (4 * wo.Dot(wh))
	return m.F(wo, wi), wi, pdf, m.Type()
}

func (m *MicrofacetReflection) Pdf(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	wh := wo.Add(wi).Normalize()
	return m.Distribution.Pdf(wo, wh) / (4 * wo.Dot(wh))
}
