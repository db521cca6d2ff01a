package material

import (
	"math"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// BxDFType describes the kind of scattering a lobe performs
type BxDFType int

const (
	BSDFReflection BxDFType = 1 << iota
	BSDFTransmission
	BSDFDiffuse
	BSDFGlossy
	BSDFSpecular

	BSDFAll = BSDFReflection | BSDFTransmission | BSDFDiffuse | BSDFGlossy | BSDFSpecular
)

// IsSpecular reports whether the type contains the specular flag
func (t BxDFType) IsSpecular() bool {
	return t&BSDFSpecular != 0
}

// Matches reports whether every flag of t is allowed by flags
func (t BxDFType) Matches(flags BxDFType) bool {
	return t&flags == t
}

func (t BxDFType) String() string {
	if t == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		flag BxDFType
		name string
	}{
		{BSDFReflection, "reflection"},
		{BSDFTransmission, "transmission"},
		{BSDFDiffuse, "diffuse"},
		{BSDFGlossy, "glossy"},
		{BSDFSpecular, "specular"},
	} {
		if t&f.flag != 0 {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// BxDF is one scattering lobe. Directions are in the local shading frame where
// the shading normal is +Z; both wo and wi point away from the surface.
type BxDF interface {
	Type() BxDFType
	// F evaluates the lobe for a pair of directions. Specular lobes return zero.
	F(wo, wi core.Vec3) core.Vec3
	// SampleF picks wi for wo and returns the lobe value, wi, its pdf and the sampled type
	SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType)
	// Pdf returns the density SampleF would choose wi with. Specular lobes return zero.
	Pdf(wo, wi core.Vec3) float64
}

// cosineSampleF is the default sampling shared by non-specular reflection lobes
func cosineSampleF(b BxDF, wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	wi := core.CosineSampleHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	return b.F(wo, wi), wi, b.Pdf(wo, wi), b.Type()
}

// cosinePdf is the density of cosineSampleF
func cosinePdf(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	return AbsCosTheta(wi) / math.Pi
}

// Local shading frame trigonometry

func CosTheta(w core.Vec3) float64 { return w.Z }
func Cos2Theta(w core.Vec3) float64 { return w.Z * w.Z }
func AbsCosTheta(w core.Vec3) float64 { return math.Abs(w.Z) }
func Sin2Theta(w core.Vec3) float64 { return max(0, 1-Cos2Theta(w)) }
func SinTheta(w core.Vec3) float64 { return math.Sqrt(Sin2Theta(w)) }
func TanTheta(w core.Vec3) float64 { return SinTheta(w) / CosTheta(w) }
func Tan2Theta(w core.Vec3) float64 { return Sin2Theta(w) / Cos2Theta(w) }

func CosPhi(w core.Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 1
	}
	return core.Clamp(w.X/sinTheta, -1, 1)
}

func SinPhi(w core.Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 0
	}
	return core.Clamp(w.Y/sinTheta, -1, 1)
}

func Cos2Phi(w core.Vec3) float64 { return CosPhi(w) * CosPhi(w) }
func Sin2Phi(w core.Vec3) float64 { return SinPhi(w) * SinPhi(w) }

// SameHemisphere reports whether two local directions lie on the same side of the surface
func SameHemisphere(w, wp core.Vec3) bool {
	return w.Z*wp.Z > 0
}

// Reflect mirrors wo about n
func Reflect(wo, n core.Vec3) core.Vec3 {
	return wo.Negate().Add(n.Multiply(2 * wo.Dot(n)))
}

// Refract bends wi through a surface with normal n (same side as wi) and relative index eta = etaI/etaT.
// It returns false on total internal reflection.
func Refract(wi, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosThetaI := n.Dot(wi)
	sin2ThetaI := max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		return core.Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	return wi.Negate().Multiply(eta).Add(n.Multiply(eta*cosThetaI - cosThetaT)), true
}
