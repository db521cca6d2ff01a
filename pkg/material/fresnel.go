package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Fresnel computes the fraction of light reflected at an interface
type Fresnel interface {
	Evaluate(cosThetaI float64) core.Vec3
}

// FrDielectric returns the unpolarized Fresnel reflectance between two dielectrics.
// A negative cosThetaI means the light arrives from the etaT side.
func FrDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = core.Clamp(cosThetaI, -1, 1)
	if cosThetaI <= 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = math.Abs(cosThetaI)
	}

	sinThetaI := math.Sqrt(max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		return 1 // total internal reflection
	}
	cosThetaT := math.Sqrt(max(0, 1-sinThetaT*sinThetaT))

	rParl := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	rPerp := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// frConductor evaluates conductor reflectance for one color channel
func frConductor(cosThetaI, etaI, etaT, k float64) float64 {
	cosThetaI = core.Clamp(cosThetaI, -1, 1)
	eta := etaT / etaI
	etak := k / etaI

	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2
	eta2 := eta * eta
	etak2 := etak * etak

	t0 := eta2 - etak2 - sin2
	a2plusb2 := math.Sqrt(t0*t0 + 4*eta2*etak2)
	t1 := a2plusb2 + cos2
	a := math.Sqrt(0.5 * (a2plusb2 + t0))
	t2 := 2 * cosThetaI * a
	rs := (t1 - t2) / (t1 + t2)

	t3 := cos2*a2plusb2 + sin2*sin2
	t4 := t2 * sin2
	rp := rs * (t3 - t4) / (t3 + t4)
	return 0.5 * (rp + rs)
}

// FrConductor returns the reflectance of a conductor with complex index etaT + i*k per channel
func FrConductor(cosThetaI float64, etaI, etaT, k core.Vec3) core.Vec3 {
	return core.Vec3{
		X: frConductor(cosThetaI, etaI.X, etaT.X, k.X),
		Y: frConductor(cosThetaI, etaI.Y, etaT.Y, k.Y),
		Z: frConductor(cosThetaI, etaI.Z, etaT.Z, k.Z),
	}
}

// FresnelDielectric is the reflectance of a dielectric interface
type FresnelDielectric struct {
	EtaI float64
	EtaT float64
}

func (f FresnelDielectric) Evaluate(cosThetaI float64) core.Vec3 {
	r := FrDielectric(cosThetaI, f.EtaI, f.EtaT)
	return core.NewVec3(r, r, r)
}

// FresnelConductor is the reflectance of a metal
type FresnelConductor struct {
	EtaI core.Vec3
	EtaT core.Vec3
	K    core.Vec3
}

func (f FresnelConductor) Evaluate(cosThetaI float64) core.Vec3 {
	return FrConductor(math.Abs(cosThetaI), f.EtaI, f.EtaT, f.K)
}

// FresnelNoOp reflects everything
type FresnelNoOp struct{}

func (FresnelNoOp) Evaluate(float64) core.Vec3 {
	return core.NewVec3(1, 1, 1)
}
