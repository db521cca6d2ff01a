package core

import (
	"math"
)

// ConcentricSampleDisk maps a unit square sample to the unit disk
// using Shirley's concentric mapping, avoiding rejection sampling
func ConcentricSampleDisk(u Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*u.X-1, 2*u.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return Vec2{}
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// CosineSampleHemisphere returns a cosine-weighted direction about +Z in local space
func CosineSampleHemisphere(u Vec2) Vec3 {
	d := ConcentricSampleDisk(u)
	z := SafeSqrt(1 - d.X*d.X - d.Y*d.Y)
	return NewVec3(d.X, d.Y, z)
}

// CosineHemispherePdf is the density of CosineSampleHemisphere
func CosineHemispherePdf(cosTheta float64) float64 {
	return cosTheta / math.Pi
}

// UniformSampleHemisphere returns a uniformly distributed direction about +Z
func UniformSampleHemisphere(u Vec2) Vec3 {
	z := u.X
	r := SafeSqrt(1 - z*z)
	phi := 2 * math.Pi * u.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformHemispherePdf is the density of UniformSampleHemisphere
func UniformHemispherePdf() float64 {
	return 1 / (2 * math.Pi)
}

// UniformSampleSphere generates a uniform random direction on the unit sphere
func UniformSampleSphere(u Vec2) Vec3 {
	z := 1.0 - 2.0*u.X // z ∈ [-1, 1]
	r := SafeSqrt(1.0 - z*z)
	phi := 2.0 * math.Pi * u.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformSpherePdf is the density of UniformSampleSphere
func UniformSpherePdf() float64 {
	return 1 / (4 * math.Pi)
}

// UniformSampleCone samples a direction uniformly within a cone about +Z
func UniformSampleCone(u Vec2, cosThetaMax float64) Vec3 {
	cosTheta := (1 - u.X) + u.X*cosThetaMax
	sinTheta := SafeSqrt(1 - cosTheta*cosTheta)
	phi := u.Y * 2 * math.Pi
	return NewVec3(math.Cos(phi)*sinTheta, math.Sin(phi)*sinTheta, cosTheta)
}

// UniformConePdf calculates the PDF for uniform sampling within a cone
func UniformConePdf(cosThetaMax float64) float64 {
	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}

// UniformSampleTriangle returns uniformly distributed barycentrics (b0, b1)
func UniformSampleTriangle(u Vec2) Vec2 {
	su0 := math.Sqrt(u.X)
	return NewVec2(1-su0, u.Y*su0)
}

// SphericalDirection converts spherical coordinates to a direction in the frame (x, y, z)
func SphericalDirection(sinTheta, cosTheta, phi float64, x, y, z Vec3) Vec3 {
	return x.Multiply(sinTheta * math.Cos(phi)).
		Add(y.Multiply(sinTheta * math.Sin(phi))).
		Add(z.Multiply(cosTheta))
}

// PowerHeuristic computes the MIS weight using the power heuristic (β = 2)
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if math.IsInf(f*f, 1) {
		return 1
	}
	if f == 0 && g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}

// BalanceHeuristic computes the MIS weight using the balance heuristic
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f == 0 && g == 0 {
		return 0
	}
	return f / (f + g)
}
