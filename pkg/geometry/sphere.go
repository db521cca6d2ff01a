package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// hitT solves the ray-sphere quadratic and returns the nearest root in (0, r.TMax)
func (s *Sphere) hitT(r core.Ray) (float64, bool) {
	// Vector from ray origin to sphere center
	oc := r.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := r.Direction.Dot(r.Direction)
	halfB := oc.Dot(r.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return 0, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Numerically stable form of the two roots
	var q float64
	if halfB < 0 {
		q = -halfB + sqrtD
	} else {
		q = -halfB - sqrtD
	}
	t0, t1 := q/a, c/q
	if q == 0 {
		t0, t1 = 0, 0
	}
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	if t0 > r.TMax || t1 <= 0 {
		return 0, false
	}
	tHit := t0
	if tHit <= 0 {
		tHit = t1
		if tHit > r.TMax {
			return 0, false
		}
	}
	return tHit, true
}

// Intersect implements the Shape interface
func (s *Sphere) Intersect(r core.Ray) (float64, material.SurfaceInteraction, bool) {
	tHit, ok := s.hitT(r)
	if !ok {
		return 0, material.SurfaceInteraction{}, false
	}

	// Project the hit back onto the surface
	local := r.At(tHit).Subtract(s.Center)
	local = local.Multiply(s.Radius / local.Length())
	if local.X == 0 && local.Y == 0 {
		local.X = 1e-5 * s.Radius
	}

	phi := math.Atan2(local.Y, local.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	cosTheta := core.Clamp(local.Z/s.Radius, -1, 1)
	theta := math.Acos(cosTheta)
	uv := core.NewVec2(phi/(2*math.Pi), (math.Pi-theta)/math.Pi)

	zRadius := math.Sqrt(local.X*local.X + local.Y*local.Y)
	cosPhi, sinPhi := local.X/zRadius, local.Y/zRadius
	dpdu := core.NewVec3(-2*math.Pi*local.Y, 2*math.Pi*local.X, 0)
	dpdv := core.NewVec3(local.Z*cosPhi, local.Z*sinPhi, -s.Radius*math.Sin(theta)).Multiply(-math.Pi)

	n := local.Multiply(1 / s.Radius)
	si := material.NewSurfaceInteraction(s.Center.Add(local), n, uv, r.Direction.Negate().Normalize(), dpdu, dpdv, tHit)
	return tHit, si, true
}

// IntersectP implements the Shape interface
func (s *Sphere) IntersectP(r core.Ray) bool {
	_, ok := s.hitT(r)
	return ok
}

// WorldBound returns the axis-aligned bounding box for this sphere
func (s *Sphere) WorldBound() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(radius), s.Center.Add(radius))
}

func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// Sample picks a point uniformly over the whole sphere
func (s *Sphere) Sample(u core.Vec2) (core.Interaction, float64) {
	n := core.UniformSampleSphere(u)
	return core.Interaction{P: s.Center.Add(n.Multiply(s.Radius)), N: n}, 1 / s.Area()
}

// SampleFrom samples the cone of directions the sphere subtends from ref,
// falling back to area sampling when ref is inside
func (s *Sphere) SampleFrom(ref core.Interaction, u core.Vec2) (core.Interaction, float64) {
	distSq := ref.P.Subtract(s.Center).LengthSquared()
	if distSq <= s.Radius*s.Radius {
		return sampleFromArea(s, ref, u)
	}

	dc := math.Sqrt(distSq)
	sinThetaMax2 := s.Radius * s.Radius / distSq
	cosThetaMax := math.Sqrt(max(0, 1-sinThetaMax2))

	wc := s.Center.Subtract(ref.P).Multiply(1 / dc)
	wcX, wcY := core.CoordinateSystem(wc)

	cosTheta := (1 - u.X) + u.X*cosThetaMax
	sinTheta := math.Sqrt(max(0, 1-cosTheta*cosTheta))
	phi := u.Y * 2 * math.Pi

	// Angle alpha from the sphere center to the sampled point
	ds := dc*cosTheta - math.Sqrt(max(0, s.Radius*s.Radius-distSq*sinTheta*sinTheta))
	cosAlpha := (distSq + s.Radius*s.Radius - ds*ds) / (2 * dc * s.Radius)
	sinAlpha := math.Sqrt(max(0, 1-cosAlpha*cosAlpha))

	n := core.SphericalDirection(sinAlpha, cosAlpha, phi, wcX.Negate(), wcY.Negate(), wc.Negate())
	return core.Interaction{P: s.Center.Add(n.Multiply(s.Radius)), N: n}, core.UniformConePdf(cosThetaMax)
}

// PdfFrom implements the Shape interface
func (s *Sphere) PdfFrom(ref core.Interaction, wi core.Vec3) float64 {
	distSq := ref.P.Subtract(s.Center).LengthSquared()
	if distSq <= s.Radius*s.Radius {
		return pdfFromArea(s, ref, wi)
	}
	cosThetaMax := math.Sqrt(max(0, 1-s.Radius*s.Radius/distSq))
	return core.UniformConePdf(cosThetaMax)
}
