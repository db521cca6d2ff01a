package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape is a surface that can be intersected and sampled
type Shape interface {
	// Intersect returns the closest hit in (0, r.TMax)
	Intersect(r core.Ray) (float64, material.SurfaceInteraction, bool)
	// IntersectP reports whether any hit exists in (0, r.TMax)
	IntersectP(r core.Ray) bool
	WorldBound() core.AABB
	Area() float64
	// Sample picks a point uniformly by area and returns it with its area density
	Sample(u core.Vec2) (core.Interaction, float64)
	// SampleFrom picks a point as seen from ref and returns it with its solid angle density
	SampleFrom(ref core.Interaction, u core.Vec2) (core.Interaction, float64)
	// PdfFrom returns the solid angle density of SampleFrom choosing direction wi
	PdfFrom(ref core.Interaction, wi core.Vec3) float64
}

// Primitive ties a shape to its material and emission and answers ray queries
type Primitive interface {
	material.Primitive
	WorldBound() core.AABB
	// Intersect fills si with the closest hit and shrinks r.TMax to it
	Intersect(r *core.Ray, si *material.SurfaceInteraction) bool
	IntersectP(r core.Ray) bool
}

// sampleFromArea converts an area sample of s into a solid angle sample as seen from ref
func sampleFromArea(s Shape, ref core.Interaction, u core.Vec2) (core.Interaction, float64) {
	it, pdf := s.Sample(u)
	wi := it.P.Subtract(ref.P)
	if wi.LengthSquared() == 0 {
		return it, 0
	}
	distSq := wi.LengthSquared()
	wi = wi.Normalize()
	pdf *= distSq / it.N.AbsDot(wi)
	if math.IsInf(pdf, 0) || math.IsNaN(pdf) {
		return it, 0
	}
	return it, pdf
}

// pdfFromArea is the solid angle density of sampleFromArea for direction wi
func pdfFromArea(s Shape, ref core.Interaction, wi core.Vec3) float64 {
	ray := ref.SpawnRay(wi)
	_, isect, ok := s.Intersect(ray)
	if !ok {
		return 0
	}
	pdf := isect.P.Subtract(ref.P).LengthSquared() / (isect.N.AbsDot(wi) * s.Area())
	if math.IsInf(pdf, 0) || math.IsNaN(pdf) {
		return 0
	}
	return pdf
}

// GeometricPrimitive is a shape with a material and an optional area light
type GeometricPrimitive struct {
	Shape     Shape
	Material  material.Material
	AreaLight material.AreaLight
}

// NewGeometricPrimitive creates a primitive; areaLight may be nil
func NewGeometricPrimitive(shape Shape, mat material.Material, areaLight material.AreaLight) *GeometricPrimitive {
	return &GeometricPrimitive{Shape: shape, Material: mat, AreaLight: areaLight}
}

func (p *GeometricPrimitive) GetMaterial() material.Material {
	return p.Material
}

func (p *GeometricPrimitive) GetAreaLight() material.AreaLight {
	return p.AreaLight
}

func (p *GeometricPrimitive) WorldBound() core.AABB {
	return p.Shape.WorldBound()
}

func (p *GeometricPrimitive) Intersect(r *core.Ray, si *material.SurfaceInteraction) bool {
	tHit, isect, ok := p.Shape.Intersect(*r)
	if !ok {
		return false
	}
	r.TMax = tHit
	*si = isect
	si.Primitive = p
	return true
}

func (p *GeometricPrimitive) IntersectP(r core.Ray) bool {
	return p.Shape.IntersectP(r)
}

// NewPrimitives wraps every shape with the same material
func NewPrimitives(shapes []Shape, mat material.Material) []Primitive {
	prims := make([]Primitive, len(shapes))
	for i, s := range shapes {
		prims[i] = NewGeometricPrimitive(s, mat, nil)
	}
	return prims
}
