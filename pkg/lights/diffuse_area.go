package lights

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// DiffuseAreaLight emits constant radiance from the front side of a shape, or from both sides
type DiffuseAreaLight struct {
	Lemit    core.Vec3
	Shape    geometry.Shape
	TwoSided bool
}

// NewDiffuseAreaLight creates a new area light over shape
func NewDiffuseAreaLight(shape geometry.Shape, lemit core.Vec3, twoSided bool) *DiffuseAreaLight {
	return &DiffuseAreaLight{Lemit: lemit, Shape: shape, TwoSided: twoSided}
}

func (al *DiffuseAreaLight) Flags() LightFlags {
	return LightArea
}

// L returns the radiance leaving point it in direction w
func (al *DiffuseAreaLight) L(it core.Interaction, w core.Vec3) core.Vec3 {
	if !al.TwoSided && it.N.Dot(w) <= 0 {
		return core.Vec3{}
	}
	return al.Lemit
}

func (al *DiffuseAreaLight) SampleLi(ref core.Interaction, u core.Vec2) (core.Vec3, core.Vec3, float64, VisibilityTester) {
	pShape, pdf := al.Shape.SampleFrom(ref, u)
	toLight := pShape.P.Subtract(ref.P)
	if pdf == 0 || toLight.LengthSquared() == 0 {
		return core.Vec3{}, core.Vec3{}, 0, VisibilityTester{}
	}
	wi := toLight.Normalize()
	vis := VisibilityTester{P0: ref, P1: pShape}
	return al.L(pShape, wi.Negate()), wi, pdf, vis
}

func (al *DiffuseAreaLight) PdfLi(ref core.Interaction, wi core.Vec3) float64 {
	return al.Shape.PdfFrom(ref, wi)
}

func (al *DiffuseAreaLight) Power() core.Vec3 {
	sides := 1.0
	if al.TwoSided {
		sides = 2
	}
	return al.Lemit.Multiply(sides * al.Shape.Area() * math.Pi)
}

// Le is zero; rays only see area lights by hitting their shapes
func (al *DiffuseAreaLight) Le(r core.Ray) core.Vec3 {
	return core.Vec3{}
}

func (al *DiffuseAreaLight) Preprocess(worldBound core.AABB) {}

// NewAreaLightPrimitives makes every shape emissive, returning the primitives to intersect
// and the lights to sample. Each primitive points at its own light.
func NewAreaLightPrimitives(shapes []geometry.Shape, mat material.Material, lemit core.Vec3, twoSided bool) ([]geometry.Primitive, []Light) {
	prims := make([]geometry.Primitive, len(shapes))
	lights := make([]Light, len(shapes))
	for i, s := range shapes {
		al := NewDiffuseAreaLight(s, lemit, twoSided)
		prims[i] = geometry.NewGeometricPrimitive(s, mat, al)
		lights[i] = al
	}
	return prims, lights
}
