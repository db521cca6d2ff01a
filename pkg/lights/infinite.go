package lights

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// sampleHemisphereLi cosine-samples the hemisphere around the reference normal, on the
// side wo points to. Points off any surface sample the whole sphere.
func sampleHemisphereLi(ref core.Interaction, u core.Vec2) (core.Vec3, float64) {
	if !ref.IsSurface() {
		return core.UniformSampleSphere(u), core.UniformSpherePdf()
	}
	n := ref.N.FaceForward(ref.Wo)
	s, t := core.CoordinateSystem(n)
	local := core.CosineSampleHemisphere(u)
	wi := s.Multiply(local.X).Add(t.Multiply(local.Y)).Add(n.Multiply(local.Z))
	return wi, core.CosineHemispherePdf(local.Z)
}

func hemispherePdfLi(ref core.Interaction, wi core.Vec3) float64 {
	if !ref.IsSurface() {
		return core.UniformSpherePdf()
	}
	cosTheta := wi.Normalize().Dot(ref.N.FaceForward(ref.Wo))
	if cosTheta <= 0 {
		return 0
	}
	return core.CosineHemispherePdf(cosTheta)
}

// farVisibility builds the segment from ref to a point beyond the scene along wi
func farVisibility(w *worldBounds, ref core.Interaction, wi core.Vec3) VisibilityTester {
	p := ref.P.Add(wi.Multiply(2 * max(w.worldRadius, 1)))
	return VisibilityTester{P0: ref, P1: core.Interaction{P: p}}
}

// UniformInfiniteLight represents a uniform infinite area light (constant emission in all directions)
type UniformInfiniteLight struct {
	worldBounds
	emission core.Vec3
}

// NewUniformInfiniteLight creates a new uniform infinite light
func NewUniformInfiniteLight(emission core.Vec3) *UniformInfiniteLight {
	return &UniformInfiniteLight{emission: emission}
}

func (uil *UniformInfiniteLight) Flags() LightFlags {
	return LightInfinite
}

func (uil *UniformInfiniteLight) SampleLi(ref core.Interaction, u core.Vec2) (core.Vec3, core.Vec3, float64, VisibilityTester) {
	wi, pdf := sampleHemisphereLi(ref, u)
	if pdf == 0 {
		return core.Vec3{}, core.Vec3{}, 0, VisibilityTester{}
	}
	return uil.emission, wi, pdf, farVisibility(&uil.worldBounds, ref, wi)
}

func (uil *UniformInfiniteLight) PdfLi(ref core.Interaction, wi core.Vec3) float64 {
	return hemispherePdfLi(ref, wi)
}

func (uil *UniformInfiniteLight) Power() core.Vec3 {
	return uil.emission.Multiply(math.Pi * uil.worldRadius * uil.worldRadius)
}

// Le implements the Light interface - evaluates emission in ray direction
func (uil *UniformInfiniteLight) Le(r core.Ray) core.Vec3 {
	return uil.emission
}

// GradientInfiniteLight blends between a bottom and a top color by the ray's elevation
type GradientInfiniteLight struct {
	worldBounds
	topColor    core.Vec3
	bottomColor core.Vec3
}

// NewGradientInfiniteLight creates a new gradient infinite light
func NewGradientInfiniteLight(topColor, bottomColor core.Vec3) *GradientInfiniteLight {
	return &GradientInfiniteLight{topColor: topColor, bottomColor: bottomColor}
}

func (gil *GradientInfiniteLight) Flags() LightFlags {
	return LightInfinite
}

// emissionForDirection calculates gradient emission for a given direction
func (gil *GradientInfiniteLight) emissionForDirection(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Normalize().Y + 1.0) // Map Y from [-1,1] to [0,1]
	return gil.bottomColor.Lerp(gil.topColor, t)
}

func (gil *GradientInfiniteLight) SampleLi(ref core.Interaction, u core.Vec2) (core.Vec3, core.Vec3, float64, VisibilityTester) {
	wi, pdf := sampleHemisphereLi(ref, u)
	if pdf == 0 {
		return core.Vec3{}, core.Vec3{}, 0, VisibilityTester{}
	}
	return gil.emissionForDirection(wi), wi, pdf, farVisibility(&gil.worldBounds, ref, wi)
}

func (gil *GradientInfiniteLight) PdfLi(ref core.Interaction, wi core.Vec3) float64 {
	return hemispherePdfLi(ref, wi)
}

// Power uses the mean of the two colors, which is the gradient's average over the sphere
func (gil *GradientInfiniteLight) Power() core.Vec3 {
	mean := gil.topColor.Add(gil.bottomColor).Multiply(0.5)
	return mean.Multiply(math.Pi * gil.worldRadius * gil.worldRadius)
}

func (gil *GradientInfiniteLight) Le(r core.Ray) core.Vec3 {
	return gil.emissionForDirection(r.Direction)
}
