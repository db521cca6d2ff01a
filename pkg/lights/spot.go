package lights

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// SpotLight is a point light restricted to a cone with a smooth falloff at its edge
type SpotLight struct {
	position        core.Vec3 // Light position in world space
	direction       core.Vec3 // Normalized direction vector (from -> to)
	intensity       core.Vec3 // Light intensity/color
	cosTotalWidth   float64   // Cosine of total cone angle (outer edge)
	cosFalloffStart float64   // Cosine of falloff start angle (inner cone)
}

// NewSpotLight creates a new spot light
// from: light position
// to: point the light is aimed at
// intensity: light intensity/color
// coneAngleDegrees: total cone angle in degrees
// coneDeltaAngleDegrees: falloff transition angle in degrees
func NewSpotLight(from, to, intensity core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees float64) *SpotLight {
	return &SpotLight{
		position:        from,
		direction:       to.Subtract(from).Normalize(),
		intensity:       intensity,
		cosTotalWidth:   math.Cos(core.Radians(coneAngleDegrees)),
		cosFalloffStart: math.Cos(core.Radians(coneAngleDegrees - coneDeltaAngleDegrees)),
	}
}

func (sl *SpotLight) Flags() LightFlags {
	return LightDeltaPosition
}

// falloff calculates the spot light falloff
// Based on the cosine of the angle between light direction and direction to point
func (sl *SpotLight) falloff(cosAngle float64) float64 {
	// Outside the total cone width
	if cosAngle < sl.cosTotalWidth {
		return 0.0
	}
	// Inside the inner cone (full intensity)
	if cosAngle >= sl.cosFalloffStart {
		return 1.0
	}
	delta := (cosAngle - sl.cosTotalWidth) / (sl.cosFalloffStart - sl.cosTotalWidth)
	return delta * delta * delta * delta
}

func (sl *SpotLight) SampleLi(ref core.Interaction, u core.Vec2) (core.Vec3, core.Vec3, float64, VisibilityTester) {
	toLight := sl.position.Subtract(ref.P)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return core.Vec3{}, core.Vec3{}, 0, VisibilityTester{}
	}
	wi := toLight.Normalize()
	li := sl.intensity.Multiply(sl.falloff(sl.direction.Dot(wi.Negate())) / distSq)
	vis := VisibilityTester{P0: ref, P1: core.Interaction{P: sl.position}}
	return li, wi, 1, vis
}

func (sl *SpotLight) PdfLi(ref core.Interaction, wi core.Vec3) float64 {
	return 0
}

// Power integrates the falloff over the sphere, treating the transition region as half bright
func (sl *SpotLight) Power() core.Vec3 {
	return sl.intensity.Multiply(2 * math.Pi * (1 - 0.5*(sl.cosFalloffStart+sl.cosTotalWidth)))
}

func (sl *SpotLight) Le(r core.Ray) core.Vec3 {
	return core.Vec3{}
}

func (sl *SpotLight) Preprocess(worldBound core.AABB) {}
