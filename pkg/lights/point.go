package lights

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PointLight emits uniformly in all directions from a single position
type PointLight struct {
	Position  core.Vec3
	Intensity core.Vec3 // Radiant intensity
}

// NewPointLight creates a new point light
func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

func (pl *PointLight) Flags() LightFlags {
	return LightDeltaPosition
}

// SampleLi returns the only direction towards the light with inverse square falloff
func (pl *PointLight) SampleLi(ref core.Interaction, u core.Vec2) (core.Vec3, core.Vec3, float64, VisibilityTester) {
	toLight := pl.Position.Subtract(ref.P)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return core.Vec3{}, core.Vec3{}, 0, VisibilityTester{}
	}
	vis := VisibilityTester{P0: ref, P1: core.Interaction{P: pl.Position}}
	return pl.Intensity.Multiply(1 / distSq), toLight.Normalize(), 1, vis
}

func (pl *PointLight) PdfLi(ref core.Interaction, wi core.Vec3) float64 {
	return 0
}

func (pl *PointLight) Power() core.Vec3 {
	return pl.Intensity.Multiply(4 * math.Pi)
}

func (pl *PointLight) Le(r core.Ray) core.Vec3 {
	return core.Vec3{}
}

func (pl *PointLight) Preprocess(worldBound core.AABB) {}
