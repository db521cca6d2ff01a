package lights

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// DistantLight illuminates the scene with parallel rays from one direction
type DistantLight struct {
	worldBounds
	wLight   core.Vec3 // Direction towards the light
	radiance core.Vec3
}

// NewDistantLight creates a light arriving from direction towards (pointing at the light)
func NewDistantLight(towards, radiance core.Vec3) *DistantLight {
	return &DistantLight{wLight: towards.Normalize(), radiance: radiance}
}

func (dl *DistantLight) Flags() LightFlags {
	return LightDeltaDirection
}

func (dl *DistantLight) SampleLi(ref core.Interaction, u core.Vec2) (core.Vec3, core.Vec3, float64, VisibilityTester) {
	// A point guaranteed to lie outside the scene
	pOutside := ref.P.Add(dl.wLight.Multiply(2 * max(dl.worldRadius, 1)))
	vis := VisibilityTester{P0: ref, P1: core.Interaction{P: pOutside}}
	return dl.radiance, dl.wLight, 1, vis
}

func (dl *DistantLight) PdfLi(ref core.Interaction, wi core.Vec3) float64 {
	return 0
}

// Power is the radiance crossing the disc the scene projects onto
func (dl *DistantLight) Power() core.Vec3 {
	return dl.radiance.Multiply(math.Pi * dl.worldRadius * dl.worldRadius)
}

func (dl *DistantLight) Le(r core.Ray) core.Vec3 {
	return core.Vec3{}
}
