package material

import (
	"math"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

// flatInteraction returns a hit on the z=0 plane facing +Z
func flatInteraction() *SurfaceInteraction {
	si := NewSurfaceInteraction(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec2(0.5, 0.5),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		1,
	)
	return &si
}

// directionAt returns a unit direction with the given polar angle (degrees) in the XZ plane
func directionAt(degrees float64) core.Vec3 {
	theta := core.Radians(degrees)
	return core.NewVec3(math.Sin(theta), 0, math.Cos(theta))
}

// estimateAlbedo averages f*|cos|/pdf over BSDF samples
func estimateAlbedo(bsdf *BSDF, wo core.Vec3, n int, random *rand.Rand) core.Vec3 {
	var sum core.Vec3
	for i := 0; i < n; i++ {
		f, wi, pdf, _ := bsdf.SampleF(wo, core.NewVec2(random.Float64(), random.Float64()), BSDFAll)
		if pdf == 0 {
			continue
		}
		sum = sum.Add(f.Multiply(wi.AbsDot(bsdf.ShadingNormal()) / pdf))
	}
	return sum.Multiply(1 / float64(n))
}

// estimateAlbedoUniform averages f*|cos|/pdf over uniform hemisphere directions
func estimateAlbedoUniform(bxdf BxDF, wo core.Vec3, n int, random *rand.Rand) core.Vec3 {
	var sum core.Vec3
	for i := 0; i < n; i++ {
		wi := core.UniformSampleHemisphere(core.NewVec2(random.Float64(), random.Float64()))
		sum = sum.Add(bxdf.F(wo, wi).Multiply(AbsCosTheta(wi) / core.UniformHemispherePdf()))
	}
	return sum.Multiply(1 / float64(n))
}

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance && math.Abs(a.Z-b.Z) <= tolerance
}

type mockAreaLight struct {
	radiance core.Vec3
}

func (m *mockAreaLight) L(it core.Interaction, w core.Vec3) core.Vec3 {
	if it.N.Dot(w) > 0 {
		return m.radiance
	}
	return core.Vec3{}
}

type mockPrimitive struct {
	material Material
	light    AreaLight
}

func (m *mockPrimitive) GetMaterial() Material   { return m.material }
func (m *mockPrimitive) GetAreaLight() AreaLight { return m.light }
