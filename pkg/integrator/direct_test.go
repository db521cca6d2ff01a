package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/sampler"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestDirectLightingPointLitSphere(t *testing.T) {
	const intensity, distance = 4.0, 1.0
	expected := 0.5 / math.Pi * intensity / (distance * distance)

	for _, strategy := range []LightStrategy{SampleAll, SampleOne} {
		sc := scene.NewPointLitSphereScene(intensity, distance)
		preprocess(t, sc)

		d := NewDirectLightingIntegrator(strategy, 3)
		s := sampler.NewRandomSampler(4, 42)
		d.Preprocess(sc, s)
		s.StartPixel(core.Point2i{})

		arena := material.NewArena()
		ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))
		for i := 0; i < 4; i++ {
			L := d.Li(ray, sc, s, arena, 0)
			arena.Reset()
			if math.Abs(L.X-expected) > 1e-9 {
				t.Errorf("Strategy %d: expected %f, got %f", strategy, expected, L.X)
			}
			s.StartNextSample()
		}
	}
}

func TestDirectLightingPreprocessReservesArrays(t *testing.T) {
	sc := createTestScene(scene.SamplingConfig{})
	sc.AddPointLight(core.NewVec3(0, 5, 0), core.NewVec3(1, 1, 1))
	sc.AddUniformInfiniteLight(core.NewVec3(1, 1, 1))
	sc.Add(material.NewMatte(core.NewVec3(0.5, 0.5, 0.5)), geometry.NewSphere(core.Vec3{}, 1))
	preprocess(t, sc)

	d := NewDirectLightingIntegrator(SampleAll, 2)
	d.LightSamples = 4
	s := sampler.NewRandomSampler(1, 1)
	d.Preprocess(sc, s)
	s.StartPixel(core.Point2i{})

	// Two levels, two lights, two arrays each
	for i := 0; i < 8; i++ {
		if arr := s.Get2DArray(4); len(arr) != 4 {
			t.Fatalf("Expected reserved array %d of length 4, got %d", i, len(arr))
		}
	}
	if arr := s.Get2DArray(4); arr != nil {
		t.Errorf("Expected no further arrays, got %d values", len(arr))
	}
}

func TestDirectLightingFollowsSpecularChains(t *testing.T) {
	sc := createTestScene(scene.SamplingConfig{})
	sc.Add(material.NewMirror(core.NewVec3(1, 1, 1)), geometry.NewSphere(core.Vec3{}, 1))
	sc.AddUniformInfiniteLight(core.NewVec3(1, 1, 1))
	preprocess(t, sc)

	ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))
	arena := material.NewArena()

	shallow := NewDirectLightingIntegrator(SampleOne, 1)
	if L := shallow.Li(ray, sc, newPixelSampler(1, 1), arena, 0); !L.IsBlack() {
		t.Errorf("Expected a mirror to be black without specular recursion, got %v", L)
	}

	deep := NewDirectLightingIntegrator(SampleOne, 2)
	L := deep.Li(ray, sc, newPixelSampler(1, 1), arena, 0)
	if math.Abs(L.X-1) > 1e-9 {
		t.Errorf("Expected a perfect mirror to reflect the sky, got %v", L)
	}
}

func TestDirectLightingMissReturnsEnvironment(t *testing.T) {
	sc := createTestScene(scene.SamplingConfig{})
	sc.Add(material.NewMatte(core.NewVec3(0.5, 0.5, 0.5)), geometry.NewSphere(core.Vec3{}, 1))
	sc.AddGradientInfiniteLight(core.NewVec3(0.5, 0.7, 1), core.NewVec3(1, 1, 1))
	preprocess(t, sc)

	d := NewDirectLightingIntegrator(SampleOne, 1)
	ray := core.NewRay(core.NewVec3(0, 5, 10), core.NewVec3(0, 0, -1))
	L := d.Li(ray, sc, newPixelSampler(1, 1), material.NewArena(), 0)
	if want := sc.Lights[0].Le(ray); L != want {
		t.Errorf("Expected %v, got %v", want, L)
	}
}
