package renderer

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/sampler"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// MockIntegrator returns a fixed radiance for every ray
type MockIntegrator struct {
	returnColor core.Vec3
}

func (m *MockIntegrator) Preprocess(sc *scene.Scene, s sampler.Sampler) {}

func (m *MockIntegrator) Li(ray core.Ray, sc *scene.Scene, s sampler.Sampler, arena *material.Arena, depth int) core.Vec3 {
	return m.returnColor
}

// createTestScene creates a small point-lit sphere scene ready to render
func createTestScene(t *testing.T, config scene.SamplingConfig) *scene.Scene {
	t.Helper()
	sc := scene.NewPointLitSphereScene(10, 2, camera.CameraConfig{Width: 16})
	sc.SamplingConfig = sc.SamplingConfig.Merge(config)
	if err := sc.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	return sc
}

func render(t *testing.T, sc *scene.Scene) (*Film, RenderStats) {
	t.Helper()
	integ, err := integrator.New(sc.SamplingConfig)
	if err != nil {
		t.Fatalf("integrator.New failed: %v", err)
	}
	r, err := New(sc, integ, core.NopLogger{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	stats := r.Render()
	return r.Film(), stats
}

func filmPixels(f *Film) []core.Vec3 {
	var out []core.Vec3
	f.Bounds().Points(func(p core.Point2i) {
		out = append(out, f.Pixel(p.X, p.Y))
	})
	return out
}

func TestNewRendererErrors(t *testing.T) {
	unprocessed := scene.NewPointLitSphereScene(1, 1)
	noCamera := scene.NewPointLitSphereScene(1, 1)
	noCamera.Camera = nil

	tests := []struct {
		name  string
		scene *scene.Scene
		integ integrator.Integrator
	}{
		{"nil scene", nil, &MockIntegrator{}},
		{"no camera", noCamera, &MockIntegrator{}},
		{"not preprocessed", unprocessed, &MockIntegrator{}},
		{"bad sampler", createTestScene(t, scene.SamplingConfig{Sampler: "sobol"}), &MockIntegrator{}},
		{"bad filter", createTestScene(t, scene.SamplingConfig{Filter: "lanczos"}), &MockIntegrator{}},
		{"no integrator", createTestScene(t, scene.SamplingConfig{}), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.scene, tt.integ, nil); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestRenderStats(t *testing.T) {
	sc := createTestScene(t, scene.SamplingConfig{SamplesPerPixel: 4, TileSize: 8, Workers: 2})
	_, stats := render(t, sc)

	if stats.TotalPixels != 16*16 {
		t.Errorf("Expected %d pixels, got %d", 16*16, stats.TotalPixels)
	}
	if stats.TotalSamples != 16*16*4 {
		t.Errorf("Expected %d samples, got %d", 16*16*4, stats.TotalSamples)
	}
	if stats.Tiles != 4 {
		t.Errorf("Expected 4 tiles, got %d", stats.Tiles)
	}
	if stats.InvalidSamples != 0 {
		t.Errorf("Expected no invalid samples, got %d", stats.InvalidSamples)
	}
}

func TestRenderIsDeterministicAcrossWorkerCounts(t *testing.T) {
	for _, samplerName := range sampler.Names() {
		t.Run(samplerName, func(t *testing.T) {
			base := scene.SamplingConfig{SamplesPerPixel: 4, TileSize: 4, Sampler: samplerName, Seed: 11}

			single := base
			single.Workers = 1
			filmA, _ := render(t, createTestScene(t, single))

			parallel := base
			parallel.Workers = 8
			filmB, _ := render(t, createTestScene(t, parallel))

			if diff := cmp.Diff(filmPixels(filmA), filmPixels(filmB)); diff != "" {
				t.Errorf("Expected identical images (-single +parallel):\n%s", diff)
			}
		})
	}
}

func TestRenderLightsTheSphere(t *testing.T) {
	sc := createTestScene(t, scene.SamplingConfig{SamplesPerPixel: 4})
	film, _ := render(t, sc)

	center := film.Pixel(8, 8)
	// Top of the sphere facing the light: 0.5/pi * 10/4
	expected := 0.5 / math.Pi * 10 / 4
	if center.X <= 0.5*expected || center.X > expected*1.0001 {
		t.Errorf("Expected the center pixel near %f, got %f", expected, center.X)
	}
	if corner := film.Pixel(0, 0); !corner.IsBlack() {
		t.Errorf("Expected the corner to miss the sphere, got %v", corner)
	}
}

func TestRenderDiscardsInvalidRadiance(t *testing.T) {
	sc := createTestScene(t, scene.SamplingConfig{SamplesPerPixel: 2})
	r, err := New(sc, &MockIntegrator{returnColor: core.NewVec3(math.NaN(), 0, 0)}, core.NopLogger{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	stats := r.Render()
	if stats.InvalidSamples != stats.TotalSamples {
		t.Errorf("Expected all %d samples to be invalid, got %d", stats.TotalSamples, stats.InvalidSamples)
	}
	if got := r.Film().Pixel(8, 8); !got.IsBlack() {
		t.Errorf("Expected invalid samples to be zeroed, got %v", got)
	}
}

func TestIsValidRadiance(t *testing.T) {
	tests := []struct {
		name string
		L    core.Vec3
		want bool
	}{
		{"black", core.Vec3{}, true},
		{"bright", core.NewVec3(100, 5, 0), true},
		{"nan", core.NewVec3(math.NaN(), 0, 0), false},
		{"inf", core.NewVec3(0, math.Inf(1), 0), false},
		{"negative", core.NewVec3(-1, -1, -1), false},
		{"rounding", core.NewVec3(-1e-9, 0, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidRadiance(tt.L); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
