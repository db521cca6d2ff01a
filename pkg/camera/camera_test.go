package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/sampler"
)

func testConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(1, 2, 3),
		LookAt:      core.NewVec3(1, 2, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       200,
		AspectRatio: 2.0,
		VFov:        60.0,
	}
}

func TestCameraForward(t *testing.T) {
	cam := NewPerspectiveCamera(testConfig())
	forward := cam.Forward()
	if forward.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected forward direction (0, 0, -1), got %v", forward)
	}
	if cam.Config().Height() != 100 {
		t.Errorf("Expected height 100, got %d", cam.Config().Height())
	}
}

func TestCameraCenterRay(t *testing.T) {
	cam := NewPerspectiveCamera(testConfig())
	ray, weight := cam.GenerateRay(sampler.CameraSample{PFilm: core.NewVec2(100, 50)})
	if weight != 1 {
		t.Errorf("Expected weight 1, got %g", weight)
	}
	if ray.Origin.Subtract(core.NewVec3(1, 2, 3)).Length() > 1e-9 {
		t.Errorf("Expected ray from the camera center, got %v", ray.Origin)
	}
	if ray.Direction.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected center ray along forward, got %v", ray.Direction)
	}
}

func TestCameraFieldOfView(t *testing.T) {
	cam := NewPerspectiveCamera(testConfig())

	// Top edge center is half the vertical field of view above forward, with y up
	top, _ := cam.GenerateRay(sampler.CameraSample{PFilm: core.NewVec2(100, 0)})
	angle := math.Acos(top.Direction.Dot(cam.Forward())) * 180 / math.Pi
	if math.Abs(angle-30) > 1e-9 {
		t.Errorf("Expected 30 degrees to the top edge, got %g", angle)
	}
	if top.Direction.Y <= 0 {
		t.Errorf("Expected raster y=0 to look up, got %v", top.Direction)
	}

	// Raster x grows to the right
	right, _ := cam.GenerateRay(sampler.CameraSample{PFilm: core.NewVec2(200, 50)})
	if right.Direction.X <= 0 {
		t.Errorf("Expected raster x=width to look right, got %v", right.Direction)
	}
}

func TestThinLensFocus(t *testing.T) {
	config := testConfig()
	config.Aperture = 0.5
	cam := NewPerspectiveCamera(config)
	random := rand.New(rand.NewSource(42))

	// Every lens sample for one film point meets at the focus plane z = -1
	pFilm := core.NewVec2(130, 20)
	pinhole, _ := NewPerspectiveCamera(testConfig()).GenerateRay(sampler.CameraSample{PFilm: pFilm})
	focus := pinhole.At(4 / -pinhole.Direction.Z)

	for i := 0; i < 100; i++ {
		ray, _ := cam.GenerateRay(sampler.CameraSample{
			PFilm: pFilm,
			PLens: core.NewVec2(random.Float64(), random.Float64()),
		})
		if ray.Origin.Subtract(config.Center).Length() > config.Aperture/2+1e-9 {
			t.Fatalf("Expected ray origin on the lens, got %v", ray.Origin)
		}
		hit := ray.At((ray.Origin.Z - -1) / -ray.Direction.Z)
		if hit.Subtract(focus).Length() > 1e-9 {
			t.Fatalf("Expected rays to converge at %v, got %v", focus, hit)
		}
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := CameraConfig{
		Center:      core.NewVec3(0, 0, 5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 2,
		VFov:        40,
	}
	merged := MergeCameraConfig(base, CameraConfig{Width: 64, VFov: 60})

	if merged.Width != 64 || merged.VFov != 60 {
		t.Errorf("Expected overridden width 64 and fov 60, got %d and %g", merged.Width, merged.VFov)
	}
	if merged.Center != base.Center || merged.AspectRatio != 2 {
		t.Errorf("Expected untouched fields to keep base values, got %+v", merged)
	}
	if merged.Height() != 32 {
		t.Errorf("Expected height 32, got %d", merged.Height())
	}
}
