package camera

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/sampler"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera turns film samples into primary rays
type Camera interface {
	// GenerateRay returns a normalized ray for the sample and the weight its radiance carries
	GenerateRay(sample sampler.CameraSample) (core.Ray, float64)
}

// CameraConfig contains all settings needed to create a camera
type CameraConfig struct {
	Center        core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera looks at
	Up            core.Vec3 // Up direction
	Width         int       // Image width in pixels
	AspectRatio   float64   // Width / height
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter, 0 for a pinhole
	FocusDistance float64   // Distance to the plane in focus, 0 for the LookAt distance
}

// Height returns the image height implied by the width and aspect ratio
func (c CameraConfig) Height() int {
	if c.AspectRatio <= 0 {
		return c.Width
	}
	return max(1, int(float64(c.Width)/c.AspectRatio))
}

// PerspectiveCamera is a pinhole or thin lens camera looking down its -Z axis
type PerspectiveCamera struct {
	config        CameraConfig
	width, height float64
	cameraToWorld mgl64.Mat4
	tanHalfFov    float64
	aspect        float64
	lensRadius    float64
	focusDistance float64
}

// NewPerspectiveCamera creates a camera for a Width x Height() film
func NewPerspectiveCamera(config CameraConfig) *PerspectiveCamera {
	height := config.Height()
	focus := config.FocusDistance
	if focus <= 0 {
		focus = config.LookAt.Subtract(config.Center).Length()
	}

	view := mgl64.LookAtV(toMgl(config.Center), toMgl(config.LookAt), toMgl(config.Up))
	return &PerspectiveCamera{
		config:        config,
		width:         float64(config.Width),
		height:        float64(height),
		cameraToWorld: view.Inv(),
		tanHalfFov:    math.Tan(core.Radians(config.VFov) / 2),
		aspect:        float64(config.Width) / float64(height),
		lensRadius:    config.Aperture / 2,
		focusDistance: focus,
	}
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func (c *PerspectiveCamera) transform(v core.Vec3, w float64) core.Vec3 {
	out := c.cameraToWorld.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, w})
	return core.NewVec3(out[0], out[1], out[2])
}

// GenerateRay maps a raster position (x right, y down, in pixels) to a world space ray
func (c *PerspectiveCamera) GenerateRay(sample sampler.CameraSample) (core.Ray, float64) {
	// Screen space in [-1, 1] with y up
	sx := 2*sample.PFilm.X/c.width - 1
	sy := 1 - 2*sample.PFilm.Y/c.height

	dir := core.NewVec3(sx*c.tanHalfFov*c.aspect, sy*c.tanHalfFov, -1)
	origin := core.Vec3{}

	if c.lensRadius > 0 {
		lens := core.ConcentricSampleDisk(sample.PLens).Multiply(c.lensRadius)
		// The focus plane is at z = -focusDistance
		pFocus := dir.Multiply(c.focusDistance)
		origin = core.NewVec3(lens.X, lens.Y, 0)
		dir = pFocus.Subtract(origin)
	}

	worldOrigin := c.transform(origin, 1)
	worldDir := c.transform(dir, 0).Normalize()
	return core.NewRay(worldOrigin, worldDir), 1
}

// Forward returns the unit viewing direction
func (c *PerspectiveCamera) Forward() core.Vec3 {
	return c.transform(core.NewVec3(0, 0, -1), 0).Normalize()
}

func (c *PerspectiveCamera) Config() CameraConfig {
	return c.config
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}
