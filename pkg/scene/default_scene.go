package scene

import (
	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene(cameraOverrides ...camera.CameraConfig) *Scene {
	defaultCameraConfig := camera.CameraConfig{
		Center:        core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt:        core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:            core.NewVec3(0, 1, 0),    // Standard up direction
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0, // Narrower field of view for focus effect
		Aperture:      0.05, // Strong depth of field blur
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = camera.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	samplingConfig := DefaultSamplingConfig()
	samplingConfig.SamplesPerPixel = 64
	samplingConfig.MaxDepth = 16
	samplingConfig.RussianRouletteMinBounces = 8 // Glass needs a few more bounces

	s := New(cameraConfig, samplingConfig)

	// Create materials
	matteGreen := material.NewMatte(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6))
	matteBlue := material.NewMatte(core.NewVec3(0.1, 0.2, 0.5))
	plasticRed := material.NewPlastic(core.NewVec3(0.65, 0.25, 0.2), core.NewVec3(0.25, 0.25, 0.25), 0.1)
	silver := material.NewMetal(material.SilverEta, material.SilverK, 0.0)
	gold := material.NewMetal(material.GoldEta, material.GoldK, 0.3)
	glass := material.NewGlass(1.5)

	s.Add(plasticRed, geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5))
	s.Add(silver, geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5))
	s.Add(gold, geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5))
	s.Add(glass, geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25))

	// Glass shell around a blue marble
	s.Add(glass, geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25))
	s.Add(matteBlue, geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.20))

	// Create ground quad instead of infinite plane (large but finite for proper bounds)
	s.AddMesh(NewGroundQuad(core.NewVec3(0, 0, 0), 10000.0), matteGreen)

	// Light: pos [30, 30.5, 15], r: 10, emit: [15.0, 14.0, 13.0]
	s.AddSphereLight(
		core.NewVec3(30, 30.5, 15),     // position
		10,                             // radius
		core.NewVec3(15.0, 14.0, 13.0), // emission
	)

	// Add gradient infinite light (replaces background gradient)
	s.AddGradientInfiniteLight(
		core.NewVec3(0.5, 0.7, 1.0), // topColor (blue sky)
		core.NewVec3(1.0, 1.0, 1.0), // bottomColor (white ground)
	)

	return s
}
