package scene

import (
	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewPointLitSphereScene places a unit sphere of reflectance 0.5 at the origin and a point
// light of the given intensity on the +Z axis, distance above the surface. The camera looks
// down the same axis, so the center pixel converges to 0.5/pi * intensity/distance^2.
func NewPointLitSphereScene(intensity, distance float64, cameraOverrides ...camera.CameraConfig) *Scene {
	defaultCameraConfig := camera.CameraConfig{
		Center:      core.NewVec3(0, 0, 1+distance+4),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       64,
		AspectRatio: 1,
		VFov:        30,
	}
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = camera.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	samplingConfig := DefaultSamplingConfig()
	samplingConfig.MaxDepth = 1

	s := New(cameraConfig, samplingConfig)
	s.Add(material.NewMatte(core.NewVec3(0.5, 0.5, 0.5)), geometry.NewSphere(core.Vec3{}, 1))
	s.AddPointLight(core.NewVec3(0, 0, 1+distance), core.NewVec3(intensity, intensity, intensity))
	return s
}
