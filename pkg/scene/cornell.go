package scene

import (
	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// CornellGeometryType selects what sits inside the Cornell box
type CornellGeometryType int

const (
	CornellSpheres CornellGeometryType = iota // Metal and glass spheres
	CornellBoxes                              // The classic pair of rotated boxes
	CornellEmpty
)

// NewCornellScene creates a classic Cornell box scene with quad walls and area lighting
func NewCornellScene(geometryType CornellGeometryType, cameraOverrides ...camera.CameraConfig) *Scene {
	defaultCameraConfig := camera.CameraConfig{
		Center:        core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt:        core.NewVec3(278, 278, 0),    // Look at the center of the box
		Up:            core.NewVec3(0, 1, 0),        // Standard up direction
		Width:         400,
		AspectRatio:   1.0,  // Square aspect ratio for Cornell box
		VFov:          40.0, // Field of view
		Aperture:      0.0,  // No depth of field for Cornell box
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = camera.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	samplingConfig := DefaultSamplingConfig()
	samplingConfig.SamplesPerPixel = 64
	samplingConfig.MaxDepth = 8
	samplingConfig.RussianRouletteMinBounces = 4

	s := New(cameraConfig, samplingConfig)

	// Create materials
	white := material.NewMatte(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewMatte(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewMatte(core.NewVec3(0.12, 0.45, 0.15))

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	// Walls face into the box: each quad's front side is u x v
	floor := geometry.NewQuadMesh(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0))
	ceiling := geometry.NewQuadMesh(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize))
	backWall := geometry.NewQuadMesh(core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0))
	leftWall := geometry.NewQuadMesh(core.NewVec3(0, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize))
	rightWall := geometry.NewQuadMesh(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0))

	s.AddMesh(floor, white)
	s.AddMesh(ceiling, white)
	s.AddMesh(backWall, white)
	s.AddMesh(leftWall, red)
	s.AddMesh(rightWall, green)

	// Ceiling light (smaller quad in the center of the ceiling, facing down)
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	s.AddQuadLight(
		core.NewVec3(lightOffset, boxSize-1, lightOffset), // corner (slightly below ceiling)
		core.NewVec3(lightSize, 0, 0),                     // u vector (X direction)
		core.NewVec3(0, 0, lightSize),                     // v vector (Z direction)
		core.NewVec3(15.0, 15.0, 15.0),                    // bright white emission
	)

	switch geometryType {
	case CornellSpheres:
		s.Add(material.NewMetal(material.SilverEta, material.SilverK, 0), geometry.NewSphere(core.NewVec3(185, 82.5, 169), 82.5))
		s.Add(material.NewGlass(1.5), geometry.NewSphere(core.NewVec3(370, 90, 351), 90))
	case CornellBoxes:
		tall := geometry.NewBoxMesh(core.NewVec3(368, 165, 351), core.NewVec3(82.5, 165, 82.5), core.NewVec3(0, core.Radians(15), 0))
		short := geometry.NewBoxMesh(core.NewVec3(185, 82.5, 169), core.NewVec3(82.5, 82.5, 82.5), core.NewVec3(0, core.Radians(-18), 0))
		s.AddMesh(tall, white)
		s.AddMesh(short, white)
	}

	return s
}
