package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         camera.Camera
	CameraConfig   camera.CameraConfig
	Primitives     []geometry.Primitive // Objects in the scene
	Lights         []lights.Light       // Lights in the scene
	LightSampler   lights.LightSampler  // Chooses one light per direct lighting estimate
	SamplingConfig SamplingConfig
	Aggregate      *geometry.BVH // Acceleration structure for ray-object intersection
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel           int    `yaml:"samplesPerPixel"`           // Number of rays per pixel
	MaxDepth                  int    `yaml:"maxDepth"`                  // Maximum ray bounce depth
	RussianRouletteMinBounces int    `yaml:"russianRouletteMinBounces"` // Bounces before Russian roulette can terminate a path
	Sampler                   string `yaml:"sampler"`                   // random, stratified or halton
	Seed                      int64  `yaml:"seed"`
	TileSize                  int    `yaml:"tileSize"`       // Edge length of a render tile in pixels
	Workers                   int    `yaml:"workers"`        // 0 uses every CPU
	LightStrategy             string `yaml:"lightStrategy"`  // uniform or power
	SplitMethod               string `yaml:"splitMethod"`    // sah, middle or equal
	MaxPrimsInNode            int    `yaml:"maxPrimsInNode"` // BVH leaf size limit
	Integrator                string `yaml:"integrator"`     // path, direct or direct-one
	Filter                    string `yaml:"filter"`         // box or gaussian
}

// DefaultSamplingConfig returns the settings used when a scene does not specify its own
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel:           16,
		MaxDepth:                  5,
		RussianRouletteMinBounces: 3,
		Sampler:                   "stratified",
		TileSize:                  16,
		LightStrategy:             "power",
		SplitMethod:               "sah",
		MaxPrimsInNode:            geometry.DefaultMaxPrimsInNode,
		Integrator:                "path",
		Filter:                    "box",
	}
}

// Merge returns c with every non-zero field of override applied
func (c SamplingConfig) Merge(override SamplingConfig) SamplingConfig {
	if override.SamplesPerPixel != 0 {
		c.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		c.MaxDepth = override.MaxDepth
	}
	if override.RussianRouletteMinBounces != 0 {
		c.RussianRouletteMinBounces = override.RussianRouletteMinBounces
	}
	if override.Sampler != "" {
		c.Sampler = override.Sampler
	}
	if override.Seed != 0 {
		c.Seed = override.Seed
	}
	if override.TileSize != 0 {
		c.TileSize = override.TileSize
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.LightStrategy != "" {
		c.LightStrategy = override.LightStrategy
	}
	if override.SplitMethod != "" {
		c.SplitMethod = override.SplitMethod
	}
	if override.MaxPrimsInNode != 0 {
		c.MaxPrimsInNode = override.MaxPrimsInNode
	}
	if override.Integrator != "" {
		c.Integrator = override.Integrator
	}
	if override.Filter != "" {
		c.Filter = override.Filter
	}
	return c
}

// New creates an empty scene viewed through a perspective camera
func New(cameraConfig camera.CameraConfig, samplingConfig SamplingConfig) *Scene {
	return &Scene{
		Camera:         camera.NewPerspectiveCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
	}
}

// NewGroundQuad creates a large quad to replace infinite ground planes
// Creates a horizontal quad centered at the given point with normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64) *geometry.TriangleMesh {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u x v = (0,0,size) x (size,0,0) = (0,size²,0)
	return geometry.NewQuadMesh(corner, core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0))
}

// Preprocess builds the BVH, sizes the lights to the scene and creates the light sampler.
// It must run once before rendering; afterwards the scene is read-only.
func (s *Scene) Preprocess() error {
	if s.Camera == nil {
		return errors.New("scene has no camera")
	}
	if s.CameraConfig.Width <= 0 || s.CameraConfig.Height() <= 0 {
		return fmt.Errorf("film is empty: %dx%d", s.CameraConfig.Width, s.CameraConfig.Height())
	}

	method, err := geometry.ParseSplitMethod(s.SamplingConfig.SplitMethod)
	if err != nil {
		return fmt.Errorf("while building BVH: %w", err)
	}
	s.Aggregate = geometry.NewBVH(s.Primitives, s.SamplingConfig.MaxPrimsInNode, method)

	// Lights at infinity need the scene bounds
	worldBound := s.Aggregate.WorldBound()
	for _, light := range s.Lights {
		light.Preprocess(worldBound)
	}

	if s.LightSampler == nil {
		ls, err := lights.NewLightSampler(s.SamplingConfig.LightStrategy, s.Lights)
		if err != nil {
			return fmt.Errorf("while creating light sampler: %w", err)
		}
		s.LightSampler = ls
	}
	return nil
}

// Intersect finds the closest hit along r, shrinking r.TMax to it
func (s *Scene) Intersect(r *core.Ray, si *material.SurfaceInteraction) bool {
	return s.Aggregate.Intersect(r, si)
}

// IntersectP reports whether anything is hit along r before r.TMax
func (s *Scene) IntersectP(r core.Ray) bool {
	return s.Aggregate.IntersectP(r)
}

// WorldBound returns the bounds of every primitive in the scene
func (s *Scene) WorldBound() core.AABB {
	if s.Aggregate == nil {
		return core.EmptyAABB()
	}
	return s.Aggregate.WorldBound()
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Primitives)
}

// Add adds shapes sharing one material
func (s *Scene) Add(mat material.Material, shapes ...geometry.Shape) {
	s.Primitives = append(s.Primitives, geometry.NewPrimitives(shapes, mat)...)
}

// AddMesh adds every triangle of a mesh with one material
func (s *Scene) AddMesh(mesh *geometry.TriangleMesh, mat material.Material) {
	s.Add(mat, mesh.Triangles()...)
}

// AddAreaLight makes shapes emissive. Each shape becomes its own light.
func (s *Scene) AddAreaLight(mat material.Material, emission core.Vec3, twoSided bool, shapes ...geometry.Shape) {
	prims, areaLights := lights.NewAreaLightPrimitives(shapes, mat, emission, twoSided)
	s.Primitives = append(s.Primitives, prims...)
	s.Lights = append(s.Lights, areaLights...)
}

// AddSphereLight adds a spherical light to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	s.AddAreaLight(material.NewMatte(core.Vec3{}), emission, false, geometry.NewSphere(center, radius))
}

// AddQuadLight adds a rectangular area light to the scene. It emits on the u x v side.
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	s.AddAreaLight(material.NewMatte(core.Vec3{}), emission, false, geometry.NewQuadMesh(corner, u, v).Triangles()...)
}

// AddPointLight adds a point light to the scene
func (s *Scene) AddPointLight(position, intensity core.Vec3) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, intensity))
}

// AddSpotLight adds a spot light with custom cone angle and falloff
func (s *Scene) AddSpotLight(from, to, intensity core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees float64) {
	s.Lights = append(s.Lights, lights.NewSpotLight(from, to, intensity, coneAngleDegrees, coneDeltaAngleDegrees))
}

// AddDistantLight adds a directional light shining towards the given direction
func (s *Scene) AddDistantLight(towards, radiance core.Vec3) {
	s.Lights = append(s.Lights, lights.NewDistantLight(towards, radiance))
}

// AddUniformInfiniteLight adds a uniform infinite light to the scene
func (s *Scene) AddUniformInfiniteLight(emission core.Vec3) {
	s.Lights = append(s.Lights, lights.NewUniformInfiniteLight(emission))
}

// AddGradientInfiniteLight adds a gradient infinite light to the scene
func (s *Scene) AddGradientInfiniteLight(topColor, bottomColor core.Vec3) {
	s.Lights = append(s.Lights, lights.NewGradientInfiniteLight(topColor, bottomColor))
}
