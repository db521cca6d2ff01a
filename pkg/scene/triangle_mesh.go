package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/go-gl/mathgl/mgl64"
)

// NewTriangleMeshScene creates a scene showcasing triangle mesh geometry
func NewTriangleMeshScene(cameraOverrides ...camera.CameraConfig) *Scene {
	s := newMeshStage(cameraOverrides...)

	copper := material.NewMetal(material.CopperEta, material.CopperK, 0.1)
	blueMatte := material.NewMatte(core.NewVec3(0.2, 0.3, 0.8))
	gold := material.NewMetal(material.GoldEta, material.GoldK, 0.05)

	// Box rotated to show multiple faces
	s.AddMesh(geometry.NewBoxMesh(core.NewVec3(-2, 0.5, 0), core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0, math.Pi/6, 0)), copper)

	s.AddMesh(createPyramidMesh(core.NewVec3(0, 1, 0), 1.5, 2.0, math.Pi/4), blueMatte)

	// Smooth shaded through per-vertex normals
	s.AddMesh(createIcosphereMesh(core.NewVec3(2, 0.8, 0), 0.8, 2), gold)

	return s
}

// NewMeshFileScene loads a PLY or glTF file, scales it to fit a two unit box sitting on the
// ground and lights it like the triangle mesh scene
func NewMeshFileScene(path string, cameraOverrides ...camera.CameraConfig) (*Scene, error) {
	meshes, err := LoadMeshFile(path)
	if err != nil {
		return nil, err
	}

	bounds := core.EmptyAABB()
	for _, m := range meshes {
		bounds = bounds.Union(core.NewAABBFromPoints(m.Vertices...))
	}
	if !bounds.IsValid() {
		return nil, fmt.Errorf("mesh file %s has no geometry", path)
	}
	size := bounds.Size()
	scale := 2 / max(size.X, size.Y, size.Z, 1e-9)
	center := bounds.Center()
	fit := func(p core.Vec3) core.Vec3 {
		q := p.Subtract(center).Multiply(scale)
		return q.Add(core.NewVec3(0, size.Y*scale/2, 0))
	}
	keep := func(n core.Vec3) core.Vec3 { return n }

	s := newMeshStage(cameraOverrides...)
	clay := material.NewPlastic(core.NewVec3(0.6, 0.55, 0.5), core.NewVec3(0.2, 0.2, 0.2), 0.3)
	for _, m := range meshes {
		s.AddMesh(m.Transform(fit, keep), clay)
	}
	return s, nil
}

// LoadMeshFile reads the meshes in a .ply, .gltf or .glb file
func LoadMeshFile(path string) ([]*geometry.TriangleMesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		mesh, err := loaders.LoadPLY(path)
		if err != nil {
			return nil, err
		}
		return []*geometry.TriangleMesh{mesh}, nil
	case ".gltf", ".glb":
		return loaders.LoadGLTF(path)
	}
	return nil, fmt.Errorf("unsupported mesh file %s", path)
}

// newMeshStage sets up the camera, lights and ground shared by the mesh scenes
func newMeshStage(cameraOverrides ...camera.CameraConfig) *Scene {
	defaultCameraConfig := camera.CameraConfig{
		Center:        core.NewVec3(0, 2, 6), // Position camera to see the meshes
		LookAt:        core.NewVec3(0, 1, 0), // Look at the center of the scene
		Up:            core.NewVec3(0, 1, 0),
		Width:         600,
		AspectRatio:   16.0 / 9.0,
		VFov:          45.0,
		Aperture:      0.02, // Slight depth of field
		FocusDistance: 0.0,
	}
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = camera.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	samplingConfig := DefaultSamplingConfig()
	samplingConfig.SamplesPerPixel = 32
	samplingConfig.MaxDepth = 10
	samplingConfig.Sampler = "halton"

	s := New(cameraConfig, samplingConfig)

	// Main overhead light and a cool fill light
	s.AddSphereLight(core.NewVec3(2, 6, 3), 1.5, core.NewVec3(12.0, 11.0, 10.0))
	s.AddSphereLight(core.NewVec3(-3, 4, 2), 0.8, core.NewVec3(6.0, 7.0, 8.0))
	s.AddGradientInfiniteLight(core.NewVec3(0.5, 0.7, 1.0).Multiply(0.3), core.NewVec3(0.3, 0.3, 0.3))

	s.AddMesh(NewGroundQuad(core.NewVec3(0, 0, 0), 100), material.NewMatte(core.NewVec3(0.7, 0.7, 0.7)))
	return s
}

// createPyramidMesh creates a square pyramid rotated about its vertical axis
func createPyramidMesh(center core.Vec3, baseSize, height, rotationY float64) *geometry.TriangleMesh {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		core.NewVec3(-halfBase, -halfHeight, -halfBase), // 0: left-back
		core.NewVec3(+halfBase, -halfHeight, -halfBase), // 1: right-back
		core.NewVec3(+halfBase, -halfHeight, +halfBase), // 2: right-front
		core.NewVec3(-halfBase, -halfHeight, +halfBase), // 3: left-front
		core.NewVec3(0, +halfHeight, 0),                 // 4: apex
	}
	faces := []int{
		// Base
		0, 1, 2, 0, 2, 3,
		// Sides
		0, 4, 1,
		1, 4, 2,
		2, 4, 3,
		3, 4, 0,
	}

	mesh, _ := geometry.NewTriangleMesh(vertices, faces, nil, nil)
	rot := mgl64.Rotate3DY(rotationY)
	return mesh.Transform(
		func(p core.Vec3) core.Vec3 {
			v := rot.Mul3x1(mgl64.Vec3{p.X, p.Y, p.Z})
			return core.NewVec3(v[0], v[1], v[2]).Add(center)
		},
		func(n core.Vec3) core.Vec3 {
			v := rot.Mul3x1(mgl64.Vec3{n.X, n.Y, n.Z})
			return core.NewVec3(v[0], v[1], v[2])
		},
	)
}

// createIcosphereMesh subdivides an icosahedron, pushing every vertex onto the sphere.
// Vertex normals point away from the center.
func createIcosphereMesh(center core.Vec3, radius float64, subdivisions int) *geometry.TriangleMesh {
	phi := (1 + math.Sqrt(5)) / 2
	dirs := []core.Vec3{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	for i := range dirs {
		dirs[i] = dirs[i].Normalize()
	}
	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for range subdivisions {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if i, ok := midpoints[key]; ok {
				return i
			}
			dirs = append(dirs, dirs[a].Add(dirs[b]).Normalize())
			midpoints[key] = len(dirs) - 1
			return len(dirs) - 1
		}
		next := make([]int, 0, len(faces)*4)
		for f := 0; f < len(faces); f += 3 {
			a, b, c := faces[f], faces[f+1], faces[f+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			next = append(next, a, ab, ca, b, bc, ab, c, ca, bc, ab, bc, ca)
		}
		faces = next
	}

	vertices := make([]core.Vec3, len(dirs))
	for i, d := range dirs {
		vertices[i] = center.Add(d.Multiply(radius))
	}
	mesh, _ := geometry.NewTriangleMesh(vertices, faces, dirs, nil)
	return mesh
}
