package geometry

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// TriangleMesh holds shared vertex data for a set of triangles
type TriangleMesh struct {
	Vertices []core.Vec3
	Indices  []int       // Three indices per triangle
	Normals  []core.Vec3 // Optional per-vertex shading normals
	UVs      []core.Vec2 // Optional per-vertex texture coordinates
}

// NewTriangleMesh validates the mesh data. normals and uvs may be nil.
func NewTriangleMesh(vertices []core.Vec3, indices []int, normals []core.Vec3, uvs []core.Vec2) (*TriangleMesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(vertices) {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, len(vertices))
		}
	}
	if normals != nil && len(normals) != len(vertices) {
		return nil, fmt.Errorf("got %d normals for %d vertices", len(normals), len(vertices))
	}
	if uvs != nil && len(uvs) != len(vertices) {
		return nil, fmt.Errorf("got %d uvs for %d vertices", len(uvs), len(vertices))
	}
	return &TriangleMesh{Vertices: vertices, Indices: indices, Normals: normals, UVs: uvs}, nil
}

// NumTriangles returns the number of triangles
func (m *TriangleMesh) NumTriangles() int {
	return len(m.Indices) / 3
}

// Triangles returns one shape per triangle
func (m *TriangleMesh) Triangles() []Shape {
	shapes := make([]Shape, m.NumTriangles())
	for i := range shapes {
		shapes[i] = &Triangle{mesh: m, index: 3 * i}
	}
	return shapes
}

// Transform returns a copy of the mesh with positions mapped by point and normals by normal
func (m *TriangleMesh) Transform(point func(core.Vec3) core.Vec3, normal func(core.Vec3) core.Vec3) *TriangleMesh {
	out := &TriangleMesh{
		Vertices: make([]core.Vec3, len(m.Vertices)),
		Indices:  m.Indices,
		UVs:      m.UVs,
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = point(v)
	}
	if m.Normals != nil {
		out.Normals = make([]core.Vec3, len(m.Normals))
		for i, n := range m.Normals {
			out.Normals[i] = normal(n).Normalize()
		}
	}
	return out
}

// NewQuadMesh creates a parallelogram from corner spanned by u and v. The front face is u x v.
func NewQuadMesh(corner, u, v core.Vec3) *TriangleMesh {
	return &TriangleMesh{
		Vertices: []core.Vec3{corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v)},
		Indices:  []int{0, 1, 2, 0, 2, 3},
		UVs:      []core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	}
}
