package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// NewBoxMesh creates a box as a triangle mesh with outward facing triangles.
// halfSize holds half-extents (so a size of (1,1,1) creates a 2x2x2 box).
// Rotation is in radians around X, Y, Z axes (applied in that order).
func NewBoxMesh(center, halfSize, rotation core.Vec3) *TriangleMesh {
	rot := mgl64.Rotate3DZ(rotation.Z).Mul3(mgl64.Rotate3DY(rotation.Y)).Mul3(mgl64.Rotate3DX(rotation.X))

	// Define the 8 corners of a unit box centered at origin
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i, c := range corners {
		v := rot.Mul3x1(mgl64.Vec3{c.X * halfSize.X, c.Y * halfSize.Y, c.Z * halfSize.Z})
		corners[i] = core.NewVec3(v[0], v[1], v[2]).Add(center)
	}

	// Each face is a corner and two edges whose cross product points outward
	faces := [6][3]int{
		{4, 5, 7}, // front (Z+)
		{1, 0, 2}, // back (Z-)
		{5, 1, 6}, // right (X+)
		{0, 4, 3}, // left (X-)
		{3, 7, 2}, // top (Y+)
		{4, 0, 5}, // bottom (Y-)
	}

	mesh := &TriangleMesh{}
	for _, f := range faces {
		corner := corners[f[0]]
		u := corners[f[1]].Subtract(corner)
		v := corners[f[2]].Subtract(corner)
		appendMesh(mesh, NewQuadMesh(corner, u, v))
	}
	return mesh
}

// appendMesh adds src's triangles to dst. Both meshes must agree on whether they carry uvs.
func appendMesh(dst, src *TriangleMesh) {
	base := len(dst.Vertices)
	dst.Vertices = append(dst.Vertices, src.Vertices...)
	for _, idx := range src.Indices {
		dst.Indices = append(dst.Indices, base+idx)
	}
	if src.UVs != nil {
		dst.UVs = append(dst.UVs, src.UVs...)
	}
	if src.Normals != nil {
		dst.Normals = append(dst.Normals, src.Normals...)
	}
}
