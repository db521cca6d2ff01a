package loaders

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF opens a .glb or .gltf file and returns one world space triangle mesh per
// triangle primitive reachable from the default scene
func LoadGLTF(path string) ([]*geometry.TriangleMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening glTF %q: %w", path, err)
	}
	return MeshesFromGLTF(doc)
}

// MeshesFromGLTF flattens the node hierarchy of doc into world space meshes
func MeshesFromGLTF(doc *gltf.Document) ([]*geometry.TriangleMesh, error) {
	// One local space mesh per primitive, shared by every node instancing it
	local := make([][]*geometry.TriangleMesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			m, err := loadGLTFPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("while reading mesh %d primitive %d: %w", mi, pi, err)
			}
			local[mi] = append(local[mi], m)
		}
	}

	var roots []int
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		roots = doc.Scenes[*doc.Scene].Nodes
	} else {
		// No default scene: collect all parentless nodes
		hasParent := make([]bool, len(doc.Nodes))
		for _, gn := range doc.Nodes {
			for _, c := range gn.Children {
				if c < len(hasParent) {
					hasParent[c] = true
				}
			}
		}
		for i := range doc.Nodes {
			if !hasParent[i] {
				roots = append(roots, i)
			}
		}
	}

	var meshes []*geometry.TriangleMesh
	var visit func(node int, parent mgl64.Mat4, depth int) error
	visit = func(node int, parent mgl64.Mat4, depth int) error {
		if node < 0 || node >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", node)
		}
		if depth > len(doc.Nodes) {
			return fmt.Errorf("node hierarchy has a cycle at node %d", node)
		}
		gn := doc.Nodes[node]
		world := parent.Mul4(nodeTransform(gn))

		if gn.Mesh != nil && *gn.Mesh < len(local) {
			normalMat := world.Mat3().Inv().Transpose()
			for _, m := range local[*gn.Mesh] {
				meshes = append(meshes, m.Transform(
					func(p core.Vec3) core.Vec3 {
						v := world.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
						return core.NewVec3(v[0], v[1], v[2])
					},
					func(n core.Vec3) core.Vec3 {
						v := normalMat.Mul3x1(mgl64.Vec3{n.X, n.Y, n.Z})
						return core.NewVec3(v[0], v[1], v[2])
					},
				))
			}
		}
		for _, child := range gn.Children {
			if err := visit(child, world, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := visit(root, mgl64.Ident4(), 0); err != nil {
			return nil, err
		}
	}
	return meshes, nil
}

// nodeTransform composes the node's matrix with its translation, rotation and scale
func nodeTransform(gn *gltf.Node) mgl64.Mat4 {
	m := mgl64.Mat4(gn.MatrixOrDefault())
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	s := gn.ScaleOrDefault()
	rot := mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}.Normalize()
	trs := mgl64.Translate3D(t[0], t[1], t[2]).Mul4(rot.Mat4()).Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
	return m.Mul4(trs)
}

// loadGLTFPrimitive converts one glTF mesh primitive into a local space triangle mesh
func loadGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*geometry.TriangleMesh, error) {
	// Positions are required
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	vertices := make([]core.Vec3, len(positions))
	for i, p := range positions {
		vertices[i] = core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))
	}

	var normals []core.Vec3
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		raw, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		if len(raw) == len(vertices) {
			normals = make([]core.Vec3, len(raw))
			for i, n := range raw {
				normals[i] = core.NewVec3(float64(n[0]), float64(n[1]), float64(n[2]))
			}
		}
	}

	var uvs []core.Vec2
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		raw, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("texture coordinates: %w", err)
		}
		if len(raw) == len(vertices) {
			uvs = make([]core.Vec2, len(raw))
			for i, uv := range raw {
				uvs[i] = core.NewVec2(float64(uv[0]), float64(uv[1]))
			}
		}
	}

	var indices []int
	if prim.Indices != nil {
		raw, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		indices = make([]int, len(raw))
		for i, idx := range raw {
			indices[i] = int(idx)
		}
	} else {
		// Non-indexed geometry lists every triangle's vertices in order
		indices = make([]int, len(vertices))
		for i := range indices {
			indices[i] = i
		}
	}

	return geometry.NewTriangleMesh(vertices, indices, normals, uvs)
}
