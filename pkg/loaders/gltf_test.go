package loaders

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// triangleDocument builds a document with one triangle instanced by a translated parent
// node and a rotated child node
func triangleDocument() *gltf.Document {
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: map[string]int{"POSITION": positions},
		}},
	}}

	// 90 degrees about +Z
	s := math.Sqrt(0.5)
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Mesh: gltf.Index(0), Translation: [3]float64{0, 0, 5}, Children: []int{1}},
		{Name: "child", Mesh: gltf.Index(0), Rotation: [4]float64{0, 0, s, s}},
	}
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

func vecNear(a, b core.Vec3) bool {
	return a.Subtract(b).Length() < 1e-6
}

func TestMeshesFromGLTFAppliesNodeTransforms(t *testing.T) {
	meshes, err := MeshesFromGLTF(triangleDocument())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("Expected 2 mesh instances, got %d", len(meshes))
	}

	parent := meshes[0].Vertices
	if !vecNear(parent[1], core.NewVec3(1, 0, 5)) {
		t.Errorf("Expected translated vertex (1, 0, 5), got %v", parent[1])
	}

	// Child inherits the translation and rotates +X onto +Y
	child := meshes[1].Vertices
	if !vecNear(child[1], core.NewVec3(0, 1, 5)) {
		t.Errorf("Expected rotated vertex (0, 1, 5), got %v", child[1])
	}
	if meshes[0].NumTriangles() != 1 || meshes[1].NumTriangles() != 1 {
		t.Errorf("Expected one triangle per instance")
	}
}

func TestLoadGLTFRoundTripsThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.Save(triangleDocument(), path); err != nil {
		t.Fatalf("Failed to save glTF: %v", err)
	}
	meshes, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("Expected 2 mesh instances, got %d", len(meshes))
	}
	area := meshes[0].Triangles()[0].Area()
	if math.Abs(area-0.5) > 1e-6 {
		t.Errorf("Expected area 0.5, got %g", area)
	}
}

func TestLoadGLTFMissingFile(t *testing.T) {
	if _, err := LoadGLTF(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
