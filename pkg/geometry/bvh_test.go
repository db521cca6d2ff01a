package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func randomSpheres(random *rand.Rand, n int) []Primitive {
	prims := make([]Primitive, n)
	for i := range prims {
		center := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		prims[i] = NewGeometricPrimitive(NewSphere(center, 0.1+random.Float64()*0.5), nil, nil)
	}
	return prims
}

func randomTriangles(random *rand.Rand, n int) []Primitive {
	var vertices []core.Vec3
	var indices []int
	for i := 0; i < n; i++ {
		base := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		for j := 0; j < 3; j++ {
			offset := core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5)
			vertices = append(vertices, base.Add(offset))
			indices = append(indices, len(vertices)-1)
		}
	}
	mesh, err := NewTriangleMesh(vertices, indices, nil, nil)
	if err != nil {
		panic(err)
	}
	return NewPrimitives(mesh.Triangles(), nil)
}

func randomRay(random *rand.Rand) core.Ray {
	origin := core.NewVec3(random.Float64()*30-15, random.Float64()*30-15, random.Float64()*30-15)
	target := core.NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
	return core.NewRay(origin, target.Subtract(origin).Normalize())
}

func bruteForceIntersect(prims []Primitive, r core.Ray) (float64, Primitive, bool) {
	var closest Primitive
	for _, p := range prims {
		var si material.SurfaceInteraction
		if p.Intersect(&r, &si) {
			closest = p
		}
	}
	return r.TMax, closest, closest != nil
}

func TestBVHMatchesBruteForce(t *testing.T) {
	methods := []SplitMethod{SplitSAH, SplitMiddle, SplitEqualCounts}
	scenes := map[string]func(*rand.Rand, int) []Primitive{
		"spheres":   randomSpheres,
		"triangles": randomTriangles,
	}

	for name, build := range scenes {
		for _, method := range methods {
			t.Run(name+"/"+method.String(), func(t *testing.T) {
				random := rand.New(rand.NewSource(42))
				prims := build(random, 300)
				bvh := NewBVH(prims, 4, method)

				for i := 0; i < 2000; i++ {
					r := randomRay(random)
					wantT, wantPrim, wantHit := bruteForceIntersect(prims, r)

					bvhRay := r
					var si material.SurfaceInteraction
					gotHit := bvh.Intersect(&bvhRay, &si)
					if gotHit != wantHit {
						t.Fatalf("Ray %d: expected hit=%v, got %v", i, wantHit, gotHit)
					}
					if bvh.IntersectP(r) != wantHit {
						t.Fatalf("Ray %d: IntersectP disagrees with brute force (expected %v)", i, wantHit)
					}
					if !wantHit {
						continue
					}
					if math.Abs(bvhRay.TMax-wantT) > 1e-9 {
						t.Errorf("Ray %d: expected t=%g, got %g", i, wantT, bvhRay.TMax)
					}
					if si.Primitive != wantPrim {
						t.Errorf("Ray %d: BVH hit a different primitive than brute force", i)
					}
					if math.Abs(si.T-bvhRay.TMax) > 1e-12 {
						t.Errorf("Ray %d: interaction T %g does not match ray TMax %g", i, si.T, bvhRay.TMax)
					}
				}
			})
		}
	}
}

func TestBVHLeafStructure(t *testing.T) {
	for _, method := range []SplitMethod{SplitSAH, SplitMiddle, SplitEqualCounts} {
		t.Run(method.String(), func(t *testing.T) {
			random := rand.New(rand.NewSource(7))
			prims := randomSpheres(random, 500)
			bvh := NewBVH(prims, 4, method)

			ordered := bvh.Primitives()
			if len(ordered) != len(prims) {
				t.Fatalf("Expected %d primitives in leaf order, got %d", len(prims), len(ordered))
			}

			seen := make(map[Primitive]int)
			leafUnion := core.EmptyAABB()
			for _, node := range bvh.nodes {
				if node.NPrimitives == 0 {
					continue
				}
				leafUnion = leafUnion.Union(node.Bounds)
				for i := int(node.Offset); i < int(node.Offset)+int(node.NPrimitives); i++ {
					p := ordered[i]
					seen[p]++
					b := p.WorldBound()
					if !node.Bounds.Contains(b.Min) || !node.Bounds.Contains(b.Max) {
						t.Errorf("Leaf bound does not contain its primitive")
					}
				}
			}

			if len(seen) != len(prims) {
				t.Errorf("Expected %d distinct primitives in leaves, got %d", len(prims), len(seen))
			}
			for _, p := range prims {
				if seen[p] != 1 {
					t.Errorf("Expected primitive in exactly one leaf, found in %d", seen[p])
				}
			}
			if leafUnion != bvh.WorldBound() {
				t.Errorf("Expected union of leaf bounds %v to equal root bound %v", leafUnion, bvh.WorldBound())
			}

			stats := bvh.Stats()
			if stats.TotalNodes != len(bvh.nodes) {
				t.Errorf("Expected %d total nodes, got %d", len(bvh.nodes), stats.TotalNodes)
			}
			if stats.LeafNodes != stats.InteriorNodes+1 {
				t.Errorf("Expected a full binary tree, got %d leaves and %d interior nodes", stats.LeafNodes, stats.InteriorNodes)
			}
			if stats.Primitives != len(prims) {
				t.Errorf("Expected %d primitives, got %d", len(prims), stats.Primitives)
			}
		})
	}
}

func TestBVHInteriorChildrenInsideParent(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	bvh := NewBVH(randomTriangles(random, 200), 2, SplitSAH)

	for i, node := range bvh.nodes {
		if node.NPrimitives > 0 {
			continue
		}
		for _, child := range []int{i + 1, int(node.Offset)} {
			cb := bvh.nodes[child].Bounds
			if !node.Bounds.Contains(cb.Min) || !node.Bounds.Contains(cb.Max) {
				t.Errorf("Node %d: child %d bound escapes its parent", i, child)
			}
		}
	}
}

func TestBVHEmpty(t *testing.T) {
	bvh := NewBVH(nil, 4, SplitSAH)
	r := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	var si material.SurfaceInteraction
	if bvh.Intersect(&r, &si) {
		t.Error("Expected empty BVH to never hit")
	}
	if bvh.IntersectP(r) {
		t.Error("Expected empty BVH to never report occlusion")
	}
	if bvh.WorldBound().IsValid() {
		t.Error("Expected empty BVH to have an empty bound")
	}
	if bvh.Stats().TotalNodes != 0 {
		t.Errorf("Expected no nodes, got %d", bvh.Stats().TotalNodes)
	}
}

func TestBVHCoincidentCentroids(t *testing.T) {
	prims := make([]Primitive, 10)
	for i := range prims {
		prims[i] = NewGeometricPrimitive(NewSphere(core.NewVec3(0, 0, 0), float64(i+1)), nil, nil)
	}
	bvh := NewBVH(prims, 4, SplitSAH)

	stats := bvh.Stats()
	if stats.TotalNodes != 1 || stats.MaxLeafPrimitives != 10 {
		t.Errorf("Expected a single leaf with 10 primitives, got %+v", stats)
	}

	r := core.NewRay(core.NewVec3(0, 0, -20), core.NewVec3(0, 0, 1))
	var si material.SurfaceInteraction
	if !bvh.Intersect(&r, &si) {
		t.Fatal("Expected a hit")
	}
	if math.Abs(r.TMax-10) > 1e-9 {
		t.Errorf("Expected closest hit on the largest sphere at t=10, got %g", r.TMax)
	}
}

func TestBVHLargeDegenerateLeaf(t *testing.T) {
	const n = 70000
	prims := make([]Primitive, n)
	for i := range prims {
		prims[i] = NewGeometricPrimitive(NewSphere(core.NewVec3(0, 0, 0), float64(i+1)), nil, nil)
	}
	bvh := NewBVH(prims, 4, SplitSAH)

	total := 0
	for _, node := range bvh.nodes {
		total += int(node.NPrimitives)
	}
	if total != n {
		t.Errorf("Expected leaves to hold %d primitives, got %d", n, total)
	}

	r := core.NewRay(core.NewVec3(0, 0, -n-1), core.NewVec3(0, 0, 1))
	var si material.SurfaceInteraction
	if !bvh.Intersect(&r, &si) {
		t.Fatal("Expected a hit")
	}
	if math.Abs(r.TMax-1) > 1e-9 {
		t.Errorf("Expected closest hit on the outermost sphere at t=1, got %g", r.TMax)
	}
	if si.Primitive != prims[n-1] {
		t.Error("Expected the outermost sphere to be hit")
	}
}

func TestBVHDepthBoundedForExponentialSpacing(t *testing.T) {
	const n = 90
	prims := make([]Primitive, n)
	centers := make([]float64, n)
	for i := range prims {
		centers[i] = math.Ldexp(1e-9, i)
		prims[i] = NewGeometricPrimitive(NewSphere(core.NewVec3(centers[i], 0, 0), 0.25*centers[i]), nil, nil)
	}

	for _, method := range []SplitMethod{SplitSAH, SplitMiddle, SplitEqualCounts} {
		t.Run(method.String(), func(t *testing.T) {
			bvh := NewBVH(prims, 1, method)
			if depth := bvh.Stats().MaxDepth; depth > maxTraversalDepth {
				t.Errorf("Expected depth at most %d, got %d", maxTraversalDepth, depth)
			}

			along := core.NewRay(core.NewVec3(-1, 0, 0), core.NewVec3(1, 0, 0))
			_, _, wantHit := bruteForceIntersect(prims, along)
			var si material.SurfaceInteraction
			if got := bvh.Intersect(&along, &si); got != wantHit {
				t.Errorf("Expected hit=%v along the axis, got %v", wantHit, got)
			}

			for k, x := range centers {
				radius := 0.25 * x
				r := core.NewRay(core.NewVec3(x, 4*radius, 0), core.NewVec3(0, -1, 0))
				if !bvh.IntersectP(r) {
					t.Errorf("Sphere %d: expected occlusion", k)
				}
				var si material.SurfaceInteraction
				if !bvh.Intersect(&r, &si) {
					t.Errorf("Sphere %d: expected a hit", k)
					continue
				}
				if si.Primitive != prims[k] {
					t.Errorf("Sphere %d: hit a different primitive", k)
				}
				if math.Abs(r.TMax-3*radius) > 1e-6*radius {
					t.Errorf("Sphere %d: expected t=%g, got %g", k, 3*radius, r.TMax)
				}
			}
		})
	}
}

func TestBVHRespectsRayTMax(t *testing.T) {
	prims := []Primitive{NewGeometricPrimitive(NewSphere(core.NewVec3(0, 0, 5), 1), nil, nil)}
	bvh := NewBVH(prims, 4, SplitSAH)

	r := core.Ray{Origin: core.NewVec3(0, 0, 0), Direction: core.NewVec3(0, 0, 1), TMax: 3}
	if bvh.IntersectP(r) {
		t.Error("Expected no occlusion before TMax")
	}
	r.TMax = 4.5
	if !bvh.IntersectP(r) {
		t.Error("Expected occlusion when the sphere lies within TMax")
	}
}

func TestParseSplitMethod(t *testing.T) {
	tests := []struct {
		name    string
		want    SplitMethod
		wantErr bool
	}{
		{"", SplitSAH, false},
		{"sah", SplitSAH, false},
		{"SAH", SplitSAH, false},
		{"middle", SplitMiddle, false},
		{"equal", SplitEqualCounts, false},
		{"hlbvh", SplitSAH, true},
	}
	for _, tt := range tests {
		got, err := ParseSplitMethod(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSplitMethod(%q): expected error=%v, got %v", tt.name, tt.wantErr, err)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseSplitMethod(%q): expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestNthElement(t *testing.T) {
	random := rand.New(rand.NewSource(11))
	for trial := 0; trial < 50; trial++ {
		n := 1 + random.Intn(40)
		info := make([]bvhPrimitiveInfo, n)
		for i := range info {
			info[i].centroid = core.NewVec3(0, float64(random.Intn(10)), 0)
		}
		k := random.Intn(n)
		nthElement(info, k, 1)
		pivot := info[k].centroid.Y
		for i := 0; i < k; i++ {
			if info[i].centroid.Y > pivot {
				t.Fatalf("Trial %d: element %d (%g) before k exceeds pivot %g", trial, i, info[i].centroid.Y, pivot)
			}
		}
		for i := k + 1; i < n; i++ {
			if info[i].centroid.Y < pivot {
				t.Fatalf("Trial %d: element %d (%g) after k is below pivot %g", trial, i, info[i].centroid.Y, pivot)
			}
		}
	}
}
