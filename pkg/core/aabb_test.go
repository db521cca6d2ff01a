package core

import (
	"math"
	"math/rand"
	"testing"
)

func intersectPFor(box AABB, r Ray) bool {
	invDir := NewVec3(1/r.Direction.X, 1/r.Direction.Y, 1/r.Direction.Z)
	dirIsNeg := [3]bool{invDir.X < 0, invDir.Y < 0, invDir.Z < 0}
	return box.IntersectP(r, invDir, dirIsNeg)
}

func TestAABB_IntersectP(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{"Straight hit", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"Miss to the side", NewRay(NewVec3(2, 0, -5), NewVec3(0, 0, 1)), false},
		{"Pointing away", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)), false},
		{"Origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 1, 0)), true},
		{"Short ray", Ray{Origin: NewVec3(0, 0, -5), Direction: NewVec3(0, 0, 1), TMax: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := intersectPFor(box, tt.ray); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

// slabHit is a per-axis reference slab test over [tMin, tMax]
func slabHit(box AABB, ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Component(axis)
		inv := 1 / ray.Direction.Component(axis)
		t0 := (box.Min.Component(axis) - origin) * inv
		t1 := (box.Max.Component(axis) - origin) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		t1 *= 1 + 2*Gamma(3)
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMin > tMax {
			return false
		}
	}
	return true
}

func TestAABB_IntersectPAgreesWithSlabTest(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	box := NewAABB(NewVec3(-1, -2, -0.5), NewVec3(2, 1, 0.5))
	for i := 0; i < 2000; i++ {
		origin := NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
		dir := UniformSampleSphere(NewVec2(random.Float64(), random.Float64()))
		r := NewRay(origin, dir)
		if got, want := intersectPFor(box, r), slabHit(box, r, 0, math.Inf(1)); got != want {
			t.Fatalf("Ray %v: IntersectP=%v, slab test=%v", r, got, want)
		}
	}
}

func TestAABB_UnionAndSurfaceArea(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(2, 0, 0), NewVec3(3, 2, 1))
	u := a.Union(b)
	if u.Min != NewVec3(0, 0, 0) || u.Max != NewVec3(3, 2, 1) {
		t.Errorf("Expected union [0,0,0]-[3,2,1], got %v", u)
	}
	if got := u.SurfaceArea(); got != 2*(3*2+2*1+3*1) {
		t.Errorf("Expected surface area 22, got %f", got)
	}
	if got := EmptyAABB().SurfaceArea(); got != 0 {
		t.Errorf("Expected empty box to have zero area, got %f", got)
	}
	if got := EmptyAABB().Union(a); got != a {
		t.Errorf("Expected empty union to be identity, got %v", got)
	}
	if got := u.LongestAxis(); got != 0 {
		t.Errorf("Expected longest axis 0, got %d", got)
	}
}

func TestAABB_Offset(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(2, 4, 8))
	if got := box.Offset(NewVec3(1, 1, 2)); got != NewVec3(0.5, 0.25, 0.25) {
		t.Errorf("Expected (0.5,0.25,0.25), got %v", got)
	}
}
