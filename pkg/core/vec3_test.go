package core

import (
	"math"
	"testing"
)

func TestVec3_Cross(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected Vec3
	}{
		{"X cross Y", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(0, 0, 1)},
		{"Y cross Z", NewVec3(0, 1, 0), NewVec3(0, 0, 1), NewVec3(1, 0, 0)},
		{"Parallel", NewVec3(2, 0, 0), NewVec3(5, 0, 0), NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Expected zero vector, got %v", got)
	}
	if got := NewVec3(3, 4, 0).Normalize(); math.Abs(got.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", got.Length())
	}
}

func TestVec3_MaxDimension(t *testing.T) {
	tests := []struct {
		v        Vec3
		expected int
	}{
		{NewVec3(3, 1, 2), 0},
		{NewVec3(1, 3, 2), 1},
		{NewVec3(1, 2, 3), 2},
		{NewVec3(1, 1, 1), 2},
	}
	for _, tt := range tests {
		if got := tt.v.MaxDimension(); got != tt.expected {
			t.Errorf("MaxDimension(%v): expected %d, got %d", tt.v, tt.expected, got)
		}
	}
}

func TestVec3_InvalidChecks(t *testing.T) {
	if !NewVec3(math.NaN(), 0, 0).HasNaN() {
		t.Error("Expected NaN to be detected")
	}
	if !NewVec3(0, math.Inf(1), 0).HasInf() {
		t.Error("Expected Inf to be detected")
	}
	if NewVec3(1, 2, 3).HasNaN() || NewVec3(1, 2, 3).HasInf() {
		t.Error("Expected finite vector to pass checks")
	}
	if !(Vec3{}).IsBlack() || NewVec3(0, 1e-30, 0).IsBlack() {
		t.Error("IsBlack mismatch")
	}
}

func TestCoordinateSystem_Orthonormal(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(1, 0, 0),
		NewVec3(0, -1, 0),
		NewVec3(1, 2, 3).Normalize(),
		NewVec3(-0.3, 0.1, -0.9).Normalize(),
	}
	for _, n := range normals {
		s, u := CoordinateSystem(n)
		if math.Abs(s.Dot(n)) > 1e-12 || math.Abs(u.Dot(n)) > 1e-12 || math.Abs(s.Dot(u)) > 1e-12 {
			t.Errorf("Expected orthogonal basis for %v, got %v %v", n, s, u)
		}
		if math.Abs(s.Length()-1) > 1e-12 || math.Abs(u.Length()-1) > 1e-12 {
			t.Errorf("Expected unit basis vectors for %v", n)
		}
	}
}

func TestRay_At(t *testing.T) {
	r := NewRay(NewVec3(1, 0, 0), NewVec3(0, 2, 0))
	if got := r.At(1.5); got != NewVec3(1, 3, 0) {
		t.Errorf("Expected (1,3,0), got %v", got)
	}
	if !math.IsInf(r.TMax, 1) {
		t.Errorf("Expected unbounded ray, got TMax %f", r.TMax)
	}
}

func TestInteraction_SpawnRayToStopsShort(t *testing.T) {
	it := Interaction{P: NewVec3(0, 0, 0), N: NewVec3(0, 1, 0)}
	target := NewVec3(0, 5, 0)
	r := it.SpawnRayTo(target)
	if r.Origin.Y <= 0 {
		t.Errorf("Expected origin offset above the surface, got %v", r.Origin)
	}
	end := r.At(r.TMax)
	if end.Y >= target.Y {
		t.Errorf("Expected ray to stop before target, ends at %v", end)
	}

	below := it.SpawnRay(NewVec3(0, -1, 0))
	if below.Origin.Y >= 0 {
		t.Errorf("Expected origin offset below the surface for a downward ray, got %v", below.Origin)
	}
}
