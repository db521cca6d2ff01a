package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that acts as the identity for Union
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, point := range points {
		box = box.UnionPoint(point)
	}
	return box
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// UnionPoint returns an AABB that bounds this AABB and a point
func (aabb AABB) UnionPoint(p Vec3) AABB {
	return AABB{Min: aabb.Min.Min(p), Max: aabb.Max.Max(p)}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB, zero for empty boxes
func (aabb AABB) SurfaceArea() float64 {
	if !aabb.IsValid() {
		return 0
	}
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0 // X axis
	}
	if size.Y > size.Z {
		return 1 // Y axis
	}
	return 2 // Z axis
}

// Offset returns the position of p relative to the box corners,
// 0 at Min and 1 at Max along each axis
func (aabb AABB) Offset(p Vec3) Vec3 {
	o := p.Subtract(aabb.Min)
	if aabb.Max.X > aabb.Min.X {
		o.X /= aabb.Max.X - aabb.Min.X
	}
	if aabb.Max.Y > aabb.Min.Y {
		o.Y /= aabb.Max.Y - aabb.Min.Y
	}
	if aabb.Max.Z > aabb.Min.Z {
		o.Z /= aabb.Max.Z - aabb.Min.Z
	}
	return o
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Contains reports whether p lies inside the box, boundary included
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// BoundingSphere returns the center and radius of a sphere enclosing the box
func (aabb AABB) BoundingSphere() (Vec3, float64) {
	if !aabb.IsValid() {
		return Vec3{}, 0
	}
	center := aabb.Center()
	return center, aabb.Max.Subtract(center).Length()
}

// bound returns the Min or Max coordinate of the box along one axis
func (aabb AABB) bound(axis int, useMax bool) float64 {
	if useMax {
		return aabb.Max.Component(axis)
	}
	return aabb.Min.Component(axis)
}

// IntersectP tests the ray segment [0, ray.TMax] against the box using the slab method.
// invDir holds the reciprocal direction components and dirIsNeg their signs.
// The far distances are scaled by 1+2*Gamma(3) so rounding never reports a false miss.
func (aabb AABB) IntersectP(ray Ray, invDir Vec3, dirIsNeg [3]bool) bool {
	tMin := (aabb.bound(0, dirIsNeg[0]) - ray.Origin.X) * invDir.X
	tMax := (aabb.bound(0, !dirIsNeg[0]) - ray.Origin.X) * invDir.X
	tyMin := (aabb.bound(1, dirIsNeg[1]) - ray.Origin.Y) * invDir.Y
	tyMax := (aabb.bound(1, !dirIsNeg[1]) - ray.Origin.Y) * invDir.Y

	tMax *= 1 + 2*Gamma(3)
	tyMax *= 1 + 2*Gamma(3)
	if tMin > tyMax || tyMin > tMax {
		return false
	}
	if tyMin > tMin {
		tMin = tyMin
	}
	if tyMax < tMax {
		tMax = tyMax
	}

	tzMin := (aabb.bound(2, dirIsNeg[2]) - ray.Origin.Z) * invDir.Z
	tzMax := (aabb.bound(2, !dirIsNeg[2]) - ray.Origin.Z) * invDir.Z
	tzMax *= 1 + 2*Gamma(3)
	if tMin > tzMax || tzMin > tMax {
		return false
	}
	if tzMin > tMin {
		tMin = tzMin
	}
	if tzMax < tMax {
		tMax = tzMax
	}
	return tMin < ray.TMax && tMax > 0
}
