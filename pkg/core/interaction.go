package core

import "math"

// rayOffsetScale scales the origin offset applied to spawned rays
const rayOffsetScale = 1e-7

// Interaction is a point on a surface (or a light) together with its normal and
// the outgoing direction. A zero N marks a point not on any surface.
type Interaction struct {
	P  Vec3 // Position
	N  Vec3 // Geometric normal, zero for points in space
	Wo Vec3 // Outgoing direction, pointing away from the surface
}

// OffsetRayOrigin moves p off the surface with normal n, towards the side w points to
func OffsetRayOrigin(p, n, w Vec3) Vec3 {
	if n.IsBlack() {
		return p
	}
	scale := rayOffsetScale * (1 + max(math.Abs(p.X), math.Abs(p.Y), math.Abs(p.Z)))
	offset := n.Multiply(scale)
	if w.Dot(n) < 0 {
		offset = offset.Negate()
	}
	return p.Add(offset)
}

// SpawnRay starts a ray leaving the interaction in direction d
func (it Interaction) SpawnRay(d Vec3) Ray {
	return NewRay(OffsetRayOrigin(it.P, it.N, d), d)
}

// SpawnRayTo starts a ray towards p that stops just short of it
func (it Interaction) SpawnRayTo(p Vec3) Ray {
	origin := OffsetRayOrigin(it.P, it.N, p.Subtract(it.P))
	d := p.Subtract(origin)
	return Ray{Origin: origin, Direction: d, TMax: 1 - ShadowEpsilon}
}

// SpawnRayToInteraction starts a ray towards another interaction, offsetting both ends
func (it Interaction) SpawnRayToInteraction(other Interaction) Ray {
	origin := OffsetRayOrigin(it.P, it.N, other.P.Subtract(it.P))
	target := OffsetRayOrigin(other.P, other.N, origin.Subtract(other.P))
	d := target.Subtract(origin)
	return Ray{Origin: origin, Direction: d, TMax: 1 - ShadowEpsilon}
}

// IsSurface reports whether the interaction lies on a surface
func (it Interaction) IsSurface() bool {
	return !it.N.IsBlack()
}
