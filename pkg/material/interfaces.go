package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// TransportMode tells a BSDF whether the path carries radiance from lights or
// importance from the camera. Refraction scales the two differently.
type TransportMode int

const (
	Radiance TransportMode = iota
	Importance
)

// Material builds the scattering functions for a surface hit
type Material interface {
	// ComputeScatteringFunctions sets si.BSDF. Lobes are allocated from arena.
	// A material that leaves si.BSDF nil marks a boundary rays pass straight through.
	ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool)
}

// AreaLight is the emission side of a primitive that glows
type AreaLight interface {
	// L returns the radiance leaving the point it in direction w
	L(it core.Interaction, w core.Vec3) core.Vec3
}

// Primitive is what a SurfaceInteraction points back to
type Primitive interface {
	GetMaterial() Material
	GetAreaLight() AreaLight
}

// Shading holds the frame used for shading, which may differ from the true geometry
type Shading struct {
	N    core.Vec3
	Dpdu core.Vec3
	Dpdv core.Vec3
}

// SurfaceInteraction contains information about a ray-surface intersection
type SurfaceInteraction struct {
	core.Interaction
	UV        core.Vec2 // Surface parameterization
	Dpdu      core.Vec3 // Partial derivative of position with respect to u
	Dpdv      core.Vec3 // Partial derivative of position with respect to v
	Shading   Shading
	T         float64   // Parameter t along the ray
	Primitive Primitive // Primitive that was hit
	BSDF      *BSDF     // Set by ComputeScatteringFunctions
}

// NewSurfaceInteraction creates an interaction with shading geometry equal to the true geometry.
// n is the outward geometric normal.
func NewSurfaceInteraction(p, n core.Vec3, uv core.Vec2, wo, dpdu, dpdv core.Vec3, t float64) SurfaceInteraction {
	return SurfaceInteraction{
		Interaction: core.Interaction{P: p, N: n, Wo: wo},
		UV:          uv,
		Dpdu:        dpdu,
		Dpdv:        dpdv,
		Shading:     Shading{N: n, Dpdu: dpdu, Dpdv: dpdv},
		T:           t,
	}
}

// SetShadingGeometry replaces the shading frame; the shading normal is flipped
// into the hemisphere of the geometric normal
func (si *SurfaceInteraction) SetShadingGeometry(ns, dpdus, dpdvs core.Vec3) {
	si.Shading = Shading{N: ns.Normalize().FaceForward(si.N), Dpdu: dpdus, Dpdv: dpdvs}
}

// ComputeScatteringFunctions asks the hit primitive's material for a BSDF
func (si *SurfaceInteraction) ComputeScatteringFunctions(arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	si.BSDF = nil
	if si.Primitive == nil {
		return
	}
	if m := si.Primitive.GetMaterial(); m != nil {
		m.ComputeScatteringFunctions(si, arena, mode, allowMultipleLobes)
	}
}

// Le returns the emitted radiance leaving the hit point in direction w
func (si *SurfaceInteraction) Le(w core.Vec3) core.Vec3 {
	if si.Primitive == nil {
		return core.Vec3{}
	}
	if area := si.Primitive.GetAreaLight(); area != nil {
		return area.L(si.Interaction, w)
	}
	return core.Vec3{}
}
