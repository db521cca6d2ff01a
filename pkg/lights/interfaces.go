package lights

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// LightFlags describes how a light can be sampled
type LightFlags int

const (
	LightDeltaPosition LightFlags = 1 << iota
	LightDeltaDirection
	LightArea
	LightInfinite
)

// Light is a source of emitted radiance
type Light interface {
	Flags() LightFlags

	// SampleLi samples a direction wi from ref towards the light. It returns the incident
	// radiance, wi, the solid angle density of wi and the segment that must be unoccluded.
	// Delta lights report a pdf of 1.
	SampleLi(ref core.Interaction, u core.Vec2) (core.Vec3, core.Vec3, float64, VisibilityTester)

	// PdfLi is the density SampleLi would choose wi with. Always 0 for delta lights.
	PdfLi(ref core.Interaction, wi core.Vec3) float64

	// Power returns the total emitted power
	Power() core.Vec3

	// Le returns the radiance carried by a ray that escapes the scene
	Le(r core.Ray) core.Vec3

	// Preprocess lets the light size itself to the scene
	Preprocess(worldBound core.AABB)
}

// IsDeltaLight reports whether l can only be reached by explicit sampling
func IsDeltaLight(l Light) bool {
	flags := l.Flags()
	return flags&LightDeltaPosition != 0 || flags&LightDeltaDirection != 0
}

// Occluder answers shadow-ray queries
type Occluder interface {
	IntersectP(r core.Ray) bool
}

// VisibilityTester is the segment between a shading point and a sampled light point
type VisibilityTester struct {
	P0, P1 core.Interaction
}

// Unoccluded reports whether nothing blocks the segment
func (v VisibilityTester) Unoccluded(scene Occluder) bool {
	return !scene.IntersectP(v.P0.SpawnRayToInteraction(v.P1))
}

// worldBounds holds the bounding sphere of the scene for lights at infinity
type worldBounds struct {
	worldCenter core.Vec3
	worldRadius float64
}

func (w *worldBounds) Preprocess(worldBound core.AABB) {
	w.worldCenter, w.worldRadius = worldBound.BoundingSphere()
}
