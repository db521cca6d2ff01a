package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Disc represents a circular disc in 3D space
type Disc struct {
	Center core.Vec3 // Center of the disc
	Normal core.Vec3 // Normal vector (pointing "up" from the disc)
	Radius float64   // Radius of the disc
	Right  core.Vec3 // Right vector (perpendicular to normal)
	Up     core.Vec3 // Up vector (perpendicular to normal and right)
}

// NewDisc creates a new disc
func NewDisc(center, normal core.Vec3, radius float64) *Disc {
	n := normal.Normalize()
	right, up := core.CoordinateSystem(n)
	return &Disc{
		Center: center,
		Normal: n,
		Radius: radius,
		Right:  right,
		Up:     up,
	}
}

func (d *Disc) hitT(r core.Ray) (float64, core.Vec3, bool) {
	denom := d.Normal.Dot(r.Direction)
	if denom == 0 {
		return 0, core.Vec3{}, false // Ray is parallel to disc
	}
	t := d.Normal.Dot(d.Center.Subtract(r.Origin)) / denom
	if t <= 0 || t >= r.TMax {
		return 0, core.Vec3{}, false
	}
	p := r.At(t)
	if p.Subtract(d.Center).LengthSquared() > d.Radius*d.Radius {
		return 0, core.Vec3{}, false
	}
	return t, p, true
}

// Intersect implements the Shape interface
func (d *Disc) Intersect(r core.Ray) (float64, material.SurfaceInteraction, bool) {
	t, p, ok := d.hitT(r)
	if !ok {
		return 0, material.SurfaceInteraction{}, false
	}
	offset := p.Subtract(d.Center)
	x, y := offset.Dot(d.Right), offset.Dot(d.Up)
	dist := math.Sqrt(x*x + y*y)
	phi := math.Atan2(y, x)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	uv := core.NewVec2(phi/(2*math.Pi), 1-dist/d.Radius)

	dpdu := d.Right.Multiply(-2 * math.Pi * y).Add(d.Up.Multiply(2 * math.Pi * x))
	dpdv := core.Vec3{}
	if dist > 0 {
		dpdv = d.Right.Multiply(x).Add(d.Up.Multiply(y)).Multiply(-d.Radius / dist)
	}
	if dpdu.IsBlack() {
		dpdu = d.Right
	}
	si := material.NewSurfaceInteraction(p, d.Normal, uv, r.Direction.Negate().Normalize(), dpdu, dpdv, t)
	return t, si, true
}

// IntersectP implements the Shape interface
func (d *Disc) IntersectP(r core.Ray) bool {
	_, _, ok := d.hitT(r)
	return ok
}

// WorldBound implements the Shape interface
func (d *Disc) WorldBound() core.AABB {
	// Extent along each axis is radius * sqrt(1 - n_axis^2)
	ext := core.NewVec3(
		d.Radius*math.Sqrt(max(0, 1-d.Normal.X*d.Normal.X)),
		d.Radius*math.Sqrt(max(0, 1-d.Normal.Y*d.Normal.Y)),
		d.Radius*math.Sqrt(max(0, 1-d.Normal.Z*d.Normal.Z)),
	)
	return core.NewAABB(d.Center.Subtract(ext), d.Center.Add(ext))
}

func (d *Disc) Area() float64 {
	return math.Pi * d.Radius * d.Radius
}

// Sample picks a point uniformly on the disc surface
func (d *Disc) Sample(u core.Vec2) (core.Interaction, float64) {
	pd := core.ConcentricSampleDisk(u)
	p := d.Center.Add(d.Right.Multiply(pd.X * d.Radius)).Add(d.Up.Multiply(pd.Y * d.Radius))
	return core.Interaction{P: p, N: d.Normal}, 1 / d.Area()
}

func (d *Disc) SampleFrom(ref core.Interaction, u core.Vec2) (core.Interaction, float64) {
	return sampleFromArea(d, ref, u)
}

func (d *Disc) PdfFrom(ref core.Interaction, wi core.Vec3) float64 {
	return pdfFromArea(d, ref, wi)
}
