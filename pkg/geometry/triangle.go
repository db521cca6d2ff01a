package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Triangle is one face of a TriangleMesh
type Triangle struct {
	mesh  *TriangleMesh
	index int // Offset of the first vertex index in mesh.Indices
}

func (t *Triangle) vertexIndices() (int, int, int) {
	idx := t.mesh.Indices[t.index : t.index+3]
	return idx[0], idx[1], idx[2]
}

func (t *Triangle) vertices() (core.Vec3, core.Vec3, core.Vec3) {
	i0, i1, i2 := t.vertexIndices()
	return t.mesh.Vertices[i0], t.mesh.Vertices[i1], t.mesh.Vertices[i2]
}

func (t *Triangle) uvs() (core.Vec2, core.Vec2, core.Vec2) {
	if t.mesh.UVs == nil {
		return core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(1, 1)
	}
	i0, i1, i2 := t.vertexIndices()
	return t.mesh.UVs[i0], t.mesh.UVs[i1], t.mesh.UVs[i2]
}

// hit runs Möller-Trumbore and returns t with the barycentrics of v1 and v2
func (t *Triangle) hit(r core.Ray) (float64, float64, float64, bool) {
	const epsilon = 1e-12

	p0, p1, p2 := t.vertices()
	edge1 := p1.Subtract(p0)
	edge2 := p2.Subtract(p0)

	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	// Ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := r.Origin.Subtract(p0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	tHit := f * edge2.Dot(q)
	if tHit <= 0 || tHit >= r.TMax {
		return 0, 0, 0, false
	}
	return tHit, u, v, true
}

// Intersect implements the Shape interface
func (t *Triangle) Intersect(r core.Ray) (float64, material.SurfaceInteraction, bool) {
	tHit, b1, b2, ok := t.hit(r)
	if !ok {
		return 0, material.SurfaceInteraction{}, false
	}
	b0 := 1 - b1 - b2

	p0, p1, p2 := t.vertices()
	uv0, uv1, uv2 := t.uvs()

	// Partial derivatives from the uv parameterization
	duv02, duv12 := uv0.Subtract(uv2), uv1.Subtract(uv2)
	dp02, dp12 := p0.Subtract(p2), p1.Subtract(p2)
	n := dp02.Cross(dp12).Normalize()

	var dpdu, dpdv core.Vec3
	determinant := duv02.X*duv12.Y - duv02.Y*duv12.X
	if math.Abs(determinant) < 1e-12 {
		dpdu, dpdv = core.CoordinateSystem(n)
	} else {
		invDet := 1 / determinant
		dpdu = dp02.Multiply(duv12.Y).Subtract(dp12.Multiply(duv02.Y)).Multiply(invDet)
		dpdv = dp12.Multiply(duv02.X).Subtract(dp02.Multiply(duv12.X)).Multiply(invDet)
	}

	pHit := p0.Multiply(b0).Add(p1.Multiply(b1)).Add(p2.Multiply(b2))
	uvHit := uv0.Multiply(b0).Add(uv1.Multiply(b1)).Add(uv2.Multiply(b2))

	var ns core.Vec3
	if t.mesh.Normals != nil {
		i0, i1, i2 := t.vertexIndices()
		ns = t.mesh.Normals[i0].Multiply(b0).Add(t.mesh.Normals[i1].Multiply(b1)).Add(t.mesh.Normals[i2].Multiply(b2)).Normalize()
		if !ns.IsBlack() {
			// Vertex normals decide which side is the front
			n = n.FaceForward(ns)
		}
	}

	si := material.NewSurfaceInteraction(pHit, n, uvHit, r.Direction.Negate().Normalize(), dpdu, dpdv, tHit)
	if !ns.IsBlack() {
		si.SetShadingGeometry(ns, dpdu, dpdv)
	}
	return tHit, si, true
}

// IntersectP implements the Shape interface
func (t *Triangle) IntersectP(r core.Ray) bool {
	_, _, _, ok := t.hit(r)
	return ok
}

// WorldBound implements the Shape interface
func (t *Triangle) WorldBound() core.AABB {
	p0, p1, p2 := t.vertices()
	return core.NewAABBFromPoints(p0, p1, p2)
}

func (t *Triangle) Area() float64 {
	p0, p1, p2 := t.vertices()
	return 0.5 * p1.Subtract(p0).Cross(p2.Subtract(p0)).Length()
}

// Sample picks a point uniformly over the triangle
func (t *Triangle) Sample(u core.Vec2) (core.Interaction, float64) {
	b := core.UniformSampleTriangle(u)
	p0, p1, p2 := t.vertices()
	p := p0.Multiply(b.X).Add(p1.Multiply(b.Y)).Add(p2.Multiply(1 - b.X - b.Y))
	n := p1.Subtract(p0).Cross(p2.Subtract(p0)).Normalize()
	if t.mesh.Normals != nil {
		i0, i1, i2 := t.vertexIndices()
		ns := t.mesh.Normals[i0].Multiply(b.X).Add(t.mesh.Normals[i1].Multiply(b.Y)).Add(t.mesh.Normals[i2].Multiply(1 - b.X - b.Y))
		n = n.FaceForward(ns)
	}
	return core.Interaction{P: p, N: n}, 1 / t.Area()
}

func (t *Triangle) SampleFrom(ref core.Interaction, u core.Vec2) (core.Interaction, float64) {
	return sampleFromArea(t, ref, u)
}

func (t *Triangle) PdfFrom(ref core.Interaction, wi core.Vec3) float64 {
	return pdfFromArea(t, ref, wi)
}
