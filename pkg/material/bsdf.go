package material

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// MaxBxDFs is the most lobes a single BSDF can hold
const MaxBxDFs = 8

// BSDF combines up to MaxBxDFs lobes at one surface point and converts
// between world space and the local shading frame
type BSDF struct {
	Eta float64 // Relative index of refraction across the boundary, 1 for opaque surfaces

	ns, ng core.Vec3
	ss, ts core.Vec3
	nBxDFs int
	bxdfs  [MaxBxDFs]BxDF
}

// NewBSDF builds the shading frame from the interaction's shading normal and dpdu
func NewBSDF(si *SurfaceInteraction, eta float64) BSDF {
	ns := si.Shading.N
	// Remove any component along ns so the frame stays orthonormal
	ss := si.Shading.Dpdu.Subtract(ns.Multiply(ns.Dot(si.Shading.Dpdu))).Normalize()
	if ss.IsBlack() {
		ss, _ = core.CoordinateSystem(ns)
	}
	return BSDF{
		Eta: eta,
		ns:  ns,
		ng:  si.N,
		ss:  ss,
		ts:  ns.Cross(ss),
	}
}

// Add appends a lobe. Exceeding MaxBxDFs is a programming error.
func (b *BSDF) Add(bxdf BxDF) {
	if b.nBxDFs == MaxBxDFs {
		panic(fmt.Sprintf("material: BSDF holds at most %d lobes", MaxBxDFs))
	}
	b.bxdfs[b.nBxDFs] = bxdf
	b.nBxDFs++
}

// NumComponents counts the lobes allowed by flags
func (b *BSDF) NumComponents(flags BxDFType) int {
	n := 0
	for i := 0; i < b.nBxDFs; i++ {
		if b.bxdfs[i].Type().Matches(flags) {
			n++
		}
	}
	return n
}

// WorldToLocal expresses v in the shading frame
func (b *BSDF) WorldToLocal(v core.Vec3) core.Vec3 {
	return core.NewVec3(v.Dot(b.ss), v.Dot(b.ts), v.Dot(b.ns))
}

// LocalToWorld expresses a shading-frame vector in world space
func (b *BSDF) LocalToWorld(v core.Vec3) core.Vec3 {
	return b.ss.Multiply(v.X).Add(b.ts.Multiply(v.Y)).Add(b.ns.Multiply(v.Z))
}

// ShadingNormal returns the normal of the shading frame
func (b *BSDF) ShadingNormal() core.Vec3 {
	return b.ns
}

// isReflection classifies a direction pair using the geometric normal
func (b *BSDF) isReflection(woW, wiW core.Vec3) bool {
	return wiW.Dot(b.ng)*woW.Dot(b.ng) > 0
}

// sumF adds the lobes matching flags and the reflect/transmit class of the pair
func (b *BSDF) sumF(wo, wi core.Vec3, reflect bool, flags BxDFType) core.Vec3 {
	var f core.Vec3
	for i := 0; i < b.nBxDFs; i++ {
		bx := b.bxdfs[i]
		t := bx.Type()
		if !t.Matches(flags) {
			continue
		}
		if (reflect && t&BSDFReflection != 0) || (!reflect && t&BSDFTransmission != 0) {
			f = f.Add(bx.F(wo, wi))
		}
	}
	return f
}

// F evaluates the BSDF for a pair of world-space directions
func (b *BSDF) F(woW, wiW core.Vec3, flags BxDFType) core.Vec3 {
	wo, wi := b.WorldToLocal(woW), b.WorldToLocal(wiW)
	if wo.Z == 0 {
		return core.Vec3{}
	}
	return b.sumF(wo, wi, b.isReflection(woW, wiW), flags)
}

// SampleF picks one matching lobe with u.X, samples it and returns the BSDF value,
// the world-space wi, its pdf and the sampled lobe type. Invalid samples come back
// with zero value and zero pdf.
func (b *BSDF) SampleF(woW core.Vec3, u core.Vec2, flags BxDFType) (core.Vec3, core.Vec3, float64, BxDFType) {
	matching := b.NumComponents(flags)
	if matching == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}
	comp := min(int(math.Floor(u.X*float64(matching))), matching-1)

	var bxdf BxDF
	count := comp
	for i := 0; i < b.nBxDFs; i++ {
		if b.bxdfs[i].Type().Matches(flags) {
			if count == 0 {
				bxdf = b.bxdfs[i]
				break
			}
			count--
		}
	}

	// Reuse u.X inside the chosen lobe
	uRemapped := core.NewVec2(min(u.X*float64(matching)-float64(comp), core.OneMinusEpsilon), u.Y)

	wo := b.WorldToLocal(woW)
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}
	f, wi, pdf, sampledType := bxdf.SampleF(wo, uRemapped)
	if pdf == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}
	wiW := b.LocalToWorld(wi)

	// One-sample MIS over the matching lobes
	if !bxdf.Type().IsSpecular() && matching > 1 {
		for i := 0; i < b.nBxDFs; i++ {
			if b.bxdfs[i] != bxdf && b.bxdfs[i].Type().Matches(flags) {
				pdf += b.bxdfs[i].Pdf(wo, wi)
			}
		}
	}
	if matching > 1 {
		pdf /= float64(matching)
	}

	if !bxdf.Type().IsSpecular() && matching > 1 {
		f = b.sumF(wo, wi, b.isReflection(woW, wiW), flags)
	}
	return f, wiW, pdf, sampledType
}

// Pdf returns the density SampleF chooses wiW with
func (b *BSDF) Pdf(woW, wiW core.Vec3, flags BxDFType) float64 {
	matching := b.NumComponents(flags)
	if matching == 0 {
		return 0
	}
	wo, wi := b.WorldToLocal(woW), b.WorldToLocal(wiW)
	if wo.Z == 0 {
		return 0
	}
	pdf := 0.0
	for i := 0; i < b.nBxDFs; i++ {
		if b.bxdfs[i].Type().Matches(flags) {
			pdf += b.bxdfs[i].Pdf(wo, wi)
		}
	}
	return pdf / float64(matching)
}
