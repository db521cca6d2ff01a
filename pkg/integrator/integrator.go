package integrator

import (
	"fmt"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/sampler"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Preprocess runs once per render, before the sampler is cloned for the workers.
	// Integrators that need sample arrays request them here.
	Preprocess(sc *scene.Scene, s sampler.Sampler)

	// Li returns the radiance arriving along ray. BSDFs are allocated from arena,
	// which the caller resets between samples.
	Li(ray core.Ray, sc *scene.Scene, s sampler.Sampler, arena *material.Arena, depth int) core.Vec3
}

// New creates an integrator by name: "path" (the default), "direct" or "direct-one"
func New(config scene.SamplingConfig) (Integrator, error) {
	switch strings.ToLower(config.Integrator) {
	case "", "path":
		return NewPathIntegrator(config), nil
	case "direct":
		return NewDirectLightingIntegrator(SampleAll, config.MaxDepth), nil
	case "direct-one":
		return NewDirectLightingIntegrator(SampleOne, config.MaxDepth), nil
	}
	return nil, fmt.Errorf("unknown integrator %q", config.Integrator)
}

// UniformSampleOneLight estimates direct lighting at si from a single light chosen by the
// scene's light sampler. The estimate is divided by the probability of the choice.
func UniformSampleOneLight(si *material.SurfaceInteraction, sc *scene.Scene, s sampler.Sampler) core.Vec3 {
	if sc.LightSampler == nil || sc.LightSampler.Count() == 0 {
		return core.Vec3{}
	}
	// Draw every dimension up front so each sample consumes the same number
	uChoice := s.Get1D()
	uLight := s.Get2D()
	uScattering := s.Get2D()

	light, pmf := sc.LightSampler.Sample(uChoice)
	if light == nil || pmf == 0 {
		return core.Vec3{}
	}
	return EstimateDirect(si, uScattering, light, uLight, sc, false).Divide(pmf)
}

// UniformSampleAllLights loops over every light, taking nLightSamples[i] samples of light i
// from the sampler's 2D arrays. Lights without a reserved array fall back to single samples.
func UniformSampleAllLights(si *material.SurfaceInteraction, sc *scene.Scene, s sampler.Sampler, nLightSamples []int) core.Vec3 {
	var L core.Vec3
	for i, light := range sc.Lights {
		n := 1
		if i < len(nLightSamples) {
			n = nLightSamples[i]
		}
		uLightArray := s.Get2DArray(n)
		uScatteringArray := s.Get2DArray(n)
		if uLightArray == nil || uScatteringArray == nil {
			uLight := s.Get2D()
			uScattering := s.Get2D()
			L = L.Add(EstimateDirect(si, uScattering, light, uLight, sc, false))
			continue
		}

		var Ld core.Vec3
		for k := 0; k < n; k++ {
			Ld = Ld.Add(EstimateDirect(si, uScatteringArray[k], light, uLightArray[k], sc, false))
		}
		L = L.Add(Ld.Divide(float64(n)))
	}
	return L
}

// EstimateDirect returns the radiance reflected at si from light, combining a light sample
// and a BSDF sample with the power heuristic. Delta lights take the light sample alone.
// Specular lobes are skipped unless handleSpecular is set.
func EstimateDirect(si *material.SurfaceInteraction, uScattering core.Vec2, light lights.Light, uLight core.Vec2, sc *scene.Scene, handleSpecular bool) core.Vec3 {
	flags := material.BSDFAll
	if !handleSpecular {
		flags &^= material.BSDFSpecular
	}
	ns := si.Shading.N
	isDelta := lights.IsDeltaLight(light)

	var Ld core.Vec3

	// Sample the light
	Li, wi, lightPdf, vis := light.SampleLi(si.Interaction, uLight)
	if lightPdf > 0 && !Li.IsBlack() {
		f := si.BSDF.F(si.Wo, wi, flags).Multiply(wi.AbsDot(ns))
		scatteringPdf := si.BSDF.Pdf(si.Wo, wi, flags)
		if !f.IsBlack() && vis.Unoccluded(sc) {
			weight := 1.0
			if !isDelta {
				weight = core.PowerHeuristic(1, lightPdf, 1, scatteringPdf)
			}
			Ld = Ld.Add(f.MultiplyVec(Li).Multiply(weight / lightPdf))
		}
	}

	if isDelta {
		return Ld
	}

	// Sample the BSDF
	f, wiB, scatteringPdf, sampledType := si.BSDF.SampleF(si.Wo, uScattering, flags)
	f = f.Multiply(wiB.AbsDot(ns))
	if f.IsBlack() || scatteringPdf == 0 {
		return Ld
	}

	weight := 1.0
	if !sampledType.IsSpecular() {
		pdf := light.PdfLi(si.Interaction, wiB)
		if pdf == 0 {
			return Ld
		}
		weight = core.PowerHeuristic(1, scatteringPdf, 1, pdf)
	}

	ray := si.SpawnRay(wiB)
	var hit material.SurfaceInteraction
	var LiB core.Vec3
	if sc.Intersect(&ray, &hit) {
		if isEmitter(&hit, light) {
			LiB = hit.Le(wiB.Negate())
		}
	} else {
		LiB = light.Le(ray)
	}
	if !LiB.IsBlack() {
		Ld = Ld.Add(f.MultiplyVec(LiB).Multiply(weight / scatteringPdf))
	}
	return Ld
}

// isEmitter reports whether the surface at si is the emitting side of light
func isEmitter(si *material.SurfaceInteraction, light lights.Light) bool {
	area, ok := light.(material.AreaLight)
	if !ok || si.Primitive == nil {
		return false
	}
	return si.Primitive.GetAreaLight() == area
}
