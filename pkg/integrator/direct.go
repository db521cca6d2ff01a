package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/sampler"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// LightStrategy selects how DirectLightingIntegrator visits the lights
type LightStrategy int

const (
	// SampleAll estimates every light at every hit
	SampleAll LightStrategy = iota
	// SampleOne estimates a single light chosen by the scene's light sampler
	SampleOne
)

// DirectLightingIntegrator computes direct illumination only, following perfect
// specular reflection and transmission up to MaxDepth
type DirectLightingIntegrator struct {
	Strategy     LightStrategy
	MaxDepth     int
	LightSamples int // samples per light with SampleAll

	nLightSamples []int
}

// NewDirectLightingIntegrator creates a direct lighting integrator taking one sample per light
func NewDirectLightingIntegrator(strategy LightStrategy, maxDepth int) *DirectLightingIntegrator {
	return &DirectLightingIntegrator{Strategy: strategy, MaxDepth: maxDepth, LightSamples: 1}
}

// Preprocess reserves two 2D arrays per light and per specular level for SampleAll
func (d *DirectLightingIntegrator) Preprocess(sc *scene.Scene, s sampler.Sampler) {
	if d.Strategy != SampleAll {
		return
	}
	n := max(1, d.LightSamples)
	d.nLightSamples = make([]int, len(sc.Lights))
	for i := range sc.Lights {
		d.nLightSamples[i] = s.RoundCount(n)
	}
	for depth := 0; depth < max(1, d.MaxDepth); depth++ {
		for _, count := range d.nLightSamples {
			s.Request2DArray(count)
			s.Request2DArray(count)
		}
	}
}

func (d *DirectLightingIntegrator) Li(ray core.Ray, sc *scene.Scene, s sampler.Sampler, arena *material.Arena, depth int) core.Vec3 {
	var L core.Vec3
	var si material.SurfaceInteraction
	if !sc.Intersect(&ray, &si) {
		for _, light := range sc.Lights {
			L = L.Add(light.Le(ray))
		}
		return L
	}

	si.ComputeScatteringFunctions(arena, material.Radiance, false)
	if si.BSDF == nil {
		return d.Li(si.SpawnRay(ray.Direction), sc, s, arena, depth)
	}

	L = L.Add(si.Le(si.Wo))
	if len(sc.Lights) > 0 {
		if d.Strategy == SampleAll {
			L = L.Add(UniformSampleAllLights(&si, sc, s, d.nLightSamples))
		} else {
			L = L.Add(UniformSampleOneLight(&si, sc, s))
		}
	}

	if depth+1 < d.MaxDepth {
		L = L.Add(d.specular(&si, sc, s, arena, depth, material.BSDFReflection))
		L = L.Add(d.specular(&si, sc, s, arena, depth, material.BSDFTransmission))
	}
	return L
}

// specular follows the perfectly specular lobe of the given kind one level deeper
func (d *DirectLightingIntegrator) specular(si *material.SurfaceInteraction, sc *scene.Scene, s sampler.Sampler, arena *material.Arena, depth int, kind material.BxDFType) core.Vec3 {
	ns := si.Shading.N
	f, wi, pdf, _ := si.BSDF.SampleF(si.Wo, s.Get2D(), kind|material.BSDFSpecular)
	cos := wi.AbsDot(ns)
	if pdf == 0 || f.IsBlack() || cos == 0 {
		return core.Vec3{}
	}
	Li := d.Li(si.SpawnRay(wi), sc, s, arena, depth+1)
	return f.MultiplyVec(Li).Multiply(cos / pdf)
}
