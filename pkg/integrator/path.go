package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/sampler"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// DefaultRussianRouletteMinBounces is the number of bounces a path always survives.
// Russian roulette first runs after the bounce following them.
const DefaultRussianRouletteMinBounces = 3

// minTerminationProbability keeps Russian roulette from running forever on bright paths
const minTerminationProbability = 0.05

// PathIntegrator implements unidirectional path tracing with next event estimation
type PathIntegrator struct {
	MaxDepth                  int
	RussianRouletteMinBounces int
}

// NewPathIntegrator creates a path integrator from the sampling configuration
func NewPathIntegrator(config scene.SamplingConfig) *PathIntegrator {
	minBounces := config.RussianRouletteMinBounces
	if minBounces <= 0 {
		minBounces = DefaultRussianRouletteMinBounces
	}
	return &PathIntegrator{
		MaxDepth:                  config.MaxDepth,
		RussianRouletteMinBounces: minBounces,
	}
}

func (p *PathIntegrator) Preprocess(sc *scene.Scene, s sampler.Sampler) {}

// Li traces one path. depth is the number of bounces already taken by the caller.
func (p *PathIntegrator) Li(r core.Ray, sc *scene.Scene, s sampler.Sampler, arena *material.Arena, depth int) core.Vec3 {
	var L core.Vec3
	beta := core.NewVec3(1, 1, 1)
	ray := r
	specularBounce := false

	for bounces := depth; ; {
		var si material.SurfaceInteraction
		found := sc.Intersect(&ray, &si)

		// Emission is only counted here when no light sample could have found it
		if bounces == depth || specularBounce {
			if found {
				L = L.Add(beta.MultiplyVec(si.Le(ray.Direction.Negate())))
			} else {
				for _, light := range sc.Lights {
					L = L.Add(beta.MultiplyVec(light.Le(ray)))
				}
			}
		}

		if !found || bounces >= p.MaxDepth {
			break
		}

		si.ComputeScatteringFunctions(arena, material.Radiance, true)
		if si.BSDF == nil {
			// Boundary without a surface: continue in the same direction, no bounce counted
			ray = si.SpawnRay(ray.Direction)
			continue
		}

		if si.BSDF.NumComponents(material.BSDFAll&^material.BSDFSpecular) > 0 {
			L = L.Add(beta.MultiplyVec(UniformSampleOneLight(&si, sc, s)))
		}

		f, wi, pdf, sampledType := si.BSDF.SampleF(si.Wo, s.Get2D(), material.BSDFAll)
		if f.IsBlack() || pdf == 0 {
			break
		}
		beta = beta.MultiplyVec(f).Multiply(wi.AbsDot(si.Shading.N) / pdf)
		specularBounce = sampledType.IsSpecular()
		ray = si.SpawnRay(wi)

		if p.rouletteActive(bounces - depth) {
			var survived bool
			beta, survived = russianRoulette(beta, s.Get1D())
			if !survived {
				break
			}
		}
		bounces++
	}
	return L
}

// rouletteActive reports whether a path that has completed bounce may be terminated
func (p *PathIntegrator) rouletteActive(bounce int) bool {
	return bounce > p.RussianRouletteMinBounces
}

// russianRoulette terminates a path with probability q = max(0.05, 1 - max(beta)) and
// boosts the survivors by 1/(1-q) so the estimate stays unbiased
func russianRoulette(beta core.Vec3, u float64) (core.Vec3, bool) {
	q := max(minTerminationProbability, 1-beta.MaxComponent())
	if u < q {
		return core.Vec3{}, false
	}
	return beta.Divide(1 - q), true
}
