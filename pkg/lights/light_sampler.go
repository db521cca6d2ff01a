package lights

import (
	"fmt"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// LightSampler chooses one light per direct lighting estimate
type LightSampler interface {
	// Sample returns a light and the probability it was chosen, or nil when there are no lights
	Sample(u float64) (Light, float64)
	// Pmf returns the probability of choosing l
	Pmf(l Light) float64
	Count() int
}

// DistributionLightSampler picks lights from a fixed discrete distribution
type DistributionLightSampler struct {
	lights  []Light
	distrib *core.Distribution1D
	index   map[Light]int
}

// NewWeightedLightSampler picks lights with probability proportional to weights.
// Weights must match the order of lights; all-zero weights pick uniformly.
func NewWeightedLightSampler(lights []Light, weights []float64) (*DistributionLightSampler, error) {
	if len(lights) != len(weights) {
		return nil, fmt.Errorf("got %d weights for %d lights", len(weights), len(lights))
	}
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("weight %d is negative: %g", i, w)
		}
	}
	index := make(map[Light]int, len(lights))
	for i, l := range lights {
		index[l] = i
	}
	return &DistributionLightSampler{
		lights:  lights,
		distrib: core.NewDistribution1D(weights),
		index:   index,
	}, nil
}

// NewUniformLightSampler gives every light the same probability
func NewUniformLightSampler(lights []Light) *DistributionLightSampler {
	ls, _ := NewWeightedLightSampler(lights, make([]float64, len(lights)))
	return ls
}

// NewPowerLightSampler picks lights in proportion to the luminance of their power
func NewPowerLightSampler(lights []Light) *DistributionLightSampler {
	weights := make([]float64, len(lights))
	for i, l := range lights {
		weights[i] = max(0, l.Power().Luminance())
	}
	ls, _ := NewWeightedLightSampler(lights, weights)
	return ls
}

// NewLightSampler creates a sampler by strategy name: "uniform" or "power" (the default)
func NewLightSampler(strategy string, lights []Light) (*DistributionLightSampler, error) {
	switch strings.ToLower(strategy) {
	case "", "power":
		return NewPowerLightSampler(lights), nil
	case "uniform":
		return NewUniformLightSampler(lights), nil
	}
	return nil, fmt.Errorf("unknown light strategy %q", strategy)
}

func (ls *DistributionLightSampler) Sample(u float64) (Light, float64) {
	i, pmf, _ := ls.distrib.SampleDiscrete(u)
	if i < 0 || pmf == 0 {
		return nil, 0
	}
	return ls.lights[i], pmf
}

func (ls *DistributionLightSampler) Pmf(l Light) float64 {
	i, ok := ls.index[l]
	if !ok {
		return 0
	}
	return ls.distrib.DiscretePDF(i)
}

func (ls *DistributionLightSampler) Count() int {
	return len(ls.lights)
}
