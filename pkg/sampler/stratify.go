package sampler

import (
	"math/rand/v2"

	"github.com/df07/go-pathtracer/pkg/core"
)

// StratifiedSample1D fills samples with one value per stratum of [0,1)
func StratifiedSample1D(samples []float64, rng *rand.Rand, jitter bool) {
	invN := 1.0 / float64(len(samples))
	for i := range samples {
		delta := 0.5
		if jitter {
			delta = rng.Float64()
		}
		samples[i] = min((float64(i)+delta)*invN, core.OneMinusEpsilon)
	}
}

// StratifiedSample2D fills samples with one point per cell of an nx by ny grid
func StratifiedSample2D(samples []core.Vec2, nx, ny int, rng *rand.Rand, jitter bool) {
	dx, dy := 1.0/float64(nx), 1.0/float64(ny)
	i := 0
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			jx, jy := 0.5, 0.5
			if jitter {
				jx, jy = rng.Float64(), rng.Float64()
			}
			samples[i] = core.Vec2{
				X: min((float64(x)+jx)*dx, core.OneMinusEpsilon),
				Y: min((float64(y)+jy)*dy, core.OneMinusEpsilon),
			}
			i++
		}
	}
}

// LatinHypercube fills samples so that each axis, projected on its own,
// has exactly one sample per stratum
func LatinHypercube(samples []core.Vec2, rng *rand.Rand) {
	n := len(samples)
	invN := 1.0 / float64(n)
	for i := range samples {
		samples[i] = core.Vec2{
			X: min((float64(i)+rng.Float64())*invN, core.OneMinusEpsilon),
			Y: min((float64(i)+rng.Float64())*invN, core.OneMinusEpsilon),
		}
	}
	for i := 0; i < n; i++ {
		other := i + rng.IntN(n-i)
		samples[i].X, samples[other].X = samples[other].X, samples[i].X
	}
	for i := 0; i < n; i++ {
		other := i + rng.IntN(n-i)
		samples[i].Y, samples[other].Y = samples[other].Y, samples[i].Y
	}
}

// Shuffle randomly permutes samples with a Fisher-Yates shuffle
func Shuffle[T any](samples []T, rng *rand.Rand) {
	for i := range samples {
		other := i + rng.IntN(len(samples)-i)
		samples[i], samples[other] = samples[other], samples[i]
	}
}

// mixBits scrambles the bits of v so nearby inputs give unrelated outputs
func mixBits(v uint64) uint64 {
	v ^= v >> 31
	v *= 0x7fb5d329728ea185
	v ^= v >> 27
	v *= 0x81dadef4bc2dd44d
	v ^= v >> 33
	return v
}

// pixelSeed derives the generator state for one pixel from the sampler seed
func pixelSeed(seed int64, p core.Point2i) (uint64, uint64) {
	key := uint64(uint32(p.X))<<32 | uint64(uint32(p.Y))
	return mixBits(uint64(seed)), mixBits(key ^ mixBits(uint64(seed)+1))
}
