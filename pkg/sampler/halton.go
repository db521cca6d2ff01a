package sampler

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

const (
	// haltonMaxResolution bounds the pixel grid the first two dimensions tile
	haltonMaxResolution = 128
	// arrayStartDim is the first dimension used for requested sample arrays
	arrayStartDim = 5
)

// HaltonSampler draws every pixel sample from one global Halton sequence.
// The first two dimensions (bases 2 and 3) are scaled so consecutive runs of
// the sequence tile a block of pixels exactly, and higher dimensions use
// scrambled radical inverses with fixed per-base digit permutations.
type HaltonSampler struct {
	baseSampler
	sampleBounds core.Bounds2i

	baseScales    [2]int64
	baseExponents [2]int
	sampleStride  int64
	multInverse   [2]int64

	pixelForOffset        core.Point2i
	offsetForCurrentPixel int64
	hasOffset             bool

	dimension           int
	intervalSampleIndex int64
	arrayEndDim         int
}

// NewHaltonSampler creates a Halton sampler for the given sample bounds
func NewHaltonSampler(samplesPerPixel int, sampleBounds core.Bounds2i) *HaltonSampler {
	s := &HaltonSampler{
		baseSampler:  newBaseSampler(int64(samplesPerPixel)),
		sampleBounds: sampleBounds,
	}
	res := [2]int{sampleBounds.Width(), sampleBounds.Height()}
	for i, base := range [2]int64{2, 3} {
		scale, exp := int64(1), 0
		for scale < int64(min(res[i], haltonMaxResolution)) {
			scale *= base
			exp++
		}
		s.baseScales[i] = scale
		s.baseExponents[i] = exp
	}
	s.sampleStride = s.baseScales[0] * s.baseScales[1]
	s.multInverse[0] = multiplicativeInverse(s.baseScales[1], s.baseScales[0])
	s.multInverse[1] = multiplicativeInverse(s.baseScales[0], s.baseScales[1])
	return s
}

// indexForSample maps sample sampleNum of the current pixel to its global sequence index
func (s *HaltonSampler) indexForSample(sampleNum int64) int64 {
	if !s.hasOffset || s.currentPixel != s.pixelForOffset {
		s.offsetForCurrentPixel = 0
		if s.sampleStride > 1 {
			pm := [2]int64{
				mod(int64(s.currentPixel.X), haltonMaxResolution),
				mod(int64(s.currentPixel.Y), haltonMaxResolution),
			}
			for i, base := range [2]uint64{2, 3} {
				dimOffset := int64(InverseRadicalInverse(base, uint64(pm[i]), s.baseExponents[i]))
				s.offsetForCurrentPixel += dimOffset * (s.sampleStride / s.baseScales[i]) * s.multInverse[i]
			}
			s.offsetForCurrentPixel %= s.sampleStride
		}
		s.pixelForOffset = s.currentPixel
		s.hasOffset = true
	}
	return s.offsetForCurrentPixel + sampleNum*s.sampleStride
}

// sampleDimension returns dimension dim of the sequence point at index
func (s *HaltonSampler) sampleDimension(index int64, dim int) float64 {
	switch dim {
	case 0:
		return RadicalInverse(0, uint64(index)>>s.baseExponents[0])
	case 1:
		return RadicalInverse(1, uint64(index/s.baseScales[1]))
	default:
		return ScrambledRadicalInverse(dim, uint64(index), PermutationForDimension(dim))
	}
}

func (s *HaltonSampler) StartPixel(p core.Point2i) {
	s.baseSampler.StartPixel(p)
	s.dimension = 0
	s.intervalSampleIndex = s.indexForSample(0)
	s.arrayEndDim = arrayStartDim + len(s.sampleArray1D) + 2*len(s.sampleArray2D)

	for i, count := range s.samples1DArraySizes {
		n := int64(count) * s.samplesPerPixel
		for j := int64(0); j < n; j++ {
			index := s.indexForSample(j)
			s.sampleArray1D[i][j] = s.sampleDimension(index, arrayStartDim+i)
		}
	}

	dim := arrayStartDim + len(s.samples1DArraySizes)
	for i, count := range s.samples2DArraySizes {
		n := int64(count) * s.samplesPerPixel
		for j := int64(0); j < n; j++ {
			index := s.indexForSample(j)
			s.sampleArray2D[i][j] = core.NewVec2(s.sampleDimension(index, dim), s.sampleDimension(index, dim+1))
		}
		dim += 2
	}
}

func (s *HaltonSampler) StartNextSample() bool {
	s.dimension = 0
	s.intervalSampleIndex = s.indexForSample(s.currentPixelSampleIndex + 1)
	return s.baseSampler.StartNextSample()
}

func (s *HaltonSampler) SetSampleNumber(n int64) bool {
	s.dimension = 0
	s.intervalSampleIndex = s.indexForSample(n)
	return s.baseSampler.SetSampleNumber(n)
}

// skipArrayDimensions jumps over the dimensions reserved for sample arrays
func (s *HaltonSampler) skipArrayDimensions() {
	if s.dimension >= arrayStartDim && s.dimension < s.arrayEndDim {
		s.dimension = s.arrayEndDim
	}
}

func (s *HaltonSampler) Get1D() float64 {
	s.skipArrayDimensions()
	v := s.sampleDimension(s.intervalSampleIndex, s.dimension)
	s.dimension++
	return v
}

func (s *HaltonSampler) Get2D() core.Vec2 {
	s.skipArrayDimensions()
	v := core.NewVec2(
		s.sampleDimension(s.intervalSampleIndex, s.dimension),
		s.sampleDimension(s.intervalSampleIndex, s.dimension+1),
	)
	s.dimension += 2
	return v
}

func (s *HaltonSampler) GetCameraSample(p core.Point2i) CameraSample {
	return cameraSample(s, p)
}

// Clone returns a fresh Halton sampler. The sequence is deterministic, so the seed is unused.
func (s *HaltonSampler) Clone(seed int64) Sampler {
	c := NewHaltonSampler(int(s.samplesPerPixel), s.sampleBounds)
	c.baseSampler = s.cloneBase()
	return c
}
