package sampler

import (
	"math/rand/v2"

	"github.com/df07/go-pathtracer/pkg/core"
)

// DefaultSampledDimensions is the number of stratified 1D and 2D dimensions a
// StratifiedSampler precomputes per pixel
const DefaultSampledDimensions = 4

// RandomSampler returns independent uniform values. The generator is reseeded at
// each StartPixel so a pixel's values depend only on the seed and the pixel.
type RandomSampler struct {
	baseSampler
	seed int64
	src  *rand.PCG
	rng  *rand.Rand
}

// NewRandomSampler creates a uniform random sampler
func NewRandomSampler(samplesPerPixel int, seed int64) *RandomSampler {
	src := rand.NewPCG(0, 0)
	return &RandomSampler{
		baseSampler: newBaseSampler(int64(samplesPerPixel)),
		seed:        seed,
		src:         src,
		rng:         rand.New(src),
	}
}

func (s *RandomSampler) StartPixel(p core.Point2i) {
	s.src.Seed(pixelSeed(s.seed, p))
	for _, arr := range s.sampleArray1D {
		for i := range arr {
			arr[i] = s.rng.Float64()
		}
	}
	for _, arr := range s.sampleArray2D {
		for i := range arr {
			arr[i] = core.NewVec2(s.rng.Float64(), s.rng.Float64())
		}
	}
	s.baseSampler.StartPixel(p)
}

func (s *RandomSampler) Get1D() float64 {
	return s.rng.Float64()
}

func (s *RandomSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.rng.Float64(), s.rng.Float64())
}

func (s *RandomSampler) GetCameraSample(p core.Point2i) CameraSample {
	return cameraSample(s, p)
}

func (s *RandomSampler) Clone(seed int64) Sampler {
	src := rand.NewPCG(0, 0)
	return &RandomSampler{
		baseSampler: s.cloneBase(),
		seed:        seed,
		src:         src,
		rng:         rand.New(src),
	}
}

// StratifiedSampler precomputes jittered, stratified values for the first
// few dimensions of every sample in a pixel and shuffles them across samples.
// Dimensions past the precomputed ones fall back to uniform random values.
type StratifiedSampler struct {
	baseSampler
	seed               int64
	src                *rand.PCG
	rng                *rand.Rand
	xPixelSamples      int
	yPixelSamples      int
	jitter             bool
	samples1D          [][]float64
	samples2D          [][]core.Vec2
	current1DDimension int
	current2DDimension int
}

// NewStratifiedSampler creates a sampler taking xSamples*ySamples samples per pixel
func NewStratifiedSampler(xSamples, ySamples int, jitter bool, sampledDimensions int, seed int64) *StratifiedSampler {
	spp := xSamples * ySamples
	src := rand.NewPCG(0, 0)
	s := &StratifiedSampler{
		baseSampler:   newBaseSampler(int64(spp)),
		seed:          seed,
		src:           src,
		rng:           rand.New(src),
		xPixelSamples: xSamples,
		yPixelSamples: ySamples,
		jitter:        jitter,
		samples1D:     make([][]float64, sampledDimensions),
		samples2D:     make([][]core.Vec2, sampledDimensions),
	}
	for i := 0; i < sampledDimensions; i++ {
		s.samples1D[i] = make([]float64, spp)
		s.samples2D[i] = make([]core.Vec2, spp)
	}
	return s
}

func (s *StratifiedSampler) StartPixel(p core.Point2i) {
	s.src.Seed(pixelSeed(s.seed, p))

	for _, samples := range s.samples1D {
		StratifiedSample1D(samples, s.rng, s.jitter)
		Shuffle(samples, s.rng)
	}
	for _, samples := range s.samples2D {
		StratifiedSample2D(samples, s.xPixelSamples, s.yPixelSamples, s.rng, s.jitter)
		Shuffle(samples, s.rng)
	}

	for i, count := range s.samples1DArraySizes {
		for j := int64(0); j < s.samplesPerPixel; j++ {
			arr := s.sampleArray1D[i][j*int64(count) : (j+1)*int64(count)]
			StratifiedSample1D(arr, s.rng, s.jitter)
			Shuffle(arr, s.rng)
		}
	}
	for i, count := range s.samples2DArraySizes {
		for j := int64(0); j < s.samplesPerPixel; j++ {
			LatinHypercube(s.sampleArray2D[i][j*int64(count):(j+1)*int64(count)], s.rng)
		}
	}

	s.current1DDimension = 0
	s.current2DDimension = 0
	s.baseSampler.StartPixel(p)
}

func (s *StratifiedSampler) StartNextSample() bool {
	s.current1DDimension = 0
	s.current2DDimension = 0
	return s.baseSampler.StartNextSample()
}

func (s *StratifiedSampler) SetSampleNumber(n int64) bool {
	s.current1DDimension = 0
	s.current2DDimension = 0
	return s.baseSampler.SetSampleNumber(n)
}

func (s *StratifiedSampler) Get1D() float64 {
	if s.current1DDimension < len(s.samples1D) {
		v := s.samples1D[s.current1DDimension][s.currentPixelSampleIndex]
		s.current1DDimension++
		return v
	}
	return s.rng.Float64()
}

func (s *StratifiedSampler) Get2D() core.Vec2 {
	if s.current2DDimension < len(s.samples2D) {
		v := s.samples2D[s.current2DDimension][s.currentPixelSampleIndex]
		s.current2DDimension++
		return v
	}
	return core.NewVec2(s.rng.Float64(), s.rng.Float64())
}

func (s *StratifiedSampler) GetCameraSample(p core.Point2i) CameraSample {
	return cameraSample(s, p)
}

func (s *StratifiedSampler) Clone(seed int64) Sampler {
	c := NewStratifiedSampler(s.xPixelSamples, s.yPixelSamples, s.jitter, len(s.samples1D), seed)
	c.baseSampler = s.cloneBase()
	return c
}
