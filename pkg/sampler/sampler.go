// Package sampler provides the sample generators that drive every random
// decision made while rendering a pixel.
package sampler

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraSample holds the values needed to generate a camera ray
type CameraSample struct {
	PFilm core.Vec2 // Position on the film in raster space
	PLens core.Vec2 // Position on the lens in [0,1)^2
}

// Sampler generates sample vectors for each pixel sample.
// Arrays must be requested before the first call to StartPixel.
type Sampler interface {
	// StartPixel resets the sampler for the first sample of pixel p
	StartPixel(p core.Point2i)
	// Get1D returns the next dimension of the current sample
	Get1D() float64
	// Get2D returns the next two dimensions of the current sample
	Get2D() core.Vec2
	// GetCameraSample returns the film and lens positions for the current sample
	GetCameraSample(p core.Point2i) CameraSample
	// Request1DArray reserves an array of n values per sample
	Request1DArray(n int)
	// Request2DArray reserves an array of n 2D values per sample
	Request2DArray(n int)
	// RoundCount returns the array size closest to n the sampler handles best
	RoundCount(n int) int
	// Get1DArray returns the next requested 1D array for the current sample, nil if none remain
	Get1DArray(n int) []float64
	// Get2DArray returns the next requested 2D array for the current sample, nil if none remain
	Get2DArray(n int) []core.Vec2
	// StartNextSample advances to the next sample, returning false when the pixel is done
	StartNextSample() bool
	// SetSampleNumber jumps to sample n of the current pixel
	SetSampleNumber(n int64) bool
	// Clone returns an independent sampler with the same configuration
	Clone(seed int64) Sampler
	// SamplesPerPixel returns the number of samples taken per pixel
	SamplesPerPixel() int64
	// CurrentSampleNumber returns the index of the current sample within the pixel
	CurrentSampleNumber() int64
}

// New creates a sampler by name: "random", "stratified" or "halton"
func New(name string, samplesPerPixel int, seed int64, sampleBounds core.Bounds2i) (Sampler, error) {
	if samplesPerPixel < 1 {
		return nil, fmt.Errorf("samples per pixel must be positive, got %d", samplesPerPixel)
	}
	switch name {
	case "", "random":
		return NewRandomSampler(samplesPerPixel, seed), nil
	case "stratified":
		x, y := stratumGrid(samplesPerPixel)
		return NewStratifiedSampler(x, y, true, DefaultSampledDimensions, seed), nil
	case "halton":
		return NewHaltonSampler(samplesPerPixel, sampleBounds), nil
	default:
		return nil, fmt.Errorf("unknown sampler %q", name)
	}
}

// Names lists the samplers accepted by New
func Names() []string {
	return []string{"random", "stratified", "halton"}
}

// stratumGrid factors n into the most square x*y grid
func stratumGrid(n int) (int, int) {
	x := int(math.Sqrt(float64(n)))
	for x > 1 && n%x != 0 {
		x--
	}
	return n / x, x
}

// baseSampler holds the per-pixel bookkeeping shared by all samplers
type baseSampler struct {
	samplesPerPixel         int64
	currentPixel            core.Point2i
	currentPixelSampleIndex int64
	started                 bool

	samples1DArraySizes []int
	samples2DArraySizes []int
	sampleArray1D       [][]float64
	sampleArray2D       [][]core.Vec2
	array1DOffset       int
	array2DOffset       int
}

func newBaseSampler(samplesPerPixel int64) baseSampler {
	return baseSampler{samplesPerPixel: samplesPerPixel}
}

// cloneBase copies the configuration and allocates fresh array storage
func (s *baseSampler) cloneBase() baseSampler {
	c := newBaseSampler(s.samplesPerPixel)
	for _, n := range s.samples1DArraySizes {
		c.Request1DArray(n)
	}
	for _, n := range s.samples2DArraySizes {
		c.Request2DArray(n)
	}
	return c
}

func (s *baseSampler) StartPixel(p core.Point2i) {
	s.currentPixel = p
	s.currentPixelSampleIndex = 0
	s.array1DOffset = 0
	s.array2DOffset = 0
	s.started = true
}

func (s *baseSampler) StartNextSample() bool {
	s.array1DOffset = 0
	s.array2DOffset = 0
	s.currentPixelSampleIndex++
	return s.currentPixelSampleIndex < s.samplesPerPixel
}

func (s *baseSampler) SetSampleNumber(n int64) bool {
	s.array1DOffset = 0
	s.array2DOffset = 0
	s.currentPixelSampleIndex = n
	return s.currentPixelSampleIndex < s.samplesPerPixel
}

func (s *baseSampler) Request1DArray(n int) {
	if s.started {
		panic("sampler: arrays must be requested before rendering starts")
	}
	s.samples1DArraySizes = append(s.samples1DArraySizes, n)
	s.sampleArray1D = append(s.sampleArray1D, make([]float64, int64(n)*s.samplesPerPixel))
}

func (s *baseSampler) Request2DArray(n int) {
	if s.started {
		panic("sampler: arrays must be requested before rendering starts")
	}
	s.samples2DArraySizes = append(s.samples2DArraySizes, n)
	s.sampleArray2D = append(s.sampleArray2D, make([]core.Vec2, int64(n)*s.samplesPerPixel))
}

func (s *baseSampler) RoundCount(n int) int {
	return n
}

func (s *baseSampler) Get1DArray(n int) []float64 {
	if s.array1DOffset == len(s.sampleArray1D) {
		return nil
	}
	if s.samples1DArraySizes[s.array1DOffset] != n {
		panic(fmt.Sprintf("sampler: requested 1D array of %d, reserved %d", n, s.samples1DArraySizes[s.array1DOffset]))
	}
	start := s.currentPixelSampleIndex * int64(n)
	arr := s.sampleArray1D[s.array1DOffset][start : start+int64(n)]
	s.array1DOffset++
	return arr
}

func (s *baseSampler) Get2DArray(n int) []core.Vec2 {
	if s.array2DOffset == len(s.sampleArray2D) {
		return nil
	}
	if s.samples2DArraySizes[s.array2DOffset] != n {
		panic(fmt.Sprintf("sampler: requested 2D array of %d, reserved %d", n, s.samples2DArraySizes[s.array2DOffset]))
	}
	start := s.currentPixelSampleIndex * int64(n)
	arr := s.sampleArray2D[s.array2DOffset][start : start+int64(n)]
	s.array2DOffset++
	return arr
}

func (s *baseSampler) SamplesPerPixel() int64 {
	return s.samplesPerPixel
}

func (s *baseSampler) CurrentSampleNumber() int64 {
	return s.currentPixelSampleIndex
}

// cameraSample builds a camera sample from the next two 2D dimensions
func cameraSample(s Sampler, p core.Point2i) CameraSample {
	offset := s.Get2D()
	return CameraSample{
		PFilm: core.NewVec2(float64(p.X)+offset.X, float64(p.Y)+offset.Y),
		PLens: s.Get2D(),
	}
}
