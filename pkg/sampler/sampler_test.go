package sampler

import (
	"math/rand/v2"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/google/go-cmp/cmp"
)

type drawn struct {
	Camera CameraSample
	Values []float64
	Pairs  []core.Vec2
	Array  []core.Vec2
}

// drawPixel records everything a sampler produces for one pixel
func drawPixel(s Sampler, p core.Point2i) []drawn {
	var out []drawn
	s.StartPixel(p)
	for {
		d := drawn{Camera: s.GetCameraSample(p)}
		for i := 0; i < 8; i++ {
			d.Values = append(d.Values, s.Get1D())
			d.Pairs = append(d.Pairs, s.Get2D())
		}
		d.Array = append(d.Array, s.Get2DArray(4)...)
		out = append(out, d)
		if !s.StartNextSample() {
			break
		}
	}
	return out
}

func testSamplers() map[string]Sampler {
	bounds := core.NewBounds2i(0, 0, 32, 24)
	return map[string]Sampler{
		"random":     NewRandomSampler(8, 1),
		"stratified": NewStratifiedSampler(4, 2, true, DefaultSampledDimensions, 1),
		"halton":     NewHaltonSampler(8, bounds),
	}
}

func TestSampler_CloneDeterminism(t *testing.T) {
	for name, proto := range testSamplers() {
		t.Run(name, func(t *testing.T) {
			proto.Request2DArray(4)
			pixel := core.Point2i{X: 5, Y: 7}

			first := drawPixel(proto.Clone(42), pixel)
			second := drawPixel(proto.Clone(42), pixel)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("Expected identical sequences for identical seed and pixel (-first +second):\n%s", diff)
			}

			// Visiting another pixel in between must not change the result
			c := proto.Clone(42)
			drawPixel(c, core.Point2i{X: 1, Y: 1})
			third := drawPixel(c, pixel)
			if diff := cmp.Diff(first, third); diff != "" {
				t.Errorf("Expected pixel sequence to be independent of visit order (-first +third):\n%s", diff)
			}
		})
	}
}

func TestSampler_DifferentSeedsDiffer(t *testing.T) {
	proto := NewRandomSampler(4, 0)
	pixel := core.Point2i{X: 3, Y: 3}
	a := drawPixel(proto.Clone(1), pixel)
	b := drawPixel(proto.Clone(2), pixel)
	if cmp.Equal(a, b) {
		t.Error("Expected different seeds to give different sequences")
	}
}

func TestSampler_ValuesInUnitInterval(t *testing.T) {
	for name, s := range testSamplers() {
		t.Run(name, func(t *testing.T) {
			for _, d := range drawPixel(s, core.Point2i{X: 9, Y: 4}) {
				for _, v := range d.Values {
					if v < 0 || v >= 1 {
						t.Fatalf("Expected value in [0,1), got %f", v)
					}
				}
				for _, p := range d.Pairs {
					if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
						t.Fatalf("Expected pair in [0,1)^2, got %v", p)
					}
				}
				film := d.Camera.PFilm
				if film.X < 9 || film.X >= 10 || film.Y < 4 || film.Y >= 5 {
					t.Fatalf("Expected film position inside pixel (9,4), got %v", film)
				}
			}
		})
	}
}

func TestSampler_StartNextSampleCount(t *testing.T) {
	for name, s := range testSamplers() {
		t.Run(name, func(t *testing.T) {
			s.StartPixel(core.Point2i{})
			count := int64(1)
			for s.StartNextSample() {
				count++
			}
			if count != s.SamplesPerPixel() {
				t.Errorf("Expected %d samples, got %d", s.SamplesPerPixel(), count)
			}
		})
	}
}

func TestSampler_Arrays(t *testing.T) {
	s := NewStratifiedSampler(2, 2, true, DefaultSampledDimensions, 3)
	s.Request1DArray(3)
	s.Request2DArray(5)
	s.StartPixel(core.Point2i{X: 1, Y: 2})

	if got := s.Get1DArray(3); len(got) != 3 {
		t.Errorf("Expected 1D array of 3, got %d", len(got))
	}
	if got := s.Get2DArray(5); len(got) != 5 {
		t.Errorf("Expected 2D array of 5, got %d", len(got))
	}
	if got := s.Get2DArray(5); got != nil {
		t.Errorf("Expected nil once arrays are consumed, got %v", got)
	}

	s.StartNextSample()
	if got := s.Get1DArray(3); len(got) != 3 {
		t.Errorf("Expected arrays to be available again for the next sample, got %d", len(got))
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic when requesting arrays after rendering started")
		}
	}()
	s.Request1DArray(2)
}

func TestStratifiedSampler_FirstDimensionStratified(t *testing.T) {
	s := NewStratifiedSampler(4, 4, true, DefaultSampledDimensions, 9)
	s.StartPixel(core.Point2i{X: 2, Y: 3})
	seen := make([]bool, 16)
	for {
		v := s.Get1D()
		stratum := int(v * 16)
		if seen[stratum] {
			t.Fatalf("Stratum %d sampled twice", stratum)
		}
		seen[stratum] = true
		if !s.StartNextSample() {
			break
		}
	}
	for i, ok := range seen {
		if !ok {
			t.Errorf("Stratum %d never sampled", i)
		}
	}
}

func TestLatinHypercube_OnePerStratum(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	samples := make([]core.Vec2, 10)
	LatinHypercube(samples, rng)

	xs := make([]bool, 10)
	ys := make([]bool, 10)
	for _, s := range samples {
		xs[int(s.X*10)] = true
		ys[int(s.Y*10)] = true
	}
	for i := 0; i < 10; i++ {
		if !xs[i] || !ys[i] {
			t.Errorf("Expected stratum %d covered on both axes", i)
		}
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	values := []int{0, 1, 2, 3, 4, 5, 6, 7}
	Shuffle(values, rng)
	seen := map[int]bool{}
	for _, v := range values {
		seen[v] = true
	}
	if len(seen) != 8 {
		t.Errorf("Expected a permutation, got %v", values)
	}
}

func TestNew(t *testing.T) {
	bounds := core.NewBounds2i(0, 0, 4, 4)
	for _, name := range Names() {
		s, err := New(name, 16, 0, bounds)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if s.SamplesPerPixel() != 16 {
			t.Errorf("New(%q): expected 16 samples per pixel, got %d", name, s.SamplesPerPixel())
		}
	}
	if _, err := New("sobol", 16, 0, bounds); err == nil {
		t.Error("Expected error for unknown sampler")
	}
	if _, err := New("random", 0, 0, bounds); err == nil {
		t.Error("Expected error for zero samples per pixel")
	}
}

func TestStratumGrid(t *testing.T) {
	tests := []struct{ n, x, y int }{
		{16, 4, 4},
		{8, 4, 2},
		{7, 7, 1},
		{1, 1, 1},
	}
	for _, tt := range tests {
		x, y := stratumGrid(tt.n)
		if x != tt.x || y != tt.y {
			t.Errorf("stratumGrid(%d): expected %dx%d, got %dx%d", tt.n, tt.x, tt.y, x, y)
		}
	}
}
