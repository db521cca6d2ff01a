package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
)

// filmPixel accumulates filtered radiance for one pixel
type filmPixel struct {
	contribSum      core.Vec3
	filterWeightSum float64
}

// Film is the image being rendered. Workers write into FilmTiles and merge them back
// under the film's mutex, so the pixel array is never written concurrently.
type Film struct {
	width, height int
	filter        Filter

	mu     sync.Mutex
	pixels []filmPixel
}

// NewFilm creates a black film of the given resolution
func NewFilm(width, height int, filter Filter) (*Film, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("film is empty: %dx%d", width, height)
	}
	if filter == nil {
		return nil, fmt.Errorf("film has no filter")
	}
	return &Film{
		width:  width,
		height: height,
		filter: filter,
		pixels: make([]filmPixel, width*height),
	}, nil
}

// Bounds returns the pixel bounds of the film
func (f *Film) Bounds() core.Bounds2i {
	return core.NewBounds2i(0, 0, f.width, f.height)
}

// GetSampleBounds returns the pixels a sampler has to cover so every film pixel
// receives its full filter footprint
func (f *Film) GetSampleBounds() core.Bounds2i {
	r := f.filter.Radius()
	return core.NewBounds2i(
		int(math.Floor(0.5-r.X)),
		int(math.Floor(0.5-r.Y)),
		int(math.Ceil(float64(f.width)-0.5+r.X)),
		int(math.Ceil(float64(f.height)-0.5+r.Y)),
	)
}

// GetFilmTile returns a private tile covering every film pixel the samples taken in
// sampleBounds can reach
func (f *Film) GetFilmTile(sampleBounds core.Bounds2i) *FilmTile {
	r := f.filter.Radius()
	p0x := int(math.Ceil(float64(sampleBounds.Min.X) - 0.5 - r.X))
	p0y := int(math.Ceil(float64(sampleBounds.Min.Y) - 0.5 - r.Y))
	p1x := int(math.Floor(float64(sampleBounds.Max.X)-0.5+r.X)) + 1
	p1y := int(math.Floor(float64(sampleBounds.Max.Y)-0.5+r.Y)) + 1
	bounds := core.NewBounds2i(p0x, p0y, p1x, p1y).Intersect(f.Bounds())
	if bounds.IsEmpty() {
		bounds = core.Bounds2i{}
	}
	return &FilmTile{
		PixelBounds: bounds,
		filter:      f.filter,
		pixels:      make([]filmPixel, bounds.Area()),
	}
}

// MergeFilmTile adds a finished tile into the film
func (f *Film) MergeFilmTile(tile *FilmTile) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tile.PixelBounds.Points(func(p core.Point2i) {
		src := tile.pixel(p)
		dst := &f.pixels[p.Y*f.width+p.X]
		dst.contribSum = dst.contribSum.Add(src.contribSum)
		dst.filterWeightSum += src.filterWeightSum
	})
}

// Pixel returns the filtered radiance estimate of pixel (x, y)
func (f *Film) Pixel(x, y int) core.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	px := f.pixels[y*f.width+x]
	if px.filterWeightSum == 0 {
		return core.Vec3{}
	}
	return px.contribSum.Divide(px.filterWeightSum)
}

// Image converts the film to 8-bit RGBA with gamma 2 and clamping
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.SetRGBA(x, y, vec3ToColor(f.Pixel(x, y)))
		}
	}
	return img
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(c core.Vec3) color.RGBA {
	c = c.Clamp(0, math.Inf(1)).Sqrt().Clamp(0, 1)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}

// FilmTile collects the samples of one render tile
type FilmTile struct {
	PixelBounds core.Bounds2i
	filter      Filter
	pixels      []filmPixel
}

func (t *FilmTile) pixel(p core.Point2i) *filmPixel {
	w := t.PixelBounds.Width()
	return &t.pixels[(p.Y-t.PixelBounds.Min.Y)*w+(p.X-t.PixelBounds.Min.X)]
}

// AddSample splats radiance L taken at raster position pFilm into every pixel whose
// filter support contains it
func (t *FilmTile) AddSample(pFilm core.Vec2, L core.Vec3, sampleWeight float64) {
	r := t.filter.Radius()
	// Pixel centers sit at half-integer raster coordinates
	dx, dy := pFilm.X-0.5, pFilm.Y-0.5
	bounds := core.NewBounds2i(
		int(math.Ceil(dx-r.X)),
		int(math.Ceil(dy-r.Y)),
		int(math.Floor(dx+r.X))+1,
		int(math.Floor(dy+r.Y))+1,
	).Intersect(t.PixelBounds)

	bounds.Points(func(p core.Point2i) {
		w := t.filter.Evaluate(core.NewVec2(float64(p.X)-dx, float64(p.Y)-dy))
		px := t.pixel(p)
		px.contribSum = px.contribSum.Add(L.Multiply(sampleWeight * w))
		px.filterWeightSum += w
	})
}
