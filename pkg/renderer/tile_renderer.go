package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/sampler"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Renderer renders a preprocessed scene into a film, one tile per task
type Renderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	sampler    sampler.Sampler // Prototype cloned for every tile
	film       *Film
	workerPool *WorkerPool
	tileSize   int
	seed       int64
	logger     core.Logger
}

// New creates a renderer for sc, which must already be preprocessed. The integrator's
// Preprocess runs here against the prototype sampler.
func New(sc *scene.Scene, integ integrator.Integrator, logger core.Logger) (*Renderer, error) {
	if sc == nil || sc.Camera == nil {
		return nil, errors.New("scene has no camera")
	}
	if sc.Aggregate == nil {
		return nil, errors.New("scene has no aggregate, call Preprocess first")
	}
	if integ == nil {
		return nil, errors.New("no integrator")
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	config := sc.SamplingConfig

	filter, err := NewFilter(config.Filter)
	if err != nil {
		return nil, fmt.Errorf("while creating filter: %w", err)
	}
	film, err := NewFilm(sc.CameraConfig.Width, sc.CameraConfig.Height(), filter)
	if err != nil {
		return nil, fmt.Errorf("while creating film: %w", err)
	}
	s, err := sampler.New(config.Sampler, config.SamplesPerPixel, config.Seed, film.GetSampleBounds())
	if err != nil {
		return nil, fmt.Errorf("while creating sampler: %w", err)
	}
	integ.Preprocess(sc, s)

	tileSize := config.TileSize
	if tileSize <= 0 {
		tileSize = scene.DefaultSamplingConfig().TileSize
	}
	return &Renderer{
		scene:      sc,
		integrator: integ,
		sampler:    s,
		film:       film,
		workerPool: NewWorkerPool(config.Workers),
		tileSize:   tileSize,
		seed:       config.Seed,
		logger:     logger,
	}, nil
}

// Film returns the film the renderer writes into
func (r *Renderer) Film() *Film {
	return r.film
}

// Render samples every pixel of the film's sample bounds and returns once the film is complete
func (r *Renderer) Render() RenderStats {
	start := time.Now()
	tiles := NewTileGrid(r.film.GetSampleBounds(), r.tileSize)
	r.logger.Printf("Rendering %d tiles with %d workers, %d samples per pixel\n",
		len(tiles), r.workerPool.GetNumWorkers(), r.sampler.SamplesPerPixel())

	statsCh := make(chan RenderStats, len(tiles))
	err := r.workerPool.Run(context.Background(), tiles, func(ctx context.Context, tile *Tile) error {
		statsCh <- r.renderTile(tile)
		return nil
	})
	if err != nil {
		r.logger.Printf("Render stopped early: %v\n", err)
	}
	close(statsCh)

	var stats RenderStats
	for s := range statsCh {
		stats.add(s)
	}
	stats.Duration = time.Since(start)
	if stats.InvalidSamples > 0 {
		r.logger.Printf("Discarded %d samples with invalid radiance\n", stats.InvalidSamples)
	}
	r.logger.Printf("Rendered %d samples in %v\n", stats.TotalSamples, stats.Duration)
	return stats
}

// renderTile renders one tile with its own sampler and arena, then merges it into the film
func (r *Renderer) renderTile(tile *Tile) RenderStats {
	s := r.sampler.Clone(r.seed + int64(tile.ID))
	arena := material.NewArena()
	filmTile := r.film.GetFilmTile(tile.Bounds)
	stats := RenderStats{Tiles: 1}

	tile.Bounds.Points(func(p core.Point2i) {
		s.StartPixel(p)
		for {
			cameraSample := s.GetCameraSample(p)
			ray, rayWeight := r.scene.Camera.GenerateRay(cameraSample)

			var L core.Vec3
			if rayWeight > 0 {
				L = r.integrator.Li(ray, r.scene, s, arena, 0)
			}
			if !isValidRadiance(L) {
				if glog.V(1) {
					glog.Infof("Invalid radiance %v at pixel (%d, %d), sample %d", L, p.X, p.Y, s.CurrentSampleNumber())
				}
				stats.InvalidSamples++
				L = core.Vec3{}
			}
			filmTile.AddSample(cameraSample.PFilm, L, rayWeight)
			stats.TotalSamples++

			arena.Reset()
			if !s.StartNextSample() {
				break
			}
		}
		stats.TotalPixels++
	})

	r.film.MergeFilmTile(filmTile)
	return stats
}

// isValidRadiance rejects NaN, infinite and clearly negative estimates
func isValidRadiance(L core.Vec3) bool {
	return !L.HasNaN() && !L.HasInf() && L.Luminance() >= -1e-5
}
