package renderer

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Tile represents a rectangular region of the sample bounds to be rendered
type Tile struct {
	ID     int           // Unique tile identifier, also the offset of the tile's sampler seed
	Bounds core.Bounds2i // Pixel bounds, half-open
}

// NewTileGrid creates a row-major grid of tiles covering bounds
func NewTileGrid(bounds core.Bounds2i, tileSize int) []*Tile {
	if tileSize <= 0 || bounds.IsEmpty() {
		return nil
	}
	var tiles []*Tile
	tileID := 0

	tilesX := (bounds.Width() + tileSize - 1) / tileSize // Ceiling division
	tilesY := (bounds.Height() + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := bounds.Min.X + tileX*tileSize
			y0 := bounds.Min.Y + tileY*tileSize
			x1 := min(x0+tileSize, bounds.Max.X) // Don't exceed the bounds
			y1 := min(y0+tileSize, bounds.Max.Y)

			tiles = append(tiles, &Tile{ID: tileID, Bounds: core.NewBounds2i(x0, y0, x1, y1)})
			tileID++
		}
	}
	return tiles
}

// WorkerPool renders tiles in parallel with a bounded number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a pool; numWorkers <= 0 uses every CPU
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run calls render once for every tile and waits for all of them. The first error
// cancels ctx for the remaining tiles and is returned.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile, render func(ctx context.Context, tile *Tile) error) error {
	eg, egCtx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(wp.numWorkers))

	for _, tile := range tiles {
		if err := sem.Acquire(egCtx, 1); err != nil {
			break
		}
		eg.Go(func() error {
			defer sem.Release(1)
			if err := render(egCtx, tile); err != nil {
				return fmt.Errorf("while rendering tile %d: %w", tile.ID, err)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("while waiting for tile workers: %w", err)
	}
	return ctx.Err()
}
