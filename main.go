// pathtracer renders built-in and file-based scenes with a tiled path tracer.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var cmdRoot = &cobra.Command{
	Use:           "pathtracer",
	Short:         "Physically based path tracer",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var cmdRender = &cobra.Command{
	Use:   "render",
	Short: "Render a scene to an image file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(renderSceneID, renderOutput, renderWidth, renderOverrides)
	},
}

var cmdScenes = &cobra.Command{
	Use:   "scenes",
	Short: "List the scenes that can be rendered",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := scene.ListAllScenes(scenesDir)
		if err != nil {
			return fmt.Errorf("while listing scenes: %w", err)
		}
		for _, group := range groups {
			fmt.Printf("%s:\n", group.Name)
			for _, info := range group.Scenes {
				fmt.Printf("  %-24s %s\n", info.ID, info.Description)
			}
		}
		return nil
	},
}

var (
	renderSceneID   string
	renderOutput    string
	renderWidth     int
	renderOverrides scene.SamplingConfig
	scenesDir       string
)

func init() {
	f := cmdRender.Flags()
	f.StringVar(&renderSceneID, "scene", "default", "Built-in scene ID, or a .yaml, .ply, .gltf or .glb file")
	f.StringVar(&renderOutput, "output", "", "Output image (.png, .jpg, .tif, .bmp); defaults to output/<scene>/render_<timestamp>.png")
	f.IntVar(&renderWidth, "width", 0, "Image width in pixels, keeping the scene's aspect ratio")
	f.IntVar(&renderOverrides.SamplesPerPixel, "spp", 0, "Samples per pixel")
	f.IntVar(&renderOverrides.MaxDepth, "max-depth", 0, "Maximum path depth")
	f.IntVar(&renderOverrides.RussianRouletteMinBounces, "rr-min-bounces", 0, "Bounces before Russian roulette may end a path")
	f.StringVar(&renderOverrides.Sampler, "sampler", "", "Sampler: random, stratified or halton")
	f.Int64Var(&renderOverrides.Seed, "seed", 0, "Base seed for the per-tile samplers")
	f.IntVar(&renderOverrides.TileSize, "tile-size", 0, "Tile edge length in pixels")
	f.IntVar(&renderOverrides.Workers, "workers", 0, "Number of render goroutines, 0 for one per CPU")
	f.StringVar(&renderOverrides.LightStrategy, "light-strategy", "", "Light selection: uniform or power")
	f.StringVar(&renderOverrides.SplitMethod, "split", "", "BVH split method: sah, middle or equal")
	f.IntVar(&renderOverrides.MaxPrimsInNode, "max-prims-in-node", 0, "BVH leaf size limit")
	f.StringVar(&renderOverrides.Integrator, "integrator", "", "Integrator: path, direct or direct-one")
	f.StringVar(&renderOverrides.Filter, "filter", "", "Reconstruction filter: box or gaussian")

	cmdScenes.Flags().StringVar(&scenesDir, "dir", "scenes", "Directory searched for scene description files")
}

// loadScene loads a scene, applies command line overrides and preprocesses it
func loadScene(id string, width int, overrides scene.SamplingConfig) (*scene.Scene, error) {
	sc, err := scene.Load(id)
	if err != nil {
		return nil, fmt.Errorf("while loading scene %q: %w", id, err)
	}
	sc.SamplingConfig = sc.SamplingConfig.Merge(overrides)
	if width > 0 {
		sc.CameraConfig.Width = width
		sc.Camera = camera.NewPerspectiveCamera(sc.CameraConfig)
	}
	if err := sc.Preprocess(); err != nil {
		return nil, fmt.Errorf("while preprocessing scene %q: %w", id, err)
	}
	return sc, nil
}

// outputBaseName turns a scene ID or path into a directory name
func outputBaseName(id string) string {
	id = strings.TrimPrefix(id, "yaml:")
	base := filepath.Base(id)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputPath returns the explicit output if set, else a timestamped PNG under output/<scene>
func outputPath(id, explicit string, now time.Time) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join("output", outputBaseName(id), fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func runRender(id, output string, width int, overrides scene.SamplingConfig) error {
	path := outputPath(id, output, time.Now())
	if _, err := renderer.FormatForPath(path); err != nil {
		return err
	}

	sc, err := loadScene(id, width, overrides)
	if err != nil {
		return err
	}
	glog.Infof("Loaded scene %q: %d primitives, %d lights, %dx%d",
		id, sc.GetPrimitiveCount(), len(sc.Lights), sc.CameraConfig.Width, sc.CameraConfig.Height())

	bvhStats := sc.Aggregate.Stats()
	glog.Infof("BVH (%s): %d nodes, %d leaves, depth %d, largest leaf %d",
		sc.Aggregate.SplitMethod(), bvhStats.TotalNodes, bvhStats.LeafNodes, bvhStats.MaxDepth, bvhStats.MaxLeafPrimitives)

	integ, err := integrator.New(sc.SamplingConfig)
	if err != nil {
		return fmt.Errorf("while creating integrator: %w", err)
	}
	r, err := renderer.New(sc, integ, renderer.NewDefaultLogger())
	if err != nil {
		return fmt.Errorf("while creating renderer: %w", err)
	}

	stats := r.Render()
	img := r.Film().Image()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("while creating output directory: %w", err)
	}
	if err := renderer.SaveImage(path, img); err != nil {
		return fmt.Errorf("while saving image: %w", err)
	}

	fmt.Printf("Render completed in %v (%.1f samples/pixel, %d invalid, average luminance %.3f)\n",
		stats.Duration, stats.AverageSamples(), stats.InvalidSamples, renderer.CalculateAverageLuminance(img))
	fmt.Printf("Render saved as %s\n", path)
	return nil
}

func main() {
	glog.CopyStandardLogTo("INFO")
	cmdRoot.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cmdRoot.AddCommand(cmdRender, cmdScenes)

	err := cmdRoot.Execute()
	if err != nil {
		glog.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
	}
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
