package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestOutputBaseName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"default", "default"},
		{"cornell-box", "cornell-box"},
		{"yaml:scenes/my-scene.yaml", "my-scene"},
		{"scenes/subdir/bunny.ply", "bunny"},
		{"models/duck.glb", "duck"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := outputBaseName(tt.id); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	want := filepath.Join("output", "cornell-box", "render_20240301_123045.png")
	if got := outputPath("cornell-box", "", now); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got := outputPath("cornell-box", "custom.tiff", now); got != "custom.tiff" {
		t.Errorf("Expected the explicit output, got %q", got)
	}
}

func TestLoadSceneAppliesOverrides(t *testing.T) {
	sc, err := loadScene("point-lit-sphere", 8, scene.SamplingConfig{SamplesPerPixel: 2, Sampler: "halton"})
	if err != nil {
		t.Fatalf("loadScene failed: %v", err)
	}
	if sc.SamplingConfig.SamplesPerPixel != 2 || sc.SamplingConfig.Sampler != "halton" {
		t.Errorf("Expected overrides to apply, got %+v", sc.SamplingConfig)
	}
	if sc.CameraConfig.Width != 8 || sc.CameraConfig.Height() != 8 {
		t.Errorf("Expected an 8x8 film, got %dx%d", sc.CameraConfig.Width, sc.CameraConfig.Height())
	}
	if sc.Aggregate == nil {
		t.Error("Expected the scene to be preprocessed")
	}
}

func TestLoadSceneUnknown(t *testing.T) {
	if _, err := loadScene("no-such-scene", 0, scene.SamplingConfig{}); err == nil {
		t.Error("Expected an error for an unknown scene")
	}
}

func TestRunRenderWritesImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "render.bmp")
	err := runRender("point-lit-sphere", path, 8, scene.SamplingConfig{SamplesPerPixel: 1, Workers: 2})
	if err != nil {
		t.Fatalf("runRender failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected %s to exist: %v", path, err)
	}
	if info.Size() == 0 {
		t.Error("Expected a non-empty image file")
	}
}

func TestRunRenderRejectsUnknownFormat(t *testing.T) {
	err := runRender("point-lit-sphere", filepath.Join(t.TempDir(), "render.exr"), 8, scene.SamplingConfig{})
	if err == nil {
		t.Error("Expected an error for an unsupported output format")
	}
}
