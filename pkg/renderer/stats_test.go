package renderer

import (
	"image"
	"image/color"
	"testing"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Red 0.2126, green 0.7152, blue 0.0722 and black average to 0.25
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 0.25
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 1.0
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_Empty(t *testing.T) {
	if avgLum := CalculateAverageLuminance(image.NewRGBA(image.Rectangle{})); avgLum != 0 {
		t.Errorf("Expected 0 for an empty image, got %f", avgLum)
	}
}

func TestRenderStatsAdd(t *testing.T) {
	var total RenderStats
	total.add(RenderStats{TotalPixels: 4, TotalSamples: 16, InvalidSamples: 1, Tiles: 1})
	total.add(RenderStats{TotalPixels: 4, TotalSamples: 8, Tiles: 1})

	if total.TotalSamples != 24 || total.InvalidSamples != 1 || total.Tiles != 2 {
		t.Errorf("Expected summed stats, got %+v", total)
	}
	if avg := total.AverageSamples(); avg != 3 {
		t.Errorf("Expected 3 samples per pixel, got %f", avg)
	}
	if avg := (RenderStats{}).AverageSamples(); avg != 0 {
		t.Errorf("Expected 0 for empty stats, got %f", avg)
	}
}
