package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Create a 2x2 image
	// Top-left: Red (1, 0, 0) -> Lum = 0.2126
	// Top-right: Green (0, 1, 0) -> Lum = 0.7152
	// Bottom-left: Blue (0, 0, 1) -> Lum = 0.0722
	// Bottom-right: Black (0, 0, 0) -> Lum = 0.0

	// Expected average: (0.2126 + 0.7152 + 0.0722 + 0.0) / 4 = 1.0 / 4 = 0.25

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
	// 1x1 White pixel -> Lum = 1.0
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
	if avgLum := CalculateAverageLuminance(image.NewRGBA(image.Rect(0, 0, 0, 0))); avgLum != 0 {
		t.Errorf("Expected 0 for empty image, got %f", avgLum)
	}
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats

	if !ps.GetColor().Equals(core.Vec3{}) {
		t.Error("Empty pixel should be black")
	}
	if ps.Variance() != 0 || ps.MeanVariance() != 0 {
		t.Error("Empty pixel should have zero variance")
	}

	// Luminances 0 and 1 alternate: sample variance of {0, 1, 0, 1} is 1/3
	for i := 0; i < 4; i++ {
		if i%2 == 0 {
			ps.AddSample(core.NewVec3(0, 0, 0))
		} else {
			ps.AddSample(core.NewVec3(1, 1, 1))
		}
	}

	if ps.SampleCount != 4 {
		t.Errorf("Expected 4 samples, got %d", ps.SampleCount)
	}
	if !ps.GetColor().ApproxEquals(core.NewVec3(0.5, 0.5, 0.5), 1e-12) {
		t.Errorf("Expected average 0.5, got %v", ps.GetColor())
	}
	if math.Abs(ps.Variance()-1.0/3.0) > 1e-9 {
		t.Errorf("Expected variance 1/3, got %f", ps.Variance())
	}
	if math.Abs(ps.MeanVariance()-1.0/12.0) > 1e-9 {
		t.Errorf("Expected mean variance 1/12, got %f", ps.MeanVariance())
	}
}

func TestRenderStats_Aggregation(t *testing.T) {
	pixels := [][]PixelStats{
		{{SampleCount: 2}, {SampleCount: 4}},
		{{SampleCount: 6}, {SampleCount: 8}},
	}

	_, stats := assembleImage(pixels, 8)

	if stats.TotalPixels != 4 || stats.TotalSamples != 20 {
		t.Errorf("Unexpected totals: %+v", stats)
	}
	if stats.AverageSamples != 5 {
		t.Errorf("Expected average 5, got %f", stats.AverageSamples)
	}
	if stats.MinSamples != 2 || stats.MaxSamplesUsed != 8 || stats.MaxSamples != 8 {
		t.Errorf("Unexpected min/max: %+v", stats)
	}
}
