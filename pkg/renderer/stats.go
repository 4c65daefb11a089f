package renderer

import (
	"image"
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int     // Total number of pixels rendered
	TotalSamples    int     // Total number of samples taken
	AverageSamples  float64 // Average samples per pixel
	MaxSamples      int     // Target samples per pixel for this pass
	MinSamples      int     // Minimum samples taken by any pixel
	MaxSamplesUsed  int     // Maximum samples actually used by any pixel
	AverageVariance float64 // Mean variance of the per-pixel luminance estimate
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for variance
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Variance returns the sample variance of the luminance of individual samples
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	meanSq := ps.LuminanceSqAccum / n
	// Bessel's correction for an unbiased estimate
	return math.Max(0, meanSq-mean*mean) * n / (n - 1)
}

// MeanVariance returns the variance of the pixel's averaged luminance, which shrinks
// as 1/n with the number of samples
func (ps *PixelStats) MeanVariance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	return ps.Variance() / float64(ps.SampleCount)
}

// initRenderStatsForBounds initializes the render statistics tracking for specific bounds
func initRenderStatsForBounds(bounds image.Rectangle, maxSamples int) RenderStats {
	return RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  maxSamples,
		MinSamples:  math.MaxInt,
	}
}

// updateStats updates the render statistics with data from a single pixel
func (stats *RenderStats) updateStats(ps *PixelStats) {
	stats.TotalSamples += ps.SampleCount
	stats.MinSamples = min(stats.MinSamples, ps.SampleCount)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, ps.SampleCount)
	stats.AverageVariance += ps.MeanVariance()
}

// finalizeStats calculates final statistics after all pixels are rendered
func (stats *RenderStats) finalizeStats() {
	if stats.TotalPixels == 0 {
		stats.MinSamples = 0
		return
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.AverageVariance /= float64(stats.TotalPixels)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an 8-bit image,
// treating channel values as linear in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewVec3(float64(r>>8)/255.0, float64(g>>8)/255.0, float64(b>>8)/255.0)
			total += c.Luminance()
		}
	}

	return total / float64(bounds.Dx()*bounds.Dy())
}
