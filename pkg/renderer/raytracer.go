package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// Raytracer samples pixels of a scene through an integrator.
// A Raytracer holds no random state, so one instance per worker is enough.
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
	config     scene.SamplingConfig
}

// NewRaytracer creates a new raytracer using the scene's path tracer and sampling config
func NewRaytracer(s *scene.Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:      s,
		integrator: s.NewIntegrator(),
		width:      width,
		height:     height,
		config:     s.SamplingConfig,
	}
}

// MergeSamplingConfig updates only the positive fields of the sampling configuration
func (rt *Raytracer) MergeSamplingConfig(updates scene.SamplingConfig) {
	rt.config = scene.MergeSamplingConfig(rt.config, updates)
}

// SamplePixel adds samples to ps until it holds targetSamples and returns how many were taken.
// Pixel (x, y) uses image coordinates, so y = 0 is the top row.
func (rt *Raytracer) SamplePixel(x, y int, ps *PixelStats, sampler core.Sampler, targetSamples int) int {
	camera := rt.scene.Camera
	world := rt.scene.World

	// Camera t runs bottom to top
	row := rt.height - 1 - y
	sDenominator := float64(max(1, rt.width-1))
	tDenominator := float64(max(1, rt.height-1))

	taken := 0
	for ps.SampleCount < targetSamples {
		jitter := sampler.Get2D()
		s := (float64(x) + jitter.X) / sDenominator
		t := (float64(row) + jitter.Y) / tDenominator

		ray := camera.GetRay(s, t, sampler)
		ps.AddSample(rt.integrator.RayColor(ray, world, sampler))
		taken++
	}
	return taken
}

// RenderBounds brings every pixel within bounds up to targetSamples, drawing all random
// numbers from sampler in row-major order. Distinct bounds may be rendered concurrently
// into the same pixelStats array.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := initRenderStatsForBounds(bounds, targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			rt.SamplePixel(x, y, ps, sampler, targetSamples)
			stats.updateStats(ps)
		}
	}

	stats.finalizeStats()
	return stats
}

// RenderPass renders the whole image serially at the configured samples per pixel.
// Tiles are visited in grid order with the same per-tile seeds as the parallel renderer,
// so a single-pass parallel render of the same scene is byte-identical.
func (rt *Raytracer) RenderPass(tileSize int, seed int64) (*image.RGBA, RenderStats) {
	pixelStats := newPixelStats(rt.width, rt.height)

	for _, tile := range NewTileGrid(rt.width, rt.height, tileSize, seed) {
		rt.RenderBounds(tile.Bounds, pixelStats, tile.Sampler, rt.config.SamplesPerPixel)
	}

	return assembleImage(pixelStats, rt.config.SamplesPerPixel)
}

// newPixelStats allocates a zeroed statistics array in image coordinates
func newPixelStats(width, height int) [][]PixelStats {
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}
	return pixelStats
}

// assembleImage creates an image from the pixel statistics and calculates render
// statistics in a single pass
func assembleImage(pixelStats [][]PixelStats, targetSamples int) (*image.RGBA, RenderStats) {
	height := len(pixelStats)
	width := 0
	if height > 0 {
		width = len(pixelStats[0])
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stats := initRenderStatsForBounds(img.Bounds(), targetSamples)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := &pixelStats[y][x]
			img.SetRGBA(x, y, vec3ToColor(pixel.GetColor()))
			stats.updateStats(pixel)
		}
	}

	stats.finalizeStats()
	return img, stats
}

// vec3ToColor converts an averaged linear color to 8-bit RGBA: gamma 2, clamp to
// [0, 0.999], then scale by 256 and truncate
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.GammaCorrect(2.0).Clamp(0.0, 0.999)

	return color.RGBA{
		R: uint8(256 * colorVec.X),
		G: uint8(256 * colorVec.Y),
		B: uint8(256 * colorVec.Z),
		A: 255,
	}
}
