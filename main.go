package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/imageio"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneName   string
	configPath  string
	width       int
	spp         int
	depth       int
	passes      int
	workers     int
	seed        int64
	tileSize    int
	supersample int
	pinhole     bool
	outPath     string
}

func main() {
	var opts options
	flag.StringVar(&opts.sceneName, "scene", "cover", "Scene: "+strings.Join(scene.Names(), ", ")+", or file:<name>")
	flag.StringVar(&opts.configPath, "config", "", "Path to a JSON scene file (overrides -scene)")
	flag.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	flag.IntVar(&opts.spp, "spp", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&opts.depth, "depth", 0, "Maximum ray bounce depth (0 = scene default)")
	flag.IntVar(&opts.passes, "passes", renderer.DefaultProgressiveConfig().MaxPasses, "Number of progressive passes")
	flag.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.Int64Var(&opts.seed, "seed", renderer.DefaultSeed, "Random seed; equal seeds give identical images")
	flag.IntVar(&opts.tileSize, "tile", renderer.DefaultTileSize, "Tile size in pixels")
	flag.IntVar(&opts.supersample, "supersample", 1, "Render at N times the resolution and downsample")
	flag.BoolVar(&opts.pinhole, "pinhole", false, "Disable depth of field for scenes that use a lens")
	flag.StringVar(&opts.outPath, "out", "", "Output file (.ppm, .png, .webp, .tga); default output/<scene>/render_<timestamp>.ppm")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Sphere Path Tracer")
	fmt.Println("Usage: pathtracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	scenes, err := scene.ListAllScenes()
	if err != nil {
		fmt.Printf("  (could not list scene files: %v)\n", err)
	}
	for _, group := range scenes.Groups {
		fmt.Printf("  %s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("    %-24s %s\n", info.ID, info.Description)
		}
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.ppm unless -out is given")
}

// usePinhole rebuilds the scene camera without its lens
func usePinhole(s *scene.Scene) {
	s.CameraConfig = geometry.MergeCameraConfig(s.CameraConfig, geometry.CameraConfig{Pinhole: true})
	s.Camera = geometry.NewCamera(s.CameraConfig)
}

// run renders the selected scene and writes the result
func run(ctx context.Context, opts options, logger core.Logger) error {
	if opts.supersample < 1 {
		return fmt.Errorf("supersample factor must be at least 1, got %d", opts.supersample)
	}

	s, name, err := createScene(opts.sceneName, opts.configPath, opts.width)
	if err != nil {
		return err
	}
	width, height := s.SamplingConfig.Width, s.SamplingConfig.Height

	if opts.supersample > 1 {
		// Rebuild at the larger width; the camera keeps its aspect ratio
		s, _, err = createScene(opts.sceneName, opts.configPath, width*opts.supersample)
		if err != nil {
			return err
		}
	}
	if opts.pinhole {
		usePinhole(s)
	}
	s.SamplingConfig = scene.MergeSamplingConfig(s.SamplingConfig, scene.SamplingConfig{
		SamplesPerPixel: opts.spp,
		MaxDepth:        opts.depth,
	})

	logger.Printf("Rendering %s (%d primitives) at %dx%d, %d samples/pixel, max depth %d\n",
		name, s.GetPrimitiveCount(), s.SamplingConfig.Width, s.SamplingConfig.Height,
		s.SamplingConfig.SamplesPerPixel, s.SamplingConfig.MaxDepth)

	config := renderer.ProgressiveConfig{
		TileSize:       opts.tileSize,
		InitialSamples: 1,
		MaxPasses:      opts.passes,
		NumWorkers:     opts.workers,
		Seed:           opts.seed,
	}
	raytracer := renderer.NewProgressiveRaytracer(s, config, logger)

	startTime := time.Now()
	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d), mean variance %.6f\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed, stats.AverageVariance)

	final := img
	if opts.supersample > 1 {
		final = imageio.Downsample(img, width, height)
		logger.Printf("Downsampled %dx%d to %dx%d\n", img.Bounds().Dx(), img.Bounds().Dy(), width, height)
	}

	outPath := opts.outPath
	if outPath == "" {
		outPath = defaultOutputPath(name, time.Now())
	}
	if err := imageio.Save(outPath, final); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", outPath)
	return nil
}

// createScene builds a scene from a JSON file when configPath is set, otherwise from
// the registry. width overrides the scene's image width when positive. The returned
// name identifies the scene in output paths.
func createScene(sceneName, configPath string, width int) (*scene.Scene, string, error) {
	override := geometry.CameraConfig{Width: width}

	if configPath != "" {
		s, err := scene.LoadFile(configPath, override)
		if err != nil {
			return nil, "", err
		}
		name := strings.TrimSuffix(filepath.Base(configPath), filepath.Ext(configPath))
		return s, name, nil
	}

	if sceneName == "" {
		return nil, "", errors.New("no scene selected")
	}
	s, err := scene.New(sceneName, override)
	if err != nil {
		return nil, "", err
	}
	return s, sceneName, nil
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.ppm
func defaultOutputPath(sceneName string, now time.Time) string {
	dir := strings.NewReplacer(":", "-", "/", "-", "\\", "-").Replace(sceneName)
	return filepath.Join("output", dir, fmt.Sprintf("render_%s.ppm", now.Format("20060102_150405")))
}
