package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	World          *geometry.World       // Objects in the scene
	Background     integrator.Background // Sky gradient for escaping rays
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns the sampling used when a scene does not specify one
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          266,
		SamplesPerPixel: 20,
		MaxDepth:        5,
	}
}

// MergeSamplingConfig returns base with every positive field of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.Width > 0 {
		result.Width = override.Width
	}
	if override.Height > 0 {
		result.Height = override.Height
	}
	if override.SamplesPerPixel > 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth > 0 {
		result.MaxDepth = override.MaxDepth
	}
	return result
}

// newScene assembles a scene from a camera configuration, deriving the image size from it
func newScene(cameraConfig geometry.CameraConfig, sampling SamplingConfig, shapes ...geometry.Shape) *Scene {
	sampling.Width = cameraConfig.Width
	sampling.Height = cameraConfig.Height()

	return &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		World:          geometry.NewWorld(shapes...),
		Background:     integrator.DefaultBackground(),
		SamplingConfig: sampling,
	}
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// NewIntegrator creates the path tracer configured for this scene
func (s *Scene) NewIntegrator() *integrator.PathTracingIntegrator {
	return integrator.NewPathTracingIntegrator(s.SamplingConfig.MaxDepth, s.Background)
}
