package renderer

import (
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// testLogger implements core.Logger for testing by discarding all output
type testLogger struct{}

// Ensure testLogger implements core.Logger
var _ core.Logger = (*testLogger)(nil)

func (tl *testLogger) Printf(format string, args ...interface{}) {
	// Discard log output during tests
}

// newTestScene creates a small three-spheres scene with the given sampling
func newTestScene(t *testing.T, width, samplesPerPixel, maxDepth int) *scene.Scene {
	t.Helper()
	s, err := scene.New("three-spheres", geometry.CameraConfig{Width: width})
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	s.SamplingConfig.SamplesPerPixel = samplesPerPixel
	s.SamplingConfig.MaxDepth = maxDepth
	return s
}
