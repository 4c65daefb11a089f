package scene

import (
	"errors"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

func TestBuiltinScenes(t *testing.T) {
	tests := []struct {
		id         string
		primitives int
	}{
		{"cover", 1 + 22*22 + 3},
		{"three-spheres", 5},
		{"metals", 1 + 2*metalsLadderSize},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := New(tt.id)
			if err != nil {
				t.Fatalf("New(%q) error: %v", tt.id, err)
			}
			if s.GetPrimitiveCount() != tt.primitives {
				t.Errorf("Expected %d primitives, got %d", tt.primitives, s.GetPrimitiveCount())
			}
			if s.Camera == nil {
				t.Error("Scene has no camera")
			}
			if s.SamplingConfig.Width != s.CameraConfig.Width || s.SamplingConfig.Height != s.CameraConfig.Height() {
				t.Errorf("Image size %dx%d does not match camera config", s.SamplingConfig.Width, s.SamplingConfig.Height)
			}
			if s.SamplingConfig.SamplesPerPixel <= 0 || s.SamplingConfig.MaxDepth <= 0 {
				t.Errorf("Invalid sampling config: %+v", s.SamplingConfig)
			}
		})
	}
}

func TestNew_CameraOverride(t *testing.T) {
	s, err := New("three-spheres", geometry.CameraConfig{Width: 64})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if s.SamplingConfig.Width != 64 || s.SamplingConfig.Height != 36 {
		t.Errorf("Expected 64x36, got %dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
}

func TestNew_Unknown(t *testing.T) {
	tests := []string{"", "nope", "file:does-not-exist"}
	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			_, err := New(id)
			if !errors.Is(err, ErrUnknownScene) {
				t.Errorf("Expected ErrUnknownScene, got %v", err)
			}
		})
	}
}

func TestNew_FileScene(t *testing.T) {
	dir := t.TempDir()
	withScenesDir(t, dir)
	writeSceneFile(t, dir, "single.json", `{"materials": {"m": {"type": "metal", "fuzz": 0.1}},
		"spheres": [{"center": [0,0,-1], "radius": 0.5, "material": "m"}]}`)

	s, err := New("file:single")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if s.GetPrimitiveCount() != 1 {
		t.Errorf("Expected 1 sphere, got %d", s.GetPrimitiveCount())
	}
}

func TestCoverScene_Deterministic(t *testing.T) {
	a := NewCoverScene(7)
	b := NewCoverScene(7)
	c := NewCoverScene(8)

	sameAsC := true
	for i := range a.World.Shapes {
		sa := a.World.Shapes[i].(*geometry.Sphere)
		sb := b.World.Shapes[i].(*geometry.Sphere)
		sc := c.World.Shapes[i].(*geometry.Sphere)
		if !sa.Center.Equals(sb.Center) || sa.Radius != sb.Radius {
			t.Fatalf("Sphere %d differs between equal seeds: %v vs %v", i, sa.Center, sb.Center)
		}
		if !sa.Center.Equals(sc.Center) {
			sameAsC = false
		}
	}
	if sameAsC {
		t.Error("Different seeds should produce different layouts")
	}
}

func TestMergeSamplingConfig(t *testing.T) {
	base := SamplingConfig{Width: 400, Height: 266, SamplesPerPixel: 20, MaxDepth: 5}
	merged := MergeSamplingConfig(base, SamplingConfig{SamplesPerPixel: 100})

	expected := SamplingConfig{Width: 400, Height: 266, SamplesPerPixel: 100, MaxDepth: 5}
	if merged != expected {
		t.Errorf("MergeSamplingConfig() = %+v, want %+v", merged, expected)
	}
}

func TestOklchToRGB(t *testing.T) {
	// Zero chroma is a neutral grey
	grey := oklchToRGB(0.6, 0, 123)
	if !grey.ApproxEquals(core.NewVec3(grey.X, grey.X, grey.X), 1e-6) {
		t.Errorf("Zero chroma should be grey, got %v", grey)
	}

	// Results are clamped to displayable range
	vivid := oklchToRGB(0.9, 0.4, 30)
	for _, c := range []float64{vivid.X, vivid.Y, vivid.Z} {
		if c < 0 || c > 1 {
			t.Errorf("Component %f out of [0, 1]", c)
		}
	}
}
