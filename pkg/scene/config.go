package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// ErrInvalidScene is wrapped by every validation failure of a scene file
var ErrInvalidScene = errors.New("invalid scene")

// Material types accepted in scene files
const (
	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
	MaterialDielectric = "dielectric"
)

// Vec is a JSON triple such as [0.5, 0.7, 1.0]
type Vec [3]float64

func (v *Vec) toVec3(fallback core.Vec3) core.Vec3 {
	if v == nil {
		return fallback
	}
	return core.NewVec3(v[0], v[1], v[2])
}

// ImageCfg is the output image and sampling section of a scene file
type ImageCfg struct {
	Width           int     `json:"width"`
	AspectRatio     float64 `json:"aspectRatio"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	MaxDepth        int     `json:"maxDepth"`
}

// CameraCfg is the camera section of a scene file
type CameraCfg struct {
	LookFrom      *Vec    `json:"lookFrom,omitempty"`
	LookAt        *Vec    `json:"lookAt,omitempty"`
	Up            *Vec    `json:"up,omitempty"`
	VFov          float64 `json:"vfov"`
	Aperture      float64 `json:"aperture"`
	FocusDistance float64 `json:"focusDistance"` // 0 focuses on lookAt
}

// BackgroundCfg is the sky gradient of a scene file
type BackgroundCfg struct {
	Top    *Vec `json:"top,omitempty"`
	Bottom *Vec `json:"bottom,omitempty"`
}

// MaterialCfg describes one named material
type MaterialCfg struct {
	Type   string  `json:"type"`
	Albedo *Vec    `json:"albedo,omitempty"`
	Fuzz   float64 `json:"fuzz,omitempty"`
	IOR    float64 `json:"ior,omitempty"`
}

// SphereCfg places one sphere; Material names an entry of Config.Materials
type SphereCfg struct {
	Center   Vec     `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// Config is the JSON scene file format
type Config struct {
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Group       string                 `json:"group,omitempty"`
	Image       ImageCfg               `json:"image"`
	Camera      CameraCfg              `json:"camera"`
	Background  BackgroundCfg          `json:"background"`
	Materials   map[string]MaterialCfg `json:"materials"`
	Spheres     []SphereCfg            `json:"spheres"`
}

// Defaults for fields a scene file leaves out
const (
	defaultFileWidth       = 400
	defaultFileAspectRatio = 3.0 / 2.0
	defaultFileSamples     = 20
	defaultFileMaxDepth    = 5
	defaultFileVFov        = 90.0

	// maxFilePixels bounds width*height of a scene file (8192x8192)
	maxFilePixels = 1 << 26
)

var defaultAlbedo = core.NewVec3(0.5, 0.5, 0.5)

// Resolve fills zero-valued fields with defaults and validates the rest
func (c *Config) Resolve() error {
	if c.Image.Width < 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidScene, c.Image.Width)
	}
	if c.Image.Width == 0 {
		c.Image.Width = defaultFileWidth
	}
	if c.Image.AspectRatio < 0 {
		return fmt.Errorf("%w: aspectRatio must be positive, got %g", ErrInvalidScene, c.Image.AspectRatio)
	}
	if c.Image.AspectRatio == 0 {
		c.Image.AspectRatio = defaultFileAspectRatio
	}
	if err := checkImageSize(c.Image.Width, c.Image.AspectRatio); err != nil {
		return err
	}
	if c.Image.SamplesPerPixel <= 0 {
		c.Image.SamplesPerPixel = defaultFileSamples
	}
	if c.Image.MaxDepth <= 0 {
		c.Image.MaxDepth = defaultFileMaxDepth
	}
	if c.Camera.VFov == 0 {
		c.Camera.VFov = defaultFileVFov
	}
	if c.Camera.VFov <= 0 || c.Camera.VFov >= 180 {
		return fmt.Errorf("%w: vfov must be in (0, 180), got %g", ErrInvalidScene, c.Camera.VFov)
	}
	if c.Camera.Aperture < 0 {
		return fmt.Errorf("%w: aperture must not be negative, got %g", ErrInvalidScene, c.Camera.Aperture)
	}
	if c.Camera.FocusDistance < 0 {
		return fmt.Errorf("%w: focusDistance must not be negative, got %g", ErrInvalidScene, c.Camera.FocusDistance)
	}

	camera := c.cameraConfig()
	if camera.Center.Subtract(camera.LookAt).NearZero() {
		return fmt.Errorf("%w: camera lookFrom and lookAt coincide", ErrInvalidScene)
	}
	if camera.Up.Cross(camera.Center.Subtract(camera.LookAt)).NearZero() {
		return fmt.Errorf("%w: camera up is parallel to the view direction", ErrInvalidScene)
	}

	for name, m := range c.Materials {
		switch m.Type {
		case MaterialLambertian, MaterialMetal:
		case MaterialDielectric:
			if m.IOR <= 0 {
				return fmt.Errorf("%w: material %q: invalid refractive index %g", ErrInvalidScene, name, m.IOR)
			}
		default:
			return fmt.Errorf("%w: material %q: unknown type %q", ErrInvalidScene, name, m.Type)
		}
	}

	for i, s := range c.Spheres {
		if s.Radius == 0 {
			return fmt.Errorf("%w: sphere %d: radius must not be zero", ErrInvalidScene, i)
		}
		if _, ok := c.Materials[s.Material]; !ok {
			return fmt.Errorf("%w: sphere %d: undefined material %q", ErrInvalidScene, i, s.Material)
		}
	}

	return nil
}

func checkImageSize(width int, aspectRatio float64) error {
	if height := float64(width) / aspectRatio; float64(width)*height > maxFilePixels {
		return fmt.Errorf("%w: image %d wide at aspectRatio %g exceeds %d pixels",
			ErrInvalidScene, width, aspectRatio, maxFilePixels)
	}
	return nil
}

func (c *Config) cameraConfig() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:        c.Camera.LookFrom.toVec3(core.NewVec3(0, 0, 0)),
		LookAt:        c.Camera.LookAt.toVec3(core.NewVec3(0, 0, -1)),
		Up:            c.Camera.Up.toVec3(core.NewVec3(0, 1, 0)),
		Width:         c.Image.Width,
		AspectRatio:   c.Image.AspectRatio,
		VFov:          c.Camera.VFov,
		Aperture:      c.Camera.Aperture,
		FocusDistance: c.Camera.FocusDistance,
	}
}

// Build resolves the configuration and constructs the scene it describes.
// Each named material is instantiated once and shared by every sphere that uses it.
func (c *Config) Build(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	if err := c.Resolve(); err != nil {
		return nil, err
	}

	cameraConfig := c.cameraConfig()
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, cameraOverrides[0])
		if err := checkImageSize(cameraConfig.Width, cameraConfig.AspectRatio); err != nil {
			return nil, err
		}
	}

	materials := make(map[string]material.Material, len(c.Materials))
	for name, m := range c.Materials {
		switch m.Type {
		case MaterialLambertian:
			materials[name] = material.NewLambertian(m.Albedo.toVec3(defaultAlbedo))
		case MaterialMetal:
			materials[name] = material.NewMetal(m.Albedo.toVec3(defaultAlbedo), m.Fuzz)
		case MaterialDielectric:
			materials[name] = material.NewDielectric(m.IOR)
		}
	}

	s := newScene(cameraConfig, SamplingConfig{
		SamplesPerPixel: c.Image.SamplesPerPixel,
		MaxDepth:        c.Image.MaxDepth,
	})

	defaults := integrator.DefaultBackground()
	s.Background = integrator.Background{
		Top:    c.Background.Top.toVec3(defaults.Top),
		Bottom: c.Background.Bottom.toVec3(defaults.Bottom),
	}

	for _, sc := range c.Spheres {
		center := core.NewVec3(sc.Center[0], sc.Center[1], sc.Center[2])
		s.World.Add(geometry.NewSphere(center, sc.Radius, materials[sc.Material]))
	}

	return s, nil
}

// Parse decodes a JSON scene description and builds the scene
func Parse(data []byte, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	s, err := cfg.Build(cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return s, nil
}

// LoadFile reads a JSON scene file and builds the scene
func LoadFile(path string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	s, err := cfg.Build(cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return s, nil
}
