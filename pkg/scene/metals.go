package scene

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// metalsLadderSize is the number of spheres in each row of the fuzz ladder
const metalsLadderSize = 7

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewMetalsScene creates two rows of metal spheres whose fuzz rises from a perfect
// mirror on the left to fully rough on the right, with hue varying along each row
func NewMetalsScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 2.5, 9),
		LookAt:        core.NewVec3(0, 0.6, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         600,
		AspectRatio:   2.0,
		VFov:          35.0,
		Aperture:      0.02, // Slight depth of field
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene(cameraConfig, SamplingConfig{SamplesPerPixel: 50, MaxDepth: 20})

	ground := material.NewLambertian(core.NewVec3(0.45, 0.45, 0.5))
	s.World.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground))

	radius := 0.45
	spacing := 1.1
	for row := 0; row < 2; row++ {
		z := -float64(row) * 1.4
		for i := 0; i < metalsLadderSize; i++ {
			fuzz := float64(i) / float64(metalsLadderSize-1)
			hue := float64(i)/float64(metalsLadderSize)*360.0 + float64(row)*180.0
			color := oklchToRGB(0.75, 0.12, math.Mod(hue, 360.0))

			x := (float64(i) - float64(metalsLadderSize-1)/2) * spacing
			s.World.Add(geometry.NewSphere(core.NewVec3(x, radius, z), radius, material.NewMetal(color, fuzz)))
		}
	}

	return s
}
