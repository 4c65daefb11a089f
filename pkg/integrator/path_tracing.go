package integrator

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

// DefaultTMin offsets secondary rays from the surface they leave to avoid self-intersection
const DefaultTMin = 0.001

// PathTracingIntegrator implements unidirectional path tracing with a fixed bounce limit
type PathTracingIntegrator struct {
	MaxDepth   int        // Maximum number of surface interactions per path
	TMin       float64    // Lower bound of the hit interval for every ray
	Background Background // Radiance for rays that leave the world
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int, background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		MaxDepth:   maxDepth,
		TMin:       DefaultTMin,
		Background: background,
	}
}

// RayColor follows a path through the world, multiplying material attenuation into a
// running throughput until the path escapes, is absorbed, or runs out of bounces.
// A path that exhausts its depth contributes black.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	current := ray

	for depth := pt.MaxDepth; depth > 0; depth-- {
		hit, isHit := world.Hit(current, pt.TMin, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(pt.Background.Color(current.Direction))
		}

		scatter, didScatter := hit.Material.Scatter(current, *hit, sampler)
		if !didScatter {
			return core.Vec3{}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		current = scatter.Scattered
	}

	return core.Vec3{}
}
