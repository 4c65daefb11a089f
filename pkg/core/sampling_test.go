package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(7)
	b := NewRandomSampler(rand.New(rand.NewSource(7)))

	for i := 0; i < 10; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatalf("Samplers with equal seeds diverged at draw %d", i)
		}
	}
}

func TestRandomSampler_Range(t *testing.T) {
	sampler := NewSeededSampler(42)
	for i := 0; i < 1000; i++ {
		v := sampler.Get3D()
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if c < 0 || c >= 1 {
				t.Fatalf("Sample %f out of [0, 1)", c)
			}
		}
	}
}

func TestSampleOnUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(42)
	var mean Vec3
	const n = 10000
	for i := 0; i < n; i++ {
		p := SampleOnUnitSphere(sampler.Get2D())
		if math.Abs(p.Length()-1) > 1e-9 {
			t.Fatalf("Point %v is not on the unit sphere (length %f)", p, p.Length())
		}
		mean = mean.Add(p)
	}

	// Uniform distribution is centred on the origin
	mean = mean.Multiply(1.0 / n)
	if mean.Length() > 0.05 {
		t.Errorf("Sample mean %v too far from origin", mean)
	}
}

func TestSamplePointInUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(42)
	for i := 0; i < 1000; i++ {
		p := SamplePointInUnitSphere(sampler.Get3D())
		if p.Length() > 1+1e-12 {
			t.Fatalf("Point %v lies outside the unit sphere", p)
		}
	}
}

func TestSamplePointInUnitDisk(t *testing.T) {
	tests := []struct {
		name   string
		sample Vec2
	}{
		{"centre", NewVec2(0.5, 0.5)},
		{"corner", NewVec2(0, 0)},
		{"edge", NewVec2(1, 0.5)},
		{"arbitrary", NewVec2(0.2, 0.9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SamplePointInUnitDisk(tt.sample)
			if p.Z != 0 {
				t.Errorf("Disk sample should lie in the z=0 plane, got %v", p)
			}
			if p.Length() > 1+1e-12 {
				t.Errorf("Disk sample %v lies outside the unit disk", p)
			}
		})
	}

	centre := SamplePointInUnitDisk(NewVec2(0.5, 0.5))
	if !centre.Equals(NewVec3(0, 0, 0)) {
		t.Errorf("Centre sample should map to origin, got %v", centre)
	}
}
