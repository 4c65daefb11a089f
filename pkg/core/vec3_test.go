package core

import (
	"math"
	"testing"
)

func TestVec3_BasicOperations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Lerp start", a.Lerp(b, 0), a},
		{"Lerp end", a.Lerp(b, 1), b},
		{"Lerp middle", NewVec3(0, 0, 0).Lerp(NewVec3(2, 4, 6), 0.5), NewVec3(1, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.result.ApproxEquals(tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}

	if a.Dot(b) != 4-10+18 {
		t.Errorf("Dot product incorrect: got %f", a.Dot(b))
	}
	if a.LengthSquared() != 14 {
		t.Errorf("LengthSquared incorrect: got %f", a.LengthSquared())
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 4, 12).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}

	zero := NewVec3(0, 0, 0).Normalize()
	if !zero.Equals(NewVec3(0, 0, 0)) {
		t.Errorf("Normalizing zero vector should return zero, got %v", zero)
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected bool
	}{
		{"exact zero", NewVec3(0, 0, 0), true},
		{"tiny components", NewVec3(1e-9, -1e-9, 5e-10), true},
		{"one large component", NewVec3(1e-9, 0.1, 0), false},
		{"unit vector", NewVec3(0, 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.NearZero(); got != tt.expected {
				t.Errorf("NearZero(%v) = %t, expected %t", tt.v, got, tt.expected)
			}
		})
	}
}

func TestVec3_GammaCorrect(t *testing.T) {
	c := NewVec3(0.25, 0.64, 1.0).GammaCorrect(2.0)
	if !c.Equals(NewVec3(0.5, 0.8, 1.0)) {
		t.Errorf("Gamma 2 should be exact sqrt, got %v", c)
	}

	// Negative noise never produces NaN
	neg := NewVec3(-0.1, 0, 0).GammaCorrect(2.2)
	if math.IsNaN(neg.X) {
		t.Error("GammaCorrect produced NaN for negative input")
	}
}

func TestReflect(t *testing.T) {
	v := NewVec3(1, -1, 0)
	n := NewVec3(0, 1, 0)
	r := Reflect(v, n)
	if !r.ApproxEquals(NewVec3(1, 1, 0), 1e-12) {
		t.Errorf("Expected (1, 1, 0), got %v", r)
	}
}

func TestRefract(t *testing.T) {
	n := NewVec3(0, 1, 0)

	// Normal incidence passes straight through regardless of ratio
	straight := Refract(NewVec3(0, -1, 0), n, 1.0/1.5)
	if !straight.ApproxEquals(NewVec3(0, -1, 0), 1e-12) {
		t.Errorf("Normal incidence should not bend, got %v", straight)
	}

	// Ratio 1 leaves any direction unchanged
	in := NewVec3(1, -1, 0).Normalize()
	same := Refract(in, n, 1.0)
	if !same.ApproxEquals(in, 1e-12) {
		t.Errorf("Ratio 1 should not bend: expected %v, got %v", in, same)
	}

	// Snell's law: sin(out) = ratio * sin(in)
	ratio := 1.0 / 1.5
	out := Refract(in, n, ratio).Normalize()
	sinIn := math.Sqrt(1 - math.Pow(in.Dot(n), 2))
	sinOut := math.Sqrt(1 - math.Pow(out.Dot(n), 2))
	if math.Abs(sinOut-ratio*sinIn) > 1e-9 {
		t.Errorf("Snell's law violated: sinOut=%f, expected %f", sinOut, ratio*sinIn)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -2))
	p := ray.At(0.5)
	if !p.Equals(NewVec3(1, 2, 2)) {
		t.Errorf("Expected (1, 2, 2), got %v", p)
	}
}
