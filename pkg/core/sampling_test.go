package core

import (
	"math"
	"testing"
)

func TestOrthonormalBasis(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(1, 0, 0),
		NewVec3(1, 1, 1).Normalize(),
		NewVec3(-0.3, 0.9, 0.2).Normalize(),
	}
	for _, n := range normals {
		tangent, bitangent := OrthonormalBasis(n)
		if math.Abs(tangent.Length()-1) > 1e-12 || math.Abs(bitangent.Length()-1) > 1e-12 {
			t.Errorf("basis vectors for %v are not unit length", n)
		}
		if math.Abs(tangent.Dot(n)) > 1e-12 || math.Abs(bitangent.Dot(n)) > 1e-12 || math.Abs(tangent.Dot(bitangent)) > 1e-12 {
			t.Errorf("basis for %v is not orthogonal", n)
		}
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	normal := NewVec3(0, 1, 0)
	sampler := NewSeededSampler(13)

	sum := 0.0
	const n = 50000
	for i := 0; i < n; i++ {
		dir := SampleCosineHemisphere(normal, sampler.Get2D())
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("sampled direction not unit length: %v", dir)
		}
		cos := dir.Dot(normal)
		if cos < 0 {
			t.Fatalf("sample below the hemisphere: %v", dir)
		}
		sum += cos
	}

	// E[cosθ] = 2/3 under cosine weighting
	mean := sum / n
	if math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("mean cosine should approach 2/3, got %v", mean)
	}
}

func TestCosineHemispherePDF(t *testing.T) {
	if got := CosineHemispherePDF(1); math.Abs(got-1/math.Pi) > 1e-12 {
		t.Errorf("pdf at the pole: got %v", got)
	}
	if got := CosineHemispherePDF(-0.5); got != 0 {
		t.Errorf("pdf below the horizon must be 0, got %v", got)
	}
}

func TestSampleUniformSphere(t *testing.T) {
	sampler := NewSeededSampler(29)
	mean := NewVec3(0, 0, 0)
	const n = 50000
	for i := 0; i < n; i++ {
		dir := SampleUniformSphere(sampler.Get2D())
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("sampled direction not unit length: %v", dir)
		}
		mean = mean.Add(dir)
	}
	// Uniform directions average out to the origin
	if mean.Multiply(1.0 / n).Length() > 0.02 {
		t.Errorf("uniform sphere samples are biased: mean %v", mean.Multiply(1.0/n))
	}
}

func TestSampleConcentricDisk(t *testing.T) {
	sampler := NewSeededSampler(31)
	inQuadrant := 0
	const n = 20000
	for i := 0; i < n; i++ {
		p := SampleConcentricDisk(sampler.Get2D())
		if p.X*p.X+p.Y*p.Y > 1+1e-12 {
			t.Fatalf("sample outside the unit disk: %v", p)
		}
		if p.X > 0 && p.Y > 0 {
			inQuadrant++
		}
	}
	// Roughly a quarter of the samples land in each quadrant
	frac := float64(inQuadrant) / n
	if math.Abs(frac-0.25) > 0.02 {
		t.Errorf("quadrant fraction should approach 0.25, got %v", frac)
	}
}

func TestPowerHeuristic(t *testing.T) {
	// Equal pdfs split the weight evenly
	if got := PowerHeuristic(1, 2, 1, 2); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("equal pdfs: got %v", got)
	}
	// A dominant strategy takes nearly all the weight
	if got := PowerHeuristic(1, 10, 1, 0.1); got < 0.99 {
		t.Errorf("dominant strategy weight: got %v", got)
	}
	// Complementary weights sum to one
	a := PowerHeuristic(1, 3, 1, 7)
	b := PowerHeuristic(1, 7, 1, 3)
	if math.Abs(a+b-1) > 1e-12 {
		t.Errorf("weights should sum to 1, got %v", a+b)
	}
	// Degenerate case
	if got := PowerHeuristic(1, 0, 1, 0); got != 0 {
		t.Errorf("zero pdfs should weight 0, got %v", got)
	}
}
