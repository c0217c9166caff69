package material

import (
	"math"
	"testing"

	"github.com/Nuos/tray-rust/pkg/core"
)

func testShadingPoint() ShadingPoint {
	return ShadingPoint{
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}
}

func TestMatte_LambertianReflectance(t *testing.T) {
	diffuse := core.NewVec3(0.8, 0.5, 0.3)
	matte := NewMatte(diffuse, 0)
	sp := testShadingPoint()

	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0.5, 0, 1).Normalize()

	f := matte.Evaluate(wo, wi, sp)
	expected := diffuse.Multiply(1.0 / math.Pi)
	if f.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Lambertian reflectance must be diffuse/π: got %v, expected %v", f, expected)
	}
}

func TestMatte_EvaluateBelowSurfaceIsZero(t *testing.T) {
	matte := NewMatte(core.NewVec3(0.8, 0.8, 0.8), 0)
	sp := testShadingPoint()

	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0, 0, -1)

	if f := matte.Evaluate(wo, wi, sp); !f.IsBlack() {
		t.Errorf("reflectance below the surface must be zero, got %v", f)
	}
}

func TestMatte_SamplePDFMatchesFormula(t *testing.T) {
	matte := NewMatte(core.NewVec3(0.5, 0.5, 0.5), 0)
	sp := testShadingPoint()
	sampler := core.NewSeededSampler(42)
	wo := core.NewVec3(0, 0, 1)

	for i := 0; i < 100; i++ {
		sample, ok := matte.Sample(wo, sp, sampler)
		if !ok {
			t.Fatal("matte should always scatter")
		}
		cosTheta := sample.Direction.Dot(sp.Normal)
		expectedPDF := cosTheta / math.Pi
		if math.Abs(sample.PDF-expectedPDF) > 1e-12 {
			t.Fatalf("pdf mismatch: got %v, expected %v", sample.PDF, expectedPDF)
		}
	}
}

// The cosine-weighted pdf must integrate to 1 over the hemisphere. Estimate
// the integral with uniform-direction Monte Carlo: E[pdf/q] with q = 1/(2π).
func TestMatte_PDFIntegratesToOne(t *testing.T) {
	matte := NewMatte(core.NewVec3(0.5, 0.5, 0.5), 0)
	sp := testShadingPoint()
	sampler := core.NewSeededSampler(7)
	wo := core.NewVec3(0, 0, 1)

	const n = 200000
	sum := 0.0
	for i := 0; i < n; i++ {
		dir := core.SampleUniformSphere(sampler.Get2D())
		if dir.Z < 0 {
			dir = dir.Negate() // Fold onto the upper hemisphere
		}
		sum += matte.PDF(wo, dir, sp) * 2 * math.Pi
	}
	integral := sum / n

	if math.Abs(integral-1.0) > 0.02 {
		t.Errorf("cosine pdf should integrate to 1 over the hemisphere, got %v", integral)
	}
}

func TestMatte_OrenNayarReducesGrazingRetroreflection(t *testing.T) {
	smooth := NewMatte(core.NewVec3(0.8, 0.8, 0.8), 0)
	rough := NewMatte(core.NewVec3(0.8, 0.8, 0.8), 0.5)
	sp := testShadingPoint()

	// Facing directions: rough surfaces darken relative to Lambertian here
	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0, 0, 1)

	fSmooth := smooth.Evaluate(wo, wi, sp)
	fRough := rough.Evaluate(wo, wi, sp)
	if fRough.X >= fSmooth.X {
		t.Errorf("Oren-Nayar at normal incidence should be below Lambertian: %v vs %v", fRough, fSmooth)
	}
	if fRough.X <= 0 {
		t.Errorf("Oren-Nayar reflectance must stay positive, got %v", fRough)
	}
}
