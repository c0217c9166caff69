package material

import (
	"math"
	"testing"

	"github.com/Nuos/tray-rust/pkg/core"
)

func TestPlastic_MixturePDFIsWeightedSum(t *testing.T) {
	plastic := NewPlastic(core.NewVec3(0.5, 0.2, 0.2), core.NewVec3(0.3, 0.3, 0.3), 0.1)
	sp := testShadingPoint()

	wo := core.NewVec3(0.3, 0, 1).Normalize()
	wi := core.NewVec3(-0.2, 0.1, 1).Normalize()

	cosPDF := core.CosineHemispherePDF(wi.Dot(sp.Normal))
	glossPDF := plastic.dist.PDF(wo, wi, sp.Normal)
	expected := plastic.diffuseWeight*cosPDF + (1-plastic.diffuseWeight)*glossPDF

	if got := plastic.PDF(wo, wi, sp); math.Abs(got-expected) > 1e-12 {
		t.Errorf("mixture pdf mismatch: got %v, expected %v", got, expected)
	}
	if glossPDF <= 0 {
		t.Error("glossy lobe pdf should be positive for a near-mirror pair")
	}
}

func TestPlastic_SampleStaysAboveSurface(t *testing.T) {
	plastic := NewPlastic(core.NewVec3(0.6, 0.6, 0.6), core.NewVec3(0.4, 0.4, 0.4), 0.2)
	sp := testShadingPoint()
	sampler := core.NewSeededSampler(11)
	wo := core.NewVec3(0.4, -0.1, 1).Normalize()

	for i := 0; i < 500; i++ {
		sample, ok := plastic.Sample(wo, sp, sampler)
		if !ok {
			continue // Glossy reflections can dip below the horizon
		}
		if sample.Direction.Dot(sp.Normal) <= 0 {
			t.Fatalf("accepted sample below surface: %v", sample.Direction)
		}
		if sample.PDF <= 0 {
			t.Fatalf("accepted sample with non-positive pdf: %v", sample.PDF)
		}
		if sample.Reflectance.HasNaN() {
			t.Fatalf("NaN reflectance for direction %v", sample.Direction)
		}
	}
}

func TestPlastic_EvaluateSumsBothLobes(t *testing.T) {
	diffuseOnly := NewPlastic(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0, 0, 0), 0.1)
	full := NewPlastic(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0.5, 0.5, 0.5), 0.1)
	sp := testShadingPoint()

	// Near the mirror direction the glossy lobe dominates
	wo := core.NewVec3(0.5, 0, 1).Normalize()
	wi := core.NewVec3(-0.5, 0, 1).Normalize()

	fDiffuse := diffuseOnly.Evaluate(wo, wi, sp)
	fFull := full.Evaluate(wo, wi, sp)
	if fFull.X <= fDiffuse.X {
		t.Errorf("glossy lobe should add energy near the mirror direction: %v vs %v", fFull, fDiffuse)
	}
}

func TestPlastic_NotSpecular(t *testing.T) {
	plastic := NewPlastic(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0.3, 0.3, 0.3), 0.1)
	if plastic.IsSpecular() {
		t.Error("plastic must not report as specular")
	}
}
