package material

import (
	"math"
	"testing"

	"github.com/Nuos/tray-rust/pkg/core"
)

// constantTable builds a table where every sample holds the same value
func constantTable(nh, nd, np int, value core.Vec3) *MeasuredTable {
	samples := make([]core.Vec3, nh*nd*np)
	for i := range samples {
		samples[i] = value
	}
	return &MeasuredTable{NThetaH: nh, NThetaD: nd, NPhiD: np, Samples: samples}
}

func TestMeasured_ConstantTableInterpolatesToConstant(t *testing.T) {
	value := core.NewVec3(0.25, 0.5, 0.75)
	measured, err := NewMeasured(constantTable(8, 8, 16, value))
	if err != nil {
		t.Fatalf("NewMeasured failed: %v", err)
	}
	sp := testShadingPoint()
	sampler := core.NewSeededSampler(9)
	wo := core.NewVec3(0.2, 0.1, 1).Normalize()

	for i := 0; i < 100; i++ {
		wi := core.SampleCosineHemisphere(sp.Normal, sampler.Get2D())
		f := measured.Evaluate(wo, wi, sp)
		if f.Subtract(value).Length() > 1e-9 {
			t.Fatalf("constant table should interpolate to the constant: got %v for wi=%v", f, wi)
		}
	}
}

func TestMeasured_BoundaryClamping(t *testing.T) {
	measured, err := NewMeasured(constantTable(4, 4, 8, core.NewVec3(1, 1, 1)))
	if err != nil {
		t.Fatalf("NewMeasured failed: %v", err)
	}
	sp := testShadingPoint()

	// Near-grazing pair drives θh to the top of the table; the lookup must
	// clamp rather than read out of range
	wo := core.NewVec3(1, 0, 0.02).Normalize()
	wi := core.NewVec3(-1, 0, 0.02).Normalize()
	f := measured.Evaluate(wo, wi, sp)
	if f.HasNaN() {
		t.Errorf("boundary lookup produced NaN: %v", f)
	}
}

func TestMeasured_BelowSurfaceIsZero(t *testing.T) {
	measured, err := NewMeasured(constantTable(4, 4, 8, core.NewVec3(1, 1, 1)))
	if err != nil {
		t.Fatalf("NewMeasured failed: %v", err)
	}
	sp := testShadingPoint()

	f := measured.Evaluate(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1), sp)
	if !f.IsBlack() {
		t.Errorf("below-surface evaluation must be zero, got %v", f)
	}
}

func TestMeasuredTable_Validation(t *testing.T) {
	bad := &MeasuredTable{NThetaH: 4, NThetaD: 4, NPhiD: 8, Samples: make([]core.Vec3, 10)}
	if _, err := NewMeasured(bad); err == nil {
		t.Error("expected validation error for mismatched sample count")
	}

	empty := &MeasuredTable{}
	if _, err := NewMeasured(empty); err == nil {
		t.Error("expected validation error for zero dimensions")
	}
}

func TestMeasured_SamplePDFIsCosineWeighted(t *testing.T) {
	measured, err := NewMeasured(constantTable(4, 4, 8, core.NewVec3(0.5, 0.5, 0.5)))
	if err != nil {
		t.Fatalf("NewMeasured failed: %v", err)
	}
	sp := testShadingPoint()
	sampler := core.NewSeededSampler(21)
	wo := core.NewVec3(0, 0, 1)

	sample, ok := measured.Sample(wo, sp, sampler)
	if !ok {
		t.Fatal("measured material should scatter")
	}
	expected := sample.Direction.Dot(sp.Normal) / math.Pi
	if math.Abs(sample.PDF-expected) > 1e-12 {
		t.Errorf("pdf mismatch: got %v, expected %v", sample.PDF, expected)
	}
}
