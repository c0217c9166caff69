package integrator

import (
	"math"
	"testing"

	"github.com/Nuos/tray-rust/pkg/core"
)

func TestWhitted_DirectEmitterHitIsExact(t *testing.T) {
	s := emitterOnlyScene(t, []float64{2, 3, 4})
	w := NewWhitted(8)
	sampler := core.NewSeededSampler(1)

	ray := core.Ray{Origin: core.NewVec3(0, 0, -5), Direction: core.NewVec3(0, 0, 1)}
	li := w.Li(ray, s, sampler)
	want := core.NewVec3(2, 3, 4)
	if li.Subtract(want).Length() > 1e-9 {
		t.Errorf("first-hit emission must be counted in full: got %v, want %v", li, want)
	}
}

// The point-light answer is the same as the path tracer's: direct lighting
// is all there is, and Whitted computes exactly that
func TestWhitted_PointLightClosedForm(t *testing.T) {
	albedo, intensity, height := 0.8, 10.0, 4.0
	s := pointLightScene(t, albedo, intensity, height)

	w := NewWhitted(4)
	sampler := core.NewSeededSampler(11)
	ray := core.Ray{Origin: core.NewVec3(0, 0, 1), Direction: core.NewVec3(0, 0, -1)}

	expected := albedo * intensity / (math.Pi * height * height)
	li := w.Li(ray, s, sampler)
	if math.Abs(li.X-expected) > 1e-9 {
		t.Errorf("point light estimate %v differs from closed form %v", li.X, expected)
	}
}

// Paths stop at the first non-specular surface, so raising the depth bound
// past it must not change the estimate
func TestWhitted_StopsAtDiffuseSurface(t *testing.T) {
	s := buildScene(t, 0.8, 5.0, 0.5, 4.0)
	ray := core.Ray{Origin: core.NewVec3(0, 0, 1), Direction: core.NewVec3(0, 0, -1)}

	a := NewWhitted(1).Li(ray, s, core.NewSeededSampler(9))
	b := NewWhitted(8).Li(ray, s, core.NewSeededSampler(9))
	if a.Subtract(b).Length() > 1e-12 {
		t.Errorf("diffuse surface must terminate the path: %v vs %v", a, b)
	}
}

func TestWhitted_MaxDepthZeroIsBlack(t *testing.T) {
	s := emitterOnlyScene(t, []float64{5, 5, 5})
	w := NewWhitted(0)
	sampler := core.NewSeededSampler(1)

	ray := core.Ray{Origin: core.NewVec3(0, 0, -5), Direction: core.NewVec3(0, 0, 1)}
	if li := w.Li(ray, s, sampler); !li.IsBlack() {
		t.Errorf("zero max depth must produce black, got %v", li)
	}
}
