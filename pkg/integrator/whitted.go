package integrator

import (
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
	"github.com/Nuos/tray-rust/pkg/material"
	"github.com/Nuos/tray-rust/pkg/scene"
)

// Whitted is the classic recursive ray tracer: emitted light plus sampled
// direct lighting at the first non-specular surface, with perfect specular
// reflection and transmission chains continued up to MaxDepth. There is no
// diffuse interreflection.
type Whitted struct {
	MaxDepth int
}

// NewWhitted creates a Whitted integrator with the given depth bound
func NewWhitted(maxDepth int) *Whitted {
	return &Whitted{MaxDepth: maxDepth}
}

// Li traces the ray through specular bounces and returns the radiance
// estimate at the first non-specular surface
func (w *Whitted) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	radiance := core.NewVec3(0, 0, 0)
	throughput := core.NewVec3(1, 1, 1)

	for depth := 0; depth < w.MaxDepth; depth++ {
		hit, ok := s.Intersect(ray, 1e-4, math.Inf(1))
		if !ok {
			break
		}

		// Emitters are only ever reached from the camera or through a
		// specular chain, so emission always counts in full
		if !hit.Emission.IsBlack() {
			radiance = radiance.Add(throughput.MultiplyVec(hit.Emission))
		}

		sp := material.ShadingPoint{Normal: hit.Normal, UV: hit.UV, FrontFace: hit.FrontFace}
		wo := ray.Direction.Negate()

		if !hit.Material.IsSpecular() {
			direct := estimateDirect(s, hit, wo, sp, sampler)
			radiance = radiance.Add(throughput.MultiplyVec(direct))
			break
		}

		sample, ok := hit.Material.Sample(wo, sp, sampler)
		if !ok {
			break
		}
		throughput = throughput.MultiplyVec(sample.Reflectance)
		if throughput.IsBlack() {
			break
		}
		ray = core.Ray{Origin: hit.Point, Direction: sample.Direction}
	}

	return clampRadiance(radiance)
}

// estimateDirect samples one light with no BSDF-side weighting: the path
// never continues past a non-specular surface, so there is no second
// estimator to balance against
func estimateDirect(s *scene.Scene, hit *scene.Hit, wo core.Vec3, sp material.ShadingPoint, sampler core.Sampler) core.Vec3 {
	ls, ok := s.SampleLight(hit.Point, sampler.Get1D(), sampler.Get2D())
	if !ok || ls.PDF <= 0 || ls.Radiance.IsBlack() {
		return core.NewVec3(0, 0, 0)
	}

	cosTheta := ls.Direction.Dot(hit.Normal)
	if cosTheta <= 0 {
		return core.NewVec3(0, 0, 0)
	}
	f := hit.Material.Evaluate(wo, ls.Direction, sp)
	if f.IsBlack() {
		return core.NewVec3(0, 0, 0)
	}
	if s.Occluded(hit.Point, ls.Direction, ls.Distance) {
		return core.NewVec3(0, 0, 0)
	}

	return f.MultiplyVec(ls.Radiance).Multiply(cosTheta / ls.PDF)
}
