package integrator

import (
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
	"github.com/Nuos/tray-rust/pkg/material"
	"github.com/Nuos/tray-rust/pkg/scene"
)

// Integrator estimates the radiance arriving along a camera ray
type Integrator interface {
	Li(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3
}

// PathTracer is a unidirectional path tracer with next-event estimation.
// Direct lighting and BSDF sampling are combined with the power heuristic.
// Paths run unconditionally to MinDepth, then face Russian roulette with a
// continuation probability tied to the surviving throughput, and are cut
// hard at MaxDepth.
type PathTracer struct {
	MinDepth int
	MaxDepth int
}

// NewPathTracer creates a path tracer with the given depth bounds
func NewPathTracer(minDepth, maxDepth int) *PathTracer {
	return &PathTracer{MinDepth: minDepth, MaxDepth: maxDepth}
}

// Li traces one path and returns its radiance estimate
func (pt *PathTracer) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	radiance := core.NewVec3(0, 0, 0)
	throughput := core.NewVec3(1, 1, 1)

	// Emission on the first hit and after specular bounces is counted in
	// full; after a non-specular bounce it is weighted against the pdf of
	// having found the same emitter through light sampling
	specularBounce := true
	prevPoint := ray.Origin
	prevPDF := 0.0

	for depth := 0; depth < pt.MaxDepth; depth++ {
		hit, ok := s.Intersect(ray, 1e-4, math.Inf(1))
		if !ok {
			break
		}

		if !hit.Emission.IsBlack() {
			if specularBounce {
				radiance = radiance.Add(throughput.MultiplyVec(hit.Emission))
			} else {
				lightPDF := s.LightPDF(prevPoint, ray.Direction)
				weight := core.PowerHeuristic(1, prevPDF, 1, lightPDF)
				radiance = radiance.Add(throughput.MultiplyVec(hit.Emission).Multiply(weight))
			}
		}

		sp := material.ShadingPoint{Normal: hit.Normal, UV: hit.UV, FrontFace: hit.FrontFace}
		wo := ray.Direction.Negate()

		if !hit.Material.IsSpecular() {
			direct := pt.directLight(s, hit, wo, sp, sampler)
			radiance = radiance.Add(throughput.MultiplyVec(direct))
		}

		sample, ok := hit.Material.Sample(wo, sp, sampler)
		if !ok {
			break
		}
		if sample.IsSpecular() {
			// Specular reflectance already folds in the cos/pdf terms
			throughput = throughput.MultiplyVec(sample.Reflectance)
			specularBounce = true
		} else {
			if sample.PDF <= 0 {
				break
			}
			cosTheta := sample.Direction.Dot(hit.Normal)
			if cosTheta <= 0 {
				break
			}
			throughput = throughput.MultiplyVec(sample.Reflectance).Multiply(cosTheta / sample.PDF)
			specularBounce = false
			prevPDF = sample.PDF
		}
		if throughput.IsBlack() {
			break
		}

		prevPoint = hit.Point
		ray = core.Ray{Origin: hit.Point, Direction: sample.Direction}

		if depth+1 >= pt.MinDepth {
			q := math.Min(1, throughput.MaxComponent())
			if q <= 0 || sampler.Get1D() >= q {
				break
			}
			throughput = throughput.Multiply(1 / q)
		}
	}

	return clampRadiance(radiance)
}

// directLight samples one light for next-event estimation and weights the
// contribution against the chance of reaching it by BSDF sampling
func (pt *PathTracer) directLight(s *scene.Scene, hit *scene.Hit, wo core.Vec3, sp material.ShadingPoint, sampler core.Sampler) core.Vec3 {
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

	// Delta lights cannot be reached by BSDF sampling, so the light sample
	// carries full weight
	weight := 1.0
	if !ls.Delta {
		bsdfPDF := hit.Material.PDF(wo, ls.Direction, sp)
		weight = core.PowerHeuristic(1, ls.PDF, 1, bsdfPDF)
	}
	return f.MultiplyVec(ls.Radiance).Multiply(cosTheta * weight / ls.PDF)
}

// clampRadiance zeroes NaN and negative channels so a single bad sample
// cannot poison a pixel
func clampRadiance(v core.Vec3) core.Vec3 {
	return core.NewVec3(clampChannel(v.X), clampChannel(v.Y), clampChannel(v.Z))
}

func clampChannel(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	return c
}
