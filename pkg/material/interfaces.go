package material

import (
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
)

// ShadingPoint carries the hit geometry a BSDF evaluation needs
type ShadingPoint struct {
	Normal    core.Vec3 // Oriented to oppose the incoming ray
	UV        core.Vec2 // Surface parameterization at the hit
	FrontFace bool      // Whether the geometric normal faced the ray
}

// BSDFSample is the result of importance-sampling a material.
// For non-specular materials Reflectance is the BRDF value f(wo, wi) and PDF
// its solid-angle density; the integrator applies f·cosθ/pdf itself.
// For specular materials PDF is zero and Reflectance is the full path weight
// for the deterministically chosen direction.
type BSDFSample struct {
	Direction   core.Vec3 // Sampled incident direction wi (away from surface)
	Reflectance core.Vec3
	PDF         float64
}

// IsSpecular returns true if this sample came from a delta distribution
func (s BSDFSample) IsSpecular() bool {
	return s.PDF <= 0
}

// Material evaluates reflected radiance at a surface point. Directions wo
// (toward the viewer) and wi (toward the light) both point away from the
// surface and are unit length.
type Material interface {
	// Evaluate returns the BRDF value f(wo, wi). Zero almost everywhere
	// for specular materials.
	Evaluate(wo, wi core.Vec3, sp ShadingPoint) core.Vec3

	// Sample draws an incident direction for path continuation.
	// Returns false when the material absorbs the path.
	Sample(wo core.Vec3, sp ShadingPoint, sampler core.Sampler) (BSDFSample, bool)

	// PDF returns the solid-angle density Sample would have produced wi
	// with. Zero for specular materials.
	PDF(wo, wi core.Vec3, sp ShadingPoint) float64

	// IsSpecular reports whether the material is a delta distribution
	// (perfect mirror or glass): Evaluate is zero almost everywhere and
	// Sample picks the reflection/refraction direction deterministically.
	IsSpecular() bool
}

// Reflect mirrors v about the normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends a unit incident direction through a surface with normal n
// using Snell's law. etaRatio is ηi/ηt. Returns false on total internal
// reflection.
func Refract(uv, n core.Vec3, etaRatio float64) (core.Vec3, bool) {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	sin2Theta := etaRatio * etaRatio * (1.0 - cosTheta*cosTheta)
	if sin2Theta > 1.0 {
		return core.Vec3{}, false
	}
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaRatio)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel), true
}
