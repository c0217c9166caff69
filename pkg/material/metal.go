package material

import (
	"github.com/Nuos/tray-rust/pkg/core"
)

// Roughness at or below this behaves as a perfect mirror
const mirrorRoughness = 1e-3

// Metal is a conductor with per-channel complex refractive index. Roughness
// drives a Blinn microfacet lobe; near zero it degenerates to a perfect
// mirror and the material becomes specular.
type Metal struct {
	RefractiveIndex core.Vec3 // Real part of the complex IOR, per channel
	Absorption      core.Vec3 // Absorption coefficient k, per channel
	Roughness       float64

	dist   blinn
	mirror bool
}

// NewMetal creates a new metal material
func NewMetal(refractiveIndex, absorption core.Vec3, roughness float64) *Metal {
	return &Metal{
		RefractiveIndex: refractiveIndex,
		Absorption:      absorption,
		Roughness:       roughness,
		dist:            blinnFromRoughness(roughness),
		mirror:          roughness <= mirrorRoughness,
	}
}

// NewSpecularMetal creates a perfect-mirror conductor
func NewSpecularMetal(refractiveIndex, absorption core.Vec3) *Metal {
	return &Metal{
		RefractiveIndex: refractiveIndex,
		Absorption:      absorption,
		mirror:          true,
	}
}

// Evaluate returns the microfacet conductor BRDF; zero for the mirror case
func (m *Metal) Evaluate(wo, wi core.Vec3, sp ShadingPoint) core.Vec3 {
	if m.mirror {
		return core.Vec3{}
	}
	h := wo.Add(wi)
	if h.LengthSquared() == 0 {
		return core.Vec3{}
	}
	fresnel := FresnelConductor(wo.Dot(h.Normalize()), m.RefractiveIndex, m.Absorption)
	return torranceSparrow(wo, wi, sp.Normal, m.dist, fresnel)
}

// Sample reflects about a sampled microfacet half vector, or about the
// normal itself in the mirror case
func (m *Metal) Sample(wo core.Vec3, sp ShadingPoint, sampler core.Sampler) (BSDFSample, bool) {
	if m.mirror {
		wi := Reflect(wo.Negate(), sp.Normal)
		if wi.Dot(sp.Normal) <= 0 {
			return BSDFSample{}, false
		}
		fresnel := FresnelConductor(wo.Dot(sp.Normal), m.RefractiveIndex, m.Absorption)
		return BSDFSample{
			Direction:   wi,
			Reflectance: fresnel,
			PDF:         0, // Delta distribution
		}, true
	}

	h := m.dist.SampleHalfVector(sp.Normal, sampler.Get2D())
	wi := Reflect(wo.Negate(), h)
	if wi.Dot(sp.Normal) <= 0 {
		return BSDFSample{}, false
	}

	pdf := m.dist.PDF(wo, wi, sp.Normal)
	if pdf <= 0 {
		return BSDFSample{}, false
	}

	return BSDFSample{
		Direction:   wi,
		Reflectance: m.Evaluate(wo, wi, sp),
		PDF:         pdf,
	}, true
}

// PDF returns the microfacet density, or zero for the mirror case
func (m *Metal) PDF(wo, wi core.Vec3, sp ShadingPoint) float64 {
	if m.mirror {
		return 0
	}
	return m.dist.PDF(wo, wi, sp.Normal)
}

// IsSpecular reports whether the metal degenerated to a perfect mirror
func (m *Metal) IsSpecular() bool {
	return m.mirror
}
