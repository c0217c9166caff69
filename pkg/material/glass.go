package material

import (
	"github.com/Nuos/tray-rust/pkg/core"
)

// Glass is a thin specular dielectric: a Fresnel-weighted stochastic choice
// between perfect reflection and refraction. There is no absorption; the
// reflect and transmit colors tint the two sides.
type Glass struct {
	Reflect  core.Vec3
	Transmit core.Vec3
	Eta      float64 // Index of refraction of the interior
}

// NewGlass creates a new glass material
func NewGlass(reflect, transmit core.Vec3, eta float64) *Glass {
	return &Glass{Reflect: reflect, Transmit: transmit, Eta: eta}
}

// Evaluate is zero almost everywhere: glass is a delta distribution
func (g *Glass) Evaluate(wo, wi core.Vec3, sp ShadingPoint) core.Vec3 {
	return core.Vec3{}
}

// Sample chooses reflection with probability equal to the Fresnel
// reflectance and refraction otherwise. Total internal reflection when
// exiting the denser medium forces reflection.
func (g *Glass) Sample(wo core.Vec3, sp ShadingPoint, sampler core.Sampler) (BSDFSample, bool) {
	// ηi/ηt depends on whether the ray is entering or exiting the medium
	var etaI, etaT float64
	if sp.FrontFace {
		etaI, etaT = 1.0, g.Eta
	} else {
		etaI, etaT = g.Eta, 1.0
	}

	incident := wo.Negate() // Unit direction of propagation
	cosThetaI := wo.Dot(sp.Normal)
	fresnel := FresnelDielectric(cosThetaI, etaI, etaT)

	refracted, canRefract := Refract(incident, sp.Normal, etaI/etaT)
	if !canRefract || sampler.Get1D() < fresnel {
		// Reflect: the selection probability cancels against the Fresnel
		// weight, leaving the tint
		wi := Reflect(incident, sp.Normal)
		if g.Reflect.IsBlack() {
			return BSDFSample{}, false
		}
		return BSDFSample{
			Direction:   wi,
			Reflectance: g.Reflect,
			PDF:         0, // Delta distribution
		}, true
	}

	if g.Transmit.IsBlack() {
		return BSDFSample{}, false
	}
	return BSDFSample{
		Direction:   refracted,
		Reflectance: g.Transmit,
		PDF:         0, // Delta distribution
	}, true
}

// PDF is zero: delta distributions have no density
func (g *Glass) PDF(wo, wi core.Vec3, sp ShadingPoint) float64 {
	return 0
}

// IsSpecular reports that glass is a delta distribution
func (g *Glass) IsSpecular() bool {
	return true
}
