package material

import (
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
)

// Eta of the clear coat assumed over the plastic's glossy lobe
const plasticCoatEta = 1.5

// Plastic blends a Lambertian diffuse lobe with a Blinn glossy lobe
// modulated by the gloss color. Sampling picks a lobe stochastically by its
// relative energy and reports the full mixture pdf so the estimator stays
// unbiased.
type Plastic struct {
	Diffuse core.Vec3
	Gloss   core.Vec3
	dist    blinn

	// Lobe selection probability, from relative lobe luminance
	diffuseWeight float64
}

// NewPlastic creates a new plastic material
func NewPlastic(diffuse, gloss core.Vec3, roughness float64) *Plastic {
	p := &Plastic{
		Diffuse: diffuse,
		Gloss:   gloss,
		dist:    blinnFromRoughness(roughness),
	}
	dLum := diffuse.Luminance()
	gLum := gloss.Luminance()
	if dLum+gLum > 0 {
		p.diffuseWeight = dLum / (dLum + gLum)
	} else {
		p.diffuseWeight = 0.5
	}
	return p
}

// Evaluate sums the diffuse and glossy lobes
func (p *Plastic) Evaluate(wo, wi core.Vec3, sp ShadingPoint) core.Vec3 {
	cosThetaO := wo.Dot(sp.Normal)
	cosThetaI := wi.Dot(sp.Normal)
	if cosThetaO <= 0 || cosThetaI <= 0 {
		return core.Vec3{}
	}

	diffuse := p.Diffuse.Multiply(1.0 / math.Pi)

	h := wo.Add(wi)
	var glossy core.Vec3
	if h.LengthSquared() > 0 {
		fresnel := FresnelDielectric(wo.Dot(h.Normalize()), 1.0, plasticCoatEta)
		glossy = torranceSparrow(wo, wi, sp.Normal, p.dist, p.Gloss.Multiply(fresnel))
	}

	return diffuse.Add(glossy)
}

// Sample stochastically chooses the diffuse or glossy lobe and returns the
// sampled direction with the combined mixture pdf
func (p *Plastic) Sample(wo core.Vec3, sp ShadingPoint, sampler core.Sampler) (BSDFSample, bool) {
	var wi core.Vec3
	if sampler.Get1D() < p.diffuseWeight {
		wi = core.SampleCosineHemisphere(sp.Normal, sampler.Get2D())
	} else {
		h := p.dist.SampleHalfVector(sp.Normal, sampler.Get2D())
		wi = Reflect(wo.Negate(), h)
	}

	if wi.Dot(sp.Normal) <= 0 {
		return BSDFSample{}, false
	}

	pdf := p.PDF(wo, wi, sp)
	if pdf <= 0 {
		return BSDFSample{}, false
	}

	return BSDFSample{
		Direction:   wi,
		Reflectance: p.Evaluate(wo, wi, sp),
		PDF:         pdf,
	}, true
}

// PDF returns the mixture density: the weighted sum of the per-lobe pdfs
func (p *Plastic) PDF(wo, wi core.Vec3, sp ShadingPoint) float64 {
	cosPDF := core.CosineHemispherePDF(wi.Dot(sp.Normal))
	glossPDF := p.dist.PDF(wo, wi, sp.Normal)
	return p.diffuseWeight*cosPDF + (1-p.diffuseWeight)*glossPDF
}

// IsSpecular reports that plastic is not a delta distribution
func (p *Plastic) IsSpecular() bool {
	return false
}
