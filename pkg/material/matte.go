package material

import (
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
)

// Matte is a diffuse material: Lambertian at zero roughness, Oren-Nayar
// otherwise. Roughness is the Oren-Nayar sigma in radians.
type Matte struct {
	Diffuse   core.Vec3
	Roughness float64

	// Cached Oren-Nayar coefficients
	a, b float64
}

// NewMatte creates a new matte material
func NewMatte(diffuse core.Vec3, roughness float64) *Matte {
	m := &Matte{Diffuse: diffuse, Roughness: roughness}
	sigma2 := roughness * roughness
	m.a = 1.0 - sigma2/(2.0*(sigma2+0.33))
	m.b = 0.45 * sigma2 / (sigma2 + 0.09)
	return m
}

// Evaluate returns the diffuse BRDF: albedo/π for Lambertian, with the
// Oren-Nayar roughness correction otherwise
func (m *Matte) Evaluate(wo, wi core.Vec3, sp ShadingPoint) core.Vec3 {
	cosThetaO := wo.Dot(sp.Normal)
	cosThetaI := wi.Dot(sp.Normal)
	if cosThetaO <= 0 || cosThetaI <= 0 {
		return core.Vec3{}
	}

	if m.Roughness == 0 {
		return m.Diffuse.Multiply(1.0 / math.Pi)
	}

	// Oren-Nayar: albedo/π · (A + B·max(0, cos(φi-φo))·sinα·tanβ)
	sinThetaO := math.Sqrt(math.Max(0, 1-cosThetaO*cosThetaO))
	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))

	maxCos := 0.0
	if sinThetaO > 1e-4 && sinThetaI > 1e-4 {
		// Azimuthal difference via the projections onto the tangent plane
		tangent, bitangent := core.OrthonormalBasis(sp.Normal)
		cosPhiO, sinPhiO := wo.Dot(tangent)/sinThetaO, wo.Dot(bitangent)/sinThetaO
		cosPhiI, sinPhiI := wi.Dot(tangent)/sinThetaI, wi.Dot(bitangent)/sinThetaI
		maxCos = math.Max(0, cosPhiI*cosPhiO+sinPhiI*sinPhiO)
	}

	var sinAlpha, tanBeta float64
	if cosThetaI > cosThetaO {
		sinAlpha = sinThetaO
		tanBeta = sinThetaI / cosThetaI
	} else {
		sinAlpha = sinThetaI
		tanBeta = sinThetaO / cosThetaO
	}

	return m.Diffuse.Multiply((m.a + m.b*maxCos*sinAlpha*tanBeta) / math.Pi)
}

// Sample draws a cosine-weighted direction in the hemisphere around the normal
func (m *Matte) Sample(wo core.Vec3, sp ShadingPoint, sampler core.Sampler) (BSDFSample, bool) {
	wi := core.SampleCosineHemisphere(sp.Normal, sampler.Get2D())
	pdf := core.CosineHemispherePDF(wi.Dot(sp.Normal))
	if pdf <= 0 {
		return BSDFSample{}, false
	}
	return BSDFSample{
		Direction:   wi,
		Reflectance: m.Evaluate(wo, wi, sp),
		PDF:         pdf,
	}, true
}

// PDF returns the cosine-weighted hemisphere density cos(θ)/π
func (m *Matte) PDF(wo, wi core.Vec3, sp ShadingPoint) float64 {
	return core.CosineHemispherePDF(wi.Dot(sp.Normal))
}

// IsSpecular reports that matte is not a delta distribution
func (m *Matte) IsSpecular() bool {
	return false
}
