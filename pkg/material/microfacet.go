package material

import (
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
)

// blinn is the Blinn-Phong microfacet distribution shared by the plastic
// gloss lobe and rough metal. The exponent derives from document roughness:
// rougher surfaces have broader lobes.
type blinn struct {
	exponent float64
}

// blinnFromRoughness maps document roughness in (0, 1] to a Blinn exponent
func blinnFromRoughness(roughness float64) blinn {
	if roughness <= 0 {
		roughness = 1e-4
	}
	return blinn{exponent: 1.0 / roughness}
}

// D returns the microfacet density for a half vector making angle θh with
// the normal
func (b blinn) D(cosThetaH float64) float64 {
	if cosThetaH <= 0 {
		return 0
	}
	return (b.exponent + 2) / (2 * math.Pi) * math.Pow(cosThetaH, b.exponent)
}

// SampleHalfVector draws a half vector around the normal proportional to D
func (b blinn) SampleHalfVector(normal core.Vec3, u core.Vec2) core.Vec3 {
	cosTheta := math.Pow(u.X, 1.0/(b.exponent+1))
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y

	tangent, bitangent := core.OrthonormalBasis(normal)
	return tangent.Multiply(sinTheta * math.Cos(phi)).
		Add(bitangent.Multiply(sinTheta * math.Sin(phi))).
		Add(normal.Multiply(cosTheta))
}

// PDF returns the solid-angle density of the wi produced by reflecting wo
// about a sampled half vector
func (b blinn) PDF(wo, wi, normal core.Vec3) float64 {
	h := wo.Add(wi).Normalize()
	cosThetaH := h.Dot(normal)
	woDotH := wo.Dot(h)
	if cosThetaH <= 0 || woDotH <= 0 {
		return 0
	}
	// Half-vector density (e+1)/(2π)·cosᵉθh converted to wi measure
	halfPDF := (b.exponent + 1) / (2 * math.Pi) * math.Pow(cosThetaH, b.exponent)
	return halfPDF / (4 * woDotH)
}

// geometricAttenuation is the Torrance-Sparrow shadowing-masking term
func geometricAttenuation(wo, wi, h, normal core.Vec3) float64 {
	nDotH := normal.Dot(h)
	nDotWo := normal.Dot(wo)
	nDotWi := normal.Dot(wi)
	woDotH := wo.Dot(h)
	if woDotH <= 0 {
		return 0
	}
	return math.Min(1, math.Min(2*nDotH*nDotWo/woDotH, 2*nDotH*nDotWi/woDotH))
}

// torranceSparrow evaluates the microfacet BRDF D·G·F / (4·cosθo·cosθi)
// with a per-channel Fresnel term
func torranceSparrow(wo, wi, normal core.Vec3, dist blinn, fresnel core.Vec3) core.Vec3 {
	cosThetaO := normal.Dot(wo)
	cosThetaI := normal.Dot(wi)
	if cosThetaO <= 0 || cosThetaI <= 0 {
		return core.Vec3{}
	}
	h := wo.Add(wi)
	if h.LengthSquared() == 0 {
		return core.Vec3{}
	}
	h = h.Normalize()

	d := dist.D(h.Dot(normal))
	g := geometricAttenuation(wo, wi, h, normal)
	scale := d * g / (4 * cosThetaO * cosThetaI)
	return fresnel.Multiply(scale)
}
