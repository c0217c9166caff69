package material

import (
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
)

// FresnelDielectric computes the exact unpolarized Fresnel reflectance for a
// dielectric boundary. cosThetaI is the cosine of the incident angle against
// the oriented normal; etaI and etaT are the indices of refraction on the
// incident and transmitted sides.
func FresnelDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = max(-1, min(1, cosThetaI))

	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		return 1 // Total internal reflection
	}
	cosThetaT := math.Sqrt(math.Max(0, 1-sinThetaT*sinThetaT))

	rParl := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	rPerp := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// FresnelConductor computes the per-channel reflectance of a conductor from
// its complex refractive index: eta is the real part and k the absorption
// coefficient, both per RGB channel.
func FresnelConductor(cosThetaI float64, eta, k core.Vec3) core.Vec3 {
	return core.Vec3{
		X: fresnelConductorChannel(cosThetaI, eta.X, k.X),
		Y: fresnelConductorChannel(cosThetaI, eta.Y, k.Y),
		Z: fresnelConductorChannel(cosThetaI, eta.Z, k.Z),
	}
}

func fresnelConductorChannel(cosThetaI, eta, k float64) float64 {
	cos2 := cosThetaI * cosThetaI
	etaK := eta*eta + k*k

	rs := (etaK - 2*eta*cosThetaI + cos2) / (etaK + 2*eta*cosThetaI + cos2)
	rp := (etaK*cos2 - 2*eta*cosThetaI + 1) / (etaK*cos2 + 2*eta*cosThetaI + 1)
	return (rs + rp) / 2
}
