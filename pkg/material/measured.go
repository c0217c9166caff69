package material

import (
	"fmt"
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
)

// MeasuredTable is a tabulated isotropic BRDF indexed by the half-angle /
// difference-angle parameterization (MERL layout). The table is loaded from
// an external binary file by a collaborator; the material only interpolates.
type MeasuredTable struct {
	NThetaH int // Half-vector polar resolution
	NThetaD int // Difference polar resolution
	NPhiD   int // Difference azimuth resolution (over [0, π])
	Samples []core.Vec3
}

// Validate checks the table dimensions against the sample buffer
func (t *MeasuredTable) Validate() error {
	if t.NThetaH <= 0 || t.NThetaD <= 0 || t.NPhiD <= 0 {
		return fmt.Errorf("material: measured table has non-positive dimensions %dx%dx%d",
			t.NThetaH, t.NThetaD, t.NPhiD)
	}
	if want := t.NThetaH * t.NThetaD * t.NPhiD; len(t.Samples) != want {
		return fmt.Errorf("material: measured table has %d samples, dimensions require %d",
			len(t.Samples), want)
	}
	return nil
}

// at reads one sample with indices clamped to the table boundaries
func (t *MeasuredTable) at(ih, id, ip int) core.Vec3 {
	ih = max(0, min(t.NThetaH-1, ih))
	id = max(0, min(t.NThetaD-1, id))
	ip = max(0, min(t.NPhiD-1, ip))
	return t.Samples[(ih*t.NThetaD+id)*t.NPhiD+ip]
}

// Measured looks reflectance up in a tabulated BRDF with bilinear
// interpolation over the two polar angles, clamping at table boundaries.
// Sampling uses the cosine-weighted hemisphere, so the tabulated lobe is
// still found by the light-sampling side of MIS.
type Measured struct {
	Table *MeasuredTable
}

// NewMeasured creates a measured material over a loaded table
func NewMeasured(table *MeasuredTable) (*Measured, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Measured{Table: table}, nil
}

// Evaluate interpolates the table at the half/difference angles of (wo, wi)
func (m *Measured) Evaluate(wo, wi core.Vec3, sp ShadingPoint) core.Vec3 {
	if wo.Dot(sp.Normal) <= 0 || wi.Dot(sp.Normal) <= 0 {
		return core.Vec3{}
	}

	thetaH, thetaD, phiD := halfDiffAngles(wo, wi, sp.Normal)

	// MERL spreads resolution near grazing with a square-root remap of θh
	fh := math.Sqrt(thetaH/(math.Pi/2)) * float64(m.Table.NThetaH)
	fd := thetaD / (math.Pi / 2) * float64(m.Table.NThetaD)
	fp := phiD / math.Pi * float64(m.Table.NPhiD)

	ih, th := splitIndex(fh, m.Table.NThetaH)
	id, td := splitIndex(fd, m.Table.NThetaD)
	ip := min(m.Table.NPhiD-1, max(0, int(fp)))

	// Bilinear over θh and θd, nearest over φd
	v00 := m.Table.at(ih, id, ip)
	v10 := m.Table.at(ih+1, id, ip)
	v01 := m.Table.at(ih, id+1, ip)
	v11 := m.Table.at(ih+1, id+1, ip)

	top := v00.Multiply(1 - th).Add(v10.Multiply(th))
	bottom := v01.Multiply(1 - th).Add(v11.Multiply(th))
	return top.Multiply(1 - td).Add(bottom.Multiply(td)).Clamp(0, math.Inf(1))
}

// splitIndex splits a fractional table coordinate into a clamped base index
// and an interpolation weight
func splitIndex(f float64, n int) (int, float64) {
	if f <= 0 {
		return 0, 0
	}
	i := int(f)
	if i >= n-1 {
		return n - 1, 0 // Clamp: the +1 neighbor reads the same cell
	}
	return i, f - float64(i)
}

// halfDiffAngles computes the MERL (θh, θd, φd) parameterization of a
// direction pair in the frame of the surface normal
func halfDiffAngles(wo, wi, normal core.Vec3) (float64, float64, float64) {
	tangent, bitangent := core.OrthonormalBasis(normal)

	// Local frame coordinates
	toLocal := func(v core.Vec3) core.Vec3 {
		return core.NewVec3(v.Dot(tangent), v.Dot(bitangent), v.Dot(normal))
	}
	woL := toLocal(wo)
	wiL := toLocal(wi)

	h := woL.Add(wiL).Normalize()
	thetaH := math.Acos(max(-1, min(1, h.Z)))
	phiH := math.Atan2(h.Y, h.X)

	// Rotate wi into the half-vector frame to get the difference vector
	d := rotateZ(wiL, -phiH)
	d = rotateY(d, -thetaH)

	thetaD := math.Acos(max(-1, min(1, d.Z)))
	phiD := math.Atan2(d.Y, d.X)
	if phiD < 0 {
		phiD += math.Pi // Reciprocity folds φd into [0, π]
	}

	return thetaH, thetaD, phiD
}

func rotateZ(v core.Vec3, angle float64) core.Vec3 {
	sin, cos := math.Sincos(angle)
	return core.NewVec3(cos*v.X-sin*v.Y, sin*v.X+cos*v.Y, v.Z)
}

func rotateY(v core.Vec3, angle float64) core.Vec3 {
	sin, cos := math.Sincos(angle)
	return core.NewVec3(cos*v.X+sin*v.Z, v.Y, -sin*v.X+cos*v.Z)
}

// Sample draws a cosine-weighted direction in the hemisphere around the normal
func (m *Measured) Sample(wo core.Vec3, sp ShadingPoint, sampler core.Sampler) (BSDFSample, bool) {
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

// PDF returns the cosine-weighted hemisphere density
func (m *Measured) PDF(wo, wi core.Vec3, sp ShadingPoint) float64 {
	return core.CosineHemispherePDF(wi.Dot(sp.Normal))
}

// IsSpecular reports that measured data is not a delta distribution
func (m *Measured) IsSpecular() bool {
	return false
}
