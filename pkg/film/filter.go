package film

import "math"

// MitchellNetravali is the separable Mitchell-Netravali reconstruction
// filter. B and C control the blur/ring tradeoff; B + 2C = 1 gives the
// recommended family, with B = C = 1/3 as the usual choice.
type MitchellNetravali struct {
	Width  float64 // Half-width of the support in pixels
	Height float64 // Half-height of the support in pixels
	B      float64
	C      float64

	invWidth  float64
	invHeight float64
}

// NewMitchellNetravali creates a filter with the given support and parameters
func NewMitchellNetravali(width, height, b, c float64) *MitchellNetravali {
	return &MitchellNetravali{
		Width:     width,
		Height:    height,
		B:         b,
		C:         c,
		invWidth:  1 / width,
		invHeight: 1 / height,
	}
}

// Eval returns the filter weight for a sample offset (x, y) from the pixel
// center. Offsets beyond the support evaluate to zero.
func (f *MitchellNetravali) Eval(x, y float64) float64 {
	return f.mitchell1D(x*f.invWidth) * f.mitchell1D(y*f.invHeight)
}

// mitchell1D evaluates the one-dimensional kernel with the offset normalized
// to [-1, 1] over the filter support
func (f *MitchellNetravali) mitchell1D(x float64) float64 {
	x = math.Abs(2 * x)
	if x > 2 {
		return 0
	}
	b, c := f.B, f.C
	if x > 1 {
		return ((-b-6*c)*x*x*x + (6*b+30*c)*x*x + (-12*b-48*c)*x + (8*b+24*c)) / 6
	}
	return ((12-9*b-6*c)*x*x*x + (-18+12*b+6*c)*x*x + (6 - 2*b)) / 6
}
