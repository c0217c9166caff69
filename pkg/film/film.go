package film

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/Nuos/tray-rust/pkg/core"
)

type pixel struct {
	sum    core.Vec3
	weight float64
}

// Film accumulates filtered radiance samples into a pixel grid. Each sample
// is splatted onto every pixel within the reconstruction filter's support,
// weighted by the kernel. Rows are individually locked so tiles rendered on
// different goroutines can splat into overlapping filter footprints safely.
type Film struct {
	Width  int
	Height int

	filter *MitchellNetravali
	pixels []pixel
	locks  []sync.Mutex // One lock per pixel row
}

// NewFilm creates a film with the given resolution and reconstruction filter
func NewFilm(width, height int, filter *MitchellNetravali) *Film {
	return &Film{
		Width:  width,
		Height: height,
		filter: filter,
		pixels: make([]pixel, width*height),
		locks:  make([]sync.Mutex, height),
	}
}

// AddSample splats one radiance sample at continuous raster position (x, y)
// onto the pixels inside the filter support. Pixel centers sit at half-integer
// coordinates.
func (f *Film) AddSample(x, y float64, radiance core.Vec3) {
	x0 := int(math.Ceil(x - 0.5 - f.filter.Width))
	x1 := int(math.Floor(x - 0.5 + f.filter.Width))
	y0 := int(math.Ceil(y - 0.5 - f.filter.Height))
	y1 := int(math.Floor(y - 0.5 + f.filter.Height))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > f.Width-1 {
		x1 = f.Width - 1
	}
	if y1 > f.Height-1 {
		y1 = f.Height - 1
	}

	for py := y0; py <= y1; py++ {
		f.locks[py].Lock()
		for px := x0; px <= x1; px++ {
			weight := f.filter.Eval(float64(px)+0.5-x, float64(py)+0.5-y)
			if weight == 0 {
				continue
			}
			p := &f.pixels[py*f.Width+px]
			p.sum = p.sum.Add(radiance.Multiply(weight))
			p.weight += weight
		}
		f.locks[py].Unlock()
	}
}

// Pixel returns the reconstructed linear radiance at a pixel: the weighted
// sample sum divided by the accumulated filter weight
func (f *Film) Pixel(x, y int) core.Vec3 {
	p := f.pixels[y*f.Width+x]
	if p.weight == 0 {
		return core.NewVec3(0, 0, 0)
	}
	return p.sum.Multiply(1 / p.weight)
}

// Image resolves the film into a displayable image: weight normalization,
// clamping to [0, 1], then gamma correction
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.Pixel(x, y).Clamp(0, 1).GammaCorrect(2.2)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X*255 + 0.5),
				G: uint8(c.Y*255 + 0.5),
				B: uint8(c.Z*255 + 0.5),
				A: 255,
			})
		}
	}
	return img
}

// Reset clears all accumulated samples so the film can expose the next frame
func (f *Film) Reset() {
	for i := range f.pixels {
		f.pixels[i] = pixel{}
	}
}
