package geometry

import (
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
)

// Disk is an annulus in the z = 0 plane centered at the local-space origin,
// covering radii [InnerRadius, Radius]. InnerRadius of zero gives a full disk.
type Disk struct {
	Radius      float64
	InnerRadius float64
}

// NewDisk creates a new disk (annulus)
func NewDisk(radius, innerRadius float64) *Disk {
	return &Disk{Radius: radius, InnerRadius: innerRadius}
}

// Intersect tests a local-space ray against the disk. The reported normal is
// the geometric +Z normal; callers orient it per ray side when the disk is
// used as a two-sided emitter.
func (d *Disk) Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceHit, bool) {
	if math.Abs(ray.Direction.Z) < 1e-8 {
		return nil, false
	}

	t := -ray.Origin.Z / ray.Direction.Z
	if t <= tMin || t > tMax {
		return nil, false
	}

	point := ray.At(t)
	distSq := point.X*point.X + point.Y*point.Y
	if distSq > d.Radius*d.Radius || distSq < d.InnerRadius*d.InnerRadius {
		return nil, false
	}

	// Radial/angular parameterization
	dist := math.Sqrt(distSq)
	phi := math.Atan2(point.Y, point.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	var v float64
	if d.Radius > d.InnerRadius {
		v = (dist - d.InnerRadius) / (d.Radius - d.InnerRadius)
	}

	return &SurfaceHit{
		T:      t,
		Point:  point,
		Normal: core.NewVec3(0, 0, 1),
		UV:     core.NewVec2(phi/(2*math.Pi), v),
	}, true
}

// Bounds returns the axis-aligned bounding box for this disk
func (d *Disk) Bounds() core.AABB {
	return core.NewAABB(
		core.NewVec3(-d.Radius, -d.Radius, -1e-4),
		core.NewVec3(d.Radius, d.Radius, 1e-4),
	)
}

// SampleArea returns a uniformly sampled point on the annulus with its normal
func (d *Disk) SampleArea(u core.Vec2) (core.Vec3, core.Vec3) {
	// Uniform in area between the radii: r = sqrt(lerp(ri², ro², u))
	rSq := d.InnerRadius*d.InnerRadius + u.X*(d.Radius*d.Radius-d.InnerRadius*d.InnerRadius)
	r := math.Sqrt(rSq)
	phi := 2 * math.Pi * u.Y
	point := core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), 0)
	return point, core.NewVec3(0, 0, 1)
}

// Area returns the annulus area
func (d *Disk) Area() float64 {
	return math.Pi * (d.Radius*d.Radius - d.InnerRadius*d.InnerRadius)
}
