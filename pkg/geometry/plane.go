package geometry

import (
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
)

// planeExtent bounds the infinite plane for BVH purposes. Intersection stays
// analytic; only culling uses this conservative box.
const planeExtent = 1e6

// Plane is the infinite plane z = 0 in local space with normal +Z
type Plane struct{}

// NewPlane creates the canonical local-space plane
func NewPlane() *Plane {
	return &Plane{}
}

// Intersect tests a local-space ray against the plane
func (p *Plane) Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceHit, bool) {
	// Ray parallel to the plane
	if math.Abs(ray.Direction.Z) < 1e-8 {
		return nil, false
	}

	t := -ray.Origin.Z / ray.Direction.Z
	if t <= tMin || t > tMax {
		return nil, false
	}

	point := ray.At(t)
	return &SurfaceHit{
		T:      t,
		Point:  point,
		Normal: core.NewVec3(0, 0, 1),
		UV:     core.NewVec2(point.X, point.Y),
	}, true
}

// Bounds returns a large finite box standing in for the infinite plane
func (p *Plane) Bounds() core.AABB {
	return core.NewAABB(
		core.NewVec3(-planeExtent, -planeExtent, -1e-4),
		core.NewVec3(planeExtent, planeExtent, 1e-4),
	)
}
