package geometry

import (
	"github.com/Nuos/tray-rust/pkg/core"
)

// SurfaceHit contains the local-space result of a ray-surface intersection
type SurfaceHit struct {
	T      float64   // Parameter t along the ray
	Point  core.Vec3 // Intersection point in local space
	Normal core.Vec3 // Geometric/shading normal in local space
	UV     core.Vec2 // Surface parameterization at the hit
}

// Surface is a geometric primitive defined in its own local object space.
// Intersect must return the nearest hit with t in (tMin, tMax].
type Surface interface {
	Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceHit, bool)
	Bounds() core.AABB
}

// Sampleable is implemented by surfaces that can be used as area-light
// geometry: a point can be sampled uniformly over their surface
type Sampleable interface {
	Surface

	// SampleArea returns a uniformly sampled local-space point on the
	// surface together with its outward normal
	SampleArea(u core.Vec2) (core.Vec3, core.Vec3)

	// Area returns the local-space surface area
	Area() float64
}
