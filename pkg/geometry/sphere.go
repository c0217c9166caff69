package geometry

import (
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
)

// Sphere is a sphere of the given radius centered at the local-space origin
type Sphere struct {
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(radius float64) *Sphere {
	return &Sphere{Radius: radius}
}

// Intersect tests a local-space ray against the sphere. When the ray origin
// is inside the sphere the entry root lies behind the origin, so the exit
// root is returned instead; glass objects rely on this.
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceHit, bool) {
	oc := ray.Origin

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, fall back to the exit root
	root := (-halfB - sqrtD) / a
	if root <= tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root > tMax {
			return nil, false
		}
	}

	point := ray.At(root)
	normal := point.Multiply(1.0 / s.Radius)

	// Spherical parameterization for UV
	theta := math.Acos(max(-1, min(1, normal.Z)))
	phi := math.Atan2(normal.Y, normal.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}

	return &SurfaceHit{
		T:      root,
		Point:  point,
		Normal: normal,
		UV:     core.NewVec2(phi/(2*math.Pi), theta/math.Pi),
	}, true
}

// Bounds returns the axis-aligned bounding box for this sphere
func (s *Sphere) Bounds() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(r.Negate(), r)
}

// SampleArea returns a uniformly sampled point on the sphere surface with its
// outward normal
func (s *Sphere) SampleArea(u core.Vec2) (core.Vec3, core.Vec3) {
	normal := core.SampleUniformSphere(u)
	return normal.Multiply(s.Radius), normal
}

// Area returns the sphere's surface area
func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}
