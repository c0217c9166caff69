package scene

import (
	"github.com/Nuos/tray-rust/pkg/core"
	"github.com/Nuos/tray-rust/pkg/geometry"
	"github.com/Nuos/tray-rust/pkg/material"
	"github.com/Nuos/tray-rust/pkg/transform"
)

// Instance places a local-space geometry into the world with a transform,
// a material, and an optional emission. Emission is zero for receivers.
type Instance struct {
	Name      string
	Geometry  geometry.Surface
	Material  material.Material
	Transform transform.Transform
	Emission  core.Vec3

	bounds core.AABB
}

// NewInstance builds an instance and caches its world-space bounds
func NewInstance(name string, geom geometry.Surface, mat material.Material, t transform.Transform, emission core.Vec3) *Instance {
	localBounds := geom.Bounds()
	worldBounds := core.NewAABBFromPoints(transformCorners(t, localBounds)...)
	return &Instance{
		Name:      name,
		Geometry:  geom,
		Material:  mat,
		Transform: t,
		Emission:  emission,
		bounds:    worldBounds,
	}
}

func transformCorners(t transform.Transform, b core.AABB) []core.Vec3 {
	corners := b.Corners()
	points := make([]core.Vec3, len(corners))
	for i, c := range corners {
		points[i] = t.Point(c)
	}
	return points
}

// IsEmitter reports whether this instance carries radiance
func (in *Instance) IsEmitter() bool {
	return !in.Emission.IsBlack()
}

// Intersect maps the world ray into local space, intersects the wrapped
// geometry, and maps the hit back out. The local ray direction is not
// renormalized, so t values stay comparable across instances. Normals go
// through the inverse transpose, which keeps them outward-facing even when
// the transform mirrors.
func (in *Instance) Intersect(ray core.Ray, tMin, tMax float64) (*geometry.SurfaceHit, bool) {
	localRay := in.Transform.RayToLocal(ray)
	hit, ok := in.Geometry.Intersect(localRay, tMin, tMax)
	if !ok {
		return nil, false
	}
	return &geometry.SurfaceHit{
		T:      hit.T,
		Point:  in.Transform.Point(hit.Point),
		Normal: in.Transform.Normal(hit.Normal),
		UV:     hit.UV,
	}, true
}

// Bounds returns the cached world-space bounding box
func (in *Instance) Bounds() core.AABB {
	return in.bounds
}
