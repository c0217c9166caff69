package geometry

import (
	"github.com/Nuos/tray-rust/pkg/core"
)

// Triangle references one face of a Mesh by its index-buffer offset
type Triangle struct {
	mesh  *Mesh
	index int // Offset of the first of the face's three indices
}

// Intersect tests a local-space ray against the triangle using the
// Möller-Trumbore algorithm
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceHit, bool) {
	const epsilon = 1e-8

	v0 := t.mesh.Vertices[t.mesh.Indices[t.index]]
	v1 := t.mesh.Vertices[t.mesh.Indices[t.index+1]]
	v2 := t.mesh.Vertices[t.mesh.Indices[t.index+2]]

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	// If the determinant is near zero the ray lies in the triangle's plane
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	hitT := f * edge2.Dot(q)
	if hitT <= tMin || hitT > tMax {
		return nil, false
	}

	return &SurfaceHit{
		T:      hitT,
		Point:  ray.At(hitT),
		Normal: t.shadingNormal(u, v, edge1, edge2),
		UV:     t.interpolateUV(u, v),
	}, true
}

// shadingNormal interpolates vertex normals at barycentric (u, v), falling
// back to the geometric face normal when the mesh carries no normals
func (t *Triangle) shadingNormal(u, v float64, edge1, edge2 core.Vec3) core.Vec3 {
	if len(t.mesh.Normals) == 0 {
		return edge1.Cross(edge2).Normalize()
	}
	n0 := t.mesh.Normals[t.mesh.Indices[t.index]]
	n1 := t.mesh.Normals[t.mesh.Indices[t.index+1]]
	n2 := t.mesh.Normals[t.mesh.Indices[t.index+2]]
	w := 1.0 - u - v
	return n0.Multiply(w).Add(n1.Multiply(u)).Add(n2.Multiply(v)).Normalize()
}

// interpolateUV interpolates vertex texture coordinates at barycentric (u, v)
func (t *Triangle) interpolateUV(u, v float64) core.Vec2 {
	if len(t.mesh.UVs) == 0 {
		return core.NewVec2(u, v)
	}
	uv0 := t.mesh.UVs[t.mesh.Indices[t.index]]
	uv1 := t.mesh.UVs[t.mesh.Indices[t.index+1]]
	uv2 := t.mesh.UVs[t.mesh.Indices[t.index+2]]
	w := 1.0 - u - v
	return core.NewVec2(
		w*uv0.X+u*uv1.X+v*uv2.X,
		w*uv0.Y+u*uv1.Y+v*uv2.Y,
	)
}

// Bounds returns the triangle's bounding box
func (t *Triangle) Bounds() core.AABB {
	return core.NewAABBFromPoints(
		t.mesh.Vertices[t.mesh.Indices[t.index]],
		t.mesh.Vertices[t.mesh.Indices[t.index+1]],
		t.mesh.Vertices[t.mesh.Indices[t.index+2]],
	)
}
