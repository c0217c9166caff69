package geometry

import (
	"fmt"

	"github.com/Nuos/tray-rust/pkg/core"
)

// Mesh is an indexed triangle mesh defined in local object space. The vertex,
// normal, uv and index buffers are produced by an external loader; the mesh
// builds its own BVH over the faces since the documents reference meshes far
// too large for linear search.
type Mesh struct {
	Vertices []core.Vec3
	Normals  []core.Vec3 // Optional; empty means geometric face normals
	UVs      []core.Vec2 // Optional
	Indices  []int

	bvh    *BVH
	bounds core.AABB
}

// NewMesh builds a mesh from loaded buffers and prepares its face BVH
func NewMesh(vertices, normals []core.Vec3, uvs []core.Vec2, indices []int) (*Mesh, error) {
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("geometry: mesh index count %d is not a positive multiple of 3", len(indices))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(vertices) {
			return nil, fmt.Errorf("geometry: mesh index %d out of range (have %d vertices)", idx, len(vertices))
		}
	}
	if len(normals) > 0 && len(normals) != len(vertices) {
		return nil, fmt.Errorf("geometry: mesh has %d normals for %d vertices", len(normals), len(vertices))
	}
	if len(uvs) > 0 && len(uvs) != len(vertices) {
		return nil, fmt.Errorf("geometry: mesh has %d uvs for %d vertices", len(uvs), len(vertices))
	}

	mesh := &Mesh{
		Vertices: vertices,
		Normals:  normals,
		UVs:      uvs,
		Indices:  indices,
	}

	faces := make([]Surface, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		faces = append(faces, &Triangle{mesh: mesh, index: i})
	}
	mesh.bvh = NewBVH(faces)
	mesh.bounds = core.NewAABBFromPoints(vertices...)

	return mesh, nil
}

// TriangleCount returns the number of faces in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Intersect returns the nearest face hit for a local-space ray
func (m *Mesh) Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceHit, bool) {
	hit, _, ok := m.bvh.Intersect(ray, tMin, tMax)
	return hit, ok
}

// Bounds returns the mesh bounding box
func (m *Mesh) Bounds() core.AABB {
	return m.bounds
}
