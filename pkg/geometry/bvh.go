package geometry

import (
	"sort"

	"github.com/Nuos/tray-rust/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Surfaces    []Surface // Multiple surfaces for leaf nodes (nil for internal nodes)
}

// BVH is a Bounding Volume Hierarchy over local- or world-space surfaces,
// used both for triangle meshes and for the flattened scene instances
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: if we have this many or fewer surfaces, store them in a leaf node
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of surfaces
func NewBVH(surfaces []Surface) *BVH {
	if len(surfaces) == 0 {
		return &BVH{Root: nil}
	}

	// Copy so concurrent builders never sort a shared backing array
	surfacesCopy := make([]Surface, len(surfaces))
	copy(surfacesCopy, surfaces)

	return &BVH{Root: buildBVH(surfacesCopy)}
}

// buildBVH recursively builds the BVH using median splits with leaf thresholding
func buildBVH(surfaces []Surface) *BVHNode {
	boundingBox := surfaces[0].Bounds()
	for i := 1; i < len(surfaces); i++ {
		boundingBox = boundingBox.Union(surfaces[i].Bounds())
	}

	// Base case: few surfaces - create a leaf and search it linearly
	if len(surfaces) <= leafThreshold {
		return &BVHNode{
			BoundingBox: boundingBox,
			Surfaces:    surfaces,
		}
	}

	// Median split along the longest axis: much faster to build than SAH
	// and good enough for the mesh sizes the documents reference
	axis := boundingBox.LongestAxis()
	sortSurfacesByAxis(surfaces, axis)

	mid := len(surfaces) / 2
	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(surfaces[:mid]),
		Right:       buildBVH(surfaces[mid:]),
	}
}

// sortSurfacesByAxis sorts surfaces by their bounding box center along the specified axis
func sortSurfacesByAxis(surfaces []Surface, axis int) {
	sort.Slice(surfaces, func(i, j int) bool {
		centerI := surfaces[i].Bounds().Center()
		centerJ := surfaces[j].Bounds().Center()

		switch axis {
		case 0:
			return centerI.X < centerJ.X
		case 1:
			return centerI.Y < centerJ.Y
		case 2:
			return centerI.Z < centerJ.Z
		default:
			return false
		}
	})
}

// Intersect returns the nearest hit against any surface in the BVH
func (bvh *BVH) Intersect(ray core.Ray, tMin, tMax float64) (*SurfaceHit, Surface, bool) {
	if bvh.Root == nil {
		return nil, nil, false
	}
	return intersectNode(bvh.Root, ray, tMin, tMax)
}

// intersectNode recursively tests ray intersection with BVH nodes
func intersectNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*SurfaceHit, Surface, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, nil, false
	}

	// Leaf node: linear search through its surfaces
	if node.Surfaces != nil {
		var closestHit *SurfaceHit
		var closestSurface Surface
		closestSoFar := tMax

		for _, surface := range node.Surfaces {
			if hit, isHit := surface.Intersect(ray, tMin, closestSoFar); isHit {
				closestSoFar = hit.T
				closestHit = hit
				closestSurface = surface
			}
		}

		return closestHit, closestSurface, closestHit != nil
	}

	// Internal node: descend both children, keeping the nearer hit
	leftHit, leftSurface, hitLeft := intersectNode(node.Left, ray, tMin, tMax)
	if hitLeft {
		tMax = leftHit.T
	}
	rightHit, rightSurface, hitRight := intersectNode(node.Right, ray, tMin, tMax)

	if hitRight {
		return rightHit, rightSurface, true
	}
	if hitLeft {
		return leftHit, leftSurface, true
	}
	return nil, nil, false
}
