package scene

import (
	"github.com/Nuos/tray-rust/pkg/core"
	"github.com/Nuos/tray-rust/pkg/geometry"
	"github.com/Nuos/tray-rust/pkg/material"
)

// Hit is a world-space intersection annotated with shading data
type Hit struct {
	Object    *Instance
	T         float64
	Point     core.Vec3
	Normal    core.Vec3 // Oriented against the incoming ray
	UV        core.Vec2
	FrontFace bool // Whether the geometric normal faced the ray
	Material  material.Material
	Emission  core.Vec3
}

// Scene is the built, intersectable world: flattened instances behind a
// bounding volume hierarchy, plus the emitters wrapped as lights. Point
// lights have no geometry and exist only in the light list.
type Scene struct {
	Instances []*Instance
	Lights    []Light

	bvh *geometry.BVH
}

// NewScene assembles a scene from flattened instances and point lights
func NewScene(instances []*Instance, points []*PointLight) (*Scene, error) {
	surfaces := make([]geometry.Surface, len(instances))
	for i, inst := range instances {
		surfaces[i] = inst
	}

	var lights []Light
	for _, inst := range instances {
		if !inst.IsEmitter() {
			continue
		}
		light, err := NewAreaLight(inst)
		if err != nil {
			return nil, err
		}
		lights = append(lights, light)
	}
	for _, pl := range points {
		lights = append(lights, pl)
	}

	return &Scene{
		Instances: instances,
		Lights:    lights,
		bvh:       geometry.NewBVH(surfaces),
	}, nil
}

// Intersect finds the nearest hit along the ray and orients the normal
// against the ray direction
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (*Hit, bool) {
	surfaceHit, surface, ok := s.bvh.Intersect(ray, tMin, tMax)
	if !ok {
		return nil, false
	}
	inst := surface.(*Instance)

	normal := surfaceHit.Normal
	frontFace := ray.Direction.Dot(normal) < 0
	if !frontFace {
		normal = normal.Negate()
	}

	return &Hit{
		Object:    inst,
		T:         surfaceHit.T,
		Point:     surfaceHit.Point,
		Normal:    normal,
		UV:        surfaceHit.UV,
		FrontFace: frontFace,
		Material:  inst.Material,
		Emission:  inst.Emission,
	}, true
}

// Occluded reports whether anything blocks the segment between two points,
// shortened at both ends to avoid self-intersection
func (s *Scene) Occluded(from, dir core.Vec3, dist float64) bool {
	ray := core.Ray{Origin: from, Direction: dir}
	_, _, ok := s.bvh.Intersect(ray, 1e-4, dist-1e-4)
	return ok
}

// SampleLight picks one light uniformly and samples it. The returned pdf
// folds in the uniform selection probability.
func (s *Scene) SampleLight(from core.Vec3, uSelect float64, u core.Vec2) (LightSample, bool) {
	n := len(s.Lights)
	if n == 0 {
		return LightSample{}, false
	}
	idx := int(uSelect * float64(n))
	if idx >= n {
		idx = n - 1
	}
	sample, ok := s.Lights[idx].Sample(from, u)
	if !ok {
		return LightSample{}, false
	}
	sample.PDF /= float64(n)
	return sample, true
}

// LightPDF returns the pdf of sampling the given direction from the shading
// point under the uniform-selection light sampling strategy. Used to weight
// BSDF samples that happen to hit an emitter.
func (s *Scene) LightPDF(from, dir core.Vec3) float64 {
	n := len(s.Lights)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, light := range s.Lights {
		sum += light.PDF(from, dir)
	}
	return sum / float64(n)
}
