package scene

import (
	"fmt"
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
	"github.com/Nuos/tray-rust/pkg/geometry"
)

// LightSample is one next-event-estimation sample toward a light
type LightSample struct {
	Direction core.Vec3 // Unit direction from the shading point toward the light
	Distance  float64   // Distance to the sampled light point
	Radiance  core.Vec3 // Radiance arriving from the sampled direction
	PDF       float64   // Solid-angle pdf of this sample
	Delta     bool      // Set for delta lights, which BSDF samples can never hit
}

// Light is an emitter the integrator can sample for direct lighting
type Light interface {
	// Sample draws a direction toward the light from the given shading point
	Sample(from core.Vec3, u core.Vec2) (LightSample, bool)
	// PDF returns the solid-angle pdf of sampling dir from the shading
	// point, zero when the direction misses the light or the light is a
	// delta distribution
	PDF(from, dir core.Vec3) float64
}

// AreaLight wraps an emitter instance for direct-light sampling. Sampling
// happens on the local-space geometry and is mapped to world space, with
// the pdf converted from area measure to solid angle at the shading point.
type AreaLight struct {
	Instance *Instance

	shape     geometry.Sampleable
	worldArea float64
}

// NewAreaLight builds a light from an emitter instance. The geometry must be
// sampleable; planes and meshes cannot back an area light.
func NewAreaLight(inst *Instance) (*AreaLight, error) {
	shape, ok := inst.Geometry.(geometry.Sampleable)
	if !ok {
		return nil, fmt.Errorf("scene: emitter %q uses geometry that cannot be area-sampled", inst.Name)
	}
	return &AreaLight{
		Instance:  inst,
		shape:     shape,
		worldArea: worldArea(inst, shape),
	}, nil
}

// worldArea scales the local surface area by the transform. Flat shapes in
// the xy-plane scale by the x and y axis stretch; spheres expect uniform
// scale and use the x axis stretch for all directions.
func worldArea(inst *Instance, shape geometry.Sampleable) float64 {
	sx := inst.Transform.Vector(core.NewVec3(1, 0, 0)).Length()
	sy := inst.Transform.Vector(core.NewVec3(0, 1, 0)).Length()
	switch shape.(type) {
	case *geometry.Disk:
		return shape.Area() * sx * sy
	default:
		return shape.Area() * sx * sx
	}
}

// Sample draws a point on the light and returns the direction, distance,
// radiance and solid-angle pdf as seen from the given shading point
func (l *AreaLight) Sample(from core.Vec3, u core.Vec2) (LightSample, bool) {
	localPoint, localNormal := l.shape.SampleArea(u)
	point := l.Instance.Transform.Point(localPoint)
	normal := l.Instance.Transform.Normal(localNormal)

	toLight := point.Subtract(from)
	distSq := toLight.LengthSquared()
	if distSq < 1e-12 {
		return LightSample{}, false
	}
	dist := math.Sqrt(distSq)
	dir := toLight.Multiply(1 / dist)

	// Two-sided emission: the facing cosine uses the absolute value so flat
	// lights illuminate both half-spaces
	cosTheta := math.Abs(normal.Dot(dir))
	if cosTheta < 1e-9 {
		return LightSample{}, false
	}

	return LightSample{
		Direction: dir,
		Distance:  dist,
		Radiance:  l.Instance.Emission,
		PDF:       distSq / (cosTheta * l.worldArea),
	}, true
}

// PDF returns the solid-angle pdf of having sampled the given direction from
// the shading point toward this light, or zero when the ray misses it
func (l *AreaLight) PDF(from, dir core.Vec3) float64 {
	ray := core.Ray{Origin: from, Direction: dir}
	hit, ok := l.Instance.Intersect(ray, 1e-6, math.Inf(1))
	if !ok {
		return 0
	}
	cosTheta := math.Abs(hit.Normal.Dot(dir))
	if cosTheta < 1e-9 {
		return 0
	}
	// dir is unit length, so the hit parameter is the world-space distance
	return hit.T * hit.T / (cosTheta * l.worldArea)
}

// PointLight is a delta emitter at a single world position. Intensity is
// the per-channel radiant intensity; arriving radiance falls off with the
// squared distance.
type PointLight struct {
	Name      string
	Position  core.Vec3
	Intensity core.Vec3
}

// Sample returns the one direction the light can be reached from. The pdf
// is 1 and the sample is flagged as delta so the integrator skips the
// BSDF-side weighting.
func (l *PointLight) Sample(from core.Vec3, u core.Vec2) (LightSample, bool) {
	toLight := l.Position.Subtract(from)
	distSq := toLight.LengthSquared()
	if distSq < 1e-12 {
		return LightSample{}, false
	}
	dist := math.Sqrt(distSq)
	return LightSample{
		Direction: toLight.Multiply(1 / dist),
		Distance:  dist,
		Radiance:  l.Intensity.Multiply(1 / distSq),
		PDF:       1,
		Delta:     true,
	}, true
}

// PDF is zero: a BSDF-sampled direction can never land on a point
func (l *PointLight) PDF(from, dir core.Vec3) float64 {
	return 0
}
