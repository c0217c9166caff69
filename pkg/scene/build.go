package scene

import (
	"fmt"

	"github.com/Nuos/tray-rust/pkg/core"
	"github.com/Nuos/tray-rust/pkg/geometry"
	"github.com/Nuos/tray-rust/pkg/material"
	"github.com/Nuos/tray-rust/pkg/transform"
)

// Build validates a document against its loaded assets and assembles the
// intersectable scene. Group transforms are pushed down onto their children,
// so the result is a flat instance list.
func Build(doc *Document, assets *Assets) (*Scene, error) {
	materials, err := buildMaterials(doc.Materials, assets)
	if err != nil {
		return nil, err
	}

	var instances []*Instance
	var points []*PointLight
	if err := walkObjects(doc.Objects, transform.IdentityTransform(), materials, assets, &instances, &points); err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, fmt.Errorf("scene: document contains no renderable objects")
	}

	return NewScene(instances, points)
}

func buildMaterials(configs []MaterialConfig, assets *Assets) (map[string]material.Material, error) {
	materials := make(map[string]material.Material, len(configs))
	for _, cfg := range configs {
		if cfg.Name == "" {
			return nil, fmt.Errorf("scene: material of type %q has no name", cfg.Type)
		}
		if _, exists := materials[cfg.Name]; exists {
			return nil, fmt.Errorf("scene: duplicate material name %q", cfg.Name)
		}
		mat, err := buildMaterial(cfg, assets)
		if err != nil {
			return nil, err
		}
		materials[cfg.Name] = mat
	}
	return materials, nil
}

func buildMaterial(cfg MaterialConfig, assets *Assets) (material.Material, error) {
	switch cfg.Type {
	case "matte":
		return material.NewMatte(vec3(cfg.Diffuse), cfg.Roughness), nil
	case "plastic":
		return material.NewPlastic(vec3(cfg.Diffuse), vec3(cfg.Gloss), cfg.Roughness), nil
	case "metal":
		return material.NewMetal(vec3(cfg.RefractiveIndex), vec3(cfg.Absorption), cfg.Roughness), nil
	case "specular_metal":
		return material.NewSpecularMetal(vec3(cfg.RefractiveIndex), vec3(cfg.Absorption)), nil
	case "glass":
		return material.NewGlass(vec3(cfg.Reflect), vec3(cfg.Transmit), cfg.Eta), nil
	case "merl":
		table, ok := assets.BRDFs[cfg.File]
		if !ok {
			return nil, fmt.Errorf("scene: material %q references unloaded measured data %q", cfg.Name, cfg.File)
		}
		measured, err := material.NewMeasured(table)
		if err != nil {
			return nil, fmt.Errorf("scene: material %q: %w", cfg.Name, err)
		}
		return measured, nil
	default:
		return nil, fmt.Errorf("scene: material %q has unrecognized type %q", cfg.Name, cfg.Type)
	}
}

func walkObjects(objects []ObjectConfig, parent transform.Transform, materials map[string]material.Material, assets *Assets, out *[]*Instance, points *[]*PointLight) error {
	for _, obj := range objects {
		local, err := transform.Compose(obj.Transform)
		if err != nil {
			return fmt.Errorf("scene: object %q: %w", obj.Name, err)
		}
		world := local.Then(parent)

		switch obj.Type {
		case "group":
			if err := walkObjects(obj.Objects, world, materials, assets, out, points); err != nil {
				return err
			}
		case "receiver":
			inst, err := buildLeaf(obj, world, materials, assets, core.NewVec3(0, 0, 0))
			if err != nil {
				return err
			}
			*out = append(*out, inst)
		case "emitter":
			emission, err := parseEmission(obj)
			if err != nil {
				return err
			}
			switch obj.Emitter {
			case "area":
				inst, err := buildLeaf(obj, world, materials, assets, emission)
				if err != nil {
					return err
				}
				if _, ok := inst.Geometry.(geometry.Sampleable); !ok {
					return fmt.Errorf("scene: emitter %q uses geometry type %q that cannot be area-sampled", obj.Name, obj.Geometry.Type)
				}
				*out = append(*out, inst)
			case "point":
				if len(obj.Position) != 3 {
					return fmt.Errorf("scene: point light %q position needs 3 values, got %d", obj.Name, len(obj.Position))
				}
				// The document position is local to the enclosing groups
				pos := world.Point(core.NewVec3(obj.Position[0], obj.Position[1], obj.Position[2]))
				*points = append(*points, &PointLight{Name: obj.Name, Position: pos, Intensity: emission})
			default:
				return fmt.Errorf("scene: emitter %q has unsupported kind %q", obj.Name, obj.Emitter)
			}
		default:
			return fmt.Errorf("scene: object %q has unrecognized type %q", obj.Name, obj.Type)
		}
	}
	return nil
}

// parseEmission accepts an RGB triple or an RGB triple with a trailing
// scalar power multiplier
func parseEmission(obj ObjectConfig) (core.Vec3, error) {
	e := obj.Emission
	switch len(e) {
	case 3:
		return core.NewVec3(e[0], e[1], e[2]), nil
	case 4:
		return core.NewVec3(e[0]*e[3], e[1]*e[3], e[2]*e[3]), nil
	default:
		return core.Vec3{}, fmt.Errorf("scene: emitter %q emission needs 3 or 4 values, got %d", obj.Name, len(e))
	}
}

func buildLeaf(obj ObjectConfig, world transform.Transform, materials map[string]material.Material, assets *Assets, emission core.Vec3) (*Instance, error) {
	mat, ok := materials[obj.Material]
	if !ok {
		return nil, fmt.Errorf("scene: object %q references unknown material %q", obj.Name, obj.Material)
	}
	geom, err := buildGeometry(obj, assets)
	if err != nil {
		return nil, err
	}
	return NewInstance(obj.Name, geom, mat, world, emission), nil
}

func buildGeometry(obj ObjectConfig, assets *Assets) (geometry.Surface, error) {
	cfg := obj.Geometry
	switch cfg.Type {
	case "plane":
		return geometry.NewPlane(), nil
	case "sphere":
		if cfg.Radius <= 0 {
			return nil, fmt.Errorf("scene: object %q sphere needs a positive radius", obj.Name)
		}
		return geometry.NewSphere(cfg.Radius), nil
	case "disk":
		if cfg.Radius <= 0 || cfg.InnerRadius < 0 || cfg.InnerRadius >= cfg.Radius {
			return nil, fmt.Errorf("scene: object %q disk radii are invalid (outer %v, inner %v)", obj.Name, cfg.Radius, cfg.InnerRadius)
		}
		return geometry.NewDisk(cfg.Radius, cfg.InnerRadius), nil
	case "mesh":
		key := MeshKey(cfg.File, cfg.Model)
		buffers, ok := assets.Meshes[key]
		if !ok {
			return nil, fmt.Errorf("scene: object %q references unloaded mesh %q", obj.Name, key)
		}
		return buildMesh(obj.Name, buffers)
	default:
		return nil, fmt.Errorf("scene: object %q has unrecognized geometry type %q", obj.Name, cfg.Type)
	}
}

func buildMesh(name string, buffers *MeshBuffers) (*geometry.Mesh, error) {
	vertices := make([]core.Vec3, len(buffers.Vertices))
	for i, v := range buffers.Vertices {
		vertices[i] = core.NewVec3(v[0], v[1], v[2])
	}
	normals := make([]core.Vec3, len(buffers.Normals))
	for i, n := range buffers.Normals {
		normals[i] = core.NewVec3(n[0], n[1], n[2])
	}
	uvs := make([]core.Vec2, len(buffers.UVs))
	for i, uv := range buffers.UVs {
		uvs[i] = core.NewVec2(uv[0], uv[1])
	}
	mesh, err := geometry.NewMesh(vertices, normals, uvs, buffers.Indices)
	if err != nil {
		return nil, fmt.Errorf("scene: object %q: %w", name, err)
	}
	return mesh, nil
}

func vec3(v [3]float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
