package loaders

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Nuos/tray-rust/log"
	"github.com/Nuos/tray-rust/pkg/core"
	"github.com/Nuos/tray-rust/pkg/material"
	"github.com/Nuos/tray-rust/pkg/scene"
	"github.com/Nuos/tray-rust/pkg/transform"
)

var logger = log.New("loaders")

type sceneJSON struct {
	Film       filmJSON       `json:"film"`
	Camera     cameraJSON     `json:"camera"`
	Integrator integratorJSON `json:"integrator"`
	Materials  []materialJSON `json:"materials"`
	Objects    []objectJSON   `json:"objects"`
}

type filmJSON struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Samples    int        `json:"samples"`
	StartFrame int        `json:"start_frame"`
	EndFrame   int        `json:"end_frame"`
	Filter     filterJSON `json:"filter"`
}

type filterJSON struct {
	Type   string  `json:"type"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	B      float64 `json:"b"`
	C      float64 `json:"c"`
}

type cameraJSON struct {
	FOV       float64  `json:"fov"`
	Transform []opJSON `json:"transform"`
}

type integratorJSON struct {
	Type     string `json:"type"`
	MinDepth int    `json:"min_depth"`
	MaxDepth int    `json:"max_depth"`
}

type materialJSON struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Diffuse         [3]float64 `json:"diffuse"`
	Gloss           [3]float64 `json:"gloss"`
	Roughness       float64    `json:"roughness"`
	RefractiveIndex [3]float64 `json:"refractive_index"`
	Absorption      [3]float64 `json:"absorption_coefficient"`
	Reflect         [3]float64 `json:"reflect"`
	Transmit        [3]float64 `json:"transmit"`
	Eta             float64    `json:"eta"`
	File            string     `json:"file"`
}

type geometryJSON struct {
	Type        string  `json:"type"`
	Radius      float64 `json:"radius"`
	InnerRadius float64 `json:"inner_radius"`
	File        string  `json:"file"`
	Model       string  `json:"model"`
}

type objectJSON struct {
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Emitter   string       `json:"emitter"`
	Material  string       `json:"material"`
	Geometry  geometryJSON `json:"geometry"`
	Transform []opJSON     `json:"transform"`
	Emission  []float64    `json:"emission"`
	Position  []float64    `json:"position"`
	Objects   []objectJSON `json:"objects"`
}

// opJSON is one transform operation. The parameter field depends on the
// type: translate carries a "translation" vector, scale a "scaling" scalar
// or vector, and the rotations a "rotation" angle in degrees plus, for the
// free-axis rotate, an "axis" vector.
type opJSON struct {
	Type        string          `json:"type"`
	Translation json.RawMessage `json:"translation"`
	Scaling     json.RawMessage `json:"scaling"`
	Rotation    *float64        `json:"rotation"`
	Axis        json.RawMessage `json:"axis"`
}

// LoadScene parses a scene document from disk and loads every mesh and
// measured-BRDF file it references, resolving paths relative to the
// document's directory
func LoadScene(path string) (*scene.Document, *scene.Assets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loaders: reading scene: %w", err)
	}

	var parsed sceneJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, nil, fmt.Errorf("loaders: parsing scene %s: %w", path, err)
	}

	doc, err := buildDocument(&parsed)
	if err != nil {
		return nil, nil, err
	}

	assets, err := loadAssets(doc, filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	return doc, assets, nil
}

func buildDocument(parsed *sceneJSON) (*scene.Document, error) {
	doc := &scene.Document{
		Film: scene.FilmConfig{
			Width:      parsed.Film.Width,
			Height:     parsed.Film.Height,
			Samples:    parsed.Film.Samples,
			StartFrame: parsed.Film.StartFrame,
			EndFrame:   parsed.Film.EndFrame,
			Filter: scene.FilterConfig{
				Type:   parsed.Film.Filter.Type,
				Width:  parsed.Film.Filter.Width,
				Height: parsed.Film.Filter.Height,
				B:      parsed.Film.Filter.B,
				C:      parsed.Film.Filter.C,
			},
		},
		Integrator: scene.IntegratorConfig{
			Type:     parsed.Integrator.Type,
			MinDepth: parsed.Integrator.MinDepth,
			MaxDepth: parsed.Integrator.MaxDepth,
		},
	}

	cameraOps, err := parseOps(parsed.Camera.Transform, "camera")
	if err != nil {
		return nil, err
	}
	doc.Camera = scene.CameraConfig{FOV: parsed.Camera.FOV, Transform: cameraOps}

	for _, m := range parsed.Materials {
		doc.Materials = append(doc.Materials, scene.MaterialConfig{
			Name:            m.Name,
			Type:            m.Type,
			Diffuse:         m.Diffuse,
			Gloss:           m.Gloss,
			Roughness:       m.Roughness,
			RefractiveIndex: m.RefractiveIndex,
			Absorption:      m.Absorption,
			Reflect:         m.Reflect,
			Transmit:        m.Transmit,
			Eta:             m.Eta,
			File:            m.File,
		})
	}

	for _, o := range parsed.Objects {
		obj, err := buildObject(o)
		if err != nil {
			return nil, err
		}
		doc.Objects = append(doc.Objects, obj)
	}
	return doc, nil
}

func buildObject(o objectJSON) (scene.ObjectConfig, error) {
	ops, err := parseOps(o.Transform, o.Name)
	if err != nil {
		return scene.ObjectConfig{}, err
	}
	obj := scene.ObjectConfig{
		Name:     o.Name,
		Type:     o.Type,
		Emitter:  o.Emitter,
		Material: o.Material,
		Geometry: scene.GeometryConfig{
			Type:        o.Geometry.Type,
			Radius:      o.Geometry.Radius,
			InnerRadius: o.Geometry.InnerRadius,
			File:        o.Geometry.File,
			Model:       o.Geometry.Model,
		},
		Transform: ops,
		Emission:  o.Emission,
		Position:  o.Position,
	}
	for _, child := range o.Objects {
		built, err := buildObject(child)
		if err != nil {
			return scene.ObjectConfig{}, err
		}
		obj.Objects = append(obj.Objects, built)
	}
	return obj, nil
}

func parseOps(ops []opJSON, owner string) ([]transform.Op, error) {
	out := make([]transform.Op, 0, len(ops))
	for _, op := range ops {
		switch op.Type {
		case "translate":
			if op.Translation == nil {
				return nil, fmt.Errorf("loaders: %s translate needs a translation vector", owner)
			}
			v, err := parseVec3(op.Translation)
			if err != nil {
				return nil, fmt.Errorf("loaders: %s translate: %w", owner, err)
			}
			out = append(out, transform.TranslateOp(v))
		case "scale":
			// A scale accepts either a uniform scalar or per-axis factors
			if op.Scaling == nil {
				return nil, fmt.Errorf("loaders: %s scale needs a scaling scalar or 3-vector", owner)
			}
			if v, err := parseVec3(op.Scaling); err == nil {
				out = append(out, transform.ScaleOp(v))
				continue
			}
			var s float64
			if err := json.Unmarshal(op.Scaling, &s); err != nil {
				return nil, fmt.Errorf("loaders: %s scale needs a scaling scalar or 3-vector", owner)
			}
			out = append(out, transform.ScaleUniformOp(s))
		case "rotate_x", "rotate_y", "rotate_z":
			if op.Rotation == nil {
				return nil, fmt.Errorf("loaders: %s %s needs a rotation angle in degrees", owner, op.Type)
			}
			switch op.Type {
			case "rotate_x":
				out = append(out, transform.RotateXOp(*op.Rotation))
			case "rotate_y":
				out = append(out, transform.RotateYOp(*op.Rotation))
			default:
				out = append(out, transform.RotateZOp(*op.Rotation))
			}
		case "rotate":
			if op.Rotation == nil {
				return nil, fmt.Errorf("loaders: %s rotate needs a rotation angle in degrees", owner)
			}
			if op.Axis == nil {
				return nil, fmt.Errorf("loaders: %s rotate needs an axis vector", owner)
			}
			axis, err := parseVec3(op.Axis)
			if err != nil {
				return nil, fmt.Errorf("loaders: %s rotate axis: %w", owner, err)
			}
			out = append(out, transform.RotateOp(axis, *op.Rotation))
		default:
			return nil, fmt.Errorf("loaders: %s has unrecognized transform operation %q", owner, op.Type)
		}
	}
	return out, nil
}

func parseVec3(raw json.RawMessage) (core.Vec3, error) {
	var v [3]float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return core.Vec3{}, fmt.Errorf("expected a 3-vector, got %s", string(raw))
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

// loadAssets walks the document for external references and loads each file
// once
func loadAssets(doc *scene.Document, dir string) (*scene.Assets, error) {
	assets := &scene.Assets{
		Meshes: make(map[string]*scene.MeshBuffers),
		BRDFs:  make(map[string]*material.MeasuredTable),
	}

	for _, m := range doc.Materials {
		if m.Type != "merl" || m.File == "" {
			continue
		}
		if _, done := assets.BRDFs[m.File]; done {
			continue
		}
		table, err := LoadMERL(filepath.Join(dir, m.File))
		if err != nil {
			return nil, err
		}
		assets.BRDFs[m.File] = table
		logger.Infof("loaded measured data %s (%d samples)", m.File, len(table.Samples))
	}

	loadedOBJs := make(map[string]map[string]*scene.MeshBuffers)
	var walk func(objects []scene.ObjectConfig) error
	walk = func(objects []scene.ObjectConfig) error {
		for _, o := range objects {
			if o.Geometry.Type == "mesh" {
				models, done := loadedOBJs[o.Geometry.File]
				if !done {
					var err error
					models, err = LoadOBJ(filepath.Join(dir, o.Geometry.File))
					if err != nil {
						return err
					}
					loadedOBJs[o.Geometry.File] = models
					logger.Infof("loaded mesh file %s (%d models)", o.Geometry.File, len(models))
				}
				model, ok := models[o.Geometry.Model]
				if !ok {
					return fmt.Errorf("loaders: %s has no model %q", o.Geometry.File, o.Geometry.Model)
				}
				assets.Meshes[scene.MeshKey(o.Geometry.File, o.Geometry.Model)] = model
			}
			if err := walk(o.Objects); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(doc.Objects); err != nil {
		return nil, err
	}
	return assets, nil
}
