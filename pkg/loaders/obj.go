package loaders

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Nuos/tray-rust/pkg/scene"
)

// DefaultModelName is used for geometry that appears before any o/g statement
const DefaultModelName = "default"

// objVertex is one face corner: position/texcoord/normal indices into the
// file-global buffers, zero-based, -1 when absent
type objVertex struct {
	position int
	texcoord int
	normal   int
}

// LoadOBJ parses a Wavefront OBJ file into per-model vertex buffers.
// Models are split on o and g statements; faces with more than three corners
// are triangulated as fans. Only geometry statements are honored; material
// libraries and smoothing groups are skipped.
func LoadOBJ(path string) (map[string]*scene.MeshBuffers, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loaders: opening mesh: %w", err)
	}
	defer file.Close()

	var positions [][3]float64
	var texcoords [][2]float64
	var normals [][3]float64

	models := make(map[string]*scene.MeshBuffers)
	builders := make(map[string]*meshBuilder)
	current := DefaultModelName

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			v, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("loaders: %s:%d: vertex: %w", path, lineNo, err)
			}
			positions = append(positions, v)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("loaders: %s:%d: texcoord needs 2 values", path, lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 64)
			v, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("loaders: %s:%d: invalid texcoord", path, lineNo)
			}
			texcoords = append(texcoords, [2]float64{u, v})
		case "vn":
			n, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("loaders: %s:%d: normal: %w", path, lineNo, err)
			}
			normals = append(normals, n)
		case "o", "g":
			if len(fields) > 1 {
				current = fields[1]
			}
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("loaders: %s:%d: face needs at least 3 corners", path, lineNo)
			}
			builder, ok := builders[current]
			if !ok {
				builder = newMeshBuilder()
				builders[current] = builder
			}
			corners := make([]objVertex, 0, len(fields)-1)
			for _, spec := range fields[1:] {
				corner, err := parseFaceCorner(spec, len(positions), len(texcoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("loaders: %s:%d: %w", path, lineNo, err)
				}
				corners = append(corners, corner)
			}
			for i := 2; i < len(corners); i++ {
				builder.addTriangle(corners[0], corners[i-1], corners[i], positions, texcoords, normals)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loaders: reading mesh %s: %w", path, err)
	}

	for name, builder := range builders {
		models[name] = builder.finish()
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("loaders: %s contains no faces", path)
	}
	return models, nil
}

// parseFaceCorner parses a v, v/vt, v//vn or v/vt/vn index triple with
// support for negative (relative) indices
func parseFaceCorner(spec string, nPos, nTex, nNorm int) (objVertex, error) {
	parts := strings.Split(spec, "/")
	corner := objVertex{position: -1, texcoord: -1, normal: -1}

	resolve := func(raw string, count int) (int, error) {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return -1, fmt.Errorf("invalid face index %q", raw)
		}
		if idx < 0 {
			idx = count + idx
		} else {
			idx--
		}
		if idx < 0 || idx >= count {
			return -1, fmt.Errorf("face index %q out of range", raw)
		}
		return idx, nil
	}

	var err error
	if corner.position, err = resolve(parts[0], nPos); err != nil {
		return corner, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if corner.texcoord, err = resolve(parts[1], nTex); err != nil {
			return corner, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if corner.normal, err = resolve(parts[2], nNorm); err != nil {
			return corner, err
		}
	}
	return corner, nil
}

// meshBuilder re-indexes file-global OBJ corners into compact per-model
// buffers, deduplicating identical corners
type meshBuilder struct {
	buffers scene.MeshBuffers
	seen    map[objVertex]int
	hasUV   bool
	hasNorm bool
	started bool
}

func newMeshBuilder() *meshBuilder {
	return &meshBuilder{seen: make(map[objVertex]int)}
}

func (b *meshBuilder) addTriangle(c0, c1, c2 objVertex, positions [][3]float64, texcoords [][2]float64, normals [][3]float64) {
	if !b.started {
		b.started = true
		b.hasUV = c0.texcoord >= 0
		b.hasNorm = c0.normal >= 0
	}
	for _, c := range []objVertex{c0, c1, c2} {
		idx, ok := b.seen[c]
		if !ok {
			idx = len(b.buffers.Vertices)
			b.seen[c] = idx
			b.buffers.Vertices = append(b.buffers.Vertices, positions[c.position])
			if b.hasUV && c.texcoord >= 0 {
				b.buffers.UVs = append(b.buffers.UVs, texcoords[c.texcoord])
			} else if b.hasUV {
				// A corner without a texcoord in a textured model loses
				// texturing for the whole model rather than misaligning
				b.hasUV = false
				b.buffers.UVs = nil
			}
			if b.hasNorm && c.normal >= 0 {
				b.buffers.Normals = append(b.buffers.Normals, normals[c.normal])
			} else if b.hasNorm {
				b.hasNorm = false
				b.buffers.Normals = nil
			}
		}
		b.buffers.Indices = append(b.buffers.Indices, idx)
	}
}

func (b *meshBuilder) finish() *scene.MeshBuffers {
	out := b.buffers
	if !b.hasUV {
		out.UVs = nil
	}
	if !b.hasNorm {
		out.Normals = nil
	}
	return &out
}

func parseFloats3(fields []string) ([3]float64, error) {
	var out [3]float64
	if len(fields) < 3 {
		return out, fmt.Errorf("need 3 values, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return out, fmt.Errorf("invalid value %q", fields[i])
		}
		out[i] = v
	}
	return out, nil
}
