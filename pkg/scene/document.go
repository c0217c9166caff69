package scene

import (
	"github.com/Nuos/tray-rust/pkg/material"
	"github.com/Nuos/tray-rust/pkg/transform"
)

// Document is the parsed scene description the renderer core consumes.
// Parsing the on-disk representation into this tree is a collaborator
// concern (pkg/loaders); the core validates and builds from these values.
type Document struct {
	Film       FilmConfig
	Camera     CameraConfig
	Integrator IntegratorConfig
	Materials  []MaterialConfig
	Objects    []ObjectConfig
}

// FilterConfig describes the film reconstruction filter
type FilterConfig struct {
	Type   string // "mitchell_netravali"
	Width  float64
	Height float64
	B      float64
	C      float64
}

// FilmConfig describes the output image and sample budget
type FilmConfig struct {
	Width      int
	Height     int
	Samples    int // Samples per pixel
	StartFrame int
	EndFrame   int
	Filter     FilterConfig
}

// CameraConfig describes the perspective camera
type CameraConfig struct {
	FOV       float64 // Field of view in degrees
	Transform []transform.Op
}

// IntegratorConfig selects and bounds the light transport algorithm
type IntegratorConfig struct {
	Type     string // "pathtracer" or "whitted"
	MinDepth int    // Forced-continuation bound before Russian roulette applies
	MaxDepth int    // Hard path length cutoff
}

// MaterialConfig is one entry of the document's material table. Type selects
// which of the per-type fields are meaningful.
type MaterialConfig struct {
	Name string
	Type string // matte | plastic | metal | specular_metal | glass | merl

	Diffuse         [3]float64 // matte, plastic
	Gloss           [3]float64 // plastic
	Roughness       float64    // matte, plastic, metal
	RefractiveIndex [3]float64 // metal, specular_metal
	Absorption      [3]float64 // metal, specular_metal
	Reflect         [3]float64 // glass
	Transmit        [3]float64 // glass
	Eta             float64    // glass
	File            string     // merl: path key into Assets.BRDFs
}

// GeometryConfig describes the geometry of a leaf object
type GeometryConfig struct {
	Type        string  // plane | sphere | disk | mesh
	Radius      float64 // sphere, disk
	InnerRadius float64 // disk
	File        string  // mesh: path key into Assets.Meshes
	Model       string  // mesh: model name within the file
}

// ObjectConfig is one node of the document's object tree
type ObjectConfig struct {
	Name      string
	Type      string // group | receiver | emitter
	Emitter   string // Emitter kind, "area" or "point"
	Material  string // Material name reference (receivers, area emitters)
	Geometry  GeometryConfig
	Transform []transform.Op
	Emission  []float64      // Emitters: RGB tint or RGB + power scale
	Position  []float64      // Point emitters: light position
	Objects   []ObjectConfig // Group children, in document order
}

// MeshBuffers is an externally loaded vertex/index buffer set for one model
type MeshBuffers struct {
	Vertices [][3]float64
	Normals  [][3]float64
	UVs      [][2]float64
	Indices  []int
}

// Assets carries the externally loaded collaborator data the document
// references by file path
type Assets struct {
	// Meshes maps "file/model" keys to loaded buffers
	Meshes map[string]*MeshBuffers
	// BRDFs maps file paths to loaded measured-BRDF tables
	BRDFs map[string]*material.MeasuredTable
}

// MeshKey builds the Assets.Meshes key for a mesh geometry reference
func MeshKey(file, model string) string {
	return file + "/" + model
}
