package renderer

import (
	"fmt"
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
	"github.com/Nuos/tray-rust/pkg/scene"
	"github.com/Nuos/tray-rust/pkg/transform"
)

// Camera generates world-space primary rays from continuous raster
// coordinates. In its local space the camera sits at the origin looking down
// +z with +y up; the document transform places it in the world.
type Camera struct {
	cameraToWorld transform.Transform

	tanHalfFOV float64
	aspect     float64
	width      float64
	height     float64
}

// NewCamera builds a camera from its document configuration and the film
// resolution it projects onto
func NewCamera(cfg scene.CameraConfig, width, height int) (*Camera, error) {
	if cfg.FOV <= 0 || cfg.FOV >= 180 {
		return nil, fmt.Errorf("renderer: camera field of view %v is outside (0, 180)", cfg.FOV)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("renderer: film resolution %dx%d is invalid", width, height)
	}
	cameraToWorld, err := transform.Compose(cfg.Transform)
	if err != nil {
		return nil, fmt.Errorf("renderer: camera transform: %w", err)
	}
	return &Camera{
		cameraToWorld: cameraToWorld,
		tanHalfFOV:    math.Tan(cfg.FOV * math.Pi / 360),
		aspect:        float64(width) / float64(height),
		width:         float64(width),
		height:        float64(height),
	}, nil
}

// GenerateRay maps a continuous raster position to a world-space primary ray
// with a unit direction. Raster y grows downward; camera y grows upward.
func (c *Camera) GenerateRay(x, y float64) core.Ray {
	screenX := (2*x/c.width - 1) * c.tanHalfFOV * c.aspect
	screenY := (1 - 2*y/c.height) * c.tanHalfFOV

	origin := c.cameraToWorld.Point(core.NewVec3(0, 0, 0))
	direction := c.cameraToWorld.Vector(core.NewVec3(screenX, screenY, 1)).Normalize()
	return core.Ray{Origin: origin, Direction: direction}
}
