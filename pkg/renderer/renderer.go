package renderer

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Nuos/tray-rust/log"
	"github.com/Nuos/tray-rust/pkg/core"
	"github.com/Nuos/tray-rust/pkg/film"
	"github.com/Nuos/tray-rust/pkg/integrator"
	"github.com/Nuos/tray-rust/pkg/scene"
)

var logger = log.New("renderer")

// DefaultTileSize is the square tile edge handed to each worker
const DefaultTileSize = 32

// Config controls how a frame is rendered
type Config struct {
	Width           int
	Height          int
	SamplesPerPixel int
	TileSize        int // Defaults to DefaultTileSize when zero
	Workers         int // Defaults to the number of CPUs when zero
}

// Stats summarizes one rendered frame
type Stats struct {
	Frame    int
	Samples  uint64
	Tiles    int
	Duration time.Duration
}

type tile struct {
	index          int
	x0, y0, x1, y1 int
}

// Renderer drives the integrator over the image plane with a pool of tile
// workers. Each (frame, tile) pair gets its own deterministically seeded
// sampler, so renders are reproducible regardless of worker scheduling.
type Renderer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator integrator.Integrator
	config     Config
}

// NewRenderer creates a renderer, applying config defaults
func NewRenderer(s *scene.Scene, camera *Camera, li integrator.Integrator, config Config) (*Renderer, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("renderer: resolution %dx%d is invalid", config.Width, config.Height)
	}
	if config.SamplesPerPixel <= 0 {
		return nil, fmt.Errorf("renderer: samples per pixel must be positive, got %d", config.SamplesPerPixel)
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	return &Renderer{
		scene:      s,
		camera:     camera,
		integrator: li,
		config:     config,
	}, nil
}

// RenderFrame renders one frame into the given film and returns its stats.
// The film is reset first, so it can be reused across a frame sequence.
func (r *Renderer) RenderFrame(frame int, f *film.Film) Stats {
	start := time.Now()
	f.Reset()

	tiles := r.tiles()
	jobs := make(chan tile, len(tiles))
	var samples uint64

	var wg sync.WaitGroup
	for w := 0; w < r.config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				r.renderTile(frame, t, f, &samples)
			}
		}()
	}
	for _, t := range tiles {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	stats := Stats{
		Frame:    frame,
		Samples:  atomic.LoadUint64(&samples),
		Tiles:    len(tiles),
		Duration: time.Since(start),
	}
	logger.Noticef("frame %d: %d samples over %d tiles in %s", frame, stats.Samples, stats.Tiles, stats.Duration)
	return stats
}

func (r *Renderer) renderTile(frame int, t tile, f *film.Film, samples *uint64) {
	sampler := core.NewSeededSampler(tileSeed(frame, t.index))
	count := uint64(0)

	for py := t.y0; py < t.y1; py++ {
		for px := t.x0; px < t.x1; px++ {
			for s := 0; s < r.config.SamplesPerPixel; s++ {
				u := sampler.Get2D()
				x := float64(px) + u.X
				y := float64(py) + u.Y
				ray := r.camera.GenerateRay(x, y)
				f.AddSample(x, y, r.integrator.Li(ray, r.scene, sampler))
				count++
			}
		}
	}
	atomic.AddUint64(samples, count)
}

// tileSeed derives a deterministic sampler seed from the frame number and
// tile index, spreading the bits so nearby tiles do not correlate
func tileSeed(frame, index int) int64 {
	seed := uint64(frame)*0x9E3779B97F4A7C15 + uint64(index)
	seed ^= seed >> 33
	seed *= 0xFF51AFD7ED558CCD
	seed ^= seed >> 33
	return int64(seed)
}

func (r *Renderer) tiles() []tile {
	size := r.config.TileSize
	var tiles []tile
	index := 0
	for y := 0; y < r.config.Height; y += size {
		for x := 0; x < r.config.Width; x += size {
			tiles = append(tiles, tile{
				index: index,
				x0:    x,
				y0:    y,
				x1:    minInt(x+size, r.config.Width),
				y1:    minInt(y+size, r.config.Height),
			})
			index++
		}
	}
	return tiles
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
