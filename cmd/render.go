package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/Nuos/tray-rust/pkg/film"
	"github.com/Nuos/tray-rust/pkg/integrator"
	"github.com/Nuos/tray-rust/pkg/loaders"
	"github.com/Nuos/tray-rust/pkg/renderer"
	"github.com/Nuos/tray-rust/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Fallbacks for document fields left at zero
const (
	defaultWidth    = 640
	defaultHeight   = 480
	defaultSamples  = 32
	defaultMinDepth = 4
	defaultMaxDepth = 8
)

// Render loads a scene document, renders its frame range and writes one PNG
// per frame.
func Render(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}
	scenePath := ctx.Args().First()

	logger.Noticef("loading scene %s", scenePath)
	doc, assets, err := loaders.LoadScene(scenePath)
	if err != nil {
		return err
	}
	applyOverrides(doc, ctx)
	applyDefaults(doc)

	sc, err := scene.Build(doc, assets)
	if err != nil {
		return err
	}
	logger.Infof("built scene: %d instances, %d lights", len(sc.Instances), len(sc.Lights))

	camera, err := renderer.NewCamera(doc.Camera, doc.Film.Width, doc.Film.Height)
	if err != nil {
		return err
	}
	li, err := buildIntegrator(doc.Integrator)
	if err != nil {
		return err
	}
	f, err := buildFilm(doc.Film)
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(sc, camera, li, renderer.Config{
		Width:           doc.Film.Width,
		Height:          doc.Film.Height,
		SamplesPerPixel: doc.Film.Samples,
		TileSize:        ctx.Int("tile-size"),
		Workers:         ctx.Int("workers"),
	})
	if err != nil {
		return err
	}

	if doc.Film.EndFrame < doc.Film.StartFrame {
		return fmt.Errorf("frame range %d..%d is empty", doc.Film.StartFrame, doc.Film.EndFrame)
	}

	outPattern := ctx.String("out")
	start := time.Now()
	var stats []renderer.Stats
	for frame := doc.Film.StartFrame; frame <= doc.Film.EndFrame; frame++ {
		stats = append(stats, r.RenderFrame(frame, f))
		if err := writePNG(f, outPattern, frame); err != nil {
			return err
		}
	}

	displayRenderStats(stats, time.Since(start))
	return nil
}

// applyOverrides lets command line flags win over the document values
func applyOverrides(doc *scene.Document, ctx *cli.Context) {
	if v := ctx.Int("width"); v > 0 {
		doc.Film.Width = v
	}
	if v := ctx.Int("height"); v > 0 {
		doc.Film.Height = v
	}
	if v := ctx.Int("spp"); v > 0 {
		doc.Film.Samples = v
	}
}

func applyDefaults(doc *scene.Document) {
	if doc.Film.Width <= 0 {
		doc.Film.Width = defaultWidth
	}
	if doc.Film.Height <= 0 {
		doc.Film.Height = defaultHeight
	}
	if doc.Film.Samples <= 0 {
		doc.Film.Samples = defaultSamples
	}
	if doc.Integrator.MaxDepth <= 0 {
		doc.Integrator.MaxDepth = defaultMaxDepth
	}
	if doc.Integrator.MinDepth <= 0 {
		doc.Integrator.MinDepth = defaultMinDepth
	}
	f := &doc.Film.Filter
	if f.Width <= 0 {
		f.Width = 2
	}
	if f.Height <= 0 {
		f.Height = 2
	}
	if f.B == 0 && f.C == 0 {
		f.B, f.C = 1.0/3.0, 1.0/3.0
	}
}

func buildIntegrator(cfg scene.IntegratorConfig) (integrator.Integrator, error) {
	switch cfg.Type {
	case "", "pathtracer":
		return integrator.NewPathTracer(cfg.MinDepth, cfg.MaxDepth), nil
	case "whitted":
		return integrator.NewWhitted(cfg.MaxDepth), nil
	default:
		return nil, fmt.Errorf("unrecognized integrator type %q", cfg.Type)
	}
}

func buildFilm(cfg scene.FilmConfig) (*film.Film, error) {
	switch cfg.Filter.Type {
	case "", "mitchell_netravali":
		filter := film.NewMitchellNetravali(cfg.Filter.Width, cfg.Filter.Height, cfg.Filter.B, cfg.Filter.C)
		return film.NewFilm(cfg.Width, cfg.Height, filter), nil
	default:
		return nil, fmt.Errorf("unrecognized filter type %q", cfg.Filter.Type)
	}
}

func writePNG(f *film.Film, pattern string, frame int) error {
	name := fmt.Sprintf(pattern, frame)
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, f.Image()); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	logger.Noticef("wrote %s", name)
	return nil
}

func displayRenderStats(stats []renderer.Stats, total time.Duration) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Samples", "Tiles", "Render time"})
	for _, stat := range stats {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Frame),
			fmt.Sprintf("%d", stat.Samples),
			fmt.Sprintf("%d", stat.Tiles),
			stat.Duration.String(),
		})
	}
	table.SetFooter([]string{"", "", "TOTAL", total.String()})

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
