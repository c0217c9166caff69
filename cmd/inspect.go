package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Nuos/tray-rust/pkg/loaders"
	"github.com/Nuos/tray-rust/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Inspect loads a scene document, checks that it builds, and prints a
// summary of its materials and object tree.
func Inspect(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	doc, assets, err := loaders.LoadScene(ctx.Args().First())
	if err != nil {
		return err
	}
	applyDefaults(doc)

	sc, err := scene.Build(doc, assets)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Material", "Type"})
	for _, m := range doc.Materials {
		table.Append([]string{m.Name, m.Type})
	}
	table.Render()
	logger.Noticef("materials\n%s", buf.String())

	buf.Reset()
	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Object", "Geometry", "Material", "Emitter"})
	for _, inst := range sc.Instances {
		emitter := ""
		if inst.IsEmitter() {
			emitter = fmt.Sprintf("%.3g %.3g %.3g", inst.Emission.X, inst.Emission.Y, inst.Emission.Z)
		}
		table.Append([]string{
			inst.Name,
			fmt.Sprintf("%T", inst.Geometry),
			fmt.Sprintf("%T", inst.Material),
			emitter,
		})
	}
	table.Render()
	logger.Noticef("flattened objects (%d instances, %d lights)\n%s", len(sc.Instances), len(sc.Lights), buf.String())

	logger.Noticef("film: %dx%d, %d samples per pixel, frames %d..%d",
		doc.Film.Width, doc.Film.Height, doc.Film.Samples, doc.Film.StartFrame, doc.Film.EndFrame)
	return nil
}
