package main

import (
	"os"

	"github.com/Nuos/tray-rust/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "tray"
	app.Usage = "render scenes using monte carlo path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render the frame range of a scene document",
			Description: `
Load a scene document, build the object hierarchy and render every frame in
the document's frame range with the path tracing integrator. Each frame is
reconstructed with the document's film filter and written out as a PNG.`,
			ArgsUsage: "scene.json",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Usage: "override the film width",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "override the film height",
				},
				cli.IntFlag{
					Name:  "spp",
					Usage: "override the samples per pixel",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Usage: "edge length of the tiles handed to workers",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of render workers (defaults to the CPU count)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame-%03d.png",
					Usage: "output filename pattern, receives the frame number",
				},
			},
			Action: cmd.Render,
		},
		{
			Name:      "inspect",
			Usage:     "validate a scene document and print its contents",
			ArgsUsage: "scene.json",
			Action:    cmd.Inspect,
		},
	}

	app.Run(os.Args)
}
