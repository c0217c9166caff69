package cmd

import (
	"github.com/Nuos/tray-rust/log"
	"github.com/urfave/cli"
)

var logger = log.New("tray")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
