package main

import (
	"github.com/urfave/cli"

	"github.com/voxellight/bdpt/internal/rlog"
)

var logger = rlog.New("bdptdemo")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		rlog.SetLevel(rlog.Info)
	}

	if ctx.GlobalBool("vv") {
		rlog.SetLevel(rlog.Debug)
	}
}
