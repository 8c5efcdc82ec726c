/*
DESCRIPTION
  atmopipe is a standalone host for the ambient-light image-to-color
  pipeline: it wires a frame source, the configured output driver and
  the pipeline orchestrator together, and runs until interrupted.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is a bare-bones program that runs the atmopipe pipeline
// against a synthetic test pattern or a WebP image sequence, with its
// configuration surface exposed as command-line flags.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/fathomlight/atmopipe/channelmodel"
	"github.com/fathomlight/atmopipe/config"
	"github.com/fathomlight/atmopipe/internal/logging"
	"github.com/fathomlight/atmopipe/internal/metrics"
	"github.com/fathomlight/atmopipe/pipeline"
	"github.com/fathomlight/atmopipe/source"
)

// Logging configuration.
const (
	logPath      = "/var/log/atmopipe/atmopipe.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	var (
		driver      = flag.String("driver", "null", "output driver name (null, file, serial, i2c, or a plugin name)")
		driverPath  = flag.String("driver_path", "", "platform path list to search for a dynamically loaded driver")
		driverParam = flag.String("driver_param", "", "driver-specific connection string")

		top    = flag.Uint("top", 3, "top channel count")
		bottom = flag.Uint("bottom", 3, "bottom channel count")
		left   = flag.Uint("left", 2, "left channel count")
		right  = flag.Uint("right", 2, "right channel count")

		webpDir = flag.String("webp_dir", "", "directory of .webp frames to loop over; if empty, a synthetic test pattern is used")
		width   = flag.Int("width", 256, "synthetic pattern width, ignored when -webp_dir is set")
		height  = flag.Int("height", 144, "synthetic pattern height, ignored when -webp_dir is set")

		logStderr = flag.Bool("log_stderr", true, "also log to stderr in addition to the log file")
	)
	flag.Parse()

	sink := &lumberjack.Logger{Filename: logPath, MaxSize: logMaxSize, MaxBackups: logMaxBackup, MaxAge: logMaxAge}
	var w = io.Writer(sink)
	if *logStderr {
		w = io.MultiWriter(sink, os.Stderr)
	}
	log := logging.New(logVerbosity, w, logSuppress)

	p := config.Default()
	p.Enabled = true
	p.Logger = log
	p.Driver = *driver
	p.DriverPath = *driverPath
	p.DriverParam = *driverParam
	p.Layout = channelmodel.Layout{Top: *top, Bottom: *bottom, Left: *left, Right: *right}
	if err := p.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
		os.Exit(1)
	}

	var src source.Source
	if *webpDir != "" {
		src = source.NewWebPSequence(log, *webpDir, true)
	} else {
		src = source.NewPattern(*width, *height)
	}
	defer src.Close()

	met := metrics.New(prometheus.NewRegistry())
	pl := pipeline.New(src, p, log, met)

	if err := pl.Start(); err != nil {
		log.Fatal("pipeline failed to start", "error", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Info(fmt.Sprintf("atmopipe: shutting down, state=%v", pl.State()))
	pl.Stop()
}
