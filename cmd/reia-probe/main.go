/*
DESCRIPTION
  reia-probe prints the header metadata and per-frame chunk accounting of a
  .reia video file.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// reia-probe prints the metadata of a .reia file and walks its frame
// sequence, reporting the frames found and any inconsistency with the
// declared count.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/reia/container/reia"
)

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logSuppress  = true
)

func main() {
	var (
		inPath  string
		logPath string
		strict  bool
		verbose bool
	)
	flag.StringVar(&inPath, "in", "", "file path of input .reia video")
	flag.StringVar(&logPath, "log", "", "file path for logging; stderr if empty")
	flag.BoolVar(&strict, "strict", false, "treat length and count mismatches as errors")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.Parse()

	logVerbosity := logging.Info
	if verbose {
		logVerbosity = logging.Debug
	}
	var logDst io.Writer = os.Stderr
	if logPath != "" {
		logDst = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
	}
	log := logging.New(logVerbosity, logDst, logSuppress)

	if inPath == "" {
		log.Fatal("no input file provided, check usage")
	}

	in, err := os.Open(inPath)
	if err != nil {
		log.Fatal("could not open input", "error", err)
	}
	defer in.Close()

	var options []func(*reia.Decoder) error
	if strict {
		options = append(options, reia.Strict())
	}
	d, err := reia.NewDecoder(in, log, options...)
	if err != nil {
		log.Fatal("could not read header", "error", err)
	}

	hdr := d.Header()
	fmt.Printf("dimensions: %dx%d\n", hdr.Width, hdr.Height)
	fmt.Printf("frame rate: %v FPS (%d/%d)\n", hdr.FPS, hdr.FPSNumerator, hdr.FPSDenominator)
	fmt.Printf("declared frames: %d\n", hdr.NumFrames)

	var n int
	for {
		_, err := d.ReadFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal("could not read frame", "frame", n, "error", err)
		}
		n++
	}
	fmt.Printf("frames present: %d\n", n)
	if uint32(n) != hdr.NumFrames {
		fmt.Printf("warning: frame count differs from header\n")
	}
}
