/*
DESCRIPTION
  reia-remux decodes a .reia video file and re-encodes it, optionally at a
  new frame rate. The reserved header field is carried through unchanged.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// reia-remux rewrites a .reia file through a full decode and encode cycle.
// A remux of a 10 FPS file written by this package's encoder is byte
// identical to its input. Other rates are re-encoded from the decoded real
// value as 1000000 over the truncated quotient, so their denominator can
// change. A remux with -fps changes only the frame rate fields.
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
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	var (
		inPath  string
		outPath string
		logPath string
		fps     float64
		strict  bool
	)
	flag.StringVar(&inPath, "in", "", "file path of input .reia video")
	flag.StringVar(&outPath, "out", "out.reia", "file path of output .reia video")
	flag.StringVar(&logPath, "log", "", "file path for logging; stderr if empty")
	flag.Float64Var(&fps, "fps", 0, "override the frame rate; 0 keeps the input rate")
	flag.BoolVar(&strict, "strict", false, "treat input length and count mismatches as errors")
	flag.Parse()

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
	file, err := reia.Decode(in, log, options...)
	if err != nil {
		log.Fatal("could not decode input", "error", err)
	}

	if fps != 0 {
		file.FPS = fps
	}

	out, err := os.Create(outPath)
	if err != nil {
		log.Fatal("could not create output", "error", err)
	}
	err = reia.Encode(out, log, file)
	if err != nil {
		log.Fatal("could not encode output", "error", err)
	}
	err = out.Close()
	if err != nil {
		log.Fatal("could not close output", "error", err)
	}

	fmt.Println("wrote", len(file.Frames), "frames to", outPath)
}
