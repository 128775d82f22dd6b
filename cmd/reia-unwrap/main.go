/*
DESCRIPTION
  reia-unwrap decodes a .reia video file and writes each frame to a
  specified directory as a PNG image.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// reia-unwrap extracts the frames of a .reia file to numbered PNG images.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

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
		outDir  string
		logPath string
	)
	flag.StringVar(&inPath, "in", "", "file path of input .reia video")
	flag.StringVar(&outDir, "out", ".", "directory for output PNG frames")
	flag.StringVar(&logPath, "log", "", "file path for logging; stderr if empty")
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

	err = os.MkdirAll(outDir, 0755)
	if err != nil {
		log.Fatal("could not create output directory", "error", err)
	}

	d, err := reia.NewDecoder(in, log)
	if err != nil {
		log.Fatal("could not read header", "error", err)
	}

	var n int
	for {
		frame, err := d.ReadFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal("could not read frame", "frame", n, "error", err)
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("frame-%04d.png", n))
		out, err := os.Create(outPath)
		if err != nil {
			log.Fatal("could not create output file", "path", outPath, "error", err)
		}
		err = png.Encode(out, frame.ToRGBA())
		if err != nil {
			log.Fatal("could not encode PNG", "path", outPath, "error", err)
		}
		err = out.Close()
		if err != nil {
			log.Fatal("could not close output file", "path", outPath, "error", err)
		}
		n++
	}
	fmt.Println("wrote", n, "frames to", outDir)
}
