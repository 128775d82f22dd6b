/*
NAME
  reia.go

DESCRIPTION
  reia.go provides the data structures and wire constants shared by the reia
  container encoder and decoder, along with the little endian read and write
  primitives used throughout the package.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package reia provides encoding and decoding of the .reia video container
// used by The Sims 2 neighborhood intro videos.
//
// A .reia file is a RIFF wrapper around a Reiahead metadata record and a
// sequence of frme chunks, one per frame. Frames are tiled into 32x32 RGB
// blocks; unchanged tiles are elided against the previous frame and changed
// tiles carry an RLE-compressed modular delta (see the block package).
//
// The layout, in order, with all integers little endian:
//
//	offset  size  field
//	 0      4     "RIFF"
//	 4      4     container length (total bytes written - 8)
//	 8      8     "Reiahead"
//	16      4     metadata size (always 24)
//	20      4     unknown (always 1)
//	24      4     width  (multiple of 32)
//	28      4     height (multiple of 32)
//	32      4     fps numerator
//	36      4     fps denominator
//	40      4     number of frames
//	44      ...   frme chunks until EOF, each 2-byte padded
package reia

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/reia/pixel"
)

// Container magic tags. ASCII, not null terminated.
const (
	fileMagic  = "RIFF"
	headMagic  = "Reiahead"
	frameMagic = "frme"
)

// Fixed header field values.
const (
	metadataSize = 24 // Size of the Reiahead record body.
	unknownValue = 1  // The only observed value of the field at offset 20.
)

// TileSize is the width and height of the tiles frames are divided into.
// Frame dimensions must be multiples of this.
const TileSize = 32

// Per-tile markers within a frame payload.
const (
	markerReuse = 0x00 // Tile is copied from the previous frame.
	markerBlock = 0x01 // Tile payload follows.
)

// File holds the metadata and frames of a decoded or to-be-encoded .reia
// video.
type File struct {
	Width  uint32
	Height uint32

	// FPS is FPSNumerator/FPSDenominator as a real number.
	FPS            float64
	FPSNumerator   uint32
	FPSDenominator uint32

	// NumFrames is the frame count declared by the header. The frame
	// sequence itself terminates on EOF, so the two can disagree; see
	// ErrCountMismatch.
	NumFrames uint32

	// Unknown is the undocumented header field at offset 20, always 1 in
	// game files. It is kept so that transforms can carry it through.
	Unknown uint32

	Frames []*pixel.Image
}

// readUint32 reads a 32-bit little endian unsigned integer from r.
func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errors.Wrap(noEOF(err), "could not read uint32")
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// readTag reads an n byte ASCII tag from r.
func readTag(r io.Reader, n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", errors.Wrap(noEOF(err), "could not read tag")
	}
	return string(b), nil
}

// writeUint32 writes v to w as a 32-bit little endian unsigned integer.
func writeUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// noEOF converts io.EOF to io.ErrUnexpectedEOF for reads that must not land
// on a clean end of stream.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// countingReader counts the bytes read through it so that declared chunk and
// container lengths can be checked against what was actually consumed.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
