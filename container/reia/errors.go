/*
NAME
  errors.go

DESCRIPTION
  errors.go provides the sentinel errors surfaced by the reia container
  codec. Errors carrying context, such as the expected and actual value of a
  magic tag, wrap these sentinels so callers can match with errors.Is.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package reia

import (
	"errors"

	"github.com/ausocean/reia/codec/block"
)

var (
	// ErrBadMagic means a required ASCII tag did not match its expected
	// value.
	ErrBadMagic = errors.New("unexpected magic")

	// ErrBadMetadataSize means the Reiahead size field was not 24.
	ErrBadMetadataSize = errors.New("metadata size field not 24")

	// ErrBadUnknown means the reserved header field at offset 20 was not 1.
	ErrBadUnknown = errors.New("reserved header field not 1")

	// ErrBadDimensions means a width or height was zero or not a multiple
	// of 32.
	ErrBadDimensions = errors.New("dimensions not positive multiples of 32")

	// ErrBadFPS means a frame rate field read from a header was zero, or a
	// frame rate given to the encoder was not positive or exceeded 1000000.
	ErrBadFPS = errors.New("invalid frame rate")

	// ErrOrphanReuse means a tile reuse marker appeared in the first frame,
	// which has no previous frame to copy from.
	ErrOrphanReuse = errors.New("tile reuse marker with no previous frame")

	// ErrCountMismatch means the number of frame chunks in the body differed
	// from the count declared by the header. Reported only by strict
	// decoders; otherwise logged.
	ErrCountMismatch = errors.New("frame count differs from header")

	// ErrLengthMismatch means a declared container or frame chunk length
	// differed from the bytes actually present. Reported only by strict
	// decoders; otherwise logged.
	ErrLengthMismatch = errors.New("declared length differs from stream")
)

// ErrMalformedBlock means a tile's RLE payload overran the 1024 pixel
// boundary.
var ErrMalformedBlock = block.ErrMalformed

// Truncated input is reported as an error wrapping io.ErrUnexpectedEOF.
