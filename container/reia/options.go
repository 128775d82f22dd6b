/*
DESCRIPTION
  options.go provides option functions that can be passed to the reia
  encoder and decoder constructors for configuration; frame rate, declared
  frame count, tolerant and strict modes.

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

import "fmt"

// FPS is an option that can be passed to NewEncoder to set the frame rate
// written to the container header. Rates other than the native 10 FPS are
// stored as 1000000 over the truncated quotient, so they round trip only to
// that precision.
func FPS(fps float64) func(*Encoder) error {
	return func(e *Encoder) error {
		if fps <= 0 || fps > fpsBase {
			return fmt.Errorf("%w: %v", ErrBadFPS, fps)
		}
		e.fps = fps
		return nil
	}
}

// Dimensions is an option that can be passed to NewEncoder to fix the
// container dimensions up front rather than taking them from the first
// frame. This permits encoding a file with no frames at all.
func Dimensions(w, h uint32) func(*Encoder) error {
	return func(e *Encoder) error {
		if w == 0 || h == 0 || w%TileSize != 0 || h%TileSize != 0 {
			return fmt.Errorf("%w: %dx%d", ErrBadDimensions, w, h)
		}
		e.width, e.height = w, h
		return nil
	}
}

// FrameCount is an option that can be passed to NewEncoder to declare the
// frame count written in the header. The field is patched with the actual
// count on Close either way; declaring it keeps the header honest for
// consumers reading the file while it is still being written.
func FrameCount(n uint32) func(*Encoder) error {
	return func(e *Encoder) error {
		e.declared = n
		return nil
	}
}

// Unknown is an option that can be passed to NewEncoder to carry a
// nonstandard value of the reserved header field through a transform. Game
// files always hold 1, which is the default.
func Unknown(v uint32) func(*Encoder) error {
	return func(e *Encoder) error {
		e.unknown = v
		return nil
	}
}

// Tolerant is an option that can be passed to NewEncoder to accept frames
// whose dimensions are not multiples of 32. Edge tiles are zero padded and
// the padded dimensions are declared by the container, so the output is
// still a valid file; callers wanting the original size crop after decode.
func Tolerant() func(*Encoder) error {
	return func(e *Encoder) error {
		e.tolerant = true
		return nil
	}
}

// Strict is an option that can be passed to NewDecoder to promote the
// informational consistency checks to errors; a container length or frame
// chunk length that disagrees with the stream, or a header frame count that
// disagrees with the number of chunks present.
func Strict() func(*Decoder) error {
	return func(d *Decoder) error {
		d.strict = true
		return nil
	}
}
