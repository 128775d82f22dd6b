/*
NAME
  block.go

DESCRIPTION
  block.go provides encoding and decoding of the 32x32 pixel RGB tiles that
  make up reia video frames. Tiles are compressed with a signed run-length
  scheme; within a payload each pixel is stored in B, G, R order.

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

// Package block provides RLE encoding and decoding of the 32x32 RGB tiles
// used by the reia container.
//
// Each run of a tile payload begins with a signed tag byte n. For n < 0 the
// next 3 bytes are one pixel repeated (-n)+1 times; for n >= 0 the next
// (n+1)*3 bytes are unique pixels emitted verbatim. A payload ends once
// exactly 1024 pixels have been emitted.
package block

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/reia/pixel"
)

// Tile geometry.
const (
	Width     = 32
	Height    = 32
	NumPixels = Width * Height             // Pixels per tile.
	Size      = NumPixels * pixel.Channels // Raw tile size in bytes.
)

// Run length limits imposed by the signed tag byte.
const (
	maxUnique = 128 // Largest unique run, tag = 127.
	maxRepeat = 129 // Largest repeat run, tag = -128.
)

// ErrMalformed means an RLE run overran the 1024 pixel tile boundary.
var ErrMalformed = errors.New("RLE run overflows tile")

// Decode reads one RLE tile payload from r and returns the decoded 32x32
// tile. The returned pixels are the raw payload values; when the payload is
// an inter-frame delta the caller reconstructs with pixel.AddMod. Truncated
// payloads are reported as io.ErrUnexpectedEOF.
func Decode(r io.Reader) (*pixel.Image, error) {
	pix := make([]byte, Size)
	var tag [1]byte
	var raw [maxUnique * pixel.Channels]byte

	i := 0 // Pixels emitted so far.
	for i < NumPixels {
		if _, err := io.ReadFull(r, tag[:]); err != nil {
			return nil, errors.Wrap(noEOF(err), "could not read RLE tag")
		}

		n := int(int8(tag[0]))
		if n < 0 {
			// Repeat run; one wire pixel emitted (-n)+1 times.
			count := -n + 1
			if i+count > NumPixels {
				return nil, fmt.Errorf("%w: %d pixels emitted, run of %d", ErrMalformed, i, count)
			}
			if _, err := io.ReadFull(r, raw[:pixel.Channels]); err != nil {
				return nil, errors.Wrap(noEOF(err), "could not read repeat run pixel")
			}
			r0, g0, b0 := raw[2], raw[1], raw[0]
			for k := 0; k < count; k++ {
				off := (i + k) * pixel.Channels
				pix[off] = r0
				pix[off+1] = g0
				pix[off+2] = b0
			}
			i += count
			continue
		}

		// Unique run; n+1 verbatim wire pixels.
		count := n + 1
		if i+count > NumPixels {
			return nil, fmt.Errorf("%w: %d pixels emitted, run of %d", ErrMalformed, i, count)
		}
		if _, err := io.ReadFull(r, raw[:count*pixel.Channels]); err != nil {
			return nil, errors.Wrap(noEOF(err), "could not read unique run pixels")
		}
		for k := 0; k < count; k++ {
			src := k * pixel.Channels
			off := (i + k) * pixel.Channels
			pix[off] = raw[src+2]
			pix[off+1] = raw[src+1]
			pix[off+2] = raw[src]
		}
		i += count
	}

	return pixel.FromBytes(Width, Height, pix)
}

// Encode writes the RLE payload for tile to w. If prev is non-nil the
// payload encodes the per-channel modular difference tile-prev, otherwise
// the absolute pixel values. Identity elision against prev is the frame
// layer's job; Encode always produces a payload.
func Encode(w io.Writer, tile, prev *pixel.Image) error {
	if tile.W != Width || tile.H != Height {
		return fmt.Errorf("tile is %dx%d, must be %dx%d", tile.W, tile.H, Width, Height)
	}

	work := tile
	if prev != nil {
		if prev.W != Width || prev.H != Height {
			return fmt.Errorf("previous tile is %dx%d, must be %dx%d", prev.W, prev.H, Width, Height)
		}
		work = pixel.SubMod(tile, prev)
	}
	wire := work.BGR()

	// Worst case is 1024 unique pixels: 8 tag bytes on top of the raw data.
	out := make([]byte, 0, Size+NumPixels/maxUnique)
	var uniq []byte // Pending unique pixels awaiting a run boundary.

	emitted := 0
	i := 0
	for i < NumPixels {
		// Find the length of the identical run starting here.
		n := 1
		for i+n < NumPixels && samePixel(wire, i+n, i) {
			n++
		}

		if n < 2 {
			// A single pixel is not a run; hold it with the uniques.
			off := i * pixel.Channels
			uniq = append(uniq, wire[off:off+pixel.Channels]...)
			emitted++
			i++
			continue
		}

		out = flushUnique(out, uniq)
		uniq = uniq[:0]

		// Emit the run in chunks of at most maxRepeat. A trailing chunk of
		// one degenerates to tag 0, a single verbatim pixel, which encodes
		// the same bytes.
		off := i * pixel.Channels
		for rem := n; rem > 0; {
			k := rem
			if k > maxRepeat {
				k = maxRepeat
			}
			out = append(out, byte(int8(-(k-1))))
			out = append(out, wire[off:off+pixel.Channels]...)
			rem -= k
		}
		emitted += n
		i += n
	}
	out = flushUnique(out, uniq)

	if emitted != NumPixels {
		panic(fmt.Sprintf("block: encoded %d pixels, want %d", emitted, NumPixels))
	}

	_, err := w.Write(out)
	return errors.Wrap(err, "could not write block payload")
}

// flushUnique appends the pending unique pixels to out as tagged runs of at
// most maxUnique pixels each.
func flushUnique(out, uniq []byte) []byte {
	for len(uniq) > 0 {
		n := len(uniq) / pixel.Channels
		if n > maxUnique {
			n = maxUnique
		}
		out = append(out, byte(int8(n-1)))
		out = append(out, uniq[:n*pixel.Channels]...)
		uniq = uniq[n*pixel.Channels:]
	}
	return out
}

// samePixel reports whether pixels a and b of the wire buffer are equal.
func samePixel(wire []byte, a, b int) bool {
	a *= pixel.Channels
	b *= pixel.Channels
	return wire[a] == wire[b] && wire[a+1] == wire[b+1] && wire[a+2] == wire[b+2]
}

// noEOF converts io.EOF to io.ErrUnexpectedEOF; a payload ending mid-run is
// truncation, not a clean end of stream.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
