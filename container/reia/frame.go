/*
NAME
  frame.go

DESCRIPTION
  frame.go provides encoding and decoding of single frame payloads. A frame
  is a row-major grid of 32x32 tiles; each tile is either a reuse marker
  referring to the previous frame or a marker byte followed by an RLE block
  payload holding the tile's modular delta from the previous frame, or its
  absolute pixel values in the first frame.

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

package reia

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/reia/codec/block"
	"github.com/ausocean/reia/pixel"
)

// decodeFrame reads one frame payload from r and reconstructs the frame.
// prev is the previously decoded frame, or nil for the first frame of a
// file. Tiles are visited outer row, inner column on both the encode and
// decode paths; diverging here would transpose non-square frames.
func decodeFrame(r io.Reader, w, h int, prev *pixel.Image) (*pixel.Image, error) {
	img := pixel.New(w, h)
	var marker [1]byte

	for y := 0; y < h; y += TileSize {
		for x := 0; x < w; x += TileSize {
			if _, err := io.ReadFull(r, marker[:]); err != nil {
				return nil, errors.Wrapf(noEOF(err), "could not read marker for tile at (%d,%d)", x, y)
			}

			if marker[0] == markerReuse {
				if prev == nil {
					return nil, fmt.Errorf("%w: tile at (%d,%d)", ErrOrphanReuse, x, y)
				}
				img.Paste(prev.Crop(x, y, TileSize, TileSize), x, y)
				continue
			}

			tile, err := block.Decode(r)
			if err != nil {
				return nil, errors.Wrapf(err, "could not decode block at (%d,%d)", x, y)
			}
			if prev != nil {
				// The payload is a delta from the previous frame.
				tile = pixel.AddMod(tile, prev.Crop(x, y, TileSize, TileSize))
			}
			img.Paste(tile, x, y)
		}
	}
	return img, nil
}

// encodeFrame appends the payload for img to buf. prev is the previously
// encoded frame, or nil for the first frame, in which case every tile
// produces a block payload.
func encodeFrame(buf *bytes.Buffer, img, prev *pixel.Image) error {
	for y := 0; y < img.H; y += TileSize {
		for x := 0; x < img.W; x += TileSize {
			cur := img.Crop(x, y, TileSize, TileSize)

			var prevTile *pixel.Image
			if prev != nil {
				prevTile = prev.Crop(x, y, TileSize, TileSize)
				if cur.Equal(prevTile) {
					buf.WriteByte(markerReuse)
					continue
				}
			}

			buf.WriteByte(markerBlock)
			err := block.Encode(buf, cur, prevTile)
			if err != nil {
				return errors.Wrapf(err, "could not encode block at (%d,%d)", x, y)
			}
		}
	}
	return nil
}
