/*
NAME
  pixel.go

DESCRIPTION
  pixel.go provides a 24-bit RGB raster type and the pixel operations
  required by the reia codec; cropping, pasting, equality testing and
  per-channel modular arithmetic.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pixel provides 24-bit RGB images and the raster operations used
// by the reia codec packages.
package pixel

import (
	"fmt"
	"image"
	"image/color"
)

// Channels is the number of bytes per pixel. Images are RGB with no alpha.
const Channels = 3

// Image is a W by H 24-bit RGB raster. Pixels are stored row-major in
// R, G, B order with a stride of Channels*W.
type Image struct {
	W, H int
	Pix  []byte
}

// New returns a zeroed w by h image.
func New(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]byte, w*h*Channels)}
}

// FromBytes returns an image backed by pix, which must hold exactly
// w*h pixels in RGB order. The slice is retained, not copied.
func FromBytes(w, h int, pix []byte) (*Image, error) {
	if len(pix) != w*h*Channels {
		return nil, fmt.Errorf("pixel data is %d bytes, need %d for %dx%d", len(pix), w*h*Channels, w, h)
	}
	return &Image{W: w, H: h, Pix: pix}, nil
}

// Bytes returns the raw pixel data in RGB order. The returned slice is the
// image's backing store.
func (m *Image) Bytes() []byte {
	return m.Pix
}

// BGR returns a copy of the pixel data with the channels of each pixel
// reversed, i.e. in the on-wire B, G, R order used by the reia RLE payload.
func (m *Image) BGR() []byte {
	b := make([]byte, len(m.Pix))
	for i := 0; i < len(m.Pix); i += Channels {
		b[i] = m.Pix[i+2]
		b[i+1] = m.Pix[i+1]
		b[i+2] = m.Pix[i]
	}
	return b
}

// Crop returns a new w by h image copied from the region of m with top-left
// corner at (x, y). The region must lie within m.
func (m *Image) Crop(x, y, w, h int) *Image {
	if x < 0 || y < 0 || x+w > m.W || y+h > m.H {
		panic(fmt.Sprintf("pixel: crop %dx%d at (%d,%d) outside %dx%d image", w, h, x, y, m.W, m.H))
	}
	out := New(w, h)
	for row := 0; row < h; row++ {
		src := ((y+row)*m.W + x) * Channels
		copy(out.Pix[row*w*Channels:(row+1)*w*Channels], m.Pix[src:src+w*Channels])
	}
	return out
}

// Paste copies src into m with its top-left corner at (x, y). The pasted
// region must lie within m.
func (m *Image) Paste(src *Image, x, y int) {
	if x < 0 || y < 0 || x+src.W > m.W || y+src.H > m.H {
		panic(fmt.Sprintf("pixel: paste %dx%d at (%d,%d) outside %dx%d image", src.W, src.H, x, y, m.W, m.H))
	}
	for row := 0; row < src.H; row++ {
		dst := ((y+row)*m.W + x) * Channels
		copy(m.Pix[dst:dst+src.W*Channels], src.Pix[row*src.W*Channels:(row+1)*src.W*Channels])
	}
}

// Equal reports whether m and o have the same dimensions and identical
// pixel values.
func (m *Image) Equal(o *Image) bool {
	if m.W != o.W || m.H != o.H {
		return false
	}
	for i := range m.Pix {
		if m.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// AddMod returns (a + b) mod 256 per channel. The images must share
// dimensions.
func AddMod(a, b *Image) *Image {
	checkDims(a, b)
	out := New(a.W, a.H)
	for i := range a.Pix {
		out.Pix[i] = a.Pix[i] + b.Pix[i]
	}
	return out
}

// SubMod returns (a - b) mod 256 per channel. The images must share
// dimensions.
func SubMod(a, b *Image) *Image {
	checkDims(a, b)
	out := New(a.W, a.H)
	for i := range a.Pix {
		out.Pix[i] = a.Pix[i] - b.Pix[i]
	}
	return out
}

func checkDims(a, b *Image) {
	if a.W != b.W || a.H != b.H {
		panic(fmt.Sprintf("pixel: dimension mismatch %dx%d vs %dx%d", a.W, a.H, b.W, b.H))
	}
}

// PadTo returns m grown to w by h with zero fill on the right and bottom
// edges, or m itself if it is already that size. w and h must not be
// smaller than m's dimensions.
func (m *Image) PadTo(w, h int) *Image {
	if w == m.W && h == m.H {
		return m
	}
	if w < m.W || h < m.H {
		panic(fmt.Sprintf("pixel: cannot pad %dx%d image to smaller %dx%d", m.W, m.H, w, h))
	}
	out := New(w, h)
	out.Paste(m, 0, 0)
	return out
}

// ToRGBA converts m to a standard library *image.RGBA with full opacity.
func (m *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			i := (y*m.W + x) * Channels
			j := out.PixOffset(x, y)
			out.Pix[j] = m.Pix[i]
			out.Pix[j+1] = m.Pix[i+1]
			out.Pix[j+2] = m.Pix[i+2]
			out.Pix[j+3] = 0xff
		}
	}
	return out
}

// FromImage converts any standard library image to an RGB Image, discarding
// alpha.
func FromImage(img image.Image) *Image {
	bounds := img.Bounds()
	out := New(bounds.Dx(), bounds.Dy())
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			i += Channels
		}
	}
	return out
}
