/*
NAME
  encoder.go

DESCRIPTION
  encoder.go provides the reia container encoder. Frames are written one at
  a time with per-tile identity elision and modular delta compression; the
  RIFF length and frame count fields are written as placeholders and patched
  once the stream is complete.

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

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/reia/pixel"
)

// Header field offsets needed for patching after the frames are written.
const (
	lengthFieldOffset = 4  // RIFF container length.
	countFieldOffset  = 40 // Number of frames.
)

// fpsBase is the numerator used for frame rates other than the game's
// native 10 FPS.
const fpsBase = 1000000

const defaultFPS = 10

// Encoder writes frames to a .reia container. The destination must support
// absolute seeking; the container length and frame count are patched on
// Close. The encoder holds only the previously written frame, so
// arbitrarily long videos encode in constant memory.
type Encoder struct {
	dst io.WriteSeeker
	log logging.Logger

	fps      float64
	unknown  uint32
	declared uint32
	tolerant bool

	width, height uint32
	headerWritten bool
	prev          *pixel.Image
	count         uint32
	buf           bytes.Buffer
}

// NewEncoder returns an Encoder writing to dst. Nothing is written until
// the first frame arrives; the container dimensions are taken from it
// unless the Dimensions option was given.
func NewEncoder(dst io.WriteSeeker, l logging.Logger, options ...func(*Encoder) error) (*Encoder, error) {
	e := &Encoder{
		dst:     dst,
		log:     l,
		fps:     defaultFPS,
		unknown: unknownValue,
	}

	for _, option := range options {
		err := option(e)
		if err != nil {
			return nil, fmt.Errorf("option failed with error: %w", err)
		}
	}
	l.Debug("encoder options applied", "fps", e.fps)

	return e, nil
}

// WriteFrame encodes one frame and writes its frme chunk to the
// destination. All frames of a file must share dimensions; unless the
// encoder is tolerant, both must be positive multiples of 32.
func (e *Encoder) WriteFrame(img *pixel.Image) error {
	if img.W%TileSize != 0 || img.H%TileSize != 0 {
		if !e.tolerant {
			return fmt.Errorf("%w: %dx%d", ErrBadDimensions, img.W, img.H)
		}
		// Grow to the tile grid with zero fill; the container's declared
		// dimensions are the padded ones.
		img = img.PadTo(roundUp(img.W), roundUp(img.H))
	}

	if !e.headerWritten {
		if e.width == 0 {
			e.width = uint32(img.W)
			e.height = uint32(img.H)
		}
		err := e.writeHeader()
		if err != nil {
			return err
		}
	}
	if uint32(img.W) != e.width || uint32(img.H) != e.height {
		return fmt.Errorf("frame is %dx%d, container is %dx%d", img.W, img.H, e.width, e.height)
	}

	e.buf.Reset()
	err := encodeFrame(&e.buf, img, e.prev)
	if err != nil {
		return err
	}

	_, err = io.WriteString(e.dst, frameMagic)
	if err != nil {
		return errors.Wrap(err, "could not write frame tag")
	}
	payload := e.buf.Bytes()
	err = writeUint32(e.dst, uint32(len(payload)))
	if err != nil {
		return errors.Wrap(err, "could not write frame length")
	}
	_, err = e.dst.Write(payload)
	if err != nil {
		return errors.Wrap(err, "could not write frame payload")
	}
	if len(payload)%2 != 0 {
		_, err = e.dst.Write([]byte{0x00})
		if err != nil {
			return errors.Wrap(err, "could not write pad byte")
		}
	}

	e.prev = img
	e.count++
	e.log.Debug("frame written", "frame", e.count, "size", len(payload))
	return nil
}

// writeHeader writes the RIFF wrapper and Reiahead record with placeholder
// length and the declared frame count, both patched on Close.
func (e *Encoder) writeHeader() error {
	if e.width == 0 || e.height == 0 || e.width%TileSize != 0 || e.height%TileSize != 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadDimensions, e.width, e.height)
	}

	num, den := fpsFields(e.fps)
	if num == 0 || den == 0 {
		return fmt.Errorf("%w: %v", ErrBadFPS, e.fps)
	}

	_, err := io.WriteString(e.dst, fileMagic)
	if err != nil {
		return errors.Wrap(err, "could not write file magic")
	}
	// Placeholder container length, patched on Close.
	err = writeUint32(e.dst, 0)
	if err != nil {
		return errors.Wrap(err, "could not write placeholder length")
	}
	_, err = io.WriteString(e.dst, headMagic)
	if err != nil {
		return errors.Wrap(err, "could not write header magic")
	}
	for _, v := range []uint32{metadataSize, e.unknown, e.width, e.height, num, den, e.declared} {
		err = writeUint32(e.dst, v)
		if err != nil {
			return errors.Wrap(err, "could not write header field")
		}
	}

	e.headerWritten = true
	e.log.Debug("header written", "width", e.width, "height", e.height, "fpsNum", num, "fpsDen", den)
	return nil
}

// Close patches the container length and frame count fields and restores
// the destination position. It does not close the destination; the caller
// owns it. The encoder must not be used after Close.
func (e *Encoder) Close() error {
	if !e.headerWritten {
		// Dimensions given up front allow a legitimate zero-frame file;
		// otherwise there is nothing coherent to emit.
		if e.width == 0 {
			return errors.New("no frames written and no dimensions set")
		}
		err := e.writeHeader()
		if err != nil {
			return err
		}
	}

	end, err := e.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "could not find container length")
	}

	_, err = e.dst.Seek(lengthFieldOffset, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "could not seek to length field")
	}
	err = writeUint32(e.dst, uint32(end-8))
	if err != nil {
		return errors.Wrap(err, "could not patch container length")
	}

	if e.count != e.declared {
		e.log.Debug("patching frame count", "declared", e.declared, "actual", e.count)
	}
	_, err = e.dst.Seek(countFieldOffset, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "could not seek to count field")
	}
	err = writeUint32(e.dst, e.count)
	if err != nil {
		return errors.Wrap(err, "could not patch frame count")
	}

	_, err = e.dst.Seek(end, io.SeekStart)
	return errors.Wrap(err, "could not restore position")
}

// fpsFields returns the numerator and denominator written for fps. The
// game's native 10 FPS is stored as 10/1 for compatibility with its own
// files; anything else is stored against a micro-second base.
func fpsFields(fps float64) (num, den uint32) {
	if fps == defaultFPS {
		return defaultFPS, 1
	}
	if fps <= 0 {
		return 0, 0
	}
	return fpsBase, uint32(fpsBase / fps)
}

// roundUp rounds n up to the next multiple of the tile size.
func roundUp(n int) int {
	return (n + TileSize - 1) / TileSize * TileSize
}

// Encode writes file to dst; frames, rate and the unknown header field are
// taken from it. The declared frame count is still patched on completion.
func Encode(dst io.WriteSeeker, l logging.Logger, file *File) error {
	options := []func(*Encoder) error{
		FPS(file.FPS),
		FrameCount(uint32(len(file.Frames))),
	}
	if file.Unknown != 0 {
		options = append(options, Unknown(file.Unknown))
	}
	e, err := NewEncoder(dst, l, options...)
	if err != nil {
		return err
	}
	if file.Width != 0 {
		err = Dimensions(file.Width, file.Height)(e)
		if err != nil {
			return err
		}
	}

	for _, frame := range file.Frames {
		err = e.WriteFrame(frame)
		if err != nil {
			return err
		}
	}
	return e.Close()
}
