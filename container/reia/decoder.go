/*
NAME
  decoder.go

DESCRIPTION
  decoder.go provides the reia container decoder. The decoder validates the
  RIFF wrapper and Reiahead metadata up front, then yields frames one at a
  time; only the previous frame is retained between steps, so arbitrarily
  long videos decode in constant memory.

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
	"fmt"
	"io"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/reia/pixel"
)

// Decoder reads a .reia stream and produces its frames in order. The
// decoder owns the reader for its lifetime; frames cannot be revisited
// without reopening the stream.
type Decoder struct {
	r   *countingReader
	log logging.Logger

	file        File
	declaredLen uint32

	strict bool
	prev   *pixel.Image
	read   uint32
	err    error
}

// NewDecoder returns a Decoder that reads from r. The container and
// Reiahead headers are read and validated before returning; frames are then
// available through ReadFrame.
func NewDecoder(r io.Reader, l logging.Logger, options ...func(*Decoder) error) (*Decoder, error) {
	d := &Decoder{r: &countingReader{r: r}, log: l}

	for _, option := range options {
		err := option(d)
		if err != nil {
			return nil, fmt.Errorf("option failed with error: %w", err)
		}
	}

	err := d.readHeader()
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Header returns the file metadata read from the container header. The
// returned File has a nil Frames slice.
func (d *Decoder) Header() File {
	return d.file
}

// readHeader parses and validates everything before the first frame chunk.
func (d *Decoder) readHeader() error {
	tag, err := readTag(d.r, len(fileMagic))
	if err != nil {
		return err
	}
	if tag != fileMagic {
		return fmt.Errorf("%w: expected %q, got %q", ErrBadMagic, fileMagic, tag)
	}

	// Informational; checked against the actual stream length on EOF.
	d.declaredLen, err = readUint32(d.r)
	if err != nil {
		return err
	}

	tag, err = readTag(d.r, len(headMagic))
	if err != nil {
		return err
	}
	if tag != headMagic {
		return fmt.Errorf("%w: expected %q, got %q", ErrBadMagic, headMagic, tag)
	}

	metaSize, err := readUint32(d.r)
	if err != nil {
		return err
	}
	if metaSize != metadataSize {
		return fmt.Errorf("%w: got %d", ErrBadMetadataSize, metaSize)
	}

	d.file.Unknown, err = readUint32(d.r)
	if err != nil {
		return err
	}
	if d.file.Unknown != unknownValue {
		return fmt.Errorf("%w: got %d", ErrBadUnknown, d.file.Unknown)
	}

	d.file.Width, err = readUint32(d.r)
	if err != nil {
		return err
	}
	d.file.Height, err = readUint32(d.r)
	if err != nil {
		return err
	}
	if d.file.Width == 0 || d.file.Height == 0 || d.file.Width%TileSize != 0 || d.file.Height%TileSize != 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadDimensions, d.file.Width, d.file.Height)
	}

	d.file.FPSNumerator, err = readUint32(d.r)
	if err != nil {
		return err
	}
	d.file.FPSDenominator, err = readUint32(d.r)
	if err != nil {
		return err
	}
	if d.file.FPSNumerator == 0 || d.file.FPSDenominator == 0 {
		return fmt.Errorf("%w: %d/%d", ErrBadFPS, d.file.FPSNumerator, d.file.FPSDenominator)
	}
	d.file.FPS = float64(d.file.FPSNumerator) / float64(d.file.FPSDenominator)

	d.file.NumFrames, err = readUint32(d.r)
	if err != nil {
		return err
	}

	d.log.Debug("reia header parsed", "width", d.file.Width, "height", d.file.Height, "fps", d.file.FPS, "frames", d.file.NumFrames)
	return nil
}

// ReadFrame returns the next frame of the file, or io.EOF once the stream
// ends. After any non-EOF error the decoder is dead; subsequent calls
// return the same error.
func (d *Decoder) ReadFrame() (*pixel.Image, error) {
	if d.err != nil {
		return nil, d.err
	}
	frame, err := d.readFrame()
	if err != nil {
		d.err = err
		return nil, err
	}
	return frame, nil
}

func (d *Decoder) readFrame() (*pixel.Image, error) {
	var tag [4]byte
	_, err := io.ReadFull(d.r, tag[:])
	if err == io.EOF {
		// Clean end of stream; frame chunks terminate on EOF, not on the
		// declared count.
		return nil, d.finish()
	}
	if err != nil {
		return nil, fmt.Errorf("could not read frame tag: %w", noEOF(err))
	}
	if string(tag[:]) != frameMagic {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrBadMagic, frameMagic, string(tag[:]))
	}

	frameSize, err := readUint32(d.r)
	if err != nil {
		return nil, err
	}

	start := d.r.n
	frame, err := decodeFrame(d.r, int(d.file.Width), int(d.file.Height), d.prev)
	if err != nil {
		return nil, err
	}
	consumed := d.r.n - start
	if consumed != int64(frameSize) {
		if d.strict {
			return nil, fmt.Errorf("%w: frame %d declared %d bytes, consumed %d", ErrLengthMismatch, d.read, frameSize, consumed)
		}
		d.log.Debug("frame length mismatch", "frame", d.read, "declared", frameSize, "consumed", consumed)
	}

	// Frame chunks are aligned on 2-byte boundaries.
	if frameSize%2 != 0 {
		var pad [1]byte
		_, err = io.ReadFull(d.r, pad[:])
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("could not read pad byte: %w", err)
		}
	}

	d.prev = frame
	d.read++
	d.log.Debug("frame decoded", "frame", d.read, "size", frameSize)
	return frame, nil
}

// finish runs the end-of-stream consistency checks and returns the error
// ReadFrame should yield, io.EOF when all is well.
func (d *Decoder) finish() error {
	if d.read != d.file.NumFrames {
		if d.strict {
			return fmt.Errorf("%w: header declared %d, stream held %d", ErrCountMismatch, d.file.NumFrames, d.read)
		}
		d.log.Warning("frame count differs from header", "declared", d.file.NumFrames, "read", d.read)
	}
	if actual := d.r.n - 8; actual != int64(d.declaredLen) {
		if d.strict {
			return fmt.Errorf("%w: container declared %d bytes, stream held %d", ErrLengthMismatch, d.declaredLen, actual)
		}
		d.log.Debug("container length differs from header", "declared", d.declaredLen, "actual", actual)
	}
	return io.EOF
}

// Decode reads a complete .reia file from r, collecting all frames into
// memory. Callers that need constant memory use NewDecoder and ReadFrame
// directly.
func Decode(r io.Reader, l logging.Logger, options ...func(*Decoder) error) (*File, error) {
	d, err := NewDecoder(r, l, options...)
	if err != nil {
		return nil, err
	}

	file := d.Header()
	for {
		frame, err := d.ReadFrame()
		if err == io.EOF {
			return &file, nil
		}
		if err != nil {
			return nil, err
		}
		file.Frames = append(file.Frames, frame)
	}
}
